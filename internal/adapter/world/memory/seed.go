package memory

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"victorygoals/internal/domain/civ"
)

// Seed is the YAML description of a starting game state.
type Seed struct {
	Turn    int          `yaml:"turn" validate:"gte=0"`
	Players []PlayerSeed `yaml:"players" validate:"required,min=1,dive"`
	Techs   []TechSeed   `yaml:"techs" validate:"dive"`
	Units   []UnitSeed   `yaml:"units" validate:"dive"`
	Cities  []CitySeed   `yaml:"cities" validate:"dive"`
	Plots   []PlotSeed   `yaml:"plots" validate:"dive"`
	Vassals []VassalSeed `yaml:"vassals" validate:"dive"`
	Borders []BorderSeed `yaml:"open_borders" validate:"dive"`
	Armies  []ArmySeed   `yaml:"armies" validate:"dive"`

	CultureLevels []CultureLevelSeed `yaml:"culture_levels" validate:"dive"`
}

type PlayerSeed struct {
	ID             int         `yaml:"id" validate:"gte=0"`
	Team           int         `yaml:"team" validate:"gte=0"`
	Major          bool        `yaml:"major"`
	Dead           bool        `yaml:"dead"`
	Gold           int         `yaml:"gold"`
	GoldenAgeTurns int         `yaml:"golden_age_turns" validate:"gte=0"`
	TradeGold      int         `yaml:"trade_gold" validate:"gte=0"`
	Bonuses        map[int]int `yaml:"bonuses"`
}

type TechSeed struct {
	ID  int `yaml:"id" validate:"gte=0"`
	Era int `yaml:"era" validate:"gte=0"`
}

type UnitSeed struct {
	ID           int    `yaml:"id" validate:"gte=0"`
	Domain       string `yaml:"domain" validate:"omitempty,oneof=land sea air"`
	GreatGeneral bool   `yaml:"great_general"`
	Replaces     *int   `yaml:"replaces" validate:"omitempty,gte=0"`
}

type CitySeed struct {
	Owner      int   `yaml:"owner" validate:"gte=0"`
	X          int   `yaml:"x"`
	Y          int   `yaml:"y"`
	Population int   `yaml:"population" validate:"gte=0"`
	Culture    int   `yaml:"culture" validate:"gte=0"`
	Buildings  []int `yaml:"buildings"`
	Capital    bool  `yaml:"capital"`

	Corporations []int       `yaml:"corporations"`
	Specialists  map[int]int `yaml:"specialists"`
}

type PlotSeed struct {
	X           int  `yaml:"x"`
	Y           int  `yaml:"y"`
	Route       *int `yaml:"route"`
	Bonus       *int `yaml:"bonus"`
	Owner       *int `yaml:"owner" validate:"omitempty,gte=0"`
	Improvement *int `yaml:"improvement"`
}

type VassalSeed struct {
	Team   int `yaml:"team" validate:"gte=0"`
	Master int `yaml:"master" validate:"gte=0,nefield=Team"`
}

type BorderSeed struct {
	Team  int `yaml:"team" validate:"gte=0"`
	Other int `yaml:"other" validate:"gte=0,nefield=Team"`
}

// ArmySeed places Count units of one type for an owner.
type ArmySeed struct {
	Owner int `yaml:"owner" validate:"gte=0"`
	Unit  int `yaml:"unit" validate:"gte=0"`
	Count int `yaml:"count" validate:"gte=1"`
}

type CultureLevelSeed struct {
	Level     int `yaml:"level" validate:"gte=0"`
	Threshold int `yaml:"threshold" validate:"gte=0"`
}

var seedValidate = validator.New()

// LoadYAML decodes and validates a seed and builds the world from it.
func LoadYAML(r io.Reader) (*World, error) {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode world seed: %w", err)
	}
	if err := seedValidate.Struct(seed); err != nil {
		return nil, fmt.Errorf("validate world seed: %w", err)
	}
	return FromSeed(seed)
}

func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open world seed: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

func FromSeed(seed Seed) (*World, error) {
	w := NewWorld()
	w.SetTurn(seed.Turn)
	for _, p := range seed.Players {
		id := civ.PlayerID(p.ID)
		w.AddPlayer(id, civ.TeamID(p.Team), p.Major)
		err := w.UpdatePlayer(id, func(u *PlayerUpdate) {
			u.SetAlive(!p.Dead)
			u.ChangeGold(p.Gold)
			u.SetGoldenAgeTurns(p.GoldenAgeTurns)
			u.SetTradeGold(p.TradeGold)
			for bonus, n := range p.Bonuses {
				u.SetAvailableBonuses(civ.BonusType(bonus), n)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	for _, t := range seed.Techs {
		w.DefineTech(civ.TechType(t.ID), civ.EraType(t.Era))
	}
	for _, u := range seed.Units {
		domain := civ.Domain(u.Domain)
		if domain == "" {
			domain = civ.DomainLand
		}
		w.DefineUnit(civ.UnitType(u.ID), domain, u.GreatGeneral)
		if u.Replaces != nil {
			w.DefineUniqueUnit(civ.UnitType(u.ID), civ.UnitType(*u.Replaces))
		}
	}
	for _, l := range seed.CultureLevels {
		w.DefineCultureLevel(civ.CultureLevelType(l.Level), l.Threshold)
	}
	for _, c := range seed.Cities {
		at := civ.At(c.X, c.Y)
		if _, err := w.FoundCity(civ.PlayerID(c.Owner), at); err != nil {
			return nil, fmt.Errorf("seed city %s: %w", at, err)
		}
		err := w.UpdateCity(at, func(u *CityUpdate) {
			u.SetPopulation(max(c.Population, 1))
			u.SetCulture(c.Culture)
			for _, b := range c.Buildings {
				u.SetBuilding(civ.BuildingType(b), true)
			}
			for _, corp := range c.Corporations {
				u.SetCorporation(civ.CorporationType(corp), true)
			}
			for sp, n := range c.Specialists {
				u.SetFreeSpecialists(civ.SpecialistType(sp), n)
			}
		})
		if err != nil {
			return nil, err
		}
		if c.Capital {
			if err := w.SetCapital(civ.PlayerID(c.Owner), at); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range seed.Plots {
		at := civ.At(p.X, p.Y)
		if p.Route != nil {
			w.SetRoute(at, civ.RouteType(*p.Route))
		}
		if p.Bonus != nil {
			w.SetBonus(at, civ.BonusType(*p.Bonus))
		}
		if p.Owner != nil {
			w.SetPlotOwner(at, civ.PlayerID(*p.Owner))
		}
		if p.Improvement != nil {
			w.SetImprovement(at, civ.ImprovementType(*p.Improvement))
		}
	}
	for _, v := range seed.Vassals {
		if err := w.SetVassal(civ.TeamID(v.Team), civ.TeamID(v.Master), true); err != nil {
			return nil, fmt.Errorf("seed vassal: %w", err)
		}
	}
	for _, b := range seed.Borders {
		if err := w.SetOpenBorders(civ.TeamID(b.Team), civ.TeamID(b.Other), true); err != nil {
			return nil, fmt.Errorf("seed open borders: %w", err)
		}
	}
	for _, a := range seed.Armies {
		for range a.Count {
			if _, err := w.SpawnUnit(civ.PlayerID(a.Owner), civ.UnitType(a.Unit)); err != nil {
				return nil, fmt.Errorf("seed army: %w", err)
			}
		}
	}
	return w, nil
}
