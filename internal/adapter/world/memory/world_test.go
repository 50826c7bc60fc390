package memory

import (
	"errors"
	"strings"
	"testing"

	"victorygoals/internal/domain/civ"
)

func TestFoundCityAssignsCapital(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(0, 0, true)

	first, err := w.FoundCity(0, civ.At(1, 1))
	if err != nil {
		t.Fatalf("found city: %v", err)
	}
	if _, err := w.FoundCity(0, civ.At(2, 2)); err != nil {
		t.Fatalf("found second city: %v", err)
	}
	capital, ok := w.Capital(0)
	if !ok || capital.ID() != first.ID() {
		t.Fatalf("expected first city as capital, got %v %v", capital, ok)
	}
	if _, err := w.FoundCity(0, civ.At(1, 1)); !errors.Is(err, ErrPlotOccupied) {
		t.Fatalf("expected ErrPlotOccupied, got %v", err)
	}
	if _, err := w.FoundCity(9, civ.At(5, 5)); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestAcquireCityMovesCapital(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(0, 0, true)
	w.AddPlayer(1, 1, true)
	_, _ = w.FoundCity(0, civ.At(1, 1))
	_, _ = w.FoundCity(0, civ.At(2, 2))

	previous, err := w.AcquireCity(civ.At(1, 1), 1)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if previous != 0 {
		t.Fatalf("expected previous owner 0, got %d", previous)
	}
	capital, ok := w.Capital(0)
	if !ok || capital.Location() != civ.At(2, 2) {
		t.Fatalf("expected capital to move to (2, 2), got %v", capital)
	}
	captured, ok := w.Capital(1)
	if !ok || captured.Location() != civ.At(1, 1) {
		t.Fatalf("expected new owner capital at (1, 1)")
	}
	city, _ := w.CityAt(civ.At(1, 1))
	if city.OriginalOwner() != 0 || city.Owner() != 1 {
		t.Fatalf("unexpected owners %d/%d", city.OriginalOwner(), city.Owner())
	}
}

func TestRemoveCityDropsCapital(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(0, 0, true)
	_, _ = w.FoundCity(0, civ.At(1, 1))
	if err := w.RemoveCity(civ.At(1, 1)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := w.Capital(0); ok {
		t.Fatalf("expected no capital")
	}
	if err := w.RemoveCity(civ.At(1, 1)); !errors.Is(err, ErrNoCity) {
		t.Fatalf("expected ErrNoCity, got %v", err)
	}
}

func TestViewsReadLiveState(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(0, 0, true)
	p, _ := w.Player(0)
	if err := w.UpdatePlayer(0, func(u *PlayerUpdate) { u.ChangeGold(25) }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Gold() != 25 {
		t.Fatalf("expected view to see gold 25, got %d", p.Gold())
	}

	plot, _ := w.Plot(civ.At(4, 4))
	if plot.Route() != civ.NoRoute || plot.Bonus() != civ.NoBonus {
		t.Fatalf("expected empty plot")
	}
	w.SetRoute(civ.At(4, 4), 2)
	if plot.Route() != 2 {
		t.Fatalf("expected route 2, got %d", plot.Route())
	}
}

func TestDiscoverTechRecordsFirstTeam(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(0, 0, true)
	w.AddPlayer(1, 1, true)

	first, _ := w.DiscoverTech(1, 7)
	second, _ := w.DiscoverTech(0, 7)
	if !first || second {
		t.Fatalf("expected only the first discovery to be first, got %v %v", first, second)
	}
	team, ok := w.FirstDiscoverer(7)
	if !ok || team != 1 {
		t.Fatalf("expected team 1, got %d", team)
	}
	t0, _ := w.Team(0)
	if !t0.HasTech(7) {
		t.Fatalf("expected team 0 to have tech")
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
turn: 12
players:
  - {id: 0, team: 0, major: true, gold: 300, bonuses: {1: 2}}
  - {id: 1, team: 1, major: true}
  - {id: 2, team: 2, dead: true}
techs:
  - {id: 5, era: 1}
units:
  - {id: 2, domain: sea}
  - {id: 4, great_general: true}
cities:
  - {owner: 0, x: 1, y: 1, population: 3, culture: 50, buildings: [1, 10]}
  - {owner: 0, x: 4, y: 4, capital: true}
plots:
  - {x: 2, y: 2, route: 0}
vassals:
  - {team: 1, master: 0}
`
	w, err := LoadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.Turn() != 12 {
		t.Fatalf("expected turn 12, got %d", w.Turn())
	}
	p, _ := w.Player(0)
	if p.Gold() != 300 || p.AvailableBonuses(1) != 2 {
		t.Fatalf("unexpected player state")
	}
	dead, _ := w.Player(2)
	if dead.Alive() {
		t.Fatalf("expected player 2 dead")
	}
	city, ok := w.CityAt(civ.At(1, 1))
	if !ok || city.Population() != 3 || city.Culture() != 50 || !city.HasBuilding(10) {
		t.Fatalf("unexpected city state")
	}
	capital, _ := w.Capital(0)
	if capital.Location() != civ.At(4, 4) {
		t.Fatalf("expected capital at (4, 4), got %s", capital.Location())
	}
	if w.UnitDomain(2) != civ.DomainSea || !w.IsGreatGeneral(4) {
		t.Fatalf("unexpected unit catalog")
	}
	vassal, _ := w.Team(1)
	if !vassal.IsVassalOf(0) {
		t.Fatalf("expected team 1 vassal of 0")
	}
	plot, _ := w.Plot(civ.At(2, 2))
	if plot.Route() != 0 {
		t.Fatalf("expected route 0")
	}
}

func TestLoadYAMLCountState(t *testing.T) {
	src := `
players:
  - {id: 0, team: 0, major: true}
  - {id: 1, team: 1, major: true}
units:
  - {id: 1}
  - {id: 7, replaces: 1}
cities:
  - {owner: 0, x: 1, y: 1, culture: 1200, corporations: [3], specialists: {2: 4}}
plots:
  - {x: 2, y: 1, owner: 0, improvement: 5}
  - {x: 3, y: 1, owner: 1, improvement: 5}
open_borders:
  - {team: 0, other: 1}
armies:
  - {owner: 0, unit: 7, count: 2}
culture_levels:
  - {level: 3, threshold: 1000}
`
	w, err := LoadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	city, _ := w.CityAt(civ.At(1, 1))
	if !city.HasCorporation(3) || city.FreeSpecialists(2) != 4 {
		t.Fatalf("unexpected city corporations or specialists")
	}
	p, _ := w.Player(0)
	if n := p.ImprovementCount(5); n != 1 {
		t.Fatalf("expected 1 improvement, got %d", n)
	}
	team, _ := w.Team(0)
	if !team.HasOpenBorders(1) {
		t.Fatalf("expected open borders from team 0 to team 1")
	}
	other, _ := w.Team(1)
	if other.HasOpenBorders(0) {
		t.Fatalf("expected borders of team 1 to stay closed")
	}
	units := w.Units(0)
	if len(units) != 2 || w.UnitClass(units[0].Type()) != 1 {
		t.Fatalf("unexpected units %v", units)
	}
	if w.CultureThreshold(3) != 1000 {
		t.Fatalf("expected threshold 1000, got %d", w.CultureThreshold(3))
	}
}

func TestLoadYAMLValidates(t *testing.T) {
	cases := map[string]string{
		"no players":  "turn: 1\n",
		"bad domain":  "players: [{id: 0, team: 0}]\nunits: [{id: 1, domain: space}]\n",
		"self vassal": "players: [{id: 0, team: 0}]\nvassals: [{team: 0, master: 0}]\n",
		"empty army":  "players: [{id: 0, team: 0}]\narmies: [{owner: 0, unit: 1, count: 0}]\n",
		"not yaml":    "players: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadYAML(strings.NewReader(src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
