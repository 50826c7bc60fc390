package victory

import (
	"fmt"
	"slices"

	"victorygoals/internal/domain/civ"
)

// countGoal compares a live quantity per objective with the amount in the
// objective's last position.
type countGoal struct {
	*BaseGoal
	name   string
	value  func(g *countGoal, o Objective) float64
	target func(g *countGoal, o Objective) float64
}

func newCountGoal(name string, types *ArgumentProcessor, value func(g *countGoal, o Objective) float64, args []any) (Goal, error) {
	return newTargetGoal(name, types, value, nil, args)
}

// newTargetGoal is newCountGoal with the required amount derived from the
// objective by target instead of read from its last position.
func newTargetGoal(name string, types *ArgumentProcessor, value, target func(g *countGoal, o Objective) float64, args []any) (Goal, error) {
	processed, err := types.Process(args...)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", name, err)
	}
	g := &countGoal{name: name, value: value, target: target}
	g.BaseGoal = NewBaseGoal(processed, g)
	return g, nil
}

func required(o Objective) float64 {
	return amount(o.At(o.Len() - 1))
}

func (g *countGoal) measurements() (have, need []float64) {
	for _, o := range g.Arguments().Objectives() {
		v := 0.0
		if g.Active() {
			v = g.value(g, o)
		}
		have = append(have, v)
		if g.target != nil {
			need = append(need, g.target(g, o))
		} else {
			need = append(need, required(o))
		}
	}
	return have, need
}

func (g *countGoal) Name() string {
	return "Count." + g.name
}

func (g *countGoal) Condition() bool {
	if !g.Active() {
		return false
	}
	have, need := g.measurements()
	for i := range have {
		if have[i] < need[i] {
			return false
		}
	}
	return len(have) > 0
}

func (g *countGoal) Display() string {
	return progress(g.measurements())
}

func (g *countGoal) cities() []civ.City {
	return g.World().Cities(g.player)
}

// citiesWhere counts the player's cities accepted by keep.
func (g *countGoal) citiesWhere(keep func(c civ.City) bool) float64 {
	n := 0
	for _, c := range g.cities() {
		if keep(c) {
			n++
		}
	}
	return float64(n)
}

// subjectCity resolves the subject city if the player owns it.
func (g *countGoal) subjectCity() (civ.City, bool) {
	subject, ok := g.Arguments().Subject().(*Deferred[civ.City])
	if !ok {
		return nil, false
	}
	city, ok := subject.Resolve(g.player)
	if !ok || city.Owner() != g.player {
		return nil, false
	}
	return city, true
}

var (
	amountTypes   = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Int))
	buildingTypes = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Building, Int))
	resourceTypes = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Bonus, Int))
	areaTypes     = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Plots, Int))

	improvementTypes = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Improvement, Int))
	unitTypes        = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Unit, Int))
	specialistTypes  = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Specialist, Int))
	corporationTypes = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Corporation, Int))
	bordersTypes     = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Players, Int))
	thresholdTypes   = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Int, Int))
	levelTypes       = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(CultureLevel, Int))

	cityLevelTypes      = mustBuild(NewArgumentProcessorBuilder().WithSubjectType(City).WithObjectiveTypes(CultureLevel))
	citySpecialistTypes = mustBuild(NewArgumentProcessorBuilder().WithSubjectType(City).WithObjectiveTypes(Specialist, Int))
)

type countCatalog struct{}

// Count builds threshold goals over live quantities.
var Count countCatalog

func (countCatalog) Constructors() map[string]Constructor {
	return map[string]Constructor{
		"building":       Count.Building,
		"culture":        Count.Culture,
		"gold":           Count.Gold,
		"resource":       Count.Resource,
		"numCities":      Count.NumCities,
		"settledCities":  Count.SettledCities,
		"population":     Count.Population,
		"averageCulture": Count.AverageCulture,

		"controlledResource": Count.ControlledResource,
		"improvement":        Count.Improvement,
		"unit":               Count.Unit,
		"specialist":         Count.Specialist,
		"corporation":        Count.Corporation,
		"openBorders":        Count.OpenBorders,
		"populationCities":   Count.PopulationCities,
		"cultureCities":      Count.CultureCities,
		"cultureLevelCities": Count.CultureLevelCities,
		"cultureLevel":       Count.CultureLevel,
		"citySpecialist":     Count.CitySpecialist,
	}
}

// Building counts the player's cities with the building.
func (countCatalog) Building(args ...any) (Goal, error) {
	return newCountGoal("building", buildingTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.BuildingType], func(b civ.BuildingType) float64 {
			n := 0
			for _, c := range g.cities() {
				if c.HasBuilding(b) {
					n++
				}
			}
			return float64(n)
		})
	}, args)
}

// Culture sums the culture of the player's cities.
func (countCatalog) Culture(args ...any) (Goal, error) {
	return newCountGoal("culture", amountTypes, func(g *countGoal, _ Objective) float64 {
		return SumOf(slices.Values(g.cities())).Eval(func(c civ.City) float64 {
			return float64(c.Culture())
		})
	}, args)
}

func (countCatalog) Gold(args ...any) (Goal, error) {
	return newCountGoal("gold", amountTypes, func(g *countGoal, _ Objective) float64 {
		return float64(g.PlayerRef().Gold())
	}, args)
}

func (countCatalog) Resource(args ...any) (Goal, error) {
	return newCountGoal("resource", resourceTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.BonusType], func(b civ.BonusType) float64 {
			return float64(g.PlayerRef().AvailableBonuses(b))
		})
	}, args)
}

// NumCities counts the player's cities in the area.
func (countCatalog) NumCities(args ...any) (Goal, error) {
	return newCountGoal("numCities", areaTypes, func(g *countGoal, o Objective) float64 {
		return float64(len(plotsOf(o.At(0)).Owned(g.World(), g.player)))
	}, args)
}

// SettledCities counts the cities in the area the player founded and owns.
func (countCatalog) SettledCities(args ...any) (Goal, error) {
	return newCountGoal("settledCities", areaTypes, func(g *countGoal, o Objective) float64 {
		n := 0
		for _, c := range plotsOf(o.At(0)).Owned(g.World(), g.player) {
			if c.OriginalOwner() == g.player {
				n++
			}
		}
		return float64(n)
	}, args)
}

func (countCatalog) Population(args ...any) (Goal, error) {
	return newCountGoal("population", amountTypes, func(g *countGoal, _ Objective) float64 {
		return SumOf(slices.Values(g.cities())).Eval(func(c civ.City) float64 {
			return float64(c.Population())
		})
	}, args)
}

func (countCatalog) AverageCulture(args ...any) (Goal, error) {
	return newCountGoal("averageCulture", amountTypes, func(g *countGoal, _ Objective) float64 {
		return AvgOf(slices.Values(g.cities())).Eval(func(c civ.City) float64 {
			return float64(c.Culture())
		})
	}, args)
}

// ControlledResource counts the resource available to the player and to the
// living players of its vassal teams.
func (countCatalog) ControlledResource(args ...any) (Goal, error) {
	return newCountGoal("controlledResource", resourceTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.BonusType], func(b civ.BonusType) float64 {
			n := g.PlayerRef().AvailableBonuses(b)
			for _, id := range g.World().PlayerIDs() {
				if id == g.player {
					continue
				}
				p, ok := g.World().Player(id)
				if ok && p.Alive() && isVassal(g.World(), p.TeamID(), g.Team().ID()) {
					n += p.AvailableBonuses(b)
				}
			}
			return float64(n)
		})
	}, args)
}

func (countCatalog) Improvement(args ...any) (Goal, error) {
	return newCountGoal("improvement", improvementTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.ImprovementType], func(i civ.ImprovementType) float64 {
			return float64(g.PlayerRef().ImprovementCount(i))
		})
	}, args)
}

// Unit counts the player's units of the unit's class, so unique units count
// for the unit they replace and the other way around.
func (countCatalog) Unit(args ...any) (Goal, error) {
	return newCountGoal("unit", unitTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.UnitType], func(u civ.UnitType) float64 {
			class := g.World().UnitClass(u)
			n := 0
			for _, unit := range g.World().Units(g.player) {
				if g.World().UnitClass(unit.Type()) == class {
					n++
				}
			}
			return float64(n)
		})
	}, args)
}

// Specialist sums the free specialists of the type over the player's cities.
func (countCatalog) Specialist(args ...any) (Goal, error) {
	return newCountGoal("specialist", specialistTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.SpecialistType], func(sp civ.SpecialistType) float64 {
			return SumOf(slices.Values(g.cities())).Eval(func(c civ.City) float64 {
				return float64(c.FreeSpecialists(sp))
			})
		})
	}, args)
}

func (countCatalog) Corporation(args ...any) (Goal, error) {
	return newCountGoal("corporation", corporationTypes, func(g *countGoal, o Objective) float64 {
		return measure(o.At(0), asID[civ.CorporationType], func(corp civ.CorporationType) float64 {
			return g.citiesWhere(func(c civ.City) bool { return c.HasCorporation(corp) })
		})
	}, args)
}

// OpenBorders counts the listed players whose team the player's team has
// open borders with. A lone amount counts over the living major players.
func (countCatalog) OpenBorders(args ...any) (Goal, error) {
	if len(args) == 1 && !Players.Accepts(args[0]) && !is[Tuple](args[0]) {
		args = []any{civ.MajorPlayers().Alive(), args[0]}
	}
	return newCountGoal("openBorders", bordersTypes, func(g *countGoal, o Objective) float64 {
		players, ok := o.At(0).(civ.Players)
		if !ok {
			return 0
		}
		n := 0
		for _, id := range players.Resolve(g.World()) {
			p, ok := g.World().Player(id)
			if !ok || id == g.player || p.TeamID() == g.Team().ID() {
				continue
			}
			if g.Team().HasOpenBorders(p.TeamID()) {
				n++
			}
		}
		return float64(n)
	}, args)
}

// PopulationCities counts the player's cities with at least the population.
func (countCatalog) PopulationCities(args ...any) (Goal, error) {
	return newCountGoal("populationCities", thresholdTypes, func(g *countGoal, o Objective) float64 {
		least := amount(o.At(0))
		return g.citiesWhere(func(c civ.City) bool { return float64(c.Population()) >= least })
	}, args)
}

// CultureCities counts the player's cities with at least the culture.
func (countCatalog) CultureCities(args ...any) (Goal, error) {
	return newCountGoal("cultureCities", thresholdTypes, func(g *countGoal, o Objective) float64 {
		least := amount(o.At(0))
		return g.citiesWhere(func(c civ.City) bool { return float64(c.Culture()) >= least })
	}, args)
}

// CultureLevelCities counts the player's cities that reached the culture
// level.
func (countCatalog) CultureLevelCities(args ...any) (Goal, error) {
	return newCountGoal("cultureLevelCities", levelTypes, func(g *countGoal, o Objective) float64 {
		level, ok := asID[civ.CultureLevelType](o.At(0))
		if !ok {
			return 0
		}
		threshold := g.World().CultureThreshold(level)
		return g.citiesWhere(func(c civ.City) bool { return c.Culture() >= threshold })
	}, args)
}

// CultureLevel compares the culture of the subject city with the threshold of
// the culture level. Cities of other players count as zero.
func (countCatalog) CultureLevel(args ...any) (Goal, error) {
	return newTargetGoal("cultureLevel", cityLevelTypes,
		func(g *countGoal, _ Objective) float64 {
			city, ok := g.subjectCity()
			if !ok {
				return 0
			}
			return float64(city.Culture())
		},
		func(g *countGoal, o Objective) float64 {
			level, _ := asID[civ.CultureLevelType](o.At(0))
			if !g.Active() {
				return 0
			}
			return float64(g.World().CultureThreshold(level))
		}, args)
}

func (countCatalog) CitySpecialist(args ...any) (Goal, error) {
	return newCountGoal("citySpecialist", citySpecialistTypes, func(g *countGoal, o Objective) float64 {
		city, ok := g.subjectCity()
		if !ok {
			return 0
		}
		return measure(o.At(0), asID[civ.SpecialistType], func(sp civ.SpecialistType) float64 {
			return float64(city.FreeSpecialists(sp))
		})
	}, args)
}
