package victory

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"victorygoals/internal/domain/civ"
)

// Constructor builds a goal from script or Go call arguments.
type Constructor func(args ...any) (Goal, error)

// conditionGoal holds while every objective holds.
type conditionGoal struct {
	*BaseGoal
	name  string
	holds func(g *conditionGoal, o Objective) bool
}

func newConditionGoal(name string, types *ArgumentProcessor, holds func(g *conditionGoal, o Objective) bool, args []any) (Goal, error) {
	processed, err := types.Process(args...)
	if err != nil {
		return nil, fmt.Errorf("condition %s: %w", name, err)
	}
	if len(processed.Objectives()) == 0 {
		return nil, fmt.Errorf("condition %s: %w", name, &ValidationError{Expected: types.Expected(), Reason: "no objectives"})
	}
	g := &conditionGoal{name: name, holds: holds}
	g.BaseGoal = NewBaseGoal(processed, g)
	return g, nil
}

func (g *conditionGoal) satisfied() []bool {
	objectives := g.Arguments().Objectives()
	out := make([]bool, len(objectives))
	if !g.Active() {
		return out
	}
	for i, o := range objectives {
		out[i] = g.holds(g, o)
	}
	return out
}

func (g *conditionGoal) Name() string {
	return "Condition." + g.name
}

func (g *conditionGoal) Condition() bool {
	results := g.satisfied()
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return len(results) > 0
}

func (g *conditionGoal) Display() string {
	results := g.satisfied()
	done := 0
	for _, ok := range results {
		if ok {
			done++
		}
	}
	return progress([]float64{float64(done)}, []float64{float64(len(results))})
}

func (g *conditionGoal) ownedCities(key any) []civ.City {
	return plotsOf(key).Cities(g.World())
}

var (
	plotsTypes        = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Plots))
	wonderTypes       = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Building))
	cityBuildingTypes = mustBuild(NewArgumentProcessorBuilder().WithSubjectType(City).WithObjectiveTypes(Building))
	projectTypes      = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Project))
	routeTypes        = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Plots, Route))
	expressionTypes   = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(String))
)

type conditionCatalog struct{}

// Condition builds predicate goals over the current game state.
var Condition conditionCatalog

func (conditionCatalog) Constructors() map[string]Constructor {
	return map[string]Constructor{
		"control":            Condition.Control,
		"controlOrVassalize": Condition.ControlOrVassalize,
		"settle":             Condition.Settle,
		"wonder":             Condition.Wonder,
		"cityBuilding":       Condition.CityBuilding,
		"project":            Condition.Project,
		"route":              Condition.Route,
		"expression":         Condition.Expression,
	}
}

// Control holds when the player owns every city in each area, and each area
// has at least one city.
func (conditionCatalog) Control(args ...any) (Goal, error) {
	return newConditionGoal("control", plotsTypes, func(g *conditionGoal, o Objective) bool {
		cities := g.ownedCities(o.At(0))
		for _, c := range cities {
			if c.Owner() != g.player {
				return false
			}
		}
		return len(cities) > 0
	}, args)
}

// ControlOrVassalize also accepts cities of the player's vassals.
func (conditionCatalog) ControlOrVassalize(args ...any) (Goal, error) {
	return newConditionGoal("controlOrVassalize", plotsTypes, func(g *conditionGoal, o Objective) bool {
		cities := g.ownedCities(o.At(0))
		for _, c := range cities {
			if c.Owner() == g.player {
				continue
			}
			owner, ok := g.World().Player(c.Owner())
			if !ok || !isVassal(g.World(), owner.TeamID(), g.Team().ID()) {
				return false
			}
		}
		return len(cities) > 0
	}, args)
}

func isVassal(w civ.World, team, master civ.TeamID) bool {
	t, ok := w.Team(team)
	return ok && t.IsVassalOf(master)
}

// Settle holds when the player founded a city they still own in each area.
func (conditionCatalog) Settle(args ...any) (Goal, error) {
	return newConditionGoal("settle", plotsTypes, func(g *conditionGoal, o Objective) bool {
		for _, c := range g.ownedCities(o.At(0)) {
			if c.Owner() == g.player && c.OriginalOwner() == g.player {
				return true
			}
		}
		return false
	}, args)
}

func (conditionCatalog) Wonder(args ...any) (Goal, error) {
	return newConditionGoal("wonder", wonderTypes, func(g *conditionGoal, o Objective) bool {
		return measure(o.At(0), asID[civ.BuildingType], func(b civ.BuildingType) float64 {
			city, ok := Locate(g.World()).Wonder(b).Resolve()
			if ok && city.Owner() == g.player {
				return 1
			}
			return 0
		}) > 0
	}, args)
}

// CityBuilding holds when the subject city is the player's and has every
// building.
func (conditionCatalog) CityBuilding(args ...any) (Goal, error) {
	return newConditionGoal("cityBuilding", cityBuildingTypes, func(g *conditionGoal, o Objective) bool {
		subject := g.Arguments().Subject().(*Deferred[civ.City])
		city, ok := subject.Resolve(g.player)
		if !ok || city.Owner() != g.player {
			return false
		}
		return measure(o.At(0), asID[civ.BuildingType], func(b civ.BuildingType) float64 {
			if city.HasBuilding(b) {
				return 1
			}
			return 0
		}) > 0
	}, args)
}

func (conditionCatalog) Project(args ...any) (Goal, error) {
	return newConditionGoal("project", projectTypes, func(g *conditionGoal, o Objective) bool {
		return measure(o.At(0), asID[civ.ProjectType], func(p civ.ProjectType) float64 {
			return float64(g.Team().ProjectCount(p))
		}) > 0
	}, args)
}

// Route holds when every plot of the area carries the route.
func (conditionCatalog) Route(args ...any) (Goal, error) {
	return newConditionGoal("route", routeTypes, func(g *conditionGoal, o Objective) bool {
		route, ok := asID[civ.RouteType](o.At(1))
		if !ok {
			return false
		}
		points := plotsOf(o.At(0)).Points()
		for _, pt := range points {
			plot, ok := g.World().Plot(pt)
			if !ok || plot.Route() != route {
				return false
			}
		}
		return len(points) > 0
	}, args)
}

// ExprEnv is the environment expression goals are evaluated against.
type ExprEnv struct {
	Turn       int  `expr:"turn"`
	Gold       int  `expr:"gold"`
	Cities     int  `expr:"cities"`
	Population int  `expr:"population"`
	Culture    int  `expr:"culture"`
	GoldenAge  bool `expr:"golden_age"`
}

func playerEnv(w civ.World, p civ.Player) ExprEnv {
	env := ExprEnv{
		Turn:      w.Turn(),
		Gold:      p.Gold(),
		GoldenAge: p.GoldenAgeTurns() > 0,
	}
	for _, c := range w.Cities(p.ID()) {
		env.Cities++
		env.Population += c.Population()
		env.Culture += c.Culture()
	}
	return env
}

// Expression holds when each boolean expression over the player's stats is
// true, e.g. "gold >= 500 && cities > 3".
func (conditionCatalog) Expression(args ...any) (Goal, error) {
	programs := map[string]*vm.Program{}
	for _, arg := range args {
		src, ok := arg.(string)
		if !ok {
			continue
		}
		program, err := expr.Compile(src, expr.Env(ExprEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("condition expression: %w", &ValidationError{Expected: "boolean expression", Reason: err.Error()})
		}
		programs[src] = program
	}
	return newConditionGoal("expression", expressionTypes, func(g *conditionGoal, o Objective) bool {
		src, _ := o.At(0).(string)
		program, ok := programs[src]
		if !ok {
			return false
		}
		result, err := expr.Run(program, playerEnv(g.World(), g.PlayerRef()))
		if err != nil {
			return false
		}
		matched, _ := result.(bool)
		return matched
	}, args)
}
