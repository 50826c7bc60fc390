package luascript

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/Shopify/go-lua"

	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

const (
	goalTypeName  = "victory.goal"
	valueTypeName = "victory.value"
)

var ErrScript = errors.New("goal script error")

// Registration is a goal declared by a script through goals.add.
type Registration struct {
	Player   civ.PlayerID
	Goal     victory.Goal
	Deadline int
	Name     string
}

// Loader runs goal scripts against a world. Locators created by scripts
// (city, capital, wonder) resolve against that world.
type Loader struct {
	World civ.World
}

func (l Loader) LoadFile(path string) ([]Registration, error) {
	return l.load(path, func(state *lua.State) error {
		return lua.LoadFile(state, path, "")
	})
}

func (l Loader) LoadString(name, src string) ([]Registration, error) {
	return l.load(name, func(state *lua.State) error {
		return lua.LoadBuffer(state, src, name, "")
	})
}

func (l Loader) load(name string, load func(state *lua.State) error) ([]Registration, error) {
	if l.World == nil {
		return nil, fmt.Errorf("%w: no world to load %s against", ErrScript, name)
	}
	state := lua.NewState()
	lua.OpenLibraries(state)
	s := &session{world: l.World}
	s.register(state)

	if err := load(state); err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrScript, name, err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		if s.err != nil {
			return nil, fmt.Errorf("%w: run %s: %w", ErrScript, name, s.err)
		}
		return nil, fmt.Errorf("%w: run %s: %w", ErrScript, name, err)
	}
	return s.goals, nil
}

// session holds the state of one script run.
type session struct {
	world civ.World
	goals []Registration
	err   error
}

func (s *session) register(state *lua.State) {
	lua.NewMetaTable(state, goalTypeName)
	state.PushGoFunction(goalToString)
	state.SetField(-2, "__tostring")
	state.Pop(1)

	lua.NewMetaTable(state, valueTypeName)
	state.PushGoFunction(valueToString)
	state.SetField(-2, "__tostring")
	state.Pop(1)

	s.catalog(state, "Condition", victory.Condition.Constructors())
	s.catalog(state, "Count", victory.Count.Constructors())
	s.catalog(state, "Track", victory.Track.Constructors())

	s.library(state, "plots", []lua.RegistryFunction{
		{Name: "rect", Function: s.rect},
		{Name: "points", Function: s.points},
	})
	s.library(state, "players", []lua.RegistryFunction{
		{Name: "all", Function: s.allPlayers},
		{Name: "major", Function: s.majorPlayers},
		{Name: "only", Function: s.onlyPlayers},
		{Name: "without", Function: s.withoutPlayers},
	})
	s.library(state, "goals", []lua.RegistryFunction{
		{Name: "add", Function: s.addGoal},
	})

	for _, fn := range []lua.RegistryFunction{
		{Name: "sum", Function: s.sum},
		{Name: "avg", Function: s.avg},
		{Name: "city", Function: s.city},
		{Name: "capital", Function: s.capital},
		{Name: "wonder", Function: s.wonder},
	} {
		state.PushGoFunction(fn.Function)
		state.SetGlobal(fn.Name)
	}
}

func (s *session) library(state *lua.State, name string, functions []lua.RegistryFunction) {
	state.NewTable()
	lua.SetFunctions(state, functions, 0)
	state.SetGlobal(name)
}

func (s *session) catalog(state *lua.State, name string, constructors map[string]victory.Constructor) {
	state.NewTable()
	for _, key := range slices.Sorted(maps.Keys(constructors)) {
		build := constructors[key]
		state.PushGoFunction(func(state *lua.State) int {
			args, err := s.args(state, 1)
			if err != nil {
				return s.fail(state, fmt.Errorf("%s.%s: %w", name, key, err))
			}
			goal, err := build(args...)
			if err != nil {
				return s.fail(state, fmt.Errorf("%s.%s: %w", name, key, err))
			}
			state.PushUserData(goal)
			lua.SetMetaTableNamed(state, goalTypeName)
			return 1
		})
		state.SetField(-2, key)
	}
	state.SetGlobal(name)
}

// fail records err for the caller of the script and raises it in Lua.
func (s *session) fail(state *lua.State, err error) int {
	s.err = err
	lua.Errorf(state, "%s", err.Error())
	return 0
}

func pushValue(state *lua.State, v any) int {
	state.PushUserData(v)
	lua.SetMetaTableNamed(state, valueTypeName)
	return 1
}

func goalToString(state *lua.State) int {
	goal, ok := lua.CheckUserData(state, 1, goalTypeName).(victory.Goal)
	if !ok {
		lua.ArgumentError(state, 1, "goal expected")
		return 0
	}
	state.PushString(goal.String())
	return 1
}

func valueToString(state *lua.State) int {
	state.PushString(fmt.Sprint(lua.CheckUserData(state, 1, valueTypeName)))
	return 1
}

// args converts the stack from index first onwards into goal arguments.
func (s *session) args(state *lua.State, first int) ([]any, error) {
	out := make([]any, 0, max(state.Top()-first+1, 0))
	for i := first; i <= state.Top(); i++ {
		v, err := toGo(state, i)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i-first+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// toGo converts a Lua value. Array tables become objective tuples.
func toGo(state *lua.State, index int) (any, error) {
	switch state.TypeOf(index) {
	case lua.TypeNumber:
		n, _ := state.ToNumber(index)
		if math.Mod(n, 1) == 0 {
			return int(n), nil
		}
		return n, nil
	case lua.TypeString:
		str, _ := state.ToString(index)
		return str, nil
	case lua.TypeBoolean:
		return state.ToBoolean(index), nil
	case lua.TypeUserData:
		return state.ToUserData(index), nil
	case lua.TypeTable:
		return toTuple(state, index)
	case lua.TypeNil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported %s value", lua.TypeNameOf(state, index))
}

func toTuple(state *lua.State, index int) (victory.Tuple, error) {
	index = state.AbsIndex(index)
	n := state.RawLength(index)
	count := 0
	state.PushNil()
	for state.Next(index) {
		count++
		state.Pop(1)
	}
	if count != n {
		return nil, errors.New("tables must be arrays")
	}
	tuple := make(victory.Tuple, 0, n)
	for i := 1; i <= n; i++ {
		state.RawGetInt(index, i)
		v, err := toGo(state, -1)
		state.Pop(1)
		if err != nil {
			return nil, err
		}
		tuple = append(tuple, v)
	}
	return tuple, nil
}

func (s *session) rect(state *lua.State) int {
	from := civ.At(lua.CheckInteger(state, 1), lua.CheckInteger(state, 2))
	to := civ.At(lua.CheckInteger(state, 3), lua.CheckInteger(state, 4))
	return pushValue(state, civ.Rectangle(lua.OptString(state, 5, ""), from, to))
}

// points builds named plots from {x, y} pairs: plots.points("coast", {1, 2}, {3, 4}).
func (s *session) points(state *lua.State) int {
	name := lua.CheckString(state, 1)
	var pts []civ.Point
	for i := 2; i <= state.Top(); i++ {
		pair, err := toTuple(state, i)
		if err != nil || len(pair) != 2 {
			lua.ArgumentError(state, i, "{x, y} expected")
			return 0
		}
		x, okX := pair[0].(int)
		y, okY := pair[1].(int)
		if !okX || !okY {
			lua.ArgumentError(state, i, "integer coordinates expected")
			return 0
		}
		pts = append(pts, civ.At(x, y))
	}
	return pushValue(state, civ.NewPlots(name, pts...))
}

func playerIDs(state *lua.State, first int) []civ.PlayerID {
	var ids []civ.PlayerID
	for i := first; i <= state.Top(); i++ {
		ids = append(ids, civ.PlayerID(lua.CheckInteger(state, i)))
	}
	return ids
}

func (s *session) allPlayers(state *lua.State) int {
	return pushValue(state, civ.AllPlayers())
}

// majorPlayers returns the living major players.
func (s *session) majorPlayers(state *lua.State) int {
	return pushValue(state, civ.MajorPlayers().Alive())
}

func (s *session) onlyPlayers(state *lua.State) int {
	return pushValue(state, civ.PlayerList(playerIDs(state, 1)...))
}

func (s *session) withoutPlayers(state *lua.State) int {
	players, ok := lua.CheckUserData(state, 1, valueTypeName).(civ.Players)
	if !ok {
		lua.ArgumentError(state, 1, "players expected")
		return 0
	}
	return pushValue(state, players.Without(playerIDs(state, 2)...))
}

func (s *session) sum(state *lua.State) int {
	items, err := s.args(state, 1)
	if err != nil {
		return s.fail(state, fmt.Errorf("sum: %w", err))
	}
	return pushValue(state, victory.Sum(items...))
}

func (s *session) avg(state *lua.State) int {
	items, err := s.args(state, 1)
	if err != nil {
		return s.fail(state, fmt.Errorf("avg: %w", err))
	}
	return pushValue(state, victory.Avg(items...))
}

func (s *session) city(state *lua.State) int {
	return pushValue(state, victory.Locate(s.world).CityAt(lua.CheckInteger(state, 1), lua.CheckInteger(state, 2)))
}

// capital() resolves the capital of whichever player the goal is bound to;
// capital(p) always resolves player p's capital.
func (s *session) capital(state *lua.State) int {
	if state.IsNoneOrNil(1) {
		return pushValue(state, victory.Locate(s.world).Capital())
	}
	return pushValue(state, victory.Locate(s.world).Capital(civ.PlayerID(lua.CheckInteger(state, 1))))
}

func (s *session) wonder(state *lua.State) int {
	return pushValue(state, victory.Locate(s.world).Wonder(civ.BuildingType(lua.CheckInteger(state, 1))))
}

// addGoal registers a goal: goals.add(player, goal [, deadline [, name]]).
func (s *session) addGoal(state *lua.State) int {
	player := civ.PlayerID(lua.CheckInteger(state, 1))
	goal, ok := lua.CheckUserData(state, 2, goalTypeName).(victory.Goal)
	if !ok {
		lua.ArgumentError(state, 2, "goal expected")
		return 0
	}
	deadline := lua.OptInteger(state, 3, 0)
	if deadline < 0 {
		lua.ArgumentError(state, 3, "deadline must not be negative")
		return 0
	}
	s.goals = append(s.goals, Registration{
		Player:   player,
		Goal:     goal,
		Deadline: deadline,
		Name:     lua.OptString(state, 4, ""),
	})
	return 0
}
