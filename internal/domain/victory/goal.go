package victory

import (
	"fmt"

	"victorygoals/internal/domain/civ"
)

type State int

const (
	StatePossible State = iota
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StatePossible:
		return "possible"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}

func ParseState(raw string) (State, error) {
	for _, s := range []State{StatePossible, StateSuccess, StateFailure} {
		if s.String() == raw {
			return s, nil
		}
	}
	return StatePossible, fmt.Errorf("%w: unknown state %q", ErrValidation, raw)
}

// Callback is notified once per actual state change.
type Callback func(goal Goal)

type Goal interface {
	Owner
	State() State
	Possible() bool
	Arguments() Arguments
	Activate(host Host, player civ.PlayerID, callback Callback) error
	Deactivate()
	SetState(state State)
	Check()
	FinalCheck()
	Expire()
	Win()
	Fail()
	Satisfied() bool
	String() string
}

// Evaluator is implemented by concrete goals.
type Evaluator interface {
	Condition() bool
	Display() string
}

// Subscriber is implemented by goals that react to game events.
type Subscriber interface {
	Subscriptions() []Subscription
}

type Subscription struct {
	Event  EventName
	Target Target
}

// EventBus delivers fired events to subscribers. Subscribe returns the
// function that removes the subscription.
type EventBus interface {
	Subscribe(name EventName, fn func(payload Payload)) (unsubscribe func())
}

// Host bundles the collaborators a goal is activated against.
type Host struct {
	World    civ.World
	Events   EventBus
	Handlers EventHandlers
}

// BaseGoal is the state machine shared by every goal. Concrete goals embed it
// and supply the Evaluator.
type BaseGoal struct {
	args  Arguments
	impl  Evaluator
	state State

	world     civ.World
	player    civ.PlayerID
	bound     bool
	playerRef civ.Player
	team      civ.Team
	callback  Callback
	cancels   []func()
}

func NewBaseGoal(args Arguments, impl Evaluator) *BaseGoal {
	return &BaseGoal{args: args, impl: impl, state: StatePossible, player: civ.NoPlayer}
}

func (g *BaseGoal) self() Goal {
	if goal, ok := g.impl.(Goal); ok {
		return goal
	}
	return g
}

func (g *BaseGoal) Arguments() Arguments {
	return g.args
}

func (g *BaseGoal) State() State {
	return g.state
}

func (g *BaseGoal) Possible() bool {
	return g.state == StatePossible
}

// Activate binds the goal to a player and subscribes its event handlers.
// Activating again rebinds without touching the state.
func (g *BaseGoal) Activate(host Host, player civ.PlayerID, callback Callback) error {
	if host.World == nil {
		return fmt.Errorf("%w: activation without world", ErrConfiguration)
	}
	ref, ok := host.World.Player(player)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	team, ok := host.World.Team(ref.TeamID())
	if !ok {
		return fmt.Errorf("%w: team %d of player %d", ErrUnknownPlayer, ref.TeamID(), player)
	}

	g.Deactivate()
	g.world = host.World
	g.player = player
	g.bound = true
	g.playerRef = ref
	g.team = team
	g.callback = callback

	sub, ok := g.impl.(Subscriber)
	if !ok || host.Events == nil {
		return nil
	}
	for _, s := range sub.Subscriptions() {
		handler, err := host.Handlers.Get(s.Event, s.Target)
		if err != nil {
			g.Deactivate()
			return err
		}
		g.cancels = append(g.cancels, host.Events.Subscribe(s.Event, func(payload Payload) {
			handler(g, payload)
		}))
	}
	return nil
}

func (g *BaseGoal) Deactivate() {
	for _, cancel := range g.cancels {
		cancel()
	}
	g.cancels = nil
}

func (g *BaseGoal) BoundPlayer() (civ.PlayerID, bool) {
	return g.player, g.bound
}

func (g *BaseGoal) Active() bool {
	return g.bound && g.world != nil
}

func (g *BaseGoal) World() civ.World {
	return g.world
}

func (g *BaseGoal) PlayerRef() civ.Player {
	return g.playerRef
}

func (g *BaseGoal) Team() civ.Team {
	return g.team
}

func (g *BaseGoal) SetState(state State) {
	if g.state == state {
		return
	}
	g.state = state
	if g.callback != nil {
		g.callback(g.self())
	}
}

func (g *BaseGoal) Win() {
	g.SetState(StateSuccess)
}

func (g *BaseGoal) Fail() {
	g.SetState(StateFailure)
}

// Check latches success while the goal is still possible. A false condition
// never fails the goal here.
func (g *BaseGoal) Check() {
	if !g.Possible() {
		return
	}
	if g.Satisfied() {
		g.SetState(StateSuccess)
	}
}

// FinalCheck adjudicates a possible goal at the end of its window.
func (g *BaseGoal) FinalCheck() {
	if !g.Possible() {
		return
	}
	if g.Satisfied() {
		g.SetState(StateSuccess)
		return
	}
	g.SetState(StateFailure)
}

func (g *BaseGoal) Expire() {
	if g.Possible() {
		g.SetState(StateFailure)
	}
}

// Satisfied evaluates the condition now, regardless of the latched state.
func (g *BaseGoal) Satisfied() bool {
	if g.impl == nil {
		return false
	}
	return g.impl.Condition()
}

func (g *BaseGoal) String() string {
	if g.impl == nil {
		return ""
	}
	return g.impl.Display()
}
