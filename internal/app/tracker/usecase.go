package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

var ErrInvalidRequest = errors.New("invalid tracker request")

// Deps are the collaborators of a Tracker. World and Events are required.
type Deps struct {
	World       civ.World
	Events      ports.EventBus
	Handlers    victory.EventHandlers
	Transitions ports.TransitionRepository
	TxManager   ports.TxManager
	Metrics     ports.GoalMetrics
	Logger      *slog.Logger
	Now         func() time.Time
}

type entry struct {
	id       string
	name     string
	player   civ.PlayerID
	goal     victory.Goal
	deadline int
	last     victory.State
}

// Tracker owns the registered goals of a game. Goals are evaluated
// synchronously, one operation at a time.
type Tracker struct {
	deps Deps

	mu      sync.Mutex
	goals   []*entry
	pending []ports.TransitionRecord
}

func New(deps Deps) (*Tracker, error) {
	if deps.World == nil || deps.Events == nil {
		return nil, fmt.Errorf("%w: world and events are required", ErrInvalidRequest)
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Tracker{deps: deps}, nil
}

func (t *Tracker) host() victory.Host {
	return victory.Host{World: t.deps.World, Events: t.deps.Events, Handlers: t.deps.Handlers}
}

func (t *Tracker) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if req.Goal == nil || req.Deadline < 0 {
		return RegisterResponse{}, ErrInvalidRequest
	}
	name := req.Name
	if name == "" {
		name = goalName(req.Goal)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := &entry{
		id:       uuid.NewString(),
		name:     name,
		player:   req.Player,
		goal:     req.Goal,
		deadline: req.Deadline,
		last:     req.Goal.State(),
	}
	if err := req.Goal.Activate(t.host(), req.Player, t.observe(e)); err != nil {
		t.deps.Logger.Warn("goal activation failed", "player", int(req.Player), "goal", name, "error", err)
		return RegisterResponse{}, fmt.Errorf("activate %s: %w", name, err)
	}
	t.goals = append(t.goals, e)
	t.deps.Logger.Info("goal registered", "player", int(req.Player), "goal_id", e.id, "goal", name)
	if _, err := t.flush(ctx); err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{GoalID: e.id}, nil
}

// observe is the goal callback. It runs with t.mu held by the operation
// that changed the goal.
func (t *Tracker) observe(e *entry) victory.Callback {
	return func(g victory.Goal) {
		rec := ports.TransitionRecord{
			GoalID: e.id,
			Goal:   e.name,
			Player: e.player,
			From:   e.last,
			To:     g.State(),
			Turn:   t.deps.World.Turn(),
			At:     t.deps.Now().UTC(),
		}
		e.last = rec.To
		t.pending = append(t.pending, rec)
		t.deps.Logger.Info("goal transition",
			"player", int(e.player), "goal_id", e.id, "goal", e.name,
			"from", rec.From.String(), "state", rec.To.String())
	}
}

// BeginTurn expires the player's goals past their deadline, fires
// BeginPlayerTurn and then checks the player's remaining goals. Expiry runs
// first so an overdue goal cannot succeed on the turn's events.
func (t *Tracker) BeginTurn(ctx context.Context, req BeginTurnRequest) (TransitionsResponse, error) {
	if req.Turn < 0 {
		return TransitionsResponse{}, ErrInvalidRequest
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.goals {
		if e.player == req.Player && e.overdue(req.Turn) {
			e.goal.Expire()
		}
	}
	t.fire(victory.BeginPlayerTurn{Turn: req.Turn, Player: req.Player})
	for _, e := range t.goals {
		if e.player != req.Player || e.overdue(req.Turn) {
			continue
		}
		e.goal.Check()
	}
	records, err := t.flush(ctx)
	return TransitionsResponse{Transitions: records}, err
}

// Fire delivers a game event to the subscribed goals.
func (t *Tracker) Fire(ctx context.Context, payload victory.Payload) (TransitionsResponse, error) {
	if payload == nil {
		return TransitionsResponse{}, ErrInvalidRequest
	}
	if !t.deps.Handlers.Has(payload.Event()) {
		return TransitionsResponse{}, fmt.Errorf("%w: %w %q", ErrInvalidRequest, victory.ErrUnknownEvent, payload.Event())
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fire(payload)
	records, err := t.flush(ctx)
	return TransitionsResponse{Transitions: records}, err
}

func (t *Tracker) fire(payload victory.Payload) {
	t.deps.Events.Fire(payload)
	if t.deps.Metrics != nil {
		t.deps.Metrics.RecordEvent(payload.Event())
	}
}

// EndGame adjudicates every goal that is still possible.
func (t *Tracker) EndGame(ctx context.Context) (TransitionsResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.goals {
		e.goal.FinalCheck()
	}
	records, err := t.flush(ctx)
	if err == nil {
		t.deps.Logger.Info("game ended", "goals", len(t.goals), "transitions", len(records))
	}
	return TransitionsResponse{Transitions: records}, err
}

func (t *Tracker) Status(_ context.Context, req StatusRequest) (StatusResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := StatusResponse{Goals: make([]GoalStatus, 0, len(t.goals))}
	for _, e := range t.goals {
		if !req.AllPlayers && e.player != req.Player {
			continue
		}
		out.Goals = append(out.Goals, e.status())
	}
	return out, nil
}

// Goal returns the status of one registered goal.
func (t *Tracker) Goal(_ context.Context, id string) (GoalStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.goals {
		if e.id == id {
			return e.status(), nil
		}
	}
	return GoalStatus{}, fmt.Errorf("%w: goal %q", ports.ErrNotFound, id)
}

func (e *entry) overdue(turn int) bool {
	return e.deadline > 0 && turn > e.deadline
}

func (e *entry) status() GoalStatus {
	state := e.goal.State()
	return GoalStatus{
		ID:        e.id,
		Name:      e.name,
		Player:    e.player,
		State:     state,
		StateName: state.String(),
		Display:   e.goal.String(),
		Satisfied: e.goal.Satisfied(),
		Deadline:  e.deadline,
	}
}

func (t *Tracker) ListTransitions(ctx context.Context, req ListTransitionsRequest) ([]ports.TransitionRecord, error) {
	if t.deps.Transitions == nil {
		return nil, nil
	}
	if req.Limit < 0 {
		return nil, ErrInvalidRequest
	}
	return t.deps.Transitions.ListByPlayer(ctx, req.Player, req.Limit)
}

// Close unsubscribes every goal from the event bus.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.goals {
		e.goal.Deactivate()
	}
}

// flush stores the transitions collected since the last flush in one
// transaction and returns them.
func (t *Tracker) flush(ctx context.Context) ([]ports.TransitionRecord, error) {
	if len(t.pending) == 0 {
		return nil, nil
	}
	records := t.pending
	t.pending = nil

	if t.deps.Transitions != nil {
		write := func(ctx context.Context) error {
			return t.deps.Transitions.Append(ctx, records)
		}
		var err error
		if t.deps.TxManager != nil {
			err = t.deps.TxManager.RunInTx(ctx, write)
		} else {
			err = write(ctx)
		}
		if err != nil {
			if t.deps.Metrics != nil {
				t.deps.Metrics.RecordFailure()
			}
			t.deps.Logger.Error("store goal transitions", "count", len(records), "error", err)
			return records, fmt.Errorf("store transitions: %w", err)
		}
	}
	if t.deps.Metrics != nil {
		for _, rec := range records {
			t.deps.Metrics.RecordTransition(rec.Goal, rec.To)
		}
	}
	return records, nil
}

func goalName(g victory.Goal) string {
	if named, ok := g.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", g)
}
