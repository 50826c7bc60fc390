package inmemory

import (
	"sync"

	"victorygoals/internal/domain/victory"
)

type Snapshot struct {
	TransitionTotal uint64            `json:"transition_total"`
	GoalsSucceeded  uint64            `json:"goals_succeeded"`
	GoalsFailed     uint64            `json:"goals_failed"`
	StoreFailures   uint64            `json:"store_failures"`
	EventsFired     uint64            `json:"events_fired"`
	ByGoal          map[string]uint64 `json:"by_goal"`
	ByEvent         map[string]uint64 `json:"by_event"`
}

type Recorder struct {
	mu        sync.Mutex
	succeeded uint64
	failed    uint64
	other     uint64
	failures  uint64
	byGoal    map[string]uint64
	byEvent   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byGoal:  map[string]uint64{},
		byEvent: map[string]uint64{},
	}
}

func (r *Recorder) RecordTransition(goal string, to victory.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch to {
	case victory.StateSuccess:
		r.succeeded++
	case victory.StateFailure:
		r.failed++
	default:
		r.other++
	}
	r.byGoal[goal]++
}

func (r *Recorder) RecordEvent(name victory.EventName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEvent[string(name)]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		GoalsSucceeded:  r.succeeded,
		GoalsFailed:     r.failed,
		TransitionTotal: r.succeeded + r.failed + r.other,
		StoreFailures:   r.failures,
		ByGoal:          make(map[string]uint64, len(r.byGoal)),
		ByEvent:         make(map[string]uint64, len(r.byEvent)),
	}
	for k, v := range r.byGoal {
		out.ByGoal[k] = v
	}
	for k, v := range r.byEvent {
		out.ByEvent[k] = v
		out.EventsFired += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
