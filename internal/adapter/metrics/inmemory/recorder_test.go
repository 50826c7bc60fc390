package inmemory

import (
	"testing"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/victory"
)

var _ ports.GoalMetrics = (*Recorder)(nil)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordTransition("Count.gold", victory.StateSuccess)
	r.RecordTransition("Count.gold", victory.StateFailure)
	r.RecordTransition("Track.razes", victory.StateSuccess)
	r.RecordEvent(victory.EventBlockade)
	r.RecordEvent(victory.EventBlockade)
	r.RecordFailure()

	s := r.Snapshot()
	if s.TransitionTotal != 3 {
		t.Fatalf("expected total 3, got %d", s.TransitionTotal)
	}
	if s.GoalsSucceeded != 2 {
		t.Fatalf("expected succeeded 2, got %d", s.GoalsSucceeded)
	}
	if s.GoalsFailed != 1 {
		t.Fatalf("expected failed 1, got %d", s.GoalsFailed)
	}
	if s.StoreFailures != 1 {
		t.Fatalf("expected store failures 1, got %d", s.StoreFailures)
	}
	if s.ByGoal["Count.gold"] != 2 {
		t.Fatalf("expected Count.gold count 2")
	}
	if s.EventsFired != 2 || s.ByEvent["blockade"] != 2 {
		t.Fatalf("expected 2 blockade events, got %+v", s.ByEvent)
	}
}
