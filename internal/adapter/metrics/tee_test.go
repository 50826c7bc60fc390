package metrics

import (
	"testing"

	"victorygoals/internal/adapter/metrics/inmemory"
	"victorygoals/internal/domain/victory"
)

func TestTeeForwardsToEveryRecorder(t *testing.T) {
	a, b := inmemory.NewRecorder(), inmemory.NewRecorder()
	tee := Tee{a, b}

	tee.RecordTransition("Count.gold", victory.StateSuccess)
	tee.RecordEvent(victory.EventCombatResult)
	tee.RecordFailure()

	for i, r := range []*inmemory.Recorder{a, b} {
		snap := r.Snapshot()
		if snap.TransitionTotal != 1 || snap.GoalsSucceeded != 1 {
			t.Fatalf("recorder %d transitions=%d succeeded=%d", i, snap.TransitionTotal, snap.GoalsSucceeded)
		}
		if snap.EventsFired != 1 || snap.StoreFailures != 1 {
			t.Fatalf("recorder %d events=%d failures=%d", i, snap.EventsFired, snap.StoreFailures)
		}
	}
}
