package metrics

import (
	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/victory"
)

// Tee forwards every measurement to each recorder in order.
type Tee []ports.GoalMetrics

var _ ports.GoalMetrics = Tee(nil)

func (t Tee) RecordTransition(goal string, to victory.State) {
	for _, m := range t {
		m.RecordTransition(goal, to)
	}
}

func (t Tee) RecordEvent(name victory.EventName) {
	for _, m := range t {
		m.RecordEvent(name)
	}
}

func (t Tee) RecordFailure() {
	for _, m := range t {
		m.RecordFailure()
	}
}
