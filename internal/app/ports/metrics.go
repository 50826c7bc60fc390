package ports

import "victorygoals/internal/domain/victory"

type GoalMetrics interface {
	RecordTransition(goal string, to victory.State)
	RecordEvent(name victory.EventName)
	RecordFailure()
}
