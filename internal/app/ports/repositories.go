package ports

import (
	"context"
	"time"

	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

// TransitionRecord is one observed goal state change.
type TransitionRecord struct {
	GoalID string
	Goal   string
	Player civ.PlayerID
	From   victory.State
	To     victory.State
	Turn   int
	At     time.Time
}

type TransitionRepository interface {
	Append(ctx context.Context, records []TransitionRecord) error
	// ListByPlayer returns the newest records first. A limit <= 0 means no limit.
	ListByPlayer(ctx context.Context, player civ.PlayerID, limit int) ([]TransitionRecord, error)
}
