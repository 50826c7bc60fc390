package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"victorygoals/internal/adapter/repo/gorm/model"
	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

// TransitionRepo stores goal transitions in goal_transitions. A goal stores
// one row per transition and turn; repeats are reported as ports.ErrConflict.
type TransitionRepo struct {
	db *gorm.DB
}

func NewTransitionRepo(db *gorm.DB) TransitionRepo {
	return TransitionRepo{db: db}
}

func (r TransitionRepo) Append(ctx context.Context, records []ports.TransitionRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]model.GoalTransition, 0, len(records))
	for _, rec := range records {
		rows = append(rows, model.GoalTransition{
			GoalID:    rec.GoalID,
			GoalName:  rec.Goal,
			PlayerID:  int32(rec.Player),
			FromState: rec.From.String(),
			ToState:   rec.To.String(),
			Turn:      int32(rec.Turn),
			CreatedAt: rec.At,
		})
	}
	if err := conn(ctx, r.db).Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: transition already stored: %v", ports.ErrConflict, err)
		}
		return fmt.Errorf("append transitions: %w", err)
	}
	return nil
}

func (r TransitionRepo) ListByPlayer(ctx context.Context, player civ.PlayerID, limit int) ([]ports.TransitionRecord, error) {
	rows := []model.GoalTransition{}
	query := conn(ctx, r.db).
		Where("player_id = ?", int32(player)).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "created_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.TransitionRecord, 0, len(rows))
	for _, row := range rows {
		from, err := victory.ParseState(row.FromState)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", row.ID, err)
		}
		to, err := victory.ParseState(row.ToState)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", row.ID, err)
		}
		out = append(out, ports.TransitionRecord{
			GoalID: row.GoalID,
			Goal:   row.GoalName,
			Player: civ.PlayerID(row.PlayerID),
			From:   from,
			To:     to,
			Turn:   int(row.Turn),
			At:     row.CreatedAt,
		})
	}
	return out, nil
}
