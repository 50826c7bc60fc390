package memory

import (
	"context"
	"fmt"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
)

type TransitionRepo struct {
	store *Store
}

func NewTransitionRepo(store *Store) TransitionRepo {
	return TransitionRepo{store: store}
}

// Append stores every record or none. A transition already stored for the
// same goal and turn is a ports.ErrConflict.
func (r TransitionRepo) Append(_ context.Context, records []ports.TransitionRecord) error {
	r.store.data.Lock()
	defer r.store.data.Unlock()

	batch := make(map[transitionKey]struct{}, len(records))
	for _, rec := range records {
		key := keyOf(rec)
		_, stored := r.store.seen[key]
		_, repeated := batch[key]
		if stored || repeated {
			return fmt.Errorf("%w: transition %s %s->%s on turn %d already stored", ports.ErrConflict, rec.GoalID, rec.From, rec.To, rec.Turn)
		}
		batch[key] = struct{}{}
	}
	for _, rec := range records {
		r.store.transitions[rec.Player] = append(r.store.transitions[rec.Player], rec)
		r.store.seen[keyOf(rec)] = struct{}{}
	}
	return nil
}

// ListByPlayer returns the player's transitions newest first; limit <= 0
// returns all of them.
func (r TransitionRepo) ListByPlayer(_ context.Context, player civ.PlayerID, limit int) ([]ports.TransitionRecord, error) {
	r.store.data.RLock()
	defer r.store.data.RUnlock()
	records := r.store.transitions[player]
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.TransitionRecord, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out, nil
}
