package memory

import (
	"maps"
	"slices"
	"sync"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

// transitionKey mirrors the unique index of the goal_transitions table.
type transitionKey struct {
	goalID   string
	turn     int
	from, to victory.State
}

func keyOf(rec ports.TransitionRecord) transitionKey {
	return transitionKey{goalID: rec.GoalID, turn: rec.Turn, from: rec.From, to: rec.To}
}

// Store is the in-process backing of the memory repositories. mu serializes
// transactions; data guards the records themselves.
type Store struct {
	mu   sync.Mutex
	data sync.RWMutex

	transitions map[civ.PlayerID][]ports.TransitionRecord
	seen        map[transitionKey]struct{}
}

func NewStore() *Store {
	return &Store{
		transitions: make(map[civ.PlayerID][]ports.TransitionRecord),
		seen:        make(map[transitionKey]struct{}),
	}
}

type snapshot struct {
	transitions map[civ.PlayerID][]ports.TransitionRecord
	seen        map[transitionKey]struct{}
}

func (s *Store) snapshot() snapshot {
	s.data.RLock()
	defer s.data.RUnlock()
	out := snapshot{
		transitions: make(map[civ.PlayerID][]ports.TransitionRecord, len(s.transitions)),
		seen:        maps.Clone(s.seen),
	}
	for player, records := range s.transitions {
		out.transitions[player] = slices.Clone(records)
	}
	return out
}

func (s *Store) restore(snap snapshot) {
	s.data.Lock()
	defer s.data.Unlock()
	s.transitions = snap.transitions
	s.seen = snap.seen
}
