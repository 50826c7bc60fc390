package civ

import "slices"

// Players is a lazy player filter, resolved against the World each time it
// is evaluated so it reflects players dying or spawning.
type Players struct {
	majorOnly bool
	aliveOnly bool
	only      []PlayerID
	without   []PlayerID
}

func AllPlayers() Players {
	return Players{}
}

func MajorPlayers() Players {
	return Players{majorOnly: true}
}

func PlayerList(ids ...PlayerID) Players {
	return Players{only: slices.Clone(ids)}
}

func (p Players) Alive() Players {
	p.aliveOnly = true
	return p
}

func (p Players) Major() Players {
	p.majorOnly = true
	return p
}

func (p Players) Without(ids ...PlayerID) Players {
	p.without = append(slices.Clone(p.without), ids...)
	return p
}

func (p Players) Resolve(w World) []PlayerID {
	candidates := p.only
	if candidates == nil {
		candidates = w.PlayerIDs()
	}
	out := make([]PlayerID, 0, len(candidates))
	for _, id := range candidates {
		if slices.Contains(p.without, id) {
			continue
		}
		player, ok := w.Player(id)
		if !ok {
			continue
		}
		if p.majorOnly && !player.Major() {
			continue
		}
		if p.aliveOnly && !player.Alive() {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (p Players) Contains(w World, id PlayerID) bool {
	return slices.Contains(p.Resolve(w), id)
}
