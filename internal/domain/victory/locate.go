package victory

import (
	"victorygoals/internal/domain/civ"
)

// Locator builds Deferred references to cities of a world.
type Locator struct {
	world civ.World
}

func Locate(w civ.World) Locator {
	return Locator{world: w}
}

// Capital resolves the capital of the player passed at resolve time, or of
// the bound player when one is given here.
func (l Locator) Capital(player ...civ.PlayerID) *Deferred[civ.City] {
	bound := make([]any, len(player))
	for i, p := range player {
		bound[i] = p
	}
	return Defer("capital", func(args ...any) (civ.City, bool) {
		if len(args) == 0 {
			return nil, false
		}
		id, ok := playerArg(args[0])
		if !ok {
			return nil, false
		}
		return l.world.Capital(id)
	}, bound...)
}

func (l Locator) CityAt(x, y int) *Deferred[civ.City] {
	return Defer("city", func(args ...any) (civ.City, bool) {
		return l.world.CityAt(civ.At(args[0].(int), args[1].(int)))
	}, x, y)
}

// Wonder resolves the city that holds the building, whoever owns it.
func (l Locator) Wonder(building civ.BuildingType) *Deferred[civ.City] {
	return Defer("wonder", func(args ...any) (civ.City, bool) {
		b := args[0].(civ.BuildingType)
		for _, c := range l.world.AllCities() {
			if c.HasBuilding(b) {
				return c, true
			}
		}
		return nil, false
	}, building)
}

func playerArg(v any) (civ.PlayerID, bool) {
	switch id := v.(type) {
	case civ.PlayerID:
		return id, true
	case int:
		return civ.PlayerID(id), true
	}
	return civ.NoPlayer, false
}
