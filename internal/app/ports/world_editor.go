package ports

import "victorygoals/internal/domain/civ"

// PlayerEdit changes the set fields of a player. GoldDelta is added to the
// treasury; the other fields replace the current value.
type PlayerEdit struct {
	GoldDelta      int
	GoldenAgeTurns *int
	AnarchyTurns   *int
	TradeGold      *int
	Bonuses        map[civ.BonusType]int
}

// CityEdit changes the city at At. A missing city is founded for Owner; an
// existing city with another owner is transferred to Owner.
type CityEdit struct {
	At         civ.Point
	Owner      *civ.PlayerID
	Culture    *int
	Population *int
	Buildings  map[civ.BuildingType]bool
}

// WorldEditor is implemented by worlds the server owns outright. Unknown
// players or cities are reported as ErrNotFound.
type WorldEditor interface {
	EditPlayer(id civ.PlayerID, edit PlayerEdit) error
	EditCity(edit CityEdit) (civ.City, error)
}
