package tracker

import (
	"fmt"

	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

// EventRequest is the wire form of a game event. Units are referenced by id
// and cities by location; both must exist in the world.
type EventRequest struct {
	Event string `json:"event" yaml:"event"`

	Turn     int  `json:"turn" yaml:"turn"`
	Player   int  `json:"player" yaml:"player"`
	Team     int  `json:"team" yaml:"team"`
	Tech     int  `json:"tech" yaml:"tech"`
	Announce bool `json:"announce" yaml:"announce"`
	Gold     int  `json:"gold" yaml:"gold"`
	Partner  int  `json:"partner" yaml:"partner"`
	From     int  `json:"from" yaml:"from"`
	To       int  `json:"to" yaml:"to"`

	Unit        int        `json:"unit" yaml:"unit"`
	WinnerUnit  int        `json:"winner_unit" yaml:"winner_unit"`
	LoserUnit   int        `json:"loser_unit" yaml:"loser_unit"`
	Improvement *int       `json:"improvement" yaml:"improvement"`
	Route       *int       `json:"route" yaml:"route"`
	City        *civ.Point `json:"city" yaml:"city"`

	OldOwner int  `json:"old_owner" yaml:"old_owner"`
	NewOwner int  `json:"new_owner" yaml:"new_owner"`
	Conquest bool `json:"conquest" yaml:"conquest"`
	Trade    bool `json:"trade" yaml:"trade"`

	Broker  int `json:"broker" yaml:"broker"`
	Player1 int `json:"player1" yaml:"player1"`
	Player2 int `json:"player2" yaml:"player2"`
}

// Payload resolves the request against the world.
func (r EventRequest) Payload(w civ.World) (victory.Payload, error) {
	player := civ.PlayerID(r.Player)
	switch victory.EventName(r.Event) {
	case victory.EventBeginPlayerTurn:
		return victory.BeginPlayerTurn{Turn: r.Turn, Player: player}, nil
	case victory.EventTechAcquired:
		return victory.TechAcquired{Tech: civ.TechType(r.Tech), Team: civ.TeamID(r.Team), Player: player, Announce: r.Announce}, nil
	case victory.EventCombatResult:
		winner, err := r.unit(w, r.WinnerUnit)
		if err != nil {
			return nil, err
		}
		loser, err := r.unit(w, r.LoserUnit)
		if err != nil {
			return nil, err
		}
		return victory.CombatResult{Winner: winner, Loser: loser}, nil
	case victory.EventPlayerGoldTrade:
		return victory.PlayerGoldTrade{From: civ.PlayerID(r.From), To: civ.PlayerID(r.To), Gold: r.Gold}, nil
	case victory.EventPlayerSlaveTrade:
		return victory.PlayerSlaveTrade{Player: player, Gold: r.Gold}, nil
	case victory.EventResourceTradeGold:
		return victory.ResourceTradeGold{Player: player, Partner: civ.PlayerID(r.Partner), Gold: r.Gold}, nil
	case victory.EventUnitPillage:
		unit, err := r.unit(w, r.Unit)
		if err != nil {
			return nil, err
		}
		return victory.UnitPillage{
			Unit:        unit,
			Improvement: civ.ImprovementType(orNone(r.Improvement)),
			Route:       civ.RouteType(orNone(r.Route)),
			Player:      player,
			Gold:        r.Gold,
		}, nil
	case victory.EventBlockade:
		return victory.Blockade{Player: player, Gold: r.Gold}, nil
	case victory.EventCityCaptureGold:
		city, err := r.city(w)
		if err != nil {
			return nil, err
		}
		return victory.CityCaptureGold{City: city, Player: player, Gold: r.Gold}, nil
	case victory.EventCityAcquired:
		city, err := r.city(w)
		if err != nil {
			return nil, err
		}
		return victory.CityAcquired{
			OldOwner: civ.PlayerID(r.OldOwner),
			NewOwner: civ.PlayerID(r.NewOwner),
			City:     city,
			Conquest: r.Conquest,
			Trade:    r.Trade,
		}, nil
	case victory.EventCityBuilt:
		city, err := r.city(w)
		if err != nil {
			return nil, err
		}
		return victory.CityBuilt{City: city}, nil
	case victory.EventCityRazed:
		city, err := r.city(w)
		if err != nil {
			return nil, err
		}
		return victory.CityRazed{City: city, Player: player}, nil
	case victory.EventGreatPersonBorn:
		unit, err := r.unit(w, r.Unit)
		if err != nil {
			return nil, err
		}
		city, err := r.city(w)
		if err != nil {
			return nil, err
		}
		return victory.GreatPersonBorn{Unit: unit, Player: player, City: city}, nil
	case victory.EventPeaceBrokered:
		return victory.PeaceBrokered{Broker: civ.PlayerID(r.Broker), Player1: civ.PlayerID(r.Player1), Player2: civ.PlayerID(r.Player2)}, nil
	case victory.EventEnslave:
		unit, err := r.unit(w, r.Unit)
		if err != nil {
			return nil, err
		}
		return victory.Enslave{Player: player, Unit: unit}, nil
	}
	return nil, fmt.Errorf("%w: %w %q", ErrInvalidRequest, victory.ErrUnknownEvent, r.Event)
}

func (r EventRequest) unit(w civ.World, id int) (civ.Unit, error) {
	u, ok := w.Unit(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown unit %d", ErrInvalidRequest, r.Event, id)
	}
	return u, nil
}

func (r EventRequest) city(w civ.World) (civ.City, error) {
	if r.City == nil {
		return nil, fmt.Errorf("%w: %s: city is required", ErrInvalidRequest, r.Event)
	}
	c, ok := w.CityAt(*r.City)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no city at %s", ErrInvalidRequest, r.Event, *r.City)
	}
	return c, nil
}

func orNone(v *int) int {
	if v == nil {
		return -1
	}
	return *v
}
