package victory

import (
	"fmt"
	"maps"
	"slices"

	"victorygoals/internal/domain/civ"
)

type EventName string

const (
	EventBeginPlayerTurn   EventName = "BeginPlayerTurn"
	EventTechAcquired      EventName = "techAcquired"
	EventCombatResult      EventName = "combatResult"
	EventPlayerGoldTrade   EventName = "playerGoldTrade"
	EventPlayerSlaveTrade  EventName = "playerSlaveTrade"
	EventResourceTradeGold EventName = "resourceTradeGold"
	EventUnitPillage       EventName = "unitPillage"
	EventBlockade          EventName = "blockade"
	EventCityCaptureGold   EventName = "cityCaptureGold"
	EventCityAcquired      EventName = "cityAcquired"
	EventCityBuilt         EventName = "cityBuilt"
	EventCityRazed         EventName = "cityRazed"
	EventGreatPersonBorn   EventName = "greatPersonBorn"
	EventPeaceBrokered     EventName = "peaceBrokered"
	EventEnslave           EventName = "enslave"
)

// Payload is the native argument set of a fired game event.
type Payload interface {
	Event() EventName
}

type BeginPlayerTurn struct {
	Turn   int
	Player civ.PlayerID
}

type TechAcquired struct {
	Tech     civ.TechType
	Team     civ.TeamID
	Player   civ.PlayerID
	Announce bool
}

type CombatResult struct {
	Winner civ.Unit
	Loser  civ.Unit
}

type PlayerGoldTrade struct {
	From civ.PlayerID
	To   civ.PlayerID
	Gold int
}

type PlayerSlaveTrade struct {
	Player civ.PlayerID
	Gold   int
}

type ResourceTradeGold struct {
	Player  civ.PlayerID
	Partner civ.PlayerID
	Gold    int
}

type UnitPillage struct {
	Unit        civ.Unit
	Improvement civ.ImprovementType
	Route       civ.RouteType
	Player      civ.PlayerID
	Gold        int
}

type Blockade struct {
	Player civ.PlayerID
	Gold   int
}

type CityCaptureGold struct {
	City   civ.City
	Player civ.PlayerID
	Gold   int
}

type CityAcquired struct {
	OldOwner civ.PlayerID
	NewOwner civ.PlayerID
	City     civ.City
	Conquest bool
	Trade    bool
}

type CityBuilt struct {
	City civ.City
}

type CityRazed struct {
	City   civ.City
	Player civ.PlayerID
}

type GreatPersonBorn struct {
	Unit   civ.Unit
	Player civ.PlayerID
	City   civ.City
}

type PeaceBrokered struct {
	Broker  civ.PlayerID
	Player1 civ.PlayerID
	Player2 civ.PlayerID
}

type Enslave struct {
	Player civ.PlayerID
	Unit   civ.Unit
}

func (BeginPlayerTurn) Event() EventName   { return EventBeginPlayerTurn }
func (TechAcquired) Event() EventName      { return EventTechAcquired }
func (CombatResult) Event() EventName      { return EventCombatResult }
func (PlayerGoldTrade) Event() EventName   { return EventPlayerGoldTrade }
func (PlayerSlaveTrade) Event() EventName  { return EventPlayerSlaveTrade }
func (ResourceTradeGold) Event() EventName { return EventResourceTradeGold }
func (UnitPillage) Event() EventName       { return EventUnitPillage }
func (Blockade) Event() EventName          { return EventBlockade }
func (CityCaptureGold) Event() EventName   { return EventCityCaptureGold }
func (CityAcquired) Event() EventName      { return EventCityAcquired }
func (CityBuilt) Event() EventName         { return EventCityBuilt }
func (CityRazed) Event() EventName         { return EventCityRazed }
func (GreatPersonBorn) Event() EventName   { return EventGreatPersonBorn }
func (PeaceBrokered) Event() EventName     { return EventPeaceBrokered }
func (Enslave) Event() EventName           { return EventEnslave }

// Owner is the context a handler filters on, normally the activated goal.
type Owner interface {
	BoundPlayer() (civ.PlayerID, bool)
}

// Target receives the extracted arguments of an event that concerns the owner.
type Target func(owner Owner, args Tuple)

// Handler is a Target wrapped with the extraction and filter rule of one
// event kind.
type Handler func(owner Owner, payload Payload)

type adapterSpec struct {
	owner func(p Payload) (civ.PlayerID, bool)
	args  func(p Payload) Tuple
}

func adapt[P Payload](owner func(p P) civ.PlayerID, args func(p P) Tuple) adapterSpec {
	return adapterSpec{
		owner: func(p Payload) (civ.PlayerID, bool) {
			typed, ok := p.(P)
			if !ok {
				return civ.NoPlayer, false
			}
			id := owner(typed)
			return id, id != civ.NoPlayer
		},
		args: func(p Payload) Tuple {
			return args(p.(P))
		},
	}
}

func unitOwner(u civ.Unit) civ.PlayerID {
	if u == nil {
		return civ.NoPlayer
	}
	return u.Owner()
}

func cityOwner(c civ.City) civ.PlayerID {
	if c == nil {
		return civ.NoPlayer
	}
	return c.Owner()
}

var defaultSpecs = map[EventName]adapterSpec{
	EventBeginPlayerTurn: adapt(
		func(p BeginPlayerTurn) civ.PlayerID { return p.Player },
		func(p BeginPlayerTurn) Tuple { return Tuple{p.Turn} },
	),
	EventTechAcquired: adapt(
		func(p TechAcquired) civ.PlayerID { return p.Player },
		func(p TechAcquired) Tuple { return Tuple{p.Tech} },
	),
	EventCombatResult: adapt(
		func(p CombatResult) civ.PlayerID { return unitOwner(p.Winner) },
		func(p CombatResult) Tuple { return Tuple{p.Winner, p.Loser} },
	),
	EventPlayerGoldTrade: adapt(
		func(p PlayerGoldTrade) civ.PlayerID { return p.To },
		func(p PlayerGoldTrade) Tuple { return Tuple{p.Gold} },
	),
	EventPlayerSlaveTrade: adapt(
		func(p PlayerSlaveTrade) civ.PlayerID { return p.Player },
		func(p PlayerSlaveTrade) Tuple { return Tuple{p.Gold} },
	),
	EventResourceTradeGold: adapt(
		func(p ResourceTradeGold) civ.PlayerID { return p.Player },
		func(p ResourceTradeGold) Tuple { return Tuple{p.Gold} },
	),
	EventUnitPillage: adapt(
		func(p UnitPillage) civ.PlayerID { return p.Player },
		func(p UnitPillage) Tuple { return Tuple{p.Gold} },
	),
	EventBlockade: adapt(
		func(p Blockade) civ.PlayerID { return p.Player },
		func(p Blockade) Tuple { return Tuple{p.Gold} },
	),
	EventCityCaptureGold: adapt(
		func(p CityCaptureGold) civ.PlayerID { return p.Player },
		func(p CityCaptureGold) Tuple { return Tuple{p.Gold} },
	),
	EventCityAcquired: adapt(
		func(p CityAcquired) civ.PlayerID { return p.NewOwner },
		func(p CityAcquired) Tuple { return Tuple{p.OldOwner, p.City, p.Conquest, p.Trade} },
	),
	EventCityBuilt: adapt(
		func(p CityBuilt) civ.PlayerID { return cityOwner(p.City) },
		func(p CityBuilt) Tuple { return Tuple{p.City} },
	),
	EventCityRazed: adapt(
		func(p CityRazed) civ.PlayerID { return p.Player },
		func(p CityRazed) Tuple { return Tuple{p.City} },
	),
	EventGreatPersonBorn: adapt(
		func(p GreatPersonBorn) civ.PlayerID { return p.Player },
		func(p GreatPersonBorn) Tuple { return Tuple{p.Unit, p.City} },
	),
	EventPeaceBrokered: adapt(
		func(p PeaceBrokered) civ.PlayerID { return p.Broker },
		func(p PeaceBrokered) Tuple { return Tuple{p.Player1, p.Player2} },
	),
	EventEnslave: adapt(
		func(p Enslave) civ.PlayerID { return p.Player },
		func(p Enslave) Tuple { return Tuple{p.Unit} },
	),
}

// EventHandlers maps event names to their player-filtering adapters. The
// zero value serves the built-in event table.
type EventHandlers struct {
	specs map[EventName]adapterSpec
}

func NewEventHandlers() EventHandlers {
	return EventHandlers{specs: defaultSpecs}
}

func (h EventHandlers) table() map[EventName]adapterSpec {
	if h.specs == nil {
		return defaultSpecs
	}
	return h.specs
}

func (h EventHandlers) Names() []EventName {
	return slices.Sorted(maps.Keys(h.table()))
}

func (h EventHandlers) Has(name EventName) bool {
	_, ok := h.table()[name]
	return ok
}

// Get wraps target so it only runs for events that concern the owner's
// bound player.
func (h EventHandlers) Get(name EventName, target Target) (Handler, error) {
	spec, ok := h.table()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrValidation, ErrUnknownEvent, name)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: nil target for %q", ErrConfiguration, name)
	}
	return func(owner Owner, payload Payload) {
		if owner == nil || payload == nil {
			return
		}
		bound, ok := owner.BoundPlayer()
		if !ok {
			return
		}
		id, ok := spec.owner(payload)
		if !ok || id != bound {
			return
		}
		target(owner, spec.args(payload))
	}, nil
}
