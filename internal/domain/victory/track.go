package victory

import (
	"fmt"

	"victorygoals/internal/domain/civ"
)

// GoldenAgeTurns is the number of golden age turns that make up one golden age.
const GoldenAgeTurns = 8

// trackGoal accumulates event-driven counters, one per objective. The
// counters only grow and are checked after every accumulation.
type trackGoal struct {
	*BaseGoal
	name   string
	scale  float64
	counts []float64
	subs   func(g *trackGoal) []Subscription
}

func newTrackGoal(name string, types *ArgumentProcessor, subs func(g *trackGoal) []Subscription, args []any) (*trackGoal, error) {
	processed, err := types.Process(args...)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", name, err)
	}
	g := &trackGoal{
		name:   name,
		scale:  1,
		counts: make([]float64, len(processed.Objectives())),
		subs:   subs,
	}
	g.BaseGoal = NewBaseGoal(processed, g)
	return g, nil
}

func (g *trackGoal) Subscriptions() []Subscription {
	return g.subs(g)
}

// accumulate adds delta to every objective accepted by match.
func (g *trackGoal) accumulate(delta float64, match func(o Objective) bool) {
	for i, o := range g.Arguments().Objectives() {
		if match == nil || match(o) {
			g.counts[i] += delta
		}
	}
	g.Check()
}

func (g *trackGoal) Counts() []float64 {
	out := make([]float64, len(g.counts))
	copy(out, g.counts)
	return out
}

func (g *trackGoal) need() []float64 {
	objectives := g.Arguments().Objectives()
	out := make([]float64, len(objectives))
	for i, o := range objectives {
		out[i] = required(o) * g.scale
	}
	return out
}

func (g *trackGoal) Name() string {
	return "Track." + g.name
}

func (g *trackGoal) Condition() bool {
	need := g.need()
	for i := range need {
		if g.counts[i] < need[i] {
			return false
		}
	}
	return len(need) > 0
}

func (g *trackGoal) Display() string {
	return progress(g.counts, g.need())
}

func on(event EventName, target Target) Subscription {
	return Subscription{Event: event, Target: target}
}

// gold adds the gold amount at position 0 of the event arguments.
func (g *trackGoal) gold(event EventName) Subscription {
	return on(event, func(_ Owner, args Tuple) {
		g.accumulate(amount(args[0]), nil)
	})
}

func (g *trackGoal) each(event EventName) Subscription {
	return on(event, func(Owner, Tuple) {
		g.accumulate(1, nil)
	})
}

func track(name string, types *ArgumentProcessor, subs func(g *trackGoal) []Subscription) Constructor {
	return func(args ...any) (Goal, error) {
		g, err := newTrackGoal(name, types, subs, args)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

var (
	eraTypes     = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Era, Int))
	conquerTypes = mustBuild(NewArgumentProcessorBuilder().WithObjectiveTypes(Players, Int))
)

type trackCatalog struct{}

// Track builds goals that count game events for the player.
var Track trackCatalog

func (trackCatalog) Constructors() map[string]Constructor {
	return map[string]Constructor{
		"goldenAges":        Track.GoldenAges,
		"eraFirsts":         Track.EraFirsts,
		"sunkShips":         Track.SunkShips,
		"tradeGold":         Track.TradeGold,
		"resourceTradeGold": Track.ResourceTradeGold,
		"raidGold":          Track.RaidGold,
		"pillage":           Track.Pillage,
		"acquiredCities":    Track.AcquiredCities,
		"piracyGold":        Track.PiracyGold,
		"razes":             Track.Razes,
		"slaveTradeGold":    Track.SlaveTradeGold,
		"greatGenerals":     Track.GreatGenerals,
		"brokeredPeace":     Track.BrokeredPeace,
		"enslaves":          Track.Enslaves,
		"conquerFrom":       Track.ConquerFrom,
	}
}

// GoldenAges counts turns spent in a golden age outside of anarchy, measured
// in whole golden ages.
func (trackCatalog) GoldenAges(args ...any) (Goal, error) {
	g, err := newTrackGoal("goldenAges", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{on(EventBeginPlayerTurn, func(Owner, Tuple) {
			p := g.PlayerRef()
			if p.GoldenAgeTurns() > 0 && p.AnarchyTurns() == 0 {
				g.accumulate(1, nil)
			}
		})}
	}, args)
	if err != nil {
		return nil, err
	}
	g.scale = GoldenAgeTurns
	return g, nil
}

// EraFirsts counts techs of an era the player's team discovered first.
func (trackCatalog) EraFirsts(args ...any) (Goal, error) {
	return track("eraFirsts", eraTypes, func(g *trackGoal) []Subscription {
		return []Subscription{on(EventTechAcquired, func(_ Owner, args Tuple) {
			tech := args[0].(civ.TechType)
			first, ok := g.World().FirstDiscoverer(tech)
			if !ok || first != g.Team().ID() {
				return
			}
			era := g.World().TechEra(tech)
			g.accumulate(1, func(o Objective) bool {
				return measure(o.At(0), asID[civ.EraType], func(e civ.EraType) float64 {
					if e == era {
						return 1
					}
					return 0
				}) > 0
			})
		})}
	})(args...)
}

// SunkShips counts naval units defeated by the player's units.
func (trackCatalog) SunkShips(args ...any) (Goal, error) {
	return track("sunkShips", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{on(EventCombatResult, func(_ Owner, args Tuple) {
			loser, _ := args[1].(civ.Unit)
			if loser != nil && g.World().UnitDomain(loser.Type()) == civ.DomainSea {
				g.accumulate(1, nil)
			}
		})}
	})(args...)
}

// dealIncome is the gold per turn other players pay the player.
func (g *trackGoal) dealIncome() float64 {
	total := 0
	for _, other := range g.World().PlayerIDs() {
		if other == g.player {
			continue
		}
		if income := g.PlayerRef().GoldPerTurnByPlayer(other); income > 0 {
			total += income
		}
	}
	return float64(total)
}

// TradeGold counts gold received in trades, from trade routes and from
// per-turn deals.
func (trackCatalog) TradeGold(args ...any) (Goal, error) {
	return track("tradeGold", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{
			g.gold(EventPlayerGoldTrade),
			on(EventBeginPlayerTurn, func(Owner, Tuple) {
				income := float64(g.PlayerRef().TradeGold()) + g.dealIncome()
				if income > 0 {
					g.accumulate(income, nil)
				}
			}),
		}
	})(args...)
}

// ResourceTradeGold counts gold earned by selling resources, as one-off
// payments or per-turn deals.
func (trackCatalog) ResourceTradeGold(args ...any) (Goal, error) {
	return track("resourceTradeGold", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{
			g.gold(EventResourceTradeGold),
			on(EventBeginPlayerTurn, func(Owner, Tuple) {
				if income := g.dealIncome(); income > 0 {
					g.accumulate(income, nil)
				}
			}),
		}
	})(args...)
}

func (trackCatalog) RaidGold(args ...any) (Goal, error) {
	return track("raidGold", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.gold(EventUnitPillage), g.gold(EventCityCaptureGold)}
	})(args...)
}

func (trackCatalog) Pillage(args ...any) (Goal, error) {
	return track("pillage", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.each(EventUnitPillage)}
	})(args...)
}

// AcquiredCities counts cities the player built or acquired in any way.
func (trackCatalog) AcquiredCities(args ...any) (Goal, error) {
	return track("acquiredCities", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.each(EventCityAcquired), g.each(EventCityBuilt)}
	})(args...)
}

func (trackCatalog) PiracyGold(args ...any) (Goal, error) {
	return track("piracyGold", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.gold(EventUnitPillage), g.gold(EventBlockade)}
	})(args...)
}

func (trackCatalog) Razes(args ...any) (Goal, error) {
	return track("razes", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.each(EventCityRazed)}
	})(args...)
}

func (trackCatalog) SlaveTradeGold(args ...any) (Goal, error) {
	return track("slaveTradeGold", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.gold(EventPlayerSlaveTrade)}
	})(args...)
}

func (trackCatalog) GreatGenerals(args ...any) (Goal, error) {
	return track("greatGenerals", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{on(EventGreatPersonBorn, func(_ Owner, args Tuple) {
			unit, _ := args[0].(civ.Unit)
			if unit != nil && g.World().IsGreatGeneral(unit.Type()) {
				g.accumulate(1, nil)
			}
		})}
	})(args...)
}

func (trackCatalog) BrokeredPeace(args ...any) (Goal, error) {
	return track("brokeredPeace", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.each(EventPeaceBrokered)}
	})(args...)
}

func (trackCatalog) Enslaves(args ...any) (Goal, error) {
	return track("enslaves", amountTypes, func(g *trackGoal) []Subscription {
		return []Subscription{g.each(EventEnslave)}
	})(args...)
}

// ConquerFrom counts cities conquered from any of the listed players.
func (trackCatalog) ConquerFrom(args ...any) (Goal, error) {
	return track("conquerFrom", conquerTypes, func(g *trackGoal) []Subscription {
		return []Subscription{on(EventCityAcquired, func(_ Owner, args Tuple) {
			previous := args[0].(civ.PlayerID)
			if conquest, _ := args[2].(bool); !conquest {
				return
			}
			g.accumulate(1, func(o Objective) bool {
				players, ok := o.At(0).(civ.Players)
				return ok && players.Contains(g.World(), previous)
			})
		})}
	})(args...)
}
