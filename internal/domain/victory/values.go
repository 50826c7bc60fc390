package victory

import (
	"fmt"
	"math"
	"strings"

	"victorygoals/internal/domain/civ"
)

// intValue reads an id or amount stored in an objective.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case civ.PlayerID:
		return int(n), true
	case civ.BuildingType:
		return int(n), true
	case civ.UnitType:
		return int(n), true
	case civ.TechType:
		return int(n), true
	case civ.EraType:
		return int(n), true
	case civ.ProjectType:
		return int(n), true
	case civ.BonusType:
		return int(n), true
	case civ.RouteType:
		return int(n), true
	case civ.ImprovementType:
		return int(n), true
	case civ.CorporationType:
		return int(n), true
	case civ.SpecialistType:
		return int(n), true
	case civ.CultureLevelType:
		return int(n), true
	}
	return 0, false
}

// amount reads a required amount; aggregates are summed item by item.
func amount(v any) float64 {
	if agg, ok := v.(AggregateValue); ok {
		return agg.EvalAny(func(item any) float64 { return amount(item) })
	}
	n, _ := intValue(v)
	return float64(n)
}

// measure applies fn to a key, or reduces fn over the items of an aggregate
// standing in for the key.
func measure[K any](key any, convert func(any) (K, bool), fn func(K) float64) float64 {
	if agg, ok := key.(AggregateValue); ok {
		return agg.EvalAny(func(item any) float64 {
			return measure(item, convert, fn)
		})
	}
	k, ok := convert(key)
	if !ok {
		return 0
	}
	return fn(k)
}

func asID[T ~int](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	n, ok := intValue(v)
	return T(n), ok
}

func asPlots(v any) (civ.Plots, bool) {
	p, ok := v.(civ.Plots)
	return p, ok
}

// plotsOf flattens a plots key or an aggregate of plots.
func plotsOf(key any) civ.Plots {
	if agg, ok := key.(AggregateValue); ok {
		var out civ.Plots
		for _, item := range agg.ItemsAny() {
			out = out.With(plotsOf(item).Points()...)
		}
		return out
	}
	p, _ := asPlots(key)
	return p
}

// progress renders "have / need" lines.
func progress(have, need []float64) string {
	lines := make([]string, len(have))
	for i := range have {
		lines[i] = fmt.Sprintf("%d / %d", int(math.Floor(have[i])), int(math.Ceil(need[i])))
	}
	return strings.Join(lines, "\n")
}
