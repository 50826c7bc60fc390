package victory

import (
	"slices"

	"victorygoals/internal/domain/civ"
)

// ArgType describes one declared argument position: which values it accepts,
// its default (if any) and how accepted values are normalized.
type ArgType struct {
	name     string
	accepts  func(v any) bool
	fallback func() any
	coerce   func(v any) any
	info     func(id int) any
}

func (t *ArgType) Name() string {
	return t.name
}

func (t *ArgType) HasDefault() bool {
	return t.fallback != nil
}

// Default returns a fresh default value. ok is false when the type has none.
func (t *ArgType) Default() (any, bool) {
	if t.fallback == nil {
		return nil, false
	}
	return t.fallback(), true
}

// Accepts reports whether v is a direct instance of the type.
func (t *ArgType) Accepts(v any) bool {
	return t.accepts(v)
}

// IsInfo reports whether the type is a catalog type that takes bare ids.
func (t *ArgType) IsInfo() bool {
	return t.info != nil
}

// normalize validates v for this position and returns the stored value.
func (t *ArgType) normalize(v any) (any, bool) {
	if _, ok := v.(AggregateValue); ok {
		return v, true
	}
	if t.accepts(v) {
		if t.coerce != nil {
			return t.coerce(v), true
		}
		return v, true
	}
	if t.info != nil {
		if id, ok := v.(int); ok {
			return t.info(id), true
		}
	}
	return nil, false
}

func (t *ArgType) String() string {
	return t.name
}

func is[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func infoType[T ~int](name string) *ArgType {
	return &ArgType{
		name:    name,
		accepts: is[T],
		info:    func(id int) any { return T(id) },
	}
}

var (
	Int = &ArgType{
		name:     "Int",
		accepts:  is[int],
		fallback: func() any { return 1 },
	}
	String = &ArgType{
		name:    "String",
		accepts: is[string],
	}
	List = &ArgType{
		name: "List",
		accepts: func(v any) bool {
			switch v.(type) {
			case []any, []int, []civ.PlayerID:
				return true
			}
			return false
		},
		coerce: func(v any) any {
			switch list := v.(type) {
			case []int:
				return slices.Clone(list)
			case []civ.PlayerID:
				return slices.Clone(list)
			}
			return slices.Clone(v.([]any))
		},
	}
	Players = &ArgType{
		name:     "Players",
		accepts:  is[civ.Players],
		fallback: func() any { return civ.MajorPlayers().Alive() },
	}
	Plots = &ArgType{
		name:    "Plots",
		accepts: is[civ.Plots],
	}
	City = &ArgType{
		name: "City",
		accepts: func(v any) bool {
			return is[*Deferred[civ.City]](v)
		},
	}
	Player = infoType[civ.PlayerID]("Player")

	Building    = infoType[civ.BuildingType]("Building")
	Unit        = infoType[civ.UnitType]("Unit")
	Tech        = infoType[civ.TechType]("Tech")
	Era         = infoType[civ.EraType]("Era")
	Project     = infoType[civ.ProjectType]("Project")
	Bonus       = infoType[civ.BonusType]("Bonus")
	Route       = infoType[civ.RouteType]("Route")
	Improvement = infoType[civ.ImprovementType]("Improvement")
	Corporation = infoType[civ.CorporationType]("Corporation")
	Specialist  = infoType[civ.SpecialistType]("Specialist")

	CultureLevel = infoType[civ.CultureLevelType]("CultureLevel")
)
