package victory

import (
	"iter"
	"slices"
)

// Reducer folds mapped item values into a single number.
type Reducer func(values []float64) float64

func SumReducer(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func AvgReducer(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return SumReducer(values) / float64(len(values))
}

// AggregateValue is the untyped view of an Aggregate. The argument processor
// accepts any AggregateValue in place of a scalar objective value.
type AggregateValue interface {
	EvalAny(mapper func(item any) float64) float64
	ItemsAny() []any
}

// Aggregate is a lazily materialized collection. The source is drained on
// the first Eval, All or Contains call and the items are kept afterwards.
type Aggregate[T any] struct {
	source   iter.Seq[T]
	reduce   Reducer
	items    []T
	resolved bool
}

func NewAggregate[T any](source iter.Seq[T], reduce Reducer) *Aggregate[T] {
	if reduce == nil {
		reduce = SumReducer
	}
	return &Aggregate[T]{source: source, reduce: reduce}
}

func Sum[T any](items ...T) *Aggregate[T] {
	return NewAggregate(slices.Values(items), SumReducer)
}

func Avg[T any](items ...T) *Aggregate[T] {
	return NewAggregate(slices.Values(items), AvgReducer)
}

func SumOf[T any](source iter.Seq[T]) *Aggregate[T] {
	return NewAggregate(source, SumReducer)
}

func AvgOf[T any](source iter.Seq[T]) *Aggregate[T] {
	return NewAggregate(source, AvgReducer)
}

func (a *Aggregate[T]) materialize() []T {
	if !a.resolved {
		if a.source != nil {
			a.items = slices.Collect(a.source)
		}
		a.source = nil
		a.resolved = true
	}
	return a.items
}

// Resolved reports whether the source has been drained.
func (a *Aggregate[T]) Resolved() bool {
	return a.resolved
}

// Items returns the materialized items without triggering materialization.
func (a *Aggregate[T]) Items() []T {
	if !a.resolved {
		return nil
	}
	return slices.Clone(a.items)
}

func (a *Aggregate[T]) Eval(mapper func(item T) float64) float64 {
	items := a.materialize()
	values := make([]float64, len(items))
	for i, item := range items {
		values[i] = mapper(item)
	}
	return a.reduce(values)
}

func (a *Aggregate[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range a.materialize() {
			if !yield(item) {
				return
			}
		}
	}
}

func (a *Aggregate[T]) ContainsFunc(match func(item T) bool) bool {
	return slices.ContainsFunc(a.materialize(), match)
}

func (a *Aggregate[T]) EvalAny(mapper func(item any) float64) float64 {
	return a.Eval(func(item T) float64 { return mapper(item) })
}

func (a *Aggregate[T]) ItemsAny() []any {
	items := a.materialize()
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func Contains[T comparable](a *Aggregate[T], item T) bool {
	return slices.Contains(a.materialize(), item)
}
