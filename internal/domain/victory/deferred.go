package victory

import (
	"fmt"
	"slices"
)

// Resolver looks up a value in the current game state. ok is false when the
// value does not exist (yet).
type Resolver[T any] func(args ...any) (value T, ok bool)

// Deferred references a game entity that may not exist when a goal is
// defined. Every call to Resolve performs the lookup again.
type Deferred[T any] struct {
	name    string
	resolve Resolver[T]
	bound   []any
}

func Defer[T any](name string, resolve Resolver[T], bound ...any) *Deferred[T] {
	return &Deferred[T]{name: name, resolve: resolve, bound: slices.Clone(bound)}
}

// Resolve calls the resolver with the bound arguments followed by extra.
func (d *Deferred[T]) Resolve(extra ...any) (T, bool) {
	if d == nil || d.resolve == nil {
		var zero T
		return zero, false
	}
	args := make([]any, 0, len(d.bound)+len(extra))
	args = append(args, d.bound...)
	args = append(args, extra...)
	return d.resolve(args...)
}

func (d *Deferred[T]) Name() string {
	return d.name
}

func (d *Deferred[T]) String() string {
	if len(d.bound) == 0 {
		return d.name + "()"
	}
	return fmt.Sprintf("%s%v", d.name, d.bound)
}
