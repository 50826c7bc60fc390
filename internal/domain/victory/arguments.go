package victory

import (
	"fmt"
	"slices"
	"strings"
)

// Tuple groups the values of one objective when a goal takes more than one
// value per objective, e.g. Tuple{building, 3}.
type Tuple []any

// Objective is one normalized argument tuple. With a split point the tuple is
// also exposed as a head and a tail.
type Objective struct {
	values Tuple
	split  int
}

func NewObjective(values ...any) Objective {
	return Objective{values: slices.Clone(Tuple(values))}
}

func (o Objective) Values() Tuple {
	return slices.Clone(o.values)
}

func (o Objective) Len() int {
	return len(o.values)
}

func (o Objective) At(i int) any {
	return o.values[i]
}

func (o Objective) IsSplit() bool {
	return o.split > 0
}

// Split returns the first k values and the remaining ones. Without a split
// point the whole tuple is the head.
func (o Objective) Split() (head, tail Tuple) {
	if o.split <= 0 {
		return o.Values(), Tuple{}
	}
	return slices.Clone(o.values[:o.split]), slices.Clone(o.values[o.split:])
}

func (o Objective) String() string {
	if o.split > 0 {
		head, tail := o.Split()
		return fmt.Sprintf("(%v, %v)", head, tail)
	}
	return fmt.Sprint(o.values)
}

// Arguments is the result of processing a goal's constructor arguments.
type Arguments struct {
	subject    any
	objectives []Objective
}

func NewArguments(subject any, objectives ...Objective) Arguments {
	return Arguments{subject: subject, objectives: slices.Clone(objectives)}
}

func (a Arguments) Subject() any {
	return a.subject
}

func (a Arguments) HasSubject() bool {
	return a.subject != nil
}

func (a Arguments) Objectives() []Objective {
	return slices.Clone(a.objectives)
}

// Tuples returns the objectives as plain value tuples.
func (a Arguments) Tuples() []Tuple {
	out := make([]Tuple, len(a.objectives))
	for i, o := range a.objectives {
		out[i] = o.Values()
	}
	return out
}

// ArgumentProcessor normalizes the many ways a goal can be called into
// Arguments. It is immutable once built.
type ArgumentProcessor struct {
	types   []*ArgType
	subject *ArgType
	split   int
}

func NewArgumentProcessor(types []*ArgType, subject *ArgType, split int) (*ArgumentProcessor, error) {
	if slices.Contains(types, nil) {
		return nil, fmt.Errorf("%w: nil objective type", ErrConfiguration)
	}
	if len(types) == 0 && subject == nil {
		return nil, fmt.Errorf("%w: no objective or subject type", ErrConfiguration)
	}
	if split != 0 && (split < 0 || split >= len(types)) {
		return nil, fmt.Errorf("%w: objective split %d outside (0, %d)", ErrConfiguration, split, len(types))
	}
	return &ArgumentProcessor{types: slices.Clone(types), subject: subject, split: split}, nil
}

func (p *ArgumentProcessor) ObjectiveTypes() []*ArgType {
	return slices.Clone(p.types)
}

func (p *ArgumentProcessor) SubjectType() *ArgType {
	return p.subject
}

func (p *ArgumentProcessor) ObjectiveSplit() int {
	return p.split
}

// Expected describes the accepted call shape, e.g. "City, (Building, Int)...".
func (p *ArgumentProcessor) Expected() string {
	names := make([]string, len(p.types))
	for i, t := range p.types {
		names[i] = t.name
	}
	var parts []string
	if p.subject != nil {
		parts = append(parts, p.subject.name)
	}
	if len(names) > 0 {
		parts = append(parts, "("+strings.Join(names, ", ")+")...")
	}
	return strings.Join(parts, ", ")
}

func (p *ArgumentProcessor) invalid(format string, args ...any) error {
	return &ValidationError{Expected: p.Expected(), Reason: fmt.Sprintf(format, args...)}
}

func (p *ArgumentProcessor) Process(args ...any) (Arguments, error) {
	var result Arguments
	rest := make([]any, 0, len(args))
	for i, arg := range args {
		if p.subject == nil || !p.subject.Accepts(arg) {
			rest = append(rest, arg)
			continue
		}
		if result.subject != nil {
			return Arguments{}, p.invalid("subject supplied more than once")
		}
		if i != 0 {
			return Arguments{}, p.invalid("subject must be the first argument")
		}
		result.subject = arg
	}
	if p.subject != nil && result.subject == nil {
		return Arguments{}, p.invalid("missing %s subject", p.subject.name)
	}

	tuples, err := p.tuples(rest)
	if err != nil {
		return Arguments{}, err
	}
	for _, tuple := range tuples {
		values, err := p.validate(tuple)
		if err != nil {
			return Arguments{}, err
		}
		result.objectives = append(result.objectives, Objective{values: values, split: p.split})
	}

	if result.subject == nil && len(result.objectives) == 0 {
		return Arguments{}, p.invalid("no subject or objectives")
	}
	return result, nil
}

// tuples groups the remaining arguments into objective tuples of the
// declared arity.
func (p *ArgumentProcessor) tuples(args []any) ([]Tuple, error) {
	arity := len(p.types)
	if len(args) == 0 {
		defaults, ok := p.pad(nil)
		if arity == 0 || !ok {
			return nil, nil
		}
		return []Tuple{defaults}, nil
	}
	if arity == 0 {
		return nil, p.invalid("unexpected argument %v", args[0])
	}

	flat := !slices.ContainsFunc(args, is[Tuple])
	if arity > 1 && flat {
		tuple, ok := p.pad(Tuple(args))
		if !ok {
			return nil, p.invalid("got %d values for %d positions", len(args), arity)
		}
		return []Tuple{tuple}, nil
	}

	out := make([]Tuple, 0, len(args))
	for _, arg := range args {
		tuple, isTuple := arg.(Tuple)
		if !isTuple {
			if arity != 1 {
				return nil, p.invalid("bare value %v needs a tuple", arg)
			}
			tuple = Tuple{arg}
		}
		padded, ok := p.pad(tuple)
		if !ok {
			return nil, p.invalid("tuple %v has %d values for %d positions", tuple, len(tuple), arity)
		}
		out = append(out, padded)
	}
	return out, nil
}

// pad fills missing trailing positions with defaults. ok is false if the
// tuple is too long or a missing position has no default.
func (p *ArgumentProcessor) pad(tuple Tuple) (Tuple, bool) {
	if len(tuple) > len(p.types) {
		return nil, false
	}
	out := slices.Clone(tuple)
	for _, t := range p.types[len(tuple):] {
		v, ok := t.Default()
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func (p *ArgumentProcessor) validate(tuple Tuple) (Tuple, error) {
	out := make(Tuple, len(tuple))
	for i, v := range tuple {
		normalized, ok := p.types[i].normalize(v)
		if !ok {
			return nil, p.invalid("value %v (%T) at position %d is not %s", v, v, i+1, p.types[i].name)
		}
		out[i] = normalized
	}
	return out, nil
}

// ArgumentProcessorBuilder stages the configuration of an ArgumentProcessor.
type ArgumentProcessorBuilder struct {
	types   []*ArgType
	subject *ArgType
	split   int
}

func NewArgumentProcessorBuilder() *ArgumentProcessorBuilder {
	return &ArgumentProcessorBuilder{}
}

func (b *ArgumentProcessorBuilder) WithSubjectType(t *ArgType) *ArgumentProcessorBuilder {
	b.subject = t
	return b
}

func (b *ArgumentProcessorBuilder) WithObjectiveTypes(types ...*ArgType) *ArgumentProcessorBuilder {
	b.types = append(b.types, types...)
	return b
}

func (b *ArgumentProcessorBuilder) WithObjectiveSplit(split int) *ArgumentProcessorBuilder {
	b.split = split
	return b
}

// Initialized reports whether objective types or a subject type were set.
func (b *ArgumentProcessorBuilder) Initialized() bool {
	return len(b.types) > 0 || b.subject != nil
}

func (b *ArgumentProcessorBuilder) Build() (*ArgumentProcessor, error) {
	if !b.Initialized() {
		return nil, fmt.Errorf("%w: builder has no objective types", ErrConfiguration)
	}
	return NewArgumentProcessor(b.types, b.subject, b.split)
}

func mustBuild(b *ArgumentProcessorBuilder) *ArgumentProcessor {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
