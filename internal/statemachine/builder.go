package statemachine

import (
	"fmt"
	"time"
)

// Builder assembles a Definition. Methods record problems instead of
// failing early; Build reports them together with validation errors.
type Builder struct {
	def     Definition
	indexes map[string]int
	errs    []error
}

// NewBuilder starts a definition with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		def:     Definition{Name: name},
		indexes: make(map[string]int),
	}
}

// StartAt sets the initial state.
func (b *Builder) StartAt(name string) *Builder {
	b.def.StartAt = name
	return b
}

// Timeout sets the overall execution timeout.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.def.Timeout = d
	return b
}

// Task adds a task state invoking resource. The first state added becomes
// the start state unless StartAt is called.
func (b *Builder) Task(name, resource string) *StateBuilder {
	return &StateBuilder{b: b, idx: b.add(State{Name: name, Type: StateTask, Resource: resource})}
}

// Wait adds a wait state that pauses for d.
func (b *Builder) Wait(name string, d time.Duration) *StateBuilder {
	return &StateBuilder{b: b, idx: b.add(State{Name: name, Type: StateWait, Duration: d})}
}

// Choice adds a choice state.
func (b *Builder) Choice(name string) *ChoiceBuilder {
	return &ChoiceBuilder{b: b, idx: b.add(State{Name: name, Type: StateChoice})}
}

// Build validates and returns the definition.
func (b *Builder) Build() (*Definition, error) {
	def := b.def
	def.States = append([]State(nil), b.def.States...)
	if def.StartAt == "" && len(def.States) > 0 {
		def.StartAt = def.States[0].Name
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, b.errs)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (b *Builder) add(s State) int {
	if _, dup := b.indexes[s.Name]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate state %q", s.Name))
	}
	b.def.States = append(b.def.States, s)
	idx := len(b.def.States) - 1
	b.indexes[s.Name] = idx
	return idx
}

// StateBuilder finishes a task or wait state.
type StateBuilder struct {
	b   *Builder
	idx int
}

// Next sets the successor state.
func (s *StateBuilder) Next(name string) *Builder {
	s.b.def.States[s.idx].Next = name
	return s.b
}

// End marks the state as terminal.
func (s *StateBuilder) End() *Builder {
	s.b.def.States[s.idx].End = true
	return s.b
}

// ChoiceBuilder adds rules to a choice state.
type ChoiceBuilder struct {
	b   *Builder
	idx int
}

// When appends a rule; rules are evaluated in the order they are added.
func (c *ChoiceBuilder) When(cond Condition, next string) *ChoiceBuilder {
	st := &c.b.def.States[c.idx]
	st.Choices = append(st.Choices, ChoiceRule{
		Variable: cond.Variable,
		Operator: cond.Operator,
		Path:     cond.Path,
		Next:     next,
	})
	return c
}

// Otherwise sets the default branch and completes the choice.
func (c *ChoiceBuilder) Otherwise(next string) *Builder {
	c.b.def.States[c.idx].Default = next
	return c.b
}
