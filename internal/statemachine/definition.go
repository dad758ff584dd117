// Package statemachine models a workflow topology as plain data: typed states,
// the transitions between them and the choice rules that pick a branch.
//
// A Definition is built once (see Builder), validated, and then interpreted by
// Run against an Executor. The executor is the only place where work happens:
// the Temporal workflow supplies one backed by activities and timers, the
// LocalExecutor runs tasks in-process, and tests supply stubs. This keeps the
// branch logic testable without any orchestration runtime.
package statemachine

import (
	"errors"
	"fmt"
	"time"
)

// StateType identifies the behaviour of a state.
type StateType string

const (
	// StateTask invokes a task resource; its output replaces the working data.
	StateTask StateType = "Task"

	// StateWait suspends the execution for a fixed duration.
	StateWait StateType = "Wait"

	// StateChoice selects the next state by evaluating rules in order.
	StateChoice StateType = "Choice"
)

// State is a single step of a Definition.
type State struct {
	Name     string        `yaml:"name" json:"name"`
	Type     StateType     `yaml:"type" json:"type"`
	Resource string        `yaml:"resource,omitempty" json:"resource,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
	Choices  []ChoiceRule  `yaml:"choices,omitempty" json:"choices,omitempty"`
	Default  string        `yaml:"default,omitempty" json:"default,omitempty"`
	Next     string        `yaml:"next,omitempty" json:"next,omitempty"`
	End      bool          `yaml:"end,omitempty" json:"end,omitempty"`
}

// Terminal reports whether the execution completes after this state.
func (s State) Terminal() bool { return s.End }

// successors lists every state name reachable in one transition.
func (s State) successors() []string {
	switch s.Type {
	case StateChoice:
		out := make([]string, 0, len(s.Choices)+1)
		for _, r := range s.Choices {
			out = append(out, r.Next)
		}
		if s.Default != "" {
			out = append(out, s.Default)
		}
		return out
	default:
		if s.Next == "" {
			return nil
		}
		return []string{s.Next}
	}
}

// Definition is a complete state machine topology.
type Definition struct {
	Name    string        `yaml:"name" json:"name"`
	StartAt string        `yaml:"startAt" json:"startAt"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	States  []State       `yaml:"states" json:"states"`
}

// State returns the state with the given name.
func (d *Definition) State(name string) (State, bool) {
	for _, s := range d.States {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// Validate checks the definition for structural problems and reports all of
// them at once.
func (d *Definition) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if len(d.States) == 0 {
		errs = append(errs, errors.New("at least one state is required"))
	}

	seen := make(map[string]bool, len(d.States))
	for _, s := range d.States {
		if s.Name == "" {
			errs = append(errs, errors.New("state name is required"))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate state %q", s.Name))
		}
		seen[s.Name] = true
	}

	if _, ok := d.State(d.StartAt); !ok {
		errs = append(errs, fmt.Errorf("startAt: %w %q", ErrUnknownState, d.StartAt))
	}

	terminals := 0
	for _, s := range d.States {
		errs = append(errs, validateState(s, seen)...)
		if s.Terminal() {
			terminals++
		}
	}
	if len(d.States) > 0 && terminals == 0 {
		errs = append(errs, errors.New("at least one terminal state is required"))
	}

	if _, ok := d.State(d.StartAt); ok {
		reached := d.reachable()
		for _, s := range d.States {
			if !reached[s.Name] {
				errs = append(errs, fmt.Errorf("state %q is unreachable from %q", s.Name, d.StartAt))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(errs...))
}

func validateState(s State, known map[string]bool) []error {
	var errs []error
	ref := func(field, target string) {
		if !known[target] {
			errs = append(errs, fmt.Errorf("state %q %s: %w %q", s.Name, field, ErrUnknownState, target))
		}
	}

	switch s.Type {
	case StateTask:
		if s.Resource == "" {
			errs = append(errs, fmt.Errorf("task state %q requires a resource", s.Name))
		}
	case StateWait:
		if s.Duration <= 0 {
			errs = append(errs, fmt.Errorf("wait state %q requires a positive duration", s.Name))
		}
		if s.End {
			errs = append(errs, fmt.Errorf("wait state %q cannot be terminal", s.Name))
		}
	case StateChoice:
		if len(s.Choices) == 0 {
			errs = append(errs, fmt.Errorf("choice state %q requires at least one rule", s.Name))
		}
		if s.Default == "" {
			errs = append(errs, fmt.Errorf("choice state %q requires a default", s.Name))
		} else {
			ref("default", s.Default)
		}
		for i, r := range s.Choices {
			if err := r.validate(); err != nil {
				errs = append(errs, fmt.Errorf("choice state %q rule %d: %w", s.Name, i, err))
			}
			ref(fmt.Sprintf("rule %d", i), r.Next)
		}
		if s.End || s.Next != "" {
			errs = append(errs, fmt.Errorf("choice state %q transitions only through rules", s.Name))
		}
		return errs
	default:
		errs = append(errs, fmt.Errorf("state %q has unknown type %q", s.Name, s.Type))
		return errs
	}

	switch {
	case s.End && s.Next != "":
		errs = append(errs, fmt.Errorf("state %q cannot be terminal and have next", s.Name))
	case !s.End && s.Next == "":
		errs = append(errs, fmt.Errorf("state %q requires next or end", s.Name))
	case s.Next != "":
		ref("next", s.Next)
	}
	return errs
}

func (d *Definition) reachable() map[string]bool {
	reached := map[string]bool{d.StartAt: true}
	queue := []string{d.StartAt}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		s, ok := d.State(name)
		if !ok {
			continue
		}
		for _, next := range s.successors() {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reached
}
