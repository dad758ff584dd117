package statemachine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Operator compares the values found at two paths.
type Operator string

// Supported numeric path comparisons.
const (
	NumericGreaterThanPath       Operator = "NumericGreaterThanPath"
	NumericGreaterThanEqualsPath Operator = "NumericGreaterThanEqualsPath"
	NumericLessThanPath          Operator = "NumericLessThanPath"
	NumericLessThanEqualsPath    Operator = "NumericLessThanEqualsPath"
	NumericEqualsPath            Operator = "NumericEqualsPath"
)

var operatorSymbols = map[Operator]string{
	NumericGreaterThanPath:       ">",
	NumericGreaterThanEqualsPath: ">=",
	NumericLessThanPath:          "<",
	NumericLessThanEqualsPath:    "<=",
	NumericEqualsPath:            "==",
}

// Condition is the predicate half of a ChoiceRule.
type Condition struct {
	Variable string
	Operator Operator
	Path     string
}

// NumberGreaterThanPath matches when variable > path.
func NumberGreaterThanPath(variable, path string) Condition {
	return Condition{Variable: variable, Operator: NumericGreaterThanPath, Path: path}
}

// NumberGreaterThanEqualsPath matches when variable >= path.
func NumberGreaterThanEqualsPath(variable, path string) Condition {
	return Condition{Variable: variable, Operator: NumericGreaterThanEqualsPath, Path: path}
}

// NumberLessThanPath matches when variable < path.
func NumberLessThanPath(variable, path string) Condition {
	return Condition{Variable: variable, Operator: NumericLessThanPath, Path: path}
}

// NumberLessThanEqualsPath matches when variable <= path.
func NumberLessThanEqualsPath(variable, path string) Condition {
	return Condition{Variable: variable, Operator: NumericLessThanEqualsPath, Path: path}
}

// NumberEqualsPath matches when variable == path.
func NumberEqualsPath(variable, path string) Condition {
	return Condition{Variable: variable, Operator: NumericEqualsPath, Path: path}
}

// ChoiceRule routes to Next when its condition holds.
type ChoiceRule struct {
	Variable string   `yaml:"variable" json:"variable"`
	Operator Operator `yaml:"operator" json:"operator"`
	Path     string   `yaml:"path" json:"path"`
	Next     string   `yaml:"next" json:"next"`
}

// String renders the rule's predicate, e.g. "$.a > $.b".
func (r ChoiceRule) String() string {
	sym, ok := operatorSymbols[r.Operator]
	if !ok {
		sym = string(r.Operator)
	}
	return fmt.Sprintf("%s %s %s", r.Variable, sym, r.Path)
}

func (r ChoiceRule) validate() error {
	var errs []error
	if _, ok := operatorSymbols[r.Operator]; !ok {
		errs = append(errs, fmt.Errorf("unknown operator %q", r.Operator))
	}
	if !validPath(r.Variable) {
		errs = append(errs, fmt.Errorf("invalid variable path %q", r.Variable))
	}
	if !validPath(r.Path) {
		errs = append(errs, fmt.Errorf("invalid compare path %q", r.Path))
	}
	return errors.Join(errs...)
}

// Matches evaluates the rule against data. Missing or non-numeric operands
// are errors rather than non-matches.
func (r ChoiceRule) Matches(data Data) (bool, error) {
	left, err := numberAt(data, r.Variable)
	if err != nil {
		return false, err
	}
	right, err := numberAt(data, r.Path)
	if err != nil {
		return false, err
	}

	cmp := left.Cmp(right)
	switch r.Operator {
	case NumericGreaterThanPath:
		return cmp > 0, nil
	case NumericGreaterThanEqualsPath:
		return cmp >= 0, nil
	case NumericLessThanPath:
		return cmp < 0, nil
	case NumericLessThanEqualsPath:
		return cmp <= 0, nil
	case NumericEqualsPath:
		return cmp == 0, nil
	default:
		return false, fmt.Errorf("unknown operator %q", r.Operator)
	}
}

// EvaluateChoice returns the next state for a choice state. Rules are tried in
// order and the first match wins; otherwise the default is used.
func EvaluateChoice(s State, data Data) (string, error) {
	if s.Type != StateChoice {
		return "", fmt.Errorf("state %q is %s, not %s", s.Name, s.Type, StateChoice)
	}
	for i, r := range s.Choices {
		ok, err := r.Matches(data)
		if err != nil {
			return "", fmt.Errorf("choice state %q rule %d (%s): %w", s.Name, i, r, err)
		}
		if ok {
			return r.Next, nil
		}
	}
	if s.Default == "" {
		return "", fmt.Errorf("choice state %q: %w", s.Name, ErrNoChoiceMatched)
	}
	return s.Default, nil
}

// validPath accepts "$" and dotted field paths such as "$.a.b".
func validPath(path string) bool {
	if path == "$" {
		return true
	}
	if !strings.HasPrefix(path, "$.") {
		return false
	}
	for _, seg := range strings.Split(path[2:], ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// Lookup resolves a "$.field.sub" path against data.
func Lookup(data Data, path string) (any, bool) {
	if !validPath(path) {
		return nil, false
	}
	if path == "$" {
		return map[string]any(data), true
	}

	var cur any = map[string]any(data)
	for _, seg := range strings.Split(path[2:], ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Data:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// numberAt resolves path to an exact rational so integers beyond 2^53
// compare without rounding.
func numberAt(data Data, path string) (*big.Rat, error) {
	v, ok := Lookup(data, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing", ErrNotNumeric, path)
	}
	n, ok := toRat(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotNumeric, path, v)
	}
	return n, nil
}

func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	case float32:
		r := new(big.Rat).SetFloat64(float64(n))
		return r, r != nil
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	case json.Number:
		return new(big.Rat).SetString(n.String())
	default:
		return nil, false
	}
}
