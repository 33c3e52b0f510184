// Package model parses and validates the declarative description of a binary
// assignment problem: a set of {0,1} variables carrying sparse coefficient
// maps, a set of named linear constraints, and an objective selector.
package model

import (
	"errors"
	"sort"
)

// DefaultObjective is the dimension minimized when the input document does
// not name one.
const DefaultObjective = "events"

var (
	// ErrMalformed is returned when the input text is not well-formed JSON.
	ErrMalformed = errors.New("malformed input")

	// ErrSchema is returned when a required field is missing or has the wrong
	// shape, or when the document references an undeclared variable.
	ErrSchema = errors.New("invalid model")
)

// A Variable is a {0,1} decision carrying a sparse coefficient map keyed by
// dimension name (a constraint name or the objective selector). Dimensions
// absent from the map are implicitly zero.
type Variable struct {
	Name         string
	Coefficients map[string]float64

	// Boolean marks variables listed under "integers" in the input document.
	// The tag is advisory: every variable is bounded to {0,1} regardless.
	Boolean bool
}

// A Constraint bounds the weighted sum of the variables that carry its name
// as a dimension. At most one relation applies; when several are present the
// precedence is Equal, then Min, then Max.
type Constraint struct {
	Name  string
	Equal *float64
	Min   *float64
	Max   *float64
}

// Model is the in-memory form of one input document. It is built once per
// request and discarded after the solution is serialized.
type Model struct {
	Variables   map[string]*Variable
	Constraints map[string]*Constraint

	// Objective is the dimension name to minimize.
	Objective string
}

// VariableNames returns the declared variable names in sorted order.
func (m *Model) VariableNames() []string {
	names := make([]string, 0, len(m.Variables))
	for name := range m.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConstraintNames returns the declared constraint names in sorted order.
func (m *Model) ConstraintNames() []string {
	names := make([]string, 0, len(m.Constraints))
	for name := range m.Constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
