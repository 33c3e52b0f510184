package model

import (
	"encoding/json"
	"fmt"
)

// relations mirrors one constraint entry of the input document. A nil field
// means the relation key is absent.
type relations struct {
	Equal *float64 `json:"equal"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// Parse builds a Model from one input document. It is a pure function: no
// state survives outside the returned model.
//
// The document must carry "variables", "constraints" and "integers";
// "optimize" is optional and falls back to DefaultObjective. Every member of
// "integers" must name a declared variable. Unknown top-level keys are
// ignored.
func Parse(data []byte) (*Model, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	variables, err := field[map[string]map[string]float64](doc, "variables")
	if err != nil {
		return nil, err
	}
	constraints, err := field[map[string]relations](doc, "constraints")
	if err != nil {
		return nil, err
	}
	integers, err := field[[]string](doc, "integers")
	if err != nil {
		return nil, err
	}

	objective := DefaultObjective
	if raw, ok := doc["optimize"]; ok {
		if err := json.Unmarshal(raw, &objective); err != nil {
			return nil, fmt.Errorf("%w: field optimize: %v", ErrSchema, err)
		}
	}

	m := &Model{
		Variables:   make(map[string]*Variable, len(variables)),
		Constraints: make(map[string]*Constraint, len(constraints)),
		Objective:   objective,
	}
	for name, coeffs := range variables {
		m.Variables[name] = &Variable{Name: name, Coefficients: coeffs}
	}
	for name, rel := range constraints {
		m.Constraints[name] = &Constraint{
			Name:  name,
			Equal: rel.Equal,
			Min:   rel.Min,
			Max:   rel.Max,
		}
	}
	for _, name := range integers {
		v, ok := m.Variables[name]
		if !ok {
			return nil, fmt.Errorf("%w: integers references undeclared variable %q", ErrSchema, name)
		}
		v.Boolean = true
	}
	return m, nil
}

// field decodes one required top-level field. JSON null is rejected along
// with missing and mistyped fields: all three leave the model without a
// usable value for a required shape.
func field[T any](doc map[string]json.RawMessage, name string) (T, error) {
	var zero T
	raw, ok := doc[name]
	if !ok {
		return zero, fmt.Errorf("%w: missing required field %s", ErrSchema, name)
	}
	if string(raw) == "null" {
		return zero, fmt.Errorf("%w: field %s must not be null", ErrSchema, name)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%w: field %s: %v", ErrSchema, name, err)
	}
	return out, nil
}
