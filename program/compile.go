package program

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/warelogic/wavesolve/logger"
	"github.com/warelogic/wavesolve/model"
)

// Compile translates a validated model into an integer program.
//
// Constraints compile in sorted-name order so that repeated runs over the
// same document build identical programs. For each entry the relation keys
// are scanned in priority order equal, min, max and only the first one
// present applies. An entry with no relation key at all compiles to nothing:
// it restricts nothing, which is a model-authoring convention and not an
// error.
//
// Compile never fails; an out-of-range bound is the engine's to report as
// infeasibility.
func Compile(m *model.Model) *Program {
	log := logger.Logger()

	vars := m.VariableNames()
	index := make(map[string]uint, len(vars))
	for i, name := range vars {
		index[name] = uint(i)
	}

	p := &Program{
		Vars:    vars,
		Boolean: make(map[string]bool, len(vars)),
	}
	for _, name := range vars {
		if m.Variables[name].Boolean {
			p.Boolean[name] = true
		}
	}

	referenced := bitset.New(uint(len(vars)))
	skipped := 0
	for _, name := range m.ConstraintNames() {
		op, bound, ok := relationOf(m.Constraints[name])
		if !ok {
			skipped++
			continue
		}
		expr := gather(m, vars, name)
		for _, t := range expr {
			referenced.Set(index[t.Var])
		}
		p.Relations = append(p.Relations, Relation{Name: name, Expr: expr, Op: op, Bound: bound})
	}

	p.Objective = gather(m, vars, m.Objective)
	for _, t := range p.Objective {
		referenced.Set(index[t.Var])
	}

	log.Debug().
		Int("variables", len(vars)).
		Int("relations", len(p.Relations)).
		Int("skipped", skipped).
		Uint("free", uint(len(vars))-referenced.Count()).
		Str("objective", m.Objective).
		Msg("compiled program")

	return p
}

// relationOf resolves the equal > min > max precedence: the first relation
// key present wins and the others are ignored.
func relationOf(c *model.Constraint) (Op, float64, bool) {
	switch {
	case c.Equal != nil:
		return Eq, *c.Equal, true
	case c.Min != nil:
		return Ge, *c.Min, true
	case c.Max != nil:
		return Le, *c.Max, true
	default:
		return 0, 0, false
	}
}

// gather builds the sparse sum for one dimension: one term per variable
// whose coefficient map carries the dimension name, in sorted variable
// order.
func gather(m *model.Model, vars []string, dim string) LinearExpression {
	var expr LinearExpression
	for _, name := range vars {
		if coeff, ok := m.Variables[name].Coefficients[dim]; ok {
			expr = append(expr, Term{Var: name, Coeff: coeff})
		}
	}
	return expr
}
