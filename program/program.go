// Package program holds the compiled form of a model: sparse linear
// relations over {0,1} variables and a linear minimization objective, ready
// to hand to a solving engine.
package program

// Op is the relational operator of a compiled constraint.
type Op uint8

const (
	Eq Op = iota
	Ge
	Le
)

// String returns the usual notation for the operator.
func (op Op) String() string {
	switch op {
	case Eq:
		return "=="
	case Ge:
		return ">="
	case Le:
		return "<="
	default:
		return "unknown"
	}
}

// A Term is one weighted variable of a linear expression.
type Term struct {
	Var   string
	Coeff float64
}

// A LinearExpression is a sparse weighted sum: it carries terms only for the
// variables that declare a coefficient under the relevant dimension.
type LinearExpression []Term

// A Relation bounds a linear expression against a constant.
type Relation struct {
	Name  string
	Expr  LinearExpression
	Op    Op
	Bound float64
}

// Program is the integer program handed to the solving engine. Every
// variable's domain is {0,1}.
type Program struct {
	// Vars lists every declared variable name in deterministic order,
	// including variables no relation or objective touches.
	Vars []string

	// Boolean tags the variables the input declared under "integers". The
	// tag does not change the solved domain.
	Boolean map[string]bool

	Relations []Relation

	// Objective is minimized. An empty expression is the constant zero: the
	// program is still solved, and any feasible point is optimal.
	Objective LinearExpression
}
