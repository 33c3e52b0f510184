// Package engine abstracts the external solving engine performing the
// combinatorial search over a compiled program. The engine's internal search
// algorithm, propagation and parallelism are out of scope here; this layer
// only depends on the outcome categories and, when one exists, the returned
// assignment.
package engine

import (
	"time"

	"github.com/warelogic/wavesolve/program"
)

// Outcome is the engine's verdict on a program. The categories are mutually
// exclusive.
type Outcome uint8

const (
	// Unknown means the engine stopped with neither a proof nor an
	// incumbent, typically because the time budget ran out first.
	Unknown Outcome = iota

	// Optimal means a solution was found and proven optimal.
	Optimal

	// Feasible means the budget ran out with an incumbent in hand but no
	// optimality proof.
	Feasible

	// Infeasible means the engine proved that no {0,1} assignment satisfies
	// the relations.
	Infeasible

	// Invalid means the program is structurally invalid for the engine. It
	// is a normal outcome, not a fault.
	Invalid
)

// String returns the outcome category name.
func (o Outcome) String() string {
	switch o {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result carries the outcome of one search and, for Optimal and Feasible
// only, the achieved objective value and the value assigned to each
// variable.
type Result struct {
	Outcome   Outcome
	Objective float64
	Values    map[string]int
}

// Engine is the external collaborator. Solve blocks the caller for at most
// limit and returns a Result for every run the engine survives; a non-nil
// error means the engine itself faulted, which is distinct from the Invalid
// outcome.
type Engine interface {
	Solve(p *program.Program, limit time.Duration) (Result, error)
}
