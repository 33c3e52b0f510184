package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crillab/gophersat/maxsat"
	"github.com/crillab/gophersat/solver"

	"github.com/warelogic/wavesolve/logger"
	"github.com/warelogic/wavesolve/program"
)

// maxWeight bounds engine weights to the integers float64 represents
// exactly.
const maxWeight = 1 << 53

var (
	errNotIntegral = errors.New("coefficient not representable as an engine weight")
	errConstFalse  = errors.New("relation is constant false")
)

// MaxSat solves programs with gophersat's weighted partial MaxSAT solver.
//
// Each {0,1} variable becomes a named literal, registered through a
// tautology clause so that variables no relation touches still receive a
// value. Relations become hard pseudo-boolean constraints: ">=" is the
// engine's native form, "<=" is encoded over negated coefficients and "=="
// as the conjunction of both. The minimization objective becomes weighted
// soft unit clauses. The engine is integer-weighted: a program whose
// coefficients or bounds are not exactly representable as integers is
// reported as Invalid.
type MaxSat struct{}

// NewMaxSat returns the gophersat-backed engine.
func NewMaxSat() *MaxSat {
	return &MaxSat{}
}

// Solve encodes p and searches under the wall-clock limit. The underlying
// solver streams each incumbent it finds; when the timer fires the search is
// told to stop and the last incumbent, if any, decides between Feasible and
// Unknown.
func (e *MaxSat) Solve(p *program.Program, limit time.Duration) (Result, error) {
	enc, err := encode(p)
	switch {
	case errors.Is(err, errNotIntegral):
		return Result{Outcome: Invalid}, nil
	case errors.Is(err, errConstFalse):
		return Result{Outcome: Infeasible}, nil
	case err != nil:
		return Result{}, err
	}
	if len(enc.constrs) == 0 {
		// No variables and nothing to restrict: the zero objective is
		// trivially optimal.
		return Result{Outcome: Optimal, Values: map[string]int{}}, nil
	}

	pb := maxsat.New(enc.constrs...)
	last, incumbent, err := search(pb.Solver().Optimal, limit)
	if err != nil {
		return Result{}, err
	}
	return interpret(p, enc.offset, last, incumbent), nil
}

// search drives one optimality run under the wall-clock limit. optimal is
// the solver's Optimal method: it streams every incumbent on results, may be
// told to stop early, and closes results before returning its verdict.
func search(optimal func(results chan solver.Result, stop chan struct{}) solver.Result, limit time.Duration) (last solver.Result, incumbent *solver.Result, err error) {
	log := logger.Logger()

	results := make(chan solver.Result)
	final := make(chan solver.Result, 1)
	fault := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fault <- fmt.Errorf("engine fault: %v", r)
			}
		}()
		final <- optimal(results, stop)
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()
	deadline := timer.C

	for {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			incumbent = &r
		case <-deadline:
			log.Debug().Dur("limit", limit).Msg("time budget exhausted, stopping search")
			deadline = nil
			close(stop)
		case err = <-fault:
			return solver.Result{}, nil, err
		case last = <-final:
			// The solver closes results before returning; pick up
			// incumbents emitted in the meantime.
			if results != nil {
				for r := range results {
					incumbent = &r
				}
			}
			return last, incumbent, nil
		}
	}
}

// interpret maps the solver's terminal status onto an outcome. Sat is an
// optimality proof here: gophersat returns Indet, not Sat, when it was
// stopped early.
func interpret(p *program.Program, offset float64, last solver.Result, incumbent *solver.Result) Result {
	switch last.Status {
	case solver.Sat:
		return assignment(p, offset, last, Optimal)
	case solver.Unsat:
		return Result{Outcome: Infeasible}
	default:
		if incumbent != nil {
			return assignment(p, offset, *incumbent, Feasible)
		}
		return Result{Outcome: Unknown}
	}
}

// assignment extracts the solved 0/1 values and the achieved objective.
//
// The solver's model is index-based. Variables enter the solver through the
// tautology clauses, emitted one per program variable before any relation,
// so index i of the model is p.Vars[i]; higher indices are literals the
// encoding introduced internally and carry no model meaning. The model cost
// is the total weight of violated soft clauses, shifted back by the constant
// offset the encoding introduced for negative objective coefficients.
func assignment(p *program.Program, offset float64, r solver.Result, out Outcome) Result {
	values := make(map[string]int, len(p.Vars))
	for i, name := range p.Vars {
		v := 0
		if i < len(r.Model) && r.Model[i] {
			v = 1
		}
		values[name] = v
	}
	return Result{
		Outcome:   out,
		Objective: float64(r.Weight) + offset,
		Values:    values,
	}
}

// pbProgram is the engine-level form: hard and soft MaxSAT constraints plus
// the constant objective offset.
type pbProgram struct {
	constrs []maxsat.Constr
	offset  float64
}

func encode(p *program.Program) (*pbProgram, error) {
	enc := &pbProgram{}

	// One tautology per variable, before any relation: this both forces the
	// solver to assign untouched variables and pins the name-to-index
	// mapping assignment relies on.
	for _, name := range p.Vars {
		enc.constrs = append(enc.constrs, maxsat.HardClause(maxsat.Var(name), maxsat.Not(name)))
	}

	for _, rel := range p.Relations {
		if err := enc.relation(rel); err != nil {
			return nil, fmt.Errorf("constraint %s: %w", rel.Name, err)
		}
	}

	for _, t := range p.Objective {
		w, ok := weight(t.Coeff)
		if !ok {
			return nil, fmt.Errorf("objective term %s: %w", t.Var, errNotIntegral)
		}
		switch {
		case w > 0:
			// Setting the variable costs w.
			enc.constrs = append(enc.constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Not(t.Var)}, w))
		case w < 0:
			// Clearing the variable costs |w|; the offset restores the
			// true objective value.
			enc.constrs = append(enc.constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Var(t.Var)}, -w))
			enc.offset += t.Coeff
		}
	}
	return enc, nil
}

// relation encodes one bounded linear expression as hard pseudo-boolean
// constraints. Zero coefficients contribute nothing and are dropped.
func (enc *pbProgram) relation(rel program.Relation) error {
	bound, ok := weight(rel.Bound)
	if !ok {
		return errNotIntegral
	}
	names := make([]string, 0, len(rel.Expr))
	ws := make([]int, 0, len(rel.Expr))
	for _, t := range rel.Expr {
		w, ok := weight(t.Coeff)
		if !ok {
			return errNotIntegral
		}
		if w == 0 {
			continue
		}
		names = append(names, t.Var)
		ws = append(ws, w)
	}

	switch rel.Op {
	case program.Ge:
		return enc.atLeast(names, ws, bound)
	case program.Le:
		return enc.atLeast(names, negated(ws), -bound)
	case program.Eq:
		if err := enc.atLeast(names, ws, bound); err != nil {
			return err
		}
		return enc.atLeast(names, negated(ws), -bound)
	default:
		return fmt.Errorf("unknown relation operator %d", rel.Op)
	}
}

// atLeast encodes sum(ws·names) >= bound. The engine wants positive
// coefficients, so a negative term w·x rewrites to |w|·(¬x) - |w|, shifting
// the bound by |w|.
func (enc *pbProgram) atLeast(names []string, ws []int, bound int) error {
	lits := make([]maxsat.Lit, 0, len(names))
	coeffs := make([]int, 0, len(ws))
	total := 0
	for i, w := range ws {
		if w > 0 {
			lits = append(lits, maxsat.Var(names[i]))
			coeffs = append(coeffs, w)
			total += w
		} else {
			lits = append(lits, maxsat.Not(names[i]))
			coeffs = append(coeffs, -w)
			bound += -w
			total += -w
		}
	}
	if bound <= 0 {
		// The constant 0 already satisfies the relation.
		return nil
	}
	if total < bound {
		// Even the all-ones assignment falls short. This covers the empty
		// expression against a positive bound, the degenerate case an
		// out-of-range bound produces.
		return errConstFalse
	}
	enc.constrs = append(enc.constrs, maxsat.HardPBConstr(lits, coeffs, bound))
	return nil
}

func negated(ws []int) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = -w
	}
	return out
}

// weight converts a model number to an engine weight. NaN, infinities,
// fractional values and magnitudes beyond 2^53 have no exact integer form.
func weight(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > maxWeight {
		return 0, false
	}
	return int(v), true
}
