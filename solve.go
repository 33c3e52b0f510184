package wavesolve

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/warelogic/wavesolve/engine"
	"github.com/warelogic/wavesolve/logger"
	"github.com/warelogic/wavesolve/model"
	"github.com/warelogic/wavesolve/program"
)

// Run owns one full request: it reads a model document from r, solves it and
// writes exactly one JSON line to w. The returned value is the process exit
// code: 0 for every well-formed solution, including infeasible, model
// invalid and unknown verdicts; 1 when the error record is produced.
func Run(r io.Reader, w io.Writer, opts ...Option) int {
	log := logger.Logger()

	sol, err := run(r, opts...)
	if err != nil {
		log.Error().Err(err).Msg("request failed")
		sol = errorSolution(err)
	}
	if werr := writeSolution(w, sol); werr != nil {
		log.Error().Err(werr).Msg("writing solution")
		return 1
	}
	if sol.Status == StatusError {
		return 1
	}
	return 0
}

// Fail converts a fault that precedes the request lifecycle, such as an
// unreadable input path, into the output contract: the error record is still
// written as the single JSON line and the matching exit code returned.
func Fail(w io.Writer, err error) int {
	log := logger.Logger()
	log.Error().Err(err).Msg("request failed")
	if werr := writeSolution(w, errorSolution(err)); werr != nil {
		log.Error().Err(werr).Msg("writing solution")
	}
	return 1
}

// run is the non-error path of a request; every fault, including panics from
// the compiler or the engine, surfaces as the returned error.
func run(r io.Reader, opts ...Option) (sol Solution, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fault: %v", rec)
		}
	}()

	cfg, err := NewConfig(opts...)
	if err != nil {
		return Solution{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Solution{}, fmt.Errorf("reading input: %w", err)
	}
	m, err := model.Parse(data)
	if err != nil {
		return Solution{}, err
	}
	return solve(m, cfg)
}

// Solve compiles m and runs the engine under the configured budget, mapping
// the engine's outcome onto the output contract.
func Solve(m *model.Model, opts ...Option) (Solution, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return Solution{}, err
	}
	return solve(m, cfg)
}

func solve(m *model.Model, cfg Config) (Solution, error) {
	log := logger.Logger()

	p := program.Compile(m)

	start := time.Now()
	res, err := cfg.Engine.Solve(p, cfg.TimeLimit)
	if err != nil {
		return Solution{}, fmt.Errorf("solving engine: %w", err)
	}
	log.Info().
		Stringer("outcome", res.Outcome).
		Dur("took", time.Since(start)).
		Msg("solved")

	// Only optimal and feasible carry an assignment; under every other
	// verdict whatever partial state the engine holds is dropped.
	switch res.Outcome {
	case engine.Optimal:
		return assigned(StatusOptimal, res), nil
	case engine.Feasible:
		return assigned(StatusFeasible, res), nil
	case engine.Infeasible:
		return Solution{Status: StatusInfeasible}, nil
	case engine.Invalid:
		return Solution{Status: StatusModelInvalid}, nil
	default:
		return Solution{Status: StatusUnknown}, nil
	}
}

func assigned(status Status, res engine.Result) Solution {
	obj := res.Objective
	return Solution{
		Feasible: true,
		Status:   status,
		Result:   &obj,
		Values:   res.Values,
	}
}

func writeSolution(w io.Writer, sol Solution) error {
	data, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
