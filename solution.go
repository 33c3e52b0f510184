package wavesolve

import "encoding/json"

// Status is the terminal verdict of one request.
type Status uint8

const (
	// StatusUnknown means the engine reported neither optimality nor any
	// incumbent before the budget ran out.
	StatusUnknown Status = iota
	// StatusOptimal means a solution was found and proven optimal.
	StatusOptimal
	// StatusFeasible means a solution was found but not proven optimal
	// within the budget.
	StatusFeasible
	// StatusInfeasible means no {0,1} assignment satisfies the constraints.
	StatusInfeasible
	// StatusModelInvalid means the compiled program is structurally invalid
	// for the engine.
	StatusModelInvalid
	// StatusError means the request faulted before producing a verdict.
	StatusError
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusModelInvalid:
		return "model_invalid"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// A Solution is the output contract of one request. Values is populated only
// for the two statuses that carry an assignment (optimal, feasible) and Err
// only under the error status.
type Solution struct {
	Feasible bool
	Status   Status
	Result   *float64
	Values   map[string]int
	Err      string
}

// MarshalJSON flattens the solution into a single object: the fixed
// feasible/status/result fields plus one 0/1 entry per variable.
func (s Solution) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.Values)+4)
	doc["feasible"] = s.Feasible
	doc["status"] = s.Status.String()
	if s.Result != nil {
		doc["result"] = *s.Result
	} else {
		doc["result"] = nil
	}
	for name, v := range s.Values {
		doc[name] = v
	}
	if s.Status == StatusError {
		doc["error"] = s.Err
	}
	return json.Marshal(doc)
}

// errorSolution is the uniform conversion of any fault into the output
// contract.
func errorSolution(err error) Solution {
	return Solution{Status: StatusError, Err: err.Error()}
}
