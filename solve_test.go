package wavesolve_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/warelogic/wavesolve"
	"github.com/warelogic/wavesolve/engine"
	"github.com/warelogic/wavesolve/program"
)

// runJSON runs one full request and decodes the single output line.
func runJSON(t *testing.T, input string, opts ...wavesolve.Option) (map[string]interface{}, int) {
	t.Helper()
	var out bytes.Buffer
	code := wavesolve.Run(strings.NewReader(input), &out, opts...)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), "output %q", out.String())
	require.True(t, strings.HasSuffix(out.String(), "\n"))
	return doc, code
}

func TestRunInfeasibleScenario(t *testing.T) {
	doc, code := runJSON(t, `{
		"variables": {
			"a": {"c1": 1, "c2": 1},
			"b": {"c1": 1, "c2": 1}
		},
		"constraints": {
			"c1": {"equal": 2},
			"c2": {"max": 1}
		},
		"integers": []
	}`)

	require.Equal(t, 0, code)
	want := map[string]interface{}{
		"feasible": false,
		"status":   "infeasible",
		"result":   nil,
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestRunTrivialScenario(t *testing.T) {
	doc, code := runJSON(t, `{"variables": {"x": {}}, "constraints": {}, "integers": []}`)

	require.Equal(t, 0, code)
	require.Equal(t, true, doc["feasible"])
	require.Equal(t, "optimal", doc["status"])
	require.Equal(t, 0.0, doc["result"])
	// Any {0,1} value is optimal under the zero objective; the engine's
	// tie-break is not part of the contract.
	require.Contains(t, []interface{}{0.0, 1.0}, doc["x"])
}

func TestRunOptimizes(t *testing.T) {
	doc, code := runJSON(t, `{
		"variables": {
			"a": {"cover": 1, "events": 1},
			"b": {"cover": 1, "events": 2}
		},
		"constraints": {"cover": {"min": 1}},
		"integers": ["a", "b"],
		"optimize": "events"
	}`)

	require.Equal(t, 0, code)
	require.Equal(t, "optimal", doc["status"])
	require.Equal(t, 1.0, doc["result"])
	require.Equal(t, 1.0, doc["a"])
	require.Equal(t, 0.0, doc["b"])
}

func TestRunObjectiveOmission(t *testing.T) {
	doc, code := runJSON(t, `{
		"variables": {"a": {"cover": 1}, "b": {"cover": 1}},
		"constraints": {"cover": {"min": 1}},
		"integers": [],
		"optimize": "no_such_dimension"
	}`)

	require.Equal(t, 0, code)
	require.Equal(t, "optimal", doc["status"])
	require.Equal(t, 0.0, doc["result"])
}

func TestRunSchemaViolation(t *testing.T) {
	doc, code := runJSON(t, `{"constraints": {}, "integers": []}`)

	require.Equal(t, 1, code)
	require.Equal(t, false, doc["feasible"])
	require.Equal(t, "error", doc["status"])
	require.Nil(t, doc["result"])
	msg, ok := doc["error"].(string)
	require.True(t, ok)
	require.NotEmpty(t, msg)
}

func TestRunMalformedInput(t *testing.T) {
	doc, code := runJSON(t, `{"variables": `)

	require.Equal(t, 1, code)
	require.Equal(t, "error", doc["status"])
	require.NotEmpty(t, doc["error"])
}

func TestRunModelInvalid(t *testing.T) {
	doc, code := runJSON(t, `{
		"variables": {"a": {"c1": 0.5}},
		"constraints": {"c1": {"min": 1}},
		"integers": []
	}`)

	require.Equal(t, 0, code)
	require.Equal(t, false, doc["feasible"])
	require.Equal(t, "model_invalid", doc["status"])
	require.Nil(t, doc["result"])
	require.NotContains(t, doc, "a")
}

func TestRunSkipsRelationFreeConstraints(t *testing.T) {
	// An entry with no relation key restricts nothing; the model stays
	// trivially feasible.
	doc, code := runJSON(t, `{
		"variables": {"x": {"loose": 100}},
		"constraints": {"loose": {}},
		"integers": []
	}`)

	require.Equal(t, 0, code)
	require.Equal(t, "optimal", doc["status"])
}

func TestRunIdempotent(t *testing.T) {
	input := `{
		"variables": {
			"a": {"cover": 1, "events": 3},
			"b": {"cover": 1, "events": 1},
			"c": {"cover": 1, "events": 2}
		},
		"constraints": {"cover": {"min": 2}},
		"integers": ["a"]
	}`
	first, code := runJSON(t, input)
	require.Equal(t, 0, code)
	for i := 0; i < 3; i++ {
		doc, code := runJSON(t, input)
		require.Equal(t, 0, code)
		require.Equal(t, first["status"], doc["status"])
		require.Equal(t, first["result"], doc["result"])
	}
}

var errFault = errors.New("engine exploded")

// stubEngine pins the engine outcome so every status branch is reachable
// without a matching hard instance.
type stubEngine struct {
	res   engine.Result
	err   error
	limit time.Duration
}

func (s *stubEngine) Solve(p *program.Program, limit time.Duration) (engine.Result, error) {
	s.limit = limit
	return s.res, s.err
}

func TestStatusMapping(t *testing.T) {
	input := `{"variables": {"x": {}}, "constraints": {}, "integers": []}`
	leaked := map[string]int{"x": 1}

	cases := []struct {
		name       string
		res        engine.Result
		feasible   bool
		status     string
		withResult bool
		withValues bool
	}{
		{"optimal", engine.Result{Outcome: engine.Optimal, Objective: 7, Values: leaked}, true, "optimal", true, true},
		{"feasible", engine.Result{Outcome: engine.Feasible, Objective: 7, Values: leaked}, true, "feasible", true, true},
		{"infeasible", engine.Result{Outcome: engine.Infeasible, Values: leaked}, false, "infeasible", false, false},
		{"invalid", engine.Result{Outcome: engine.Invalid, Values: leaked}, false, "model_invalid", false, false},
		{"unknown", engine.Result{Outcome: engine.Unknown, Values: leaked}, false, "unknown", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, code := runJSON(t, input, wavesolve.WithEngine(&stubEngine{res: tc.res}))

			require.Equal(t, 0, code)
			require.Equal(t, tc.feasible, doc["feasible"])
			require.Equal(t, tc.status, doc["status"])
			if tc.withResult {
				require.Equal(t, 7.0, doc["result"])
			} else {
				require.Nil(t, doc["result"])
			}
			// Even when the engine exposes an assignment, only optimal and
			// feasible may carry it into the output.
			_, present := doc["x"]
			require.Equal(t, tc.withValues, present)
		})
	}
}

func TestEngineFault(t *testing.T) {
	input := `{"variables": {"x": {}}, "constraints": {}, "integers": []}`
	stub := &stubEngine{err: errFault}

	doc, code := runJSON(t, input, wavesolve.WithEngine(stub))
	require.Equal(t, 1, code)
	require.Equal(t, "error", doc["status"])
	require.Contains(t, doc["error"], "engine exploded")
}

func TestTimeLimitReachesEngine(t *testing.T) {
	input := `{"variables": {"x": {}}, "constraints": {}, "integers": []}`
	stub := &stubEngine{res: engine.Result{Outcome: engine.Unknown}}

	_, code := runJSON(t, input, wavesolve.WithEngine(stub), wavesolve.WithTimeLimit(time.Second))
	require.Equal(t, 0, code)
	require.Equal(t, time.Second, stub.limit)
}

func TestFail(t *testing.T) {
	var out bytes.Buffer
	code := wavesolve.Fail(&out, errors.New("opening input: no such file"))
	require.Equal(t, 1, code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, false, doc["feasible"])
	require.Equal(t, "error", doc["status"])
	require.Nil(t, doc["result"])
	require.Contains(t, doc["error"], "no such file")
}

func TestBadOptions(t *testing.T) {
	_, err := wavesolve.NewConfig(wavesolve.WithTimeLimit(0))
	require.Error(t, err)
	_, err = wavesolve.NewConfig(wavesolve.WithEngine(nil))
	require.Error(t, err)
}
