// Package wavesolve translates a declarative JSON description of a binary
// (0/1) assignment optimization problem into an integer program, delegates
// the combinatorial search to a solving engine, and reports the outcome as a
// single JSON document.
//
// wavesolve is a single-shot batch translator: one request per invocation,
// no retries, no state across requests. The typical entry point is Run,
// which owns one full request lifecycle:
//   - parse and validate the model (wavesolve/model)
//   - compile constraints and objective into sparse linear relations
//     (wavesolve/program)
//   - solve under a wall-clock budget (wavesolve/engine)
//   - map the engine outcome onto the output contract and serialize it
//
// Any fault along the way converts uniformly into the error record with
// process exit code 1.
package wavesolve
