// Package errs defines the typed error kinds the core and its
// collaborators raise, per the error handling design: IOError,
// ParseError, EncodingError, SolverError, and SchedulingAssertion.
// Infeasibility is deliberately not here: it is a first-class outcome
// of the scheduler, not a failure (see scheduler.Certificate).
package errs

import "fmt"

// IOError wraps a failure to open or read an input file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a malformed instance or solution file.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s, line %d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Msg)
}

// EncodingError reports that a routing solution referenced an arc that
// does not exist in the built model, or that a route failed to
// reconstruct back to its depot's return operation.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encoding error: %s", e.Msg) }

// SolverError reports an LP backend failure. Backends return it for
// every failure they detect (the gonum backend also for its iteration
// cap), but feaslp.Checker.Solve propagates it only for Unbounded,
// which is fatal; every other non-optimal status is logged and treated
// as feasible, per the documented legacy quirk.
type SolverError struct {
	Status string
	Msg    string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver error (status=%s): %s", e.Status, e.Msg)
}

// SchedulingAssertion reports that the LP declared a routing feasible
// but the reconstructed schedule violates a travel-time or time-window
// bound. This always indicates a bug in the checker or the scheduler,
// never bad input, and is always fatal.
type SchedulingAssertion struct {
	Msg string
}

func (e *SchedulingAssertion) Error() string {
	return fmt.Sprintf("scheduling assertion failed: %s", e.Msg)
}
