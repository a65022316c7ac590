// Package exec turns binder runs into schedulable units of work and
// sequences them into pipelines.
package exec

import "sync"

// Outcome classifies how a dispatched command or pipeline finished.
type Outcome uint8

const (
	// OutcomeSuccess means the handler ran and returned a value.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means binding or the handler failed; the payload is
	// the error.
	OutcomeFailure
	// OutcomeUnhandled means no registered command matched the input.
	// This is a routing result, not a fault; the payload is nil.
	OutcomeUnhandled
)

// String returns a lowercase label for metrics and logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeUnhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Callback delivers the outcome of one submission. It is invoked exactly
// once per submission or per pipeline, on the goroutine that completed the
// work.
type Callback func(outcome Outcome, payload any)

// Once wraps a callback so it fires at most once. Extra invocations are
// dropped silently; combined with the single delivery on every executor
// path this enforces the exactly-once contract.
func Once(cb Callback) Callback {
	if cb == nil {
		return func(Outcome, any) {}
	}
	var once sync.Once
	return func(o Outcome, payload any) {
		once.Do(func() { cb(o, payload) })
	}
}
