// Package dispatch owns the process-wide command queue and its worker.
//
// Callers submit raw text lines with a result callback and get control
// back immediately. A single worker goroutine serializes intake: it pops
// one submission at a time, splits it on the pipe delimiter, and routes it
// either to a pipeline run (multiple segments) or straight to a single
// command invocation. Invocations themselves run on a bounded pool, so the
// worker never waits for a handler.
//
// Delivery guarantees:
//   - The callback fires exactly once per submission, on every path,
//     including binding failures and handler panics.
//   - An input matching no registered alias completes with
//     exec.OutcomeUnhandled and a nil payload.
//   - A fault in one command never reaches the worker or any other
//     in-flight command.
//
// Lifecycle: Start begins processing and fails if called twice. Stop is
// idempotent and irreversible; queued items are abandoned without a
// callback, while in-flight invocations run to completion and still
// deliver theirs.
package dispatch
