// Package work defines the result a cooperative, non-blocking work step
// reports back to its driver loop. A step either finishes inside its time
// budget or asks to be resumed later; the two constructors here are the
// entire vocabulary.
//
// All times are time.Duration values.
package work

import "time"

// Result is the outcome of one work step. It is either Finished or
// Unfinished; no other implementations exist.
type Result interface {
	// Done reports whether the step completed within its time budget.
	Done() bool
}

// Finished reports that the step completed. Remaining is the part of the
// time budget the step did not consume; the driver may fold it into the next
// step's budget or discard it.
type Finished struct {
	Remaining time.Duration
}

// Unfinished reports that the step has more to do. The driver should wait at
// least SuggestedSleep before calling the step again.
type Unfinished struct {
	SuggestedSleep time.Duration
}

func (Finished) Done() bool   { return true }
func (Unfinished) Done() bool { return false }

// Finish returns a Finished result carrying the unused time budget.
func Finish(remaining time.Duration) Result {
	return Finished{Remaining: remaining}
}

// Yield returns an Unfinished result asking the driver to wait for
// suggestedSleep before the next step.
func Yield(suggestedSleep time.Duration) Result {
	return Unfinished{SuggestedSleep: suggestedSleep}
}
