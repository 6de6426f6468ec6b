package reconcile

import "fmt"

// Outcome classifies how a synchronization ended.
type Outcome int

const (
	// Failed means mapping or the store returned an error (or panicked).
	Failed Outcome = iota
	// NoOp means no record qualified for the operation.
	NoOp
	// Applied means the batched write went through.
	Applied
	// Rejected means the operation was outside the supported set; the store was not touched.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case NoOp:
		return "noop"
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the immutable report returned from every synchronization attempt.
type Result struct {
	op       Operation
	outcome  Outcome
	affected int64
	message  string
	err      error
}

func appliedResult(op Operation, affected int64) Result {
	return Result{
		op:       op,
		outcome:  Applied,
		affected: affected,
		message:  fmt.Sprintf("%d entities %s.", affected, op.past()),
	}
}

func noopResult(op Operation) Result {
	var message string
	switch op {
	case Add:
		message = "No new entities to add."
	case Update:
		message = "No entities to update."
	case Delete:
		message = "No entities to delete."
	default:
		message = "Nothing to synchronize."
	}
	return Result{op: op, outcome: NoOp, message: message}
}

func failedResult(op Operation, err error) Result {
	var message string
	switch op {
	case Add:
		message = "Failed to add entities."
	case Update:
		message = "Failed to update entities."
	case Delete:
		message = "Failed to delete entities."
	default:
		message = "Failed to synchronize entities."
	}
	return Result{op: op, outcome: Failed, message: message, err: err}
}

func rejectedResult(op Operation) Result {
	return Result{
		op:      op,
		outcome: Rejected,
		message: "Invalid operation.",
		err:     fmt.Errorf("%w: %s", ErrUnsupportedOperation, op),
	}
}

// Success reports whether the operation was applied. NoOp, Failed and Rejected results are all unsuccessful.
func (r Result) Success() bool { return r.outcome == Applied }

func (r Result) Operation() Operation { return r.op }

func (r Result) Outcome() Outcome { return r.outcome }

// Affected is the number of rows written; zero unless the result is [Applied].
func (r Result) Affected() int64 { return r.affected }

func (r Result) Message() string { return r.message }

// Err is the failure cause for [Failed] and [Rejected] results and nil otherwise.
func (r Result) Err() error { return r.err }

func (r Result) String() string { return r.message }
