package client

import "fmt"

// Kind is the terminal outcome class of a failed call.
type Kind int

const (
	// Exhausted means every allowed attempt failed with a retryable cause.
	Exhausted Kind = iota
	// NotRetryable means the cause cannot change on retry (e.g. a 400).
	NotRetryable
	// TimedOut means the total wall-time budget ran out.
	TimedOut
	// Cancelled means the caller cancelled while the call was suspended.
	Cancelled
	// BadResponseShape means a 2xx body failed to deserialize; retrying
	// will not change a structurally invalid body.
	BadResponseShape
)

func (k Kind) String() string {
	switch k {
	case Exhausted:
		return "exhausted"
	case NotRetryable:
		return "not retryable"
	case TimedOut:
		return "timed out"
	case Cancelled:
		return "cancelled"
	case BadResponseShape:
		return "bad response shape"
	}
	return "unknown"
}

// Error is the terminal outcome of a failed call: its class, how many
// attempts were made and the last underlying cause. Enough for callers
// to decide whether to retry at a higher level.
type Error struct {
	Kind     Kind
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("client: %s after %d attempt(s)", e.Kind, e.Attempts)
	}
	return fmt.Sprintf("client: %s after %d attempt(s): %v", e.Kind, e.Attempts, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError is a non-2xx HTTP status kept as an error cause.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("service returned status %d", e.Code)
	}
	return fmt.Sprintf("service returned status %d: %s", e.Code, e.Body)
}

// retryableStatus is the fixed library policy for which statuses are
// worth another attempt: 429 plus every 5xx. Callers wanting a different
// policy retry at a higher level using the attempt count in Error.
func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
