// Package transport is the seam between the orchestration core and the
// runtime it happens to run on. The same three capabilities (perform an
// HTTP request, sleep, read the clock) are implemented once per runtime:
// a native backend over net/http and a backend for the js/wasm sandbox
// over its fetch API. Exactly one backend is linked into a build.
package transport

import (
	"context"
	"fmt"
	"time"
)

// Request is a runtime-independent HTTP request.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// Response is a runtime-independent HTTP response. The body is fully
// read before the response is returned.
type Response struct {
	Status int
	Header map[string]string
	Body   []byte
}

// Transport abstracts the runtime. Do and Sleep are the only suspension
// points of the whole client; everything else is synchronous.
type Transport interface {
	// Do performs the request and suspends the caller until the remote
	// service responds, the context is cancelled, or its deadline passes.
	Do(ctx context.Context, req *Request) (*Response, error)
	// Sleep suspends the caller for d, or until the context is done.
	Sleep(ctx context.Context, d time.Duration) error
	// Now is the clock used for backoff budget accounting.
	Now() time.Time
}

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// ConnectFailed covers DNS, dial and other connectivity failures.
	ConnectFailed ErrorKind = iota
	// TimedOut means the request exceeded its deadline.
	TimedOut
	// TLSError means certificate or handshake failure.
	TLSError
	// Cancelled means the caller cancelled while suspended.
	Cancelled
	// Sandbox is a failure the js/wasm runtime does not classify further.
	Sandbox
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectFailed:
		return "connect failed"
	case TimedOut:
		return "timed out"
	case TLSError:
		return "tls error"
	case Cancelled:
		return "cancelled"
	case Sandbox:
		return "sandbox error"
	}
	return "unknown"
}

// Error is a classified transport failure.
type Error struct {
	Kind  ErrorKind
	cause error
}

func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("transport: %s", e.Kind)
	}
	return fmt.Sprintf("transport: %s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether another attempt can change the outcome.
// Cancellation never retries.
func (e *Error) Retryable() bool {
	return e.Kind != Cancelled
}
