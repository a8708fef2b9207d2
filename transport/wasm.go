//go:build js && wasm

package transport

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
	"time"
)

// Worker implements Transport inside a single-threaded cooperative
// sandbox (a browser or edge worker). Do issues a fetch call and parks
// the calling goroutine on a channel until the event loop delivers the
// result; only the goroutine suspends, never the loop. Sleep schedules a
// setTimeout wake-up the same way. Completion order across suspended
// tasks is whatever order the loop settles the underlying promises.
type Worker struct{}

func NewWorker() *Worker {
	return &Worker{}
}

// New returns the backend for this build.
func New() Transport {
	return NewWorker()
}

func (w *Worker) Do(ctx context.Context, req *Request) (*Response, error) {
	abort := js.Global().Get("AbortController").New()

	opts := map[string]interface{}{
		"method": req.Method,
		"signal": abort.Get("signal"),
	}
	if len(req.Header) > 0 {
		headers := make(map[string]interface{}, len(req.Header))
		for k, v := range req.Header {
			headers[k] = v
		}
		opts["headers"] = headers
	}
	if len(req.Body) > 0 {
		buf := js.Global().Get("Uint8Array").New(len(req.Body))
		js.CopyBytesToJS(buf, req.Body)
		opts["body"] = buf
	}

	jsResp, err := w.settle(ctx, abort, js.Global().Call("fetch", req.URL, js.ValueOf(opts)))
	if err != nil {
		return nil, err
	}

	raw, err := w.settle(ctx, abort, jsResp.Call("arrayBuffer"))
	if err != nil {
		return nil, err
	}
	arr := js.Global().Get("Uint8Array").New(raw)
	body := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(body, arr)

	header := make(map[string]string)
	collect := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		header[args[1].String()] = args[0].String()
		return nil
	})
	jsResp.Get("headers").Call("forEach", collect)
	collect.Release()

	return &Response{
		Status: jsResp.Get("status").Int(),
		Header: header,
		Body:   body,
	}, nil
}

// settle parks the goroutine until the promise resolves or the context
// ends. On context end it aborts the in-flight fetch and waits for the
// rejection, so the callbacks are never invoked after release.
func (w *Worker) settle(ctx context.Context, abort js.Value, promise js.Value) (js.Value, error) {
	resCh := make(chan js.Value, 1)
	errCh := make(chan js.Value, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			resCh <- args[0]
		} else {
			resCh <- js.Undefined()
		}
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			errCh <- args[0]
		} else {
			errCh <- js.Undefined()
		}
		return nil
	})
	defer onResolve.Release()
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case v := <-resCh:
		return v, nil
	case e := <-errCh:
		return js.Undefined(), NewError(classifyJS(ctx, e), jsError(e))
	case <-ctx.Done():
		abort.Call("abort")
		select {
		case <-resCh:
		case <-errCh:
		}
		return js.Undefined(), NewError(cancelKind(ctx), ctx.Err())
	}
}

// classifyJS mirrors the native kinds where the sandbox distinguishes
// them and collapses everything else to Sandbox.
func classifyJS(ctx context.Context, e js.Value) ErrorKind {
	if ctx.Err() != nil {
		return cancelKind(ctx)
	}
	if e.Type() == js.TypeObject && e.Get("name").Type() == js.TypeString &&
		e.Get("name").String() == "AbortError" {
		return Cancelled
	}
	return Sandbox
}

func cancelKind(ctx context.Context) ErrorKind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimedOut
	}
	return Cancelled
}

func jsError(e js.Value) error {
	if e.Type() == js.TypeObject && e.Get("message").Type() == js.TypeString {
		return fmt.Errorf("%s", e.Get("message").String())
	}
	return fmt.Errorf("%s", e.String())
}

func (w *Worker) Sleep(ctx context.Context, d time.Duration) error {
	done := make(chan struct{}, 1)
	wake := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- struct{}{}
		return nil
	})
	defer wake.Release()

	id := js.Global().Call("setTimeout", wake, d.Milliseconds())

	select {
	case <-ctx.Done():
		js.Global().Call("clearTimeout", id)
		return NewError(cancelKind(ctx), ctx.Err())
	case <-done:
		return nil
	}
}

func (w *Worker) Now() time.Time {
	return time.Now()
}
