//go:build !js

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net/http"
	"time"
)

// Native implements Transport over net/http. It is safe for concurrent
// use: http.Client multiplexes in-flight requests across connections and
// the backend itself holds no mutable state.
type Native struct {
	http *http.Client
}

// NewNative creates the native backend. A nil httpClient means a default
// client; deadlines come from the request context.
func NewNative(httpClient *http.Client) *Native {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Native{http: httpClient}
}

// New returns the backend for this build.
func New() Transport {
	return NewNative(nil)
}

func (n *Native) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, NewError(ConnectFailed, err)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := n.http.Do(httpReq)
	if err != nil {
		return nil, NewError(classify(err), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(classify(err), err)
	}

	header := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		header[k] = resp.Header.Get(k)
	}

	return &Response{Status: resp.StatusCode, Header: header, Body: data}, nil
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled):
		return Cancelled
	case errors.Is(err, context.DeadlineExceeded):
		return TimedOut
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return TLSError
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return TLSError
	}
	var unkErr x509.UnknownAuthorityError
	if errors.As(err, &unkErr) {
		return TLSError
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimedOut
	}

	return ConnectFailed
}

func (n *Native) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewError(TimedOut, ctx.Err())
		}
		return NewError(Cancelled, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (n *Native) Now() time.Time {
	return time.Now()
}
