// Package client is the orchestration layer: it shapes typed requests,
// drives them through the active transport backend, applies retry with
// exponential backoff, classifies failures and returns typed results.
// The same code runs unchanged on the native and the js/wasm backends;
// the only suspension points are the transport's Do and Sleep.
package client

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/hermes/pkg/amount"
	"github.com/vadiminshakov/hermes/pkg/retrier"
	"github.com/vadiminshakov/hermes/transport"
	"github.com/vadiminshakov/hermes/wire"
)

const (
	quotePath = "/v6/quote"
	swapPath  = "/v6/swap"
	pricePath = "/price/v2"
)

// Client talks to a swap aggregation service. It holds no mutable state:
// the handle is safe to share across concurrent calls, each call owns
// its attempt counter on its own stack.
type Client struct {
	baseURL string
	tr      transport.Transport
	policy  retrier.Policy
	header  map[string]string
	lg      *zap.Logger
}

// Option configures a Client at construction.
type Option func(*Client)

// WithTransport overrides the build's default backend (used by tests).
func WithTransport(tr transport.Transport) Option {
	return func(c *Client) {
		c.tr = tr
	}
}

// WithPolicy sets the retry policy for every call of this client.
func WithPolicy(p retrier.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the logger; default is a nop logger.
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		c.lg = lg
	}
}

// WithHeader attaches a header to every request. Authentication headers
// go through here; the client treats them as opaque.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header[key] = value
	}
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL must be non-empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tr:      transport.New(),
		policy:  retrier.New(),
		header:  make(map[string]string),
		lg:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Quote requests a price quote for converting the input amount.
func (c *Client) Quote(ctx context.Context, req wire.QuoteRequest) (*wire.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: NotRetryable, Cause: err}
	}

	body, attempts, err := c.do(ctx, &transport.Request{
		Method: "GET",
		URL:    c.baseURL + quotePath + "?" + req.Query().Encode(),
	})
	if err != nil {
		return nil, err
	}

	quote, derr := wire.DecodeQuoteResponse(body)
	if derr != nil {
		return nil, &Error{Kind: BadResponseShape, Attempts: attempts, Cause: derr}
	}
	return quote, nil
}

// BuildSwap asks the service to build an unsigned swap transaction for a
// previously obtained quote. The returned payload stays opaque.
func (c *Client) BuildSwap(ctx context.Context, req wire.SwapRequest) (*wire.SwapTransaction, error) {
	body, err := wire.EncodeSwapRequest(&req)
	if err != nil {
		return nil, &Error{Kind: NotRetryable, Cause: err}
	}

	respBody, attempts, err := c.do(ctx, &transport.Request{
		Method: "POST",
		URL:    c.baseURL + swapPath,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	tx, derr := wire.DecodeSwapTransaction(respBody)
	if derr != nil {
		return nil, &Error{Kind: BadResponseShape, Attempts: attempts, Cause: derr}
	}
	return tx, nil
}

// Price fetches current prices for the given mints, quoted in vsMint
// (USD when vsMint is empty).
func (c *Client) Price(ctx context.Context, mints []string, vsMint string) (map[string]amount.Amount, error) {
	if len(mints) == 0 {
		return nil, &Error{Kind: NotRetryable, Cause: errors.New("no mints requested")}
	}

	body, attempts, err := c.do(ctx, &transport.Request{
		Method: "GET",
		URL:    c.baseURL + pricePath + "?" + wire.PriceQuery(mints, vsMint).Encode(),
	})
	if err != nil {
		return nil, err
	}

	prices, derr := wire.DecodePriceResponse(body)
	if derr != nil {
		return nil, &Error{Kind: BadResponseShape, Attempts: attempts, Cause: derr}
	}
	return prices, nil
}

// do drives one logical request through the retry loop and returns the
// 2xx body together with the number of attempts consumed.
func (c *Client) do(ctx context.Context, req *transport.Request) ([]byte, int, error) {
	var deadline time.Time
	if budget := c.policy.Budget(); budget > 0 {
		deadline = c.tr.Now().Add(budget)
	}

	if req.Header == nil {
		req.Header = make(map[string]string)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	reqID := uuid.New().String()
	req.Header["X-Request-Id"] = reqID

	lg := c.lg.With(zap.String("request_id", reqID), zap.String("url", req.URL))

	attempt := 1
	for {
		resp, err := c.tr.Do(ctx, req)

		var cause error
		switch {
		case err != nil:
			var terr *transport.Error
			if !errors.As(err, &terr) {
				return nil, attempt, &Error{Kind: NotRetryable, Attempts: attempt, Cause: err}
			}
			switch terr.Kind {
			case transport.Cancelled:
				return nil, attempt, &Error{Kind: Cancelled, Attempts: attempt, Cause: terr}
			case transport.TimedOut:
				if ctx.Err() != nil {
					// the caller's own deadline passed
					return nil, attempt, &Error{Kind: TimedOut, Attempts: attempt, Cause: terr}
				}
			}
			cause = terr
		case resp.Status >= 200 && resp.Status < 300:
			return resp.Body, attempt, nil
		case retryableStatus(resp.Status):
			cause = &StatusError{Code: resp.Status, Body: resp.Body}
		default:
			return nil, attempt, &Error{
				Kind:     NotRetryable,
				Attempts: attempt,
				Cause:    &StatusError{Code: resp.Status, Body: resp.Body},
			}
		}

		if attempt >= c.policy.MaxAttempts() {
			return nil, attempt, &Error{Kind: Exhausted, Attempts: attempt, Cause: cause}
		}

		delay := c.policy.DelayFor(attempt)
		if !deadline.IsZero() && c.tr.Now().Add(delay).After(deadline) {
			// the next sleep would overrun the retry budget
			return nil, attempt, &Error{Kind: TimedOut, Attempts: attempt, Cause: cause}
		}

		lg.Debug("attempt failed, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(cause))

		if serr := c.tr.Sleep(ctx, delay); serr != nil {
			kind := Cancelled
			var terr *transport.Error
			if errors.As(serr, &terr) && terr.Kind == transport.TimedOut {
				kind = TimedOut
			}
			return nil, attempt, &Error{Kind: kind, Attempts: attempt, Cause: serr}
		}

		attempt++
	}
}
