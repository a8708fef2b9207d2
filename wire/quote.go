package wire

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

// RouteFlags is a set of routing constraints for a quote.
type RouteFlags uint8

const (
	// OnlyDirectRoutes restricts routing to single-hop routes.
	OnlyDirectRoutes RouteFlags = 1 << iota
	// RestrictIntermediateTokens keeps intermediate hops to high-liquidity tokens.
	RestrictIntermediateTokens
	// LegacyTransaction requests a legacy (non-versioned) transaction.
	LegacyTransaction
)

// Has reports whether flag is set.
func (f RouteFlags) Has(flag RouteFlags) bool {
	return f&flag != 0
}

// QuoteRequest describes a quote lookup. Amount is in the input token's
// atomic units (an integer).
type QuoteRequest struct {
	InputMint   string
	OutputMint  string
	Amount      amount.Amount
	SlippageBps int
	Flags       RouteFlags
}

// Validate enforces the request invariants before anything hits the wire.
func (r *QuoteRequest) Validate() error {
	if r.InputMint == "" || r.OutputMint == "" {
		return errors.New("input and output mints must be non-empty")
	}
	if r.InputMint == r.OutputMint {
		return errors.New("input and output mints must be distinct")
	}
	if r.Amount.IsZero() || r.Amount.IsNegative() {
		return errors.New("amount must be positive")
	}
	if !r.Amount.Decimal().IsInteger() {
		return errors.New("amount must be in atomic units (an integer)")
	}
	if r.SlippageBps < 0 {
		return errors.New("slippage must be non-negative")
	}
	return nil
}

// Query maps the request onto the service's query parameters.
func (r *QuoteRequest) Query() url.Values {
	v := url.Values{}
	v.Set("inputMint", r.InputMint)
	v.Set("outputMint", r.OutputMint)
	v.Set("amount", r.Amount.String())
	v.Set("slippageBps", strconv.Itoa(r.SlippageBps))
	v.Set("onlyDirectRoutes", strconv.FormatBool(r.Flags.Has(OnlyDirectRoutes)))
	v.Set("restrictIntermediateTokens", strconv.FormatBool(r.Flags.Has(RestrictIntermediateTokens)))
	v.Set("asLegacyTransaction", strconv.FormatBool(r.Flags.Has(LegacyTransaction)))
	return v
}

// HopInfo describes one AMM hop of a route. Opaque to the client.
type HopInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// RouteHop is one step of the route plan with its split percentage.
type RouteHop struct {
	SwapInfo HopInfo `json:"swapInfo"`
	Percent  int     `json:"percent"`
}

// QuoteResponse is a decoded quote. Amounts are in atomic units of their
// respective tokens. Extra holds every response field the model does not
// type; Raw returns the untouched response body, which the swap build
// endpoint expects verbatim.
type QuoteResponse struct {
	InputMint            string
	OutputMint           string
	InAmount             amount.Amount
	OutAmount            amount.Amount
	OtherAmountThreshold amount.Amount
	SlippageBps          int
	PriceImpactPct       amount.Amount
	RoutePlan            []RouteHop
	Extra                map[string]json.RawMessage

	raw []byte
}

// Raw returns the original response body.
func (q *QuoteResponse) Raw() []byte {
	return q.raw
}

// DecodeQuoteResponse parses a quote response body. Required fields:
// outAmount and priceImpactPct. Everything unrecognized is preserved in
// Extra rather than dropped.
func DecodeQuoteResponse(data []byte) (*QuoteResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, shapeErr("(body)", err)
	}

	q := &QuoteResponse{
		Extra: make(map[string]json.RawMessage),
		raw:   append([]byte(nil), data...),
	}

	var err error
	seen := map[string]bool{}
	for key, raw := range fields {
		switch key {
		case "inputMint":
			err = json.Unmarshal(raw, &q.InputMint)
		case "outputMint":
			err = json.Unmarshal(raw, &q.OutputMint)
		case "inAmount":
			q.InAmount, err = atomicAmount(key, raw)
		case "outAmount":
			q.OutAmount, err = atomicAmount(key, raw)
		case "otherAmountThreshold":
			q.OtherAmountThreshold, err = atomicAmount(key, raw)
		case "slippageBps":
			err = json.Unmarshal(raw, &q.SlippageBps)
		case "priceImpactPct":
			q.PriceImpactPct, err = decimalValue(key, raw)
		case "routePlan":
			err = json.Unmarshal(raw, &q.RoutePlan)
		default:
			q.Extra[key] = raw
			continue
		}
		if err != nil {
			if _, ok := err.(*ModelError); !ok {
				err = shapeErr(key, err)
			}
			return nil, err
		}
		seen[key] = true
	}

	for _, required := range []string{"outAmount", "priceImpactPct"} {
		if !seen[required] {
			return nil, shapeErr(required, nil)
		}
	}

	return q, nil
}
