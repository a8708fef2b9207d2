// Package wire maps typed requests and responses onto the aggregator's
// JSON contract. It is pure data shaping: no transport, no retries.
// Unknown response fields are never dropped; they are preserved in a
// passthrough bag so callers needing undocumented fields are not blocked.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

// ModelError reports a required field missing or of the wrong JSON type.
// Extra fields never produce a ModelError.
type ModelError struct {
	Field string
	cause error
}

func (e *ModelError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("unexpected wire shape: field %q", e.Field)
	}
	return fmt.Sprintf("unexpected wire shape: field %q: %v", e.Field, e.cause)
}

func (e *ModelError) Unwrap() error {
	return e.cause
}

func shapeErr(field string, cause error) *ModelError {
	return &ModelError{Field: field, cause: cause}
}

// atomicAmount decodes a JSON string holding an integer amount in the
// token's native units.
func atomicAmount(field string, raw json.RawMessage) (amount.Amount, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return amount.Zero, shapeErr(field, err)
	}
	a, err := amount.Parse(s)
	if err != nil {
		return amount.Zero, shapeErr(field, err)
	}
	return a, nil
}

// decimalValue decodes a decimal that the service may send either as a
// string or as a bare JSON number.
func decimalValue(field string, raw json.RawMessage) (amount.Amount, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return amount.Zero, shapeErr(field, err)
		}
		s = n.String()
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return amount.Zero, shapeErr(field, err)
	}
	return amount.FromDecimal(d), nil
}
