package wire

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// SwapRequest asks the service to build an unsigned transaction for a
// previously obtained quote on behalf of userPublicKey.
type SwapRequest struct {
	Quote               *QuoteResponse
	UserPublicKey       string
	WrapUnwrapSOL       bool
	PriorityFeeLamports uint64
}

// Validate enforces the request invariants.
func (r *SwapRequest) Validate() error {
	if r.Quote == nil || len(r.Quote.Raw()) == 0 {
		return errors.New("swap request needs a decoded quote")
	}
	if r.UserPublicKey == "" {
		return errors.New("user public key must be non-empty")
	}
	return nil
}

// EncodeSwapRequest produces the POST body. The quote goes back to the
// service exactly as it arrived, untyped fields included.
func EncodeSwapRequest(r *SwapRequest) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"userPublicKey":             r.UserPublicKey,
		"wrapAndUnwrapSol":          r.WrapUnwrapSOL,
		"asLegacyTransaction":       false,
		"useTokenLedger":            false,
		"prioritizationFeeLamports": r.PriorityFeeLamports,
		"quoteResponse":             json.RawMessage(r.Quote.Raw()),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode swap request")
	}
	return body, nil
}

// SwapTransaction is the unsigned transaction payload returned by the
// service. Blob stays opaque: the client never interprets or signs it.
type SwapTransaction struct {
	Blob                 string
	LastValidBlockHeight uint64
	PriorityFeeLamports  uint64
	Extra                map[string]json.RawMessage
}

// DecodeBlob returns the raw transaction bytes for an external signer.
func (s *SwapTransaction) DecodeBlob() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s.Blob)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction blob")
	}
	return raw, nil
}

// DecodeSwapTransaction parses a swap build response body. The only
// required field is swapTransaction.
func DecodeSwapTransaction(data []byte) (*SwapTransaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, shapeErr("(body)", err)
	}

	s := &SwapTransaction{Extra: make(map[string]json.RawMessage)}

	var err error
	seen := false
	for key, raw := range fields {
		switch key {
		case "swapTransaction":
			if err = json.Unmarshal(raw, &s.Blob); err != nil {
				return nil, shapeErr(key, err)
			}
			seen = true
		case "lastValidBlockHeight":
			if err = json.Unmarshal(raw, &s.LastValidBlockHeight); err != nil {
				return nil, shapeErr(key, err)
			}
		case "prioritizationFeeLamports":
			if err = json.Unmarshal(raw, &s.PriorityFeeLamports); err != nil {
				return nil, shapeErr(key, err)
			}
		default:
			s.Extra[key] = raw
		}
	}

	if !seen {
		return nil, shapeErr("swapTransaction", nil)
	}

	return s, nil
}
