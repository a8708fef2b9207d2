package wire

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSwapRequestPassesQuoteThroughVerbatim(t *testing.T) {
	quote, err := DecodeQuoteResponse([]byte(quoteBody))
	require.NoError(t, err)

	body, err := EncodeSwapRequest(&SwapRequest{
		Quote:               quote,
		UserPublicKey:       "UserPubKey111",
		WrapUnwrapSOL:       true,
		PriorityFeeLamports: 5000,
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.JSONEq(t, `"UserPubKey111"`, string(decoded["userPublicKey"]))
	assert.JSONEq(t, `true`, string(decoded["wrapAndUnwrapSol"]))
	assert.JSONEq(t, `5000`, string(decoded["prioritizationFeeLamports"]))
	// the quote goes back exactly as received, including fields we do not type
	assert.JSONEq(t, quoteBody, string(decoded["quoteResponse"]))
}

func TestEncodeSwapRequestValidate(t *testing.T) {
	quote, err := DecodeQuoteResponse([]byte(quoteBody))
	require.NoError(t, err)

	_, err = EncodeSwapRequest(&SwapRequest{Quote: quote})
	assert.Error(t, err, "missing public key")

	_, err = EncodeSwapRequest(&SwapRequest{UserPublicKey: "abc"})
	assert.Error(t, err, "missing quote")
}

func TestDecodeSwapTransaction(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte("unsigned tx bytes"))
	body := `{"swapTransaction":"` + blob + `","lastValidBlockHeight":279632475,"prioritizationFeeLamports":9999,"dynamicSlippageReport":null}`

	tx, err := DecodeSwapTransaction([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, blob, tx.Blob)
	assert.Equal(t, uint64(279632475), tx.LastValidBlockHeight)
	assert.Equal(t, uint64(9999), tx.PriorityFeeLamports)
	assert.Contains(t, tx.Extra, "dynamicSlippageReport")

	raw, err := tx.DecodeBlob()
	require.NoError(t, err)
	assert.Equal(t, "unsigned tx bytes", string(raw))
}

func TestDecodeSwapTransactionMissingBlob(t *testing.T) {
	_, err := DecodeSwapTransaction([]byte(`{"lastValidBlockHeight":1}`))
	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "swapTransaction", merr.Field)
}

func TestDecodeBlobRejectsGarbage(t *testing.T) {
	tx := &SwapTransaction{Blob: "not base64!!"}
	_, err := tx.DecodeBlob()
	assert.Error(t, err)
}
