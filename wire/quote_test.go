package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

const quoteBody = `{
	"inputMint": "So11111111111111111111111111111111111111112",
	"inAmount": "1500000000",
	"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"outAmount": "150000000",
	"otherAmountThreshold": "149250000",
	"swapMode": "ExactIn",
	"slippageBps": 50,
	"platformFee": null,
	"priceImpactPct": "0.01",
	"routePlan": [
		{
			"swapInfo": {
				"ammKey": "AMM111",
				"label": "Whirlpool",
				"inputMint": "So11111111111111111111111111111111111111112",
				"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
				"inAmount": "1500000000",
				"outAmount": "150000000",
				"feeAmount": "300000",
				"feeMint": "So11111111111111111111111111111111111111112"
			},
			"percent": 100
		}
	],
	"contextSlot": 299283763,
	"timeTaken": 0.0021
}`

func TestDecodeQuoteResponse(t *testing.T) {
	q, err := DecodeQuoteResponse([]byte(quoteBody))
	require.NoError(t, err)

	assert.Equal(t, "So11111111111111111111111111111111111111112", q.InputMint)
	assert.True(t, q.OutAmount.Equal(amount.MustParse("150000000")))
	assert.True(t, q.InAmount.Equal(amount.MustParse("1500000000")))
	assert.True(t, q.PriceImpactPct.Equal(amount.MustParse("0.01")))
	assert.Equal(t, 50, q.SlippageBps)

	require.Len(t, q.RoutePlan, 1)
	assert.Equal(t, "Whirlpool", q.RoutePlan[0].SwapInfo.Label)
	assert.Equal(t, 100, q.RoutePlan[0].Percent)

	// unknown fields are preserved, not dropped
	assert.Contains(t, q.Extra, "swapMode")
	assert.Contains(t, q.Extra, "contextSlot")
	assert.Contains(t, q.Extra, "timeTaken")
	assert.Contains(t, q.Extra, "platformFee")
	assert.NotContains(t, q.Extra, "outAmount")

	assert.JSONEq(t, quoteBody, string(q.Raw()))
}

func TestDecodeQuoteResponsePriceImpactAsNumber(t *testing.T) {
	q, err := DecodeQuoteResponse([]byte(`{"outAmount":"5","priceImpactPct":0.0001}`))
	require.NoError(t, err)
	assert.True(t, q.PriceImpactPct.Equal(amount.MustParse("0.0001")))
}

func TestDecodeQuoteResponseMissingRequired(t *testing.T) {
	_, err := DecodeQuoteResponse([]byte(`{"inAmount":"10","priceImpactPct":"0"}`))
	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "outAmount", merr.Field)
}

func TestDecodeQuoteResponseWrongType(t *testing.T) {
	_, err := DecodeQuoteResponse([]byte(`{"outAmount":150000000,"priceImpactPct":"0"}`))
	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "outAmount", merr.Field)

	_, err = DecodeQuoteResponse([]byte(`not json`))
	require.ErrorAs(t, err, &merr)
}

func TestQuoteRequestQuery(t *testing.T) {
	req := QuoteRequest{
		InputMint:   "MINTA",
		OutputMint:  "MINTB",
		Amount:      amount.MustParse("1500000000"),
		SlippageBps: 50,
		Flags:       OnlyDirectRoutes | RestrictIntermediateTokens,
	}
	require.NoError(t, req.Validate())

	v := req.Query()
	assert.Equal(t, "MINTA", v.Get("inputMint"))
	assert.Equal(t, "MINTB", v.Get("outputMint"))
	assert.Equal(t, "1500000000", v.Get("amount"))
	assert.Equal(t, "50", v.Get("slippageBps"))
	assert.Equal(t, "true", v.Get("onlyDirectRoutes"))
	assert.Equal(t, "true", v.Get("restrictIntermediateTokens"))
	assert.Equal(t, "false", v.Get("asLegacyTransaction"))
}

func TestQuoteRequestValidate(t *testing.T) {
	base := QuoteRequest{
		InputMint:  "MINTA",
		OutputMint: "MINTB",
		Amount:     amount.MustParse("100"),
	}
	require.NoError(t, base.Validate())

	r := base
	r.OutputMint = ""
	assert.Error(t, r.Validate())

	r = base
	r.OutputMint = r.InputMint
	assert.Error(t, r.Validate())

	r = base
	r.Amount = amount.MustParse("0")
	assert.Error(t, r.Validate())

	r = base
	r.Amount = amount.MustParse("1.5")
	assert.Error(t, r.Validate(), "atomic amounts must be integral")

	r = base
	r.SlippageBps = -1
	assert.Error(t, r.Validate())
}
