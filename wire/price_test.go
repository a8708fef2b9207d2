package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

func TestPriceQuery(t *testing.T) {
	v := PriceQuery([]string{"MINTA", "MINTB"}, "")
	assert.Equal(t, "MINTA,MINTB", v.Get("ids"))
	assert.Empty(t, v.Get("vsToken"))

	v = PriceQuery([]string{"MINTA"}, "MINTUSD")
	assert.Equal(t, "MINTUSD", v.Get("vsToken"))
}

func TestDecodePriceResponse(t *testing.T) {
	body := `{
		"data": {
			"So11111111111111111111111111111111111111112": {"price":"142.5612345","type":"derivedPrice"},
			"UnknownMint": null
		},
		"timeTaken": 0.003
	}`

	prices, err := DecodePriceResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.True(t, prices["So11111111111111111111111111111111111111112"].Equal(amount.MustParse("142.5612345")))
}

func TestDecodePriceResponseShapeErrors(t *testing.T) {
	var merr *ModelError

	_, err := DecodePriceResponse([]byte(`{"timeTaken":0.1}`))
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "data", merr.Field)

	_, err = DecodePriceResponse([]byte(`{"data":{"M":{"price":"not a number"}}}`))
	require.ErrorAs(t, err, &merr)
}
