package wire

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

// PriceQuery maps a batch price lookup onto the price endpoint's query
// parameters. vsMint is optional; when empty, prices come back in USD.
func PriceQuery(mints []string, vsMint string) url.Values {
	v := url.Values{}
	v.Set("ids", strings.Join(mints, ","))
	if vsMint != "" {
		v.Set("vsToken", vsMint)
	}
	return v
}

type priceEntry struct {
	Price string `json:"price"`
	Type  string `json:"type"`
}

// DecodePriceResponse parses the price endpoint's body:
//
//	{"data":{"<mint>":{"price":"142.56","type":"derivedPrice"}},"timeTaken":0.003}
//
// and returns a mint-to-price map. A missing data object or an
// unparseable price is a shape error; unknown top-level fields are fine.
func DecodePriceResponse(data []byte) (map[string]amount.Amount, error) {
	var body struct {
		Data map[string]*priceEntry `json:"data"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, shapeErr("(body)", err)
	}
	if body.Data == nil {
		return nil, shapeErr("data", nil)
	}

	prices := make(map[string]amount.Amount, len(body.Data))
	for mint, entry := range body.Data {
		if entry == nil {
			// the service returns null entries for unknown mints
			continue
		}
		p, err := amount.Parse(entry.Price)
		if err != nil {
			return nil, shapeErr("data."+mint+".price", err)
		}
		prices[mint] = p
	}

	return prices, nil
}
