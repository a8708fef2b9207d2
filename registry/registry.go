// Package registry holds the compiled-in token list: mint address,
// symbol and decimal scale for every token the client knows how to
// display. The lists ship inside the binary so both runtimes see the
// same registry without touching a filesystem.
package registry

import (
	"embed"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/hermes/pkg/amount"
)

//go:embed tokens/default.json tokens/stable.json tokens/pairs.json
var tokenFiles embed.FS

// Token describes one known token.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
}

// ToAtomic converts a display amount into the token's atomic units.
// Fails if the amount carries more precision than the token supports.
func (t Token) ToAtomic(a amount.Amount) (amount.Amount, error) {
	atomic := a.ShiftScale(-t.Decimals)
	if !atomic.Decimal().IsInteger() {
		return amount.Zero, errors.Errorf("%s carries more than %d decimals", a.String(), t.Decimals)
	}
	return atomic, nil
}

// FromAtomic converts atomic units into a display amount.
func (t Token) FromAtomic(a amount.Amount) amount.Amount {
	return a.ShiftScale(t.Decimals)
}

// Registry is an immutable token lookup table.
type Registry struct {
	tokens []Token
	stable []Token
	pairs  [][2]Token
}

// New loads the embedded token lists.
func New() (*Registry, error) {
	tokens, err := loadTokens("tokens/default.json")
	if err != nil {
		return nil, err
	}
	stable, err := loadTokens("tokens/stable.json")
	if err != nil {
		return nil, err
	}

	r := &Registry{tokens: tokens, stable: stable}

	raw, err := tokenFiles.ReadFile("tokens/pairs.json")
	if err != nil {
		return nil, errors.Wrap(err, "read pairs.json")
	}
	var pairAddrs [][2]string
	if err := json.Unmarshal(raw, &pairAddrs); err != nil {
		return nil, errors.Wrap(err, "parse pairs.json")
	}
	for _, pa := range pairAddrs {
		a, ok := r.ByAddress(pa[0])
		if !ok {
			return nil, errors.Errorf("pair references unknown token %s", pa[0])
		}
		b, ok := r.ByAddress(pa[1])
		if !ok {
			return nil, errors.Errorf("pair references unknown token %s", pa[1])
		}
		r.pairs = append(r.pairs, [2]Token{a, b})
	}

	return r, nil
}

func loadTokens(name string) ([]Token, error) {
	raw, err := tokenFiles.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	var tokens []Token
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return tokens, nil
}

// All returns every known token, stables included.
func (r *Registry) All() []Token {
	out := make([]Token, 0, len(r.tokens)+len(r.stable))
	out = append(out, r.tokens...)
	out = append(out, r.stable...)
	return out
}

// Pairs returns the configured display pairs.
func (r *Registry) Pairs() [][2]Token {
	return r.pairs
}

// ByAddress finds a token by mint address.
func (r *Registry) ByAddress(address string) (Token, bool) {
	for _, t := range r.All() {
		if t.Address == address {
			return t, true
		}
	}
	return Token{}, false
}

// BySymbol finds a token by symbol, case-insensitively.
func (r *Registry) BySymbol(symbol string) (Token, bool) {
	for _, t := range r.All() {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return Token{}, false
}

// PairAddress renders the canonical pair key.
func PairAddress(a, b Token) string {
	return a.Address + "_" + b.Address
}

// TokensFromPairAddress resolves "A_B" back into its tokens.
func (r *Registry) TokensFromPairAddress(address string) ([2]Token, error) {
	parts := strings.Split(address, "_")
	if len(parts) != 2 {
		return [2]Token{}, errors.Errorf("not a pair address: %s", address)
	}
	a, ok := r.ByAddress(parts[0])
	if !ok {
		return [2]Token{}, errors.Errorf("unknown token %s", parts[0])
	}
	b, ok := r.ByAddress(parts[1])
	if !ok {
		return [2]Token{}, errors.Errorf("unknown token %s", parts[1])
	}
	return [2]Token{a, b}, nil
}
