package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYaml(t *testing.T) {
	raw := []byte(`
base_url: https://aggregator.example
auth_header: Authorization
auth_value: Bearer tok
pair: SOL_USDC
amount: "1.5"
slippage_bps: 50
retry:
  max_attempts: 5
  base_delay: 100ms
  multiplier: 2
  jitter: 0.1
  max_delay: 5s
  budget: 30s
`)

	c, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https://aggregator.example", c.BaseURL)
	assert.Equal(t, "Authorization", c.AuthHeader)
	assert.Equal(t, Pair{In: "SOL", Out: "USDC"}, c.Pair)
	assert.Equal(t, "SOL_USDC", c.Pair.String())
	assert.True(t, c.Amount.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 50, c.SlippageBps)
	assert.Equal(t, 5, c.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, c.Retry.BaseDelay)
	assert.Equal(t, 5*time.Second, c.Retry.MaxDelay)
	assert.Equal(t, 30*time.Second, c.Retry.Budget)
	assert.NotEmpty(t, c.Retry.Options())
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("pair: JUP_USDC\namount: \"10\"\n"))
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, c.BaseURL)
	assert.Zero(t, c.Retry.MaxAttempts)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte("pair: SOLUSDC\namount: \"1\"\n"))
	assert.Error(t, err, "pair must be IN_OUT")

	_, err = Parse([]byte("pair: SOL_USDC\namount: \"abc\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("pair: SOL_USDC\namount: \"1\"\nslippage_bps: -5\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("pair: SOL_USDC\namount: \"1\"\nretry:\n  base_delay: nope\n"))
	assert.Error(t, err)
}
