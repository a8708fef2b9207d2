// Package config builds the client configuration from a YAML file or
// from command-line flags: base URL, auth header, retry schedule and
// the default pair for the CLI.
package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/hermes/pkg/retrier"
)

const defaultBaseURL = "https://quote-api.jup.ag"

// Pair is the token pair the CLI quotes by default.
type Pair struct {
	In  string
	Out string
}

func (p Pair) String() string {
	return p.In + "_" + p.Out
}

// Retry mirrors retrier.Policy knobs.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Jitter      float64
	MaxDelay    time.Duration
	Budget      time.Duration
}

// Options converts the section into retrier options.
func (r Retry) Options() []retrier.Option {
	var opts []retrier.Option
	if r.MaxAttempts > 0 {
		opts = append(opts, retrier.WithMaxAttempts(r.MaxAttempts))
	}
	if r.BaseDelay > 0 {
		opts = append(opts, retrier.WithBaseDelay(r.BaseDelay))
	}
	if r.Multiplier > 0 {
		opts = append(opts, retrier.WithMultiplier(r.Multiplier))
	}
	// jitter is always taken from config, zero meaning deterministic
	opts = append(opts, retrier.WithJitter(r.Jitter))
	if r.MaxDelay > 0 {
		opts = append(opts, retrier.WithMaxDelay(r.MaxDelay))
	}
	if r.Budget > 0 {
		opts = append(opts, retrier.WithBudget(r.Budget))
	}
	return opts
}

// Config is the resolved configuration.
type Config struct {
	BaseURL     string
	AuthHeader  string
	AuthValue   string
	Pair        Pair
	Amount      decimal.Decimal
	SlippageBps int
	Retry       Retry
	// Interactive asks the CLI to run the quote wizard. Flag-only.
	Interactive bool
}

type configTmp struct {
	BaseURL     string `yaml:"base_url"`
	AuthHeader  string `yaml:"auth_header,omitempty"`
	AuthValue   string `yaml:"auth_value,omitempty"`
	Pair        string `yaml:"pair"`
	Amount      string `yaml:"amount"`
	SlippageBps int    `yaml:"slippage_bps"`
	Retry       struct {
		MaxAttempts int     `yaml:"max_attempts,omitempty"`
		BaseDelay   string  `yaml:"base_delay,omitempty"`
		Multiplier  float64 `yaml:"multiplier,omitempty"`
		Jitter      float64 `yaml:"jitter,omitempty"`
		MaxDelay    string  `yaml:"max_delay,omitempty"`
		Budget      string  `yaml:"budget,omitempty"`
	} `yaml:"retry,omitempty"`
}

// Get reads --config when provided, CLI flags otherwise.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", "SOL_USDC", "token pair, example: SOL_USDC")
	amountFlag := flag.String("amount", "1", "input amount in display units, example: 1.5")
	slippageFlag := flag.Int("slippagebps", 50, "slippage tolerance in basis points")
	baseFlag := flag.String("baseurl", defaultBaseURL, "aggregator base URL")
	interactiveFlag := flag.Bool("i", false, "run the interactive quote wizard")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := pairFromString(*pairFlag)
	if err != nil {
		return Config{}, err
	}
	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid --amount=%s", *amountFlag)
	}

	return Config{
		BaseURL:     *baseFlag,
		Pair:        pair,
		Amount:      amount,
		SlippageBps: *slippageFlag,
		Interactive: *interactiveFlag,
	}, nil
}

func getYaml(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Parse(raw)
}

// Parse decodes a YAML document into a Config.
func Parse(raw []byte) (Config, error) {
	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	pair, err := pairFromString(tmp.Pair)
	if err != nil {
		return Config{}, err
	}
	amount, err := decimal.NewFromString(tmp.Amount)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid amount %q", tmp.Amount)
	}
	if tmp.SlippageBps < 0 {
		return Config{}, errors.Errorf("negative slippage_bps %d", tmp.SlippageBps)
	}

	c := Config{
		BaseURL:     tmp.BaseURL,
		AuthHeader:  tmp.AuthHeader,
		AuthValue:   tmp.AuthValue,
		Pair:        pair,
		Amount:      amount,
		SlippageBps: tmp.SlippageBps,
		Retry: Retry{
			MaxAttempts: tmp.Retry.MaxAttempts,
			Multiplier:  tmp.Retry.Multiplier,
			Jitter:      tmp.Retry.Jitter,
		},
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}

	c.Retry.BaseDelay, err = parseDuration(tmp.Retry.BaseDelay)
	if err != nil {
		return Config{}, errors.Wrap(err, "retry.base_delay")
	}
	c.Retry.MaxDelay, err = parseDuration(tmp.Retry.MaxDelay)
	if err != nil {
		return Config{}, errors.Wrap(err, "retry.max_delay")
	}
	c.Retry.Budget, err = parseDuration(tmp.Retry.Budget)
	if err != nil {
		return Config{}, errors.Wrap(err, "retry.budget")
	}

	return c, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func pairFromString(s string) (Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, errors.Errorf("invalid pair %q, want IN_OUT like SOL_USDC", s)
	}
	return Pair{In: parts[0], Out: parts[1]}, nil
}
