// Command hermes requests a swap quote from the aggregation service and
// prints it next to the current spot price. It can also build the
// unsigned swap transaction for an account.
//
// Usage:
//
//	hermes --pair SOL_USDC --amount 1.5 --slippagebps 50
//	hermes --config config.yaml
//	hermes -i (interactive wizard)
//
// Passing HERMES_PUBKEY builds the unsigned transaction for that
// account; signing and submission stay outside this tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/hermes/client"
	"github.com/vadiminshakov/hermes/config"
	"github.com/vadiminshakov/hermes/internal/setup"
	"github.com/vadiminshakov/hermes/pkg/amount"
	"github.com/vadiminshakov/hermes/pkg/retrier"
	"github.com/vadiminshakov/hermes/registry"
	"github.com/vadiminshakov/hermes/wire"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	reg, err := registry.New()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Interactive {
		if err := setup.RunTUI(reg, &cfg); err != nil {
			log.Fatal(err)
		}
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	in, ok := reg.BySymbol(cfg.Pair.In)
	if !ok {
		logger.Fatal("unknown input token", zap.String("symbol", cfg.Pair.In))
	}
	out, ok := reg.BySymbol(cfg.Pair.Out)
	if !ok {
		logger.Fatal("unknown output token", zap.String("symbol", cfg.Pair.Out))
	}

	atomicIn, err := in.ToAtomic(amount.FromDecimal(cfg.Amount))
	if err != nil {
		logger.Fatal("invalid amount", zap.Error(err))
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithPolicy(retrier.New(cfg.Retry.Options()...)),
	}
	if cfg.AuthHeader != "" {
		opts = append(opts, client.WithHeader(cfg.AuthHeader, cfg.AuthValue))
	}
	c, err := client.New(cfg.BaseURL, opts...)
	if err != nil {
		logger.Fatal("failed to create client", zap.Error(err))
	}

	ctx := context.Background()

	var (
		quote  *wire.QuoteResponse
		prices map[string]amount.Amount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = c.Quote(gctx, wire.QuoteRequest{
			InputMint:   in.Address,
			OutputMint:  out.Address,
			Amount:      atomicIn,
			SlippageBps: cfg.SlippageBps,
		})
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = c.Price(gctx, []string{in.Address}, out.Address)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("request failed", zap.Error(err))
	}

	received := out.FromAtomic(quote.OutAmount)
	summary := fmt.Sprintf("%s %s %s -> %s %s\n%s %s%%\n%s %d hop(s)",
		labelStyle.Render("Swap:"), cfg.Amount.String(), in.Symbol, received.String(), out.Symbol,
		labelStyle.Render("Price impact:"), quote.PriceImpactPct.String(),
		labelStyle.Render("Route:"), len(quote.RoutePlan),
	)
	if spot, ok := prices[in.Address]; ok {
		summary += fmt.Sprintf("\n%s 1 %s = %s %s",
			labelStyle.Render("Spot:"), in.Symbol, spot.DisplayPrice(), out.Symbol)
	}
	fmt.Println(boxStyle.Render(summary))

	if pubkey := os.Getenv("HERMES_PUBKEY"); pubkey != "" {
		tx, err := c.BuildSwap(ctx, wire.SwapRequest{
			Quote:         quote,
			UserPublicKey: pubkey,
			WrapUnwrapSOL: true,
		})
		if err != nil {
			logger.Fatal("swap build failed", zap.Error(err))
		}
		raw, err := tx.DecodeBlob()
		if err != nil {
			logger.Fatal("bad transaction blob", zap.Error(err))
		}
		logger.Info("unsigned transaction built",
			zap.Int("size_bytes", len(raw)),
			zap.Uint64("last_valid_block_height", tx.LastValidBlockHeight))
		fmt.Println(tx.Blob)
	}
}
