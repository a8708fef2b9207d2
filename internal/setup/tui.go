package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/hermes/config"
	"github.com/vadiminshakov/hermes/registry"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1)
)

// RunTUI walks the user through picking a swap to quote and fills the
// remaining config fields. Token choices come from the registry so the
// user cannot type a mint the client does not know.
func RunTUI(reg *registry.Registry, cfg *config.Config) error {
	var (
		inSymbol    string
		outSymbol   string
		amountStr   string
		slippageStr string
		confirm     bool
	)

	// defaults
	amountStr = "1"
	slippageStr = "50"

	tokenOptions := func() []huh.Option[string] {
		var opts []huh.Option[string]
		for _, t := range reg.All() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", t.Symbol, t.Name), t.Symbol))
		}
		return opts
	}

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("HERMES QUOTE WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Pick a swap to price.\n"))

	fmt.Println(stepStyle.Render("STEP 1: TOKENS"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("You pay").
				Options(tokenOptions()...).
				Value(&inSymbol),
			huh.NewSelect[string]().
				Title("You receive").
				Options(tokenOptions()...).
				Value(&outSymbol),
		),
	).Run()
	if err != nil {
		return err
	}
	if inSymbol == outSymbol {
		return fmt.Errorf("input and output tokens must be distinct")
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("HERMES QUOTE WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: AMOUNT"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Amount of %s to swap", inSymbol)).
				Description("Display units (e.g. 1.5)").
				Value(&amountStr).
				Validate(validateAmount),
			huh.NewInput().
				Title("Slippage tolerance (bps)").
				Description("Basis points, e.g. 50 = 0.5%").
				Value(&slippageStr).
				Validate(validateSlippage),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("HERMES QUOTE WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Swap: %s -> %s\nAmount: %s %s\nSlippage: %s bps\nEndpoint: %s\n",
		inSymbol, outSymbol, amountStr, inSymbol, slippageStr, cfg.BaseURL,
	)
	fmt.Println(summaryStyle.Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Request this quote?").
				Affirmative("Yes, quote it").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cfg.Pair = config.Pair{In: inSymbol, Out: outSymbol}
	cfg.Amount = decimal.RequireFromString(amountStr)
	var slippage int
	fmt.Sscanf(slippageStr, "%d", &slippage)
	cfg.SlippageBps = slippage

	return nil
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateSlippage(s string) error {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return fmt.Errorf("must be an integer")
	}
	if v < 0 || v > 10000 {
		return fmt.Errorf("must be between 0 and 10000")
	}
	return nil
}
