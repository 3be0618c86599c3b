package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"chainscore/internal/service"
)

// ScoreWallet runs the full pipeline for one wallet and prints the outcome.
func (a *App) ScoreWallet(ctx context.Context, opts ScoreOptions) error {
	svc := a.newService(nil)
	defer svc.Close()

	outcome, err := svc.Score(ctx, opts.Wallet, opts.Profile, opts.WindowDays)
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(outcome)
	}

	printOutcome(os.Stdout, outcome)
	return nil
}

func printOutcome(w io.Writer, outcome service.ScoreOutcome) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Wallet:\t%s\n", outcome.Wallet)
	fmt.Fprintf(tw, "Profile:\t%s\n", outcome.Profile)
	fmt.Fprintf(tw, "Window:\t%d days\n", outcome.Features.WindowDays)
	fmt.Fprintf(tw, "Data OK:\t%t\n", outcome.Features.DataOK)
	fmt.Fprintf(tw, "Score:\t%d (raw %d)\n", outcome.Score.Score, outcome.Score.RawScore)
	fmt.Fprintf(tw, "Tier:\t%s\n", outcome.Score.Tier)
	fmt.Fprintf(tw, "Decision:\t%s\n", outcome.Score.Decision)
	if outcome.Score.HardGated {
		fmt.Fprintf(tw, "Hard gate:\tyes\n")
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Breakdown:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, factor := range outcome.Score.Breakdown {
		fmt.Fprintf(tw, "  %s\t%+d\t%s\n", factor.Name, factor.Points, factor.Note)
	}
	tw.Flush()

	if len(outcome.Score.Flags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		for _, flag := range outcome.Score.Flags {
			fmt.Fprintf(w, "  [%s] %s: %s\n", flag.Severity, flag.Flag, flag.Note)
		}
	}

	rec := outcome.Recommendation
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Lending terms (%s):\n", rec.PolicyLabel)
	if rec.MaxLTV != nil && rec.CollateralFactor != nil && rec.APR != nil {
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  Max LTV:\t%s\n", formatDecimal(*rec.MaxLTV, 2))
		fmt.Fprintf(tw, "  Collateral factor:\t%s\n", formatDecimal(*rec.CollateralFactor, 2))
		fmt.Fprintf(tw, "  APR:\t%s\n", formatDecimal(*rec.APR, 4))
		tw.Flush()
	}
	for _, line := range rec.Rationale {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
