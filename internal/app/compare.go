package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"chainscore/internal/service"
)

// CompareWallets scores two wallets under the same profile and ranks them.
func (a *App) CompareWallets(ctx context.Context, opts CompareOptions) error {
	svc := a.newService(nil)
	defer svc.Close()

	out, err := svc.Compare(ctx, opts.WalletA, opts.WalletB, opts.Profile, opts.WindowDays)
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(out)
	}

	printComparison(os.Stdout, out)
	return nil
}

func printComparison(w io.Writer, out service.ComparisonOutcome) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Wallet\tScore\tTier\tDecision\tActive\tTokens\tCounterparties")
	for _, side := range []service.ScoreOutcome{out.WalletA, out.WalletB} {
		fmt.Fprintf(
			tw,
			"%s\t%d\t%s\t%s\t%d\t%d\t%d\n",
			side.Wallet,
			side.Score.Score,
			side.Score.Tier,
			side.Score.Decision,
			side.Features.ActiveDays,
			side.Features.UniqueTokens,
			side.Features.UniqueCounterparties,
		)
	}
	tw.Flush()

	fmt.Fprintln(w)
	if out.Winner == "tie" {
		fmt.Fprintln(w, "Result: tie")
		return
	}
	fmt.Fprintf(w, "Result: %s leads by %d points\n", out.Winner, out.Margin)
}
