package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"chainscore/internal/service"
)

// ShowTrajectory compares the current window against the preceding one.
func (a *App) ShowTrajectory(ctx context.Context, opts TrajectoryOptions) error {
	svc := a.newService(nil)
	defer svc.Close()

	out, err := svc.Trajectory(ctx, opts.Wallet, opts.Profile, opts.WindowDays)
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(out)
	}

	printTrajectory(os.Stdout, out)
	return nil
}

func printTrajectory(w io.Writer, out service.TrajectoryOutcome) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Wallet:\t%s\n", out.Wallet)
	fmt.Fprintf(tw, "Profile:\t%s\n", out.Profile)
	fmt.Fprintf(tw, "Wallet age:\t%d days\n", out.WalletAgeDays)
	fmt.Fprintf(tw, "Trend:\t%s\n", out.Trajectory.Trend)
	fmt.Fprintf(tw, "Risk direction:\t%s\n", out.Trajectory.Direction.Risk)
	fmt.Fprintf(tw, "Score:\t%d -> %d (raw %d -> %d)\n",
		out.PreviousScore.Score, out.CurrentScore.Score,
		out.PreviousScore.RawScore, out.CurrentScore.RawScore)
	tw.Flush()

	deltas := out.Trajectory.Deltas
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Window-over-window change:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Transactions:\t%s\n", formatPct(deltas.TxCount))
	fmt.Fprintf(tw, "  Normal tx:\t%s\n", formatPct(deltas.NormalTxCount))
	fmt.Fprintf(tw, "  Internal tx:\t%s\n", formatPct(deltas.InternalTxCount))
	fmt.Fprintf(tw, "  ERC-20 tx:\t%s\n", formatPct(deltas.ERC20TxCount))
	fmt.Fprintf(tw, "  Consistency:\t%s\n", formatPct(deltas.ConsistencyScore))
	fmt.Fprintf(tw, "  Unique tokens:\t%s\n", formatPct(deltas.UniqueTokens))
	fmt.Fprintf(tw, "  Counterparties:\t%s\n", formatPct(deltas.UniqueCounterparties))
	fmt.Fprintf(tw, "  Stablecoin ratio:\t%s\n", formatPct(deltas.StablecoinRatio))
	fmt.Fprintf(tw, "  Score:\t%s\n", formatPct(deltas.Score))
	tw.Flush()

	if len(out.Trajectory.Drivers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Drivers:")
		for _, driver := range out.Trajectory.Drivers {
			fmt.Fprintf(w, "  - %s\n", driver)
		}
	}
}

func formatPct(fraction float64) string {
	return fmt.Sprintf("%+.1f%%", fraction*100)
}
