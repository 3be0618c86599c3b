package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"chainscore/internal/features"
)

// ShowFeatures extracts and prints the behavioural snapshot for one wallet.
func (a *App) ShowFeatures(ctx context.Context, opts FeatureOptions) error {
	svc := a.newService(nil)
	defer svc.Close()

	set, err := svc.Features(ctx, opts.Wallet, opts.Profile, opts.WindowDays, opts.OffsetDays)
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(set)
	}

	printSnapshot(os.Stdout, set.Features)
	fmt.Fprintf(os.Stdout, "\nScore: %d (%s, %s)\n", set.Score.Score, set.Score.Tier, set.Score.Decision)
	if set.Cached {
		fmt.Fprintf(os.Stdout, "(served from cache, stored %s)\n", set.CachedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func printSnapshot(w io.Writer, snap features.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Wallet:\t%s\n", snap.Wallet)
	fmt.Fprintf(tw, "Window:\t%d days (offset %d)\n", snap.WindowDays, snap.OffsetDays)
	fmt.Fprintf(tw, "Data OK:\t%t\n", snap.DataOK)
	fmt.Fprintf(tw, "Wallet age:\t%d days\n", snap.WalletAgeDays)
	fmt.Fprintf(tw, "Active days:\t%d\n", snap.ActiveDays)
	fmt.Fprintf(tw, "Consistency:\t%.4f\n", snap.ConsistencyScore)
	fmt.Fprintf(tw, "Unique tokens:\t%d\n", snap.UniqueTokens)
	fmt.Fprintf(tw, "Counterparties:\t%d\n", snap.UniqueCounterparties)
	fmt.Fprintf(tw, "Stablecoin ratio:\t%.4f\n", snap.StablecoinRatio)
	fmt.Fprintf(tw, "Transactions:\t%d normal / %d internal / %d erc20\n", snap.NormalTxCount, snap.InternalTxCount, snap.ERC20TxCount)
	if snap.Truncated {
		fmt.Fprintf(tw, "Truncated:\tyes\n")
	}
	tw.Flush()

	if len(snap.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fetch errors:")
		keys := make([]string, 0, len(snap.Errors))
		for key := range snap.Errors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "  %s: %s\n", key, sanitizeInline(snap.Errors[key]))
		}
	}
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
