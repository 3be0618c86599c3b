package app

import (
	"context"
	"math"
	"os"

	"chainscore/internal/features"
	"chainscore/internal/lending"
	"chainscore/internal/scoring"
	"chainscore/internal/service"
)

// Simulate scores a synthetic wallet snapshot offline. No explorer calls
// are made, which makes it handy for trying policy changes.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	windowDays := a.Config.ResolveWindowDays(opts.WindowDays)
	profile := a.Config.ResolveProfile(opts.Profile)

	snap := features.Snapshot{
		Wallet:               "0x0000000000000000000000000000000000000000",
		WindowDays:           windowDays,
		DataOK:               true,
		Errors:               map[string]string{},
		WalletAgeDays:        opts.WalletAgeDays,
		ActiveDays:           opts.ActiveDays,
		UniqueTokens:         opts.UniqueTokens,
		UniqueCounterparties: opts.UniqueCounterparties,
		StablecoinRatio:      opts.StablecoinRatio,
		NormalTxCount:        opts.NormalTxCount,
		InternalTxCount:      opts.InternalTxCount,
		ERC20TxCount:         opts.ERC20TxCount,
		Truncated:            opts.Truncated,
	}
	if windowDays > 0 {
		ratio := float64(opts.ActiveDays) / float64(windowDays)
		snap.ConsistencyScore = math.Round(ratio*10000) / 10000
	}

	engine := scoring.NewEngine(a.policy())
	result := engine.Score(snap)

	rec, err := lending.Recommend(snap, result, profile)
	if err != nil {
		return err
	}

	outcome := service.ScoreOutcome{
		Wallet:         snap.Wallet,
		Profile:        profile,
		Features:       snap,
		Score:          result,
		Recommendation: rec,
	}

	if opts.JSON {
		return printJSON(outcome)
	}

	printOutcome(os.Stdout, outcome)
	return nil
}
