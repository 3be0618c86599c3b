// Package features reduces raw explorer activity into the behavioral
// snapshot the scoring pipeline consumes.
package features

import (
	"math"
	"strings"
	"time"

	"chainscore/internal/explorer"
)

// stableSymbols is the fixed set of token symbols treated as stablecoins
// when computing the stablecoin ratio. Matching is by symbol, best effort.
var stableSymbols = map[string]struct{}{
	"USDC":  {},
	"USDT":  {},
	"DAI":   {},
	"TUSD":  {},
	"USDP":  {},
	"FDUSD": {},
	"FRAX":  {},
	"LUSD":  {},
	"GUSD":  {},
}

// Input bundles everything one extraction needs: the three window-filtered
// activity categories, the first-ever-activity timestamp, and any
// per-category fetch errors keyed by category name.
type Input struct {
	Wallet     string
	WindowDays int
	OffsetDays int
	Now        time.Time

	Normal   explorer.WindowResult
	Internal explorer.WindowResult
	Token    explorer.WindowResult

	// FirstSeenTS is the wallet's earliest native transaction, zero when the
	// wallet has no history.
	FirstSeenTS int64

	// Errors holds per-category fetch failures ("normal", "internal",
	// "erc20", "age"). Any entry marks the snapshot as degraded.
	Errors map[string]string
}

// Snapshot is the behavioral feature set of one wallet over one window.
// Counts are lower bounds when Truncated is set.
type Snapshot struct {
	Wallet               string            `json:"wallet"`
	WindowDays           int               `json:"window_days"`
	OffsetDays           int               `json:"offset_days"`
	DataOK               bool              `json:"data_ok"`
	Errors               map[string]string `json:"errors"`
	WalletAgeDays        int               `json:"wallet_age_days"`
	ActiveDays           int               `json:"active_days"`
	ConsistencyScore     float64           `json:"consistency_score"`
	UniqueTokens         int               `json:"unique_tokens"`
	UniqueCounterparties int               `json:"unique_counterparties"`
	StablecoinRatio      float64           `json:"stablecoin_ratio"`
	NormalTxCount        int               `json:"normal_tx_count"`
	InternalTxCount      int               `json:"internal_tx_count"`
	ERC20TxCount         int               `json:"erc20_tx_count"`
	Truncated            bool              `json:"truncated"`
}

// TotalTxCount sums activity across all three categories.
func (s Snapshot) TotalTxCount() int {
	return s.NormalTxCount + s.InternalTxCount + s.ERC20TxCount
}

// Extract computes the snapshot. It is a pure function of its input: no
// clock reads beyond the provided Now, no network.
func Extract(in Input) Snapshot {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	errs := in.Errors
	if errs == nil {
		errs = map[string]string{}
	}

	snap := Snapshot{
		Wallet:          in.Wallet,
		WindowDays:      in.WindowDays,
		OffsetDays:      in.OffsetDays,
		DataOK:          len(errs) == 0,
		Errors:          errs,
		NormalTxCount:   len(in.Normal.Rows),
		InternalTxCount: len(in.Internal.Rows),
		ERC20TxCount:    len(in.Token.Rows),
		Truncated:       in.Normal.Truncated || in.Internal.Truncated || in.Token.Truncated,
	}

	if in.FirstSeenTS > 0 {
		age := (now.Unix() - in.FirstSeenTS) / 86400
		if age < 0 {
			age = 0
		}
		snap.WalletAgeDays = int(age)
	}

	// Consistency counts distinct UTC calendar days with any activity,
	// across all categories.
	days := map[string]struct{}{}
	for _, rows := range [][]explorer.Transaction{in.Normal.Rows, in.Internal.Rows, in.Token.Rows} {
		for _, row := range rows {
			ts := row.Unix()
			if ts == 0 {
				continue
			}
			days[time.Unix(ts, 0).UTC().Format("2006-01-02")] = struct{}{}
		}
	}
	snap.ActiveDays = len(days)

	windowDays := in.WindowDays
	if windowDays < 1 {
		windowDays = 1
	}
	snap.ConsistencyScore = round4(float64(snap.ActiveDays) / float64(windowDays))

	wallet := strings.ToLower(strings.TrimSpace(in.Wallet))
	tokens := map[string]struct{}{}
	counterparties := map[string]struct{}{}
	stableCount := 0

	for _, row := range in.Token.Rows {
		symbol := strings.ToUpper(strings.TrimSpace(row.TokenSymbol))
		contract := strings.ToLower(strings.TrimSpace(row.ContractAddress))
		from := strings.ToLower(strings.TrimSpace(row.From))
		to := strings.ToLower(strings.TrimSpace(row.To))

		if contract != "" {
			tokens[contract] = struct{}{}
		}

		// The counterparty is whichever side of the transfer is not the
		// wallet itself.
		if from == wallet && to != "" {
			counterparties[to] = struct{}{}
		} else if to == wallet && from != "" {
			counterparties[from] = struct{}{}
		}

		if _, ok := stableSymbols[symbol]; ok {
			stableCount++
		}
	}

	snap.UniqueTokens = len(tokens)
	snap.UniqueCounterparties = len(counterparties)
	if snap.ERC20TxCount > 0 {
		snap.StablecoinRatio = round4(float64(stableCount) / float64(snap.ERC20TxCount))
	}

	return snap
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
