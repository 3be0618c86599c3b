// Package scoring maps a feature snapshot to a bounded score, risk tier,
// and lending decision with a reproducible explainability breakdown.
package scoring

import (
	"fmt"

	"chainscore/internal/features"
)

// Tier is the categorical risk bucket.
type Tier string

const (
	TierLow     Tier = "LOW"
	TierMedium  Tier = "MEDIUM"
	TierHigh    Tier = "HIGH"
	TierUnknown Tier = "UNKNOWN"
)

// Decision is the lending verdict derived from the tier and hard gate.
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionLimit Decision = "LIMIT"
	DecisionDeny  Decision = "DENY"
)

// Severity grades a qualitative flag.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Flag is a qualitative warning attached to a score.
type Flag struct {
	Flag     string   `json:"flag"`
	Severity Severity `json:"severity"`
	Note     string   `json:"note"`
}

// Factor is one line of the explainability breakdown.
type Factor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Note   string `json:"note"`
}

// Result is the full scoring outcome for one snapshot. Score is clamped to
// [0, 100]; RawScore keeps the unclamped sum the tier cut points apply to.
type Result struct {
	Score     int      `json:"score"`
	RawScore  int      `json:"raw_score"`
	Tier      Tier     `json:"tier"`
	Decision  Decision `json:"decision"`
	HardGated bool     `json:"hard_gated"`
	Flags     []Flag   `json:"flags"`
	Breakdown []Factor `json:"breakdown"`
}

const (
	minScore = 0
	maxScore = 100
)

// Engine applies one policy table. It is a pure function of the snapshot:
// no clock, no randomness, no I/O.
type Engine struct {
	policy Policy
}

// NewEngine constructs an engine, falling back to the default policy when
// given a zero one.
func NewEngine(policy Policy) *Engine {
	if policy.BaseScore == 0 && policy.CounterpartyBuckets == nil {
		policy = DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// Score evaluates one snapshot against the policy table.
func (e *Engine) Score(snap features.Snapshot) Result {
	p := e.policy
	flags := []Flag{}
	breakdown := []Factor{}

	nativeActivity := snap.NormalTxCount + snap.InternalTxCount

	if nativeActivity == 0 {
		flags = append(flags, Flag{
			Flag:     "no_eth_activity_in_window",
			Severity: SeverityMedium,
			Note:     fmt.Sprintf("no native or internal transactions in the last %d days", snap.WindowDays),
		})
	}
	if snap.ERC20TxCount == 0 {
		flags = append(flags, Flag{
			Flag:     "no_erc20_activity_in_window",
			Severity: SeverityHigh,
			Note:     fmt.Sprintf("no token transfers in the last %d days", snap.WindowDays),
		})
	}
	if snap.Truncated {
		flags = append(flags, Flag{
			Flag:     "history_truncated",
			Severity: SeverityMedium,
			Note:     "activity exceeds the fetch ceiling, counts are a lower bound",
		})
	}

	raw := p.BaseScore
	breakdown = append(breakdown, Factor{
		Name:   "base",
		Points: p.BaseScore,
		Note:   "starting credit",
	})

	activePts := snap.ActiveDays
	if activePts > p.ActiveDayCap {
		activePts = p.ActiveDayCap
	}
	raw += activePts
	breakdown = append(breakdown, Factor{
		Name:   "active_days",
		Points: activePts,
		Note:   fmt.Sprintf("%d active days, one point each up to %d", snap.ActiveDays, p.ActiveDayCap),
	})

	tokenPts := 0
	if p.TokensPerPoint > 0 {
		tokenPts = snap.UniqueTokens / p.TokensPerPoint
	}
	if tokenPts > p.TokenPointsCap {
		tokenPts = p.TokenPointsCap
	}
	raw += tokenPts
	breakdown = append(breakdown, Factor{
		Name:   "token_diversity",
		Points: tokenPts,
		Note:   fmt.Sprintf("%d distinct tokens", snap.UniqueTokens),
	})

	cpPts := 0
	for _, bucket := range p.CounterpartyBuckets {
		if snap.UniqueCounterparties >= bucket.Min {
			cpPts = bucket.Points
		}
	}
	raw += cpPts
	breakdown = append(breakdown, Factor{
		Name:   "counterparties",
		Points: cpPts,
		Note:   fmt.Sprintf("%d distinct counterparties", snap.UniqueCounterparties),
	})

	if snap.ERC20TxCount == 0 {
		raw -= p.NoTokenPenalty
		breakdown = append(breakdown, Factor{
			Name:   "no_erc20_activity",
			Points: -p.NoTokenPenalty,
			Note:   "no token transfers in window",
		})
	}
	if nativeActivity == 0 {
		raw -= p.NoNativePenalty
		breakdown = append(breakdown, Factor{
			Name:   "no_eth_activity",
			Points: -p.NoNativePenalty,
			Note:   "no native or internal transactions in window",
		})
	}
	if snap.Truncated {
		raw -= p.TruncationPenalty
		breakdown = append(breakdown, Factor{
			Name:   "history_truncated",
			Points: -p.TruncationPenalty,
			Note:   "incomplete activity picture",
		})
	}

	// Tier cut points read the raw sum so that deeply negative wallets stay
	// distinguishable even though the reported score floors at zero.
	tier := TierUnknown
	if snap.DataOK {
		switch {
		case raw <= p.HighTierMax:
			tier = TierHigh
		case raw <= p.MediumTierMax:
			tier = TierMedium
		default:
			tier = TierLow
		}
	}

	gated := snap.WalletAgeDays < p.MinWalletAgeDays || snap.ERC20TxCount == 0
	if gated {
		breakdown = append(breakdown, Factor{
			Name:   "hard_gate",
			Points: 0,
			Note:   gateNote(snap, p),
		})
	}

	decision := DecisionDeny
	switch {
	case tier == TierUnknown || gated || tier == TierHigh:
		decision = DecisionDeny
	case tier == TierMedium:
		decision = DecisionLimit
	case tier == TierLow:
		decision = DecisionAllow
	}

	return Result{
		Score:     clamp(raw),
		RawScore:  raw,
		Tier:      tier,
		Decision:  decision,
		HardGated: gated,
		Flags:     flags,
		Breakdown: breakdown,
	}
}

func gateNote(snap features.Snapshot, p Policy) string {
	switch {
	case snap.WalletAgeDays < p.MinWalletAgeDays && snap.ERC20TxCount == 0:
		return fmt.Sprintf("wallet younger than %d days and no token activity, denied outright", p.MinWalletAgeDays)
	case snap.WalletAgeDays < p.MinWalletAgeDays:
		return fmt.Sprintf("wallet age %d days is below the %d day minimum, denied outright", snap.WalletAgeDays, p.MinWalletAgeDays)
	default:
		return "no token activity in window, denied outright"
	}
}

func clamp(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
