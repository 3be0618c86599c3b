package lending

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"chainscore/internal/features"
	"chainscore/internal/scoring"
)

// Recommendation carries the collateral terms extended to one wallet. The
// term fields are nil when credit is denied.
type Recommendation struct {
	Profile          string           `json:"profile"`
	PolicyLabel      string           `json:"policy_label"`
	MaxLTV           *decimal.Decimal `json:"max_ltv"`
	CollateralFactor *decimal.Decimal `json:"collateral_factor"`
	APR              *decimal.Decimal `json:"apr"`
	Rationale        []string         `json:"rationale"`
}

var (
	ltvFloor = decimal.RequireFromString("0.15")
	ltvCeil  = decimal.RequireFromString("0.75")
	ltvStep  = decimal.RequireFromString("0.05")
)

// Behavioral adjustment thresholds on the snapshot ratios.
const (
	stableRatioBonusMin = 0.6
	consistencyFloor    = 0.1
)

// Recommend derives collateral terms from a scoring outcome. It is a pure
// function; a DENY decision always yields null terms no matter how
// favorable the behavioral signals are.
func Recommend(snap features.Snapshot, res scoring.Result, profileName string) (Recommendation, error) {
	profile, err := Lookup(profileName)
	if err != nil {
		return Recommendation{}, err
	}

	if res.Decision == scoring.DecisionDeny {
		return denied(profile, res), nil
	}

	base, ok := profile.Terms[res.Tier]
	if !ok {
		return denied(profile, res), nil
	}

	rationale := []string{fmt.Sprintf("base %s terms for %s tier", profile.Name, res.Tier)}
	ltv := base.MaxLTV

	if snap.StablecoinRatio >= stableRatioBonusMin {
		ltv = ltv.Add(ltvStep)
		rationale = append(rationale, fmt.Sprintf("stablecoin ratio %.2f at or above %.2f, max LTV raised by %s", snap.StablecoinRatio, stableRatioBonusMin, ltvStep))
	}
	if snap.ConsistencyScore < consistencyFloor {
		ltv = ltv.Sub(ltvStep)
		rationale = append(rationale, fmt.Sprintf("consistency %.4f below %.2f, max LTV lowered by %s", snap.ConsistencyScore, consistencyFloor, ltvStep))
	}
	if snap.InternalTxCount > snap.NormalTxCount {
		ltv = ltv.Sub(ltvStep)
		rationale = append(rationale, fmt.Sprintf("contract-heavy activity (%d internal vs %d normal), max LTV lowered by %s", snap.InternalTxCount, snap.NormalTxCount, ltvStep))
	}

	ltv, clamped := clampLTV(ltv)
	if clamped {
		rationale = append(rationale, fmt.Sprintf("max LTV clamped into [%s, %s]", ltvFloor, ltvCeil))
	}

	cf := base.CollateralFactor
	apr := base.APR

	return Recommendation{
		Profile:          profile.Name,
		PolicyLabel:      fmt.Sprintf("%s:%s", profile.Name, res.Tier),
		MaxLTV:           &ltv,
		CollateralFactor: &cf,
		APR:              &apr,
		Rationale:        rationale,
	}, nil
}

func denied(profile Profile, res scoring.Result) Recommendation {
	rationale := []string{"credit denied, no terms extended"}
	if res.HardGated {
		rationale = append(rationale, "hard gate triggered")
	}
	switch res.Tier {
	case scoring.TierUnknown:
		rationale = append(rationale, "risk tier unknown, upstream data incomplete")
	case scoring.TierHigh:
		rationale = append(rationale, "risk tier high")
	}
	for _, f := range res.Flags {
		rationale = append(rationale, fmt.Sprintf("%s: %s", f.Flag, f.Note))
	}

	return Recommendation{
		Profile:     profile.Name,
		PolicyLabel: fmt.Sprintf("%s:%s", profile.Name, strings.ToLower(string(scoring.DecisionDeny))),
		Rationale:   rationale,
	}
}

// clampLTV bounds v into the global safety band regardless of how
// adjustments stacked up.
func clampLTV(v decimal.Decimal) (decimal.Decimal, bool) {
	if v.LessThan(ltvFloor) {
		return ltvFloor, true
	}
	if v.GreaterThan(ltvCeil) {
		return ltvCeil, true
	}
	return v, false
}
