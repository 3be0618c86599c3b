// Package lending maps a risk tier and behavioral signals to collateral
// terms under a named lending profile.
package lending

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"chainscore/internal/scoring"
)

// ErrUnknownProfile marks a profile name outside the table.
var ErrUnknownProfile = errors.New("unknown lending profile")

// Terms are the base collateral terms one profile grants one tier.
type Terms struct {
	MaxLTV           decimal.Decimal
	CollateralFactor decimal.Decimal
	APR              decimal.Decimal
}

// Profile is a named set of per-tier base terms.
type Profile struct {
	Name  string
	Terms map[scoring.Tier]Terms
}

func terms(ltv, cf, apr string) Terms {
	return Terms{
		MaxLTV:           decimal.RequireFromString(ltv),
		CollateralFactor: decimal.RequireFromString(cf),
		APR:              decimal.RequireFromString(apr),
	}
}

// profiles is the policy table. HIGH rows are listed for completeness even
// though a HIGH tier always denies under the current decision mapping.
var profiles = map[string]Profile{
	"aave": {Name: "aave", Terms: map[scoring.Tier]Terms{
		scoring.TierLow:    terms("0.70", "0.75", "0.045"),
		scoring.TierMedium: terms("0.50", "0.60", "0.085"),
		scoring.TierHigh:   terms("0.25", "0.40", "0.150"),
	}},
	"compound": {Name: "compound", Terms: map[scoring.Tier]Terms{
		scoring.TierLow:    terms("0.65", "0.70", "0.055"),
		scoring.TierMedium: terms("0.45", "0.55", "0.095"),
		scoring.TierHigh:   terms("0.20", "0.35", "0.160"),
	}},
	"conservative": {Name: "conservative", Terms: map[scoring.Tier]Terms{
		scoring.TierLow:    terms("0.50", "0.60", "0.060"),
		scoring.TierMedium: terms("0.35", "0.45", "0.100"),
		scoring.TierHigh:   terms("0.15", "0.25", "0.170"),
	}},
}

// Lookup resolves a profile by name, case-insensitive.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Profiles lists the known profile names, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
