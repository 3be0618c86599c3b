package scoring

// CounterpartyBucket grants points once the distinct counterparty count
// reaches Min. Buckets are evaluated in order; the last satisfied one wins.
type CounterpartyBucket struct {
	Min    int
	Points int
}

// Policy is the cut-point table the engine applies. Scores are only
// comparable under the same table, so treat any change as a policy revision.
type Policy struct {
	// BaseScore is the starting credit before adjustments.
	BaseScore int

	// ActiveDayCap bounds the one-point-per-active-day credit.
	ActiveDayCap int

	// TokensPerPoint and TokenPointsCap shape the diversity bonus: one point
	// per TokensPerPoint distinct tokens, at most TokenPointsCap points.
	TokensPerPoint int
	TokenPointsCap int

	// CounterpartyBuckets grant points for counterparty breadth, sorted by
	// ascending Min with non-decreasing Points.
	CounterpartyBuckets []CounterpartyBucket

	// Penalties. NoTokenPenalty and NoNativePenalty fire on zero activity in
	// the respective categories; TruncationPenalty marks an incomplete
	// picture rather than confident low quality.
	NoTokenPenalty    int
	NoNativePenalty   int
	TruncationPenalty int

	// MinWalletAgeDays is the hard gate: younger wallets are denied outright.
	MinWalletAgeDays int

	// Tier cut points over the raw, pre-clamp score: raw <= HighTierMax is
	// HIGH risk, raw <= MediumTierMax is MEDIUM, anything above is LOW.
	HighTierMax   int
	MediumTierMax int
}

// DefaultPolicy returns the canonical table.
func DefaultPolicy() Policy {
	return Policy{
		BaseScore:      10,
		ActiveDayCap:   10,
		TokensPerPoint: 10,
		TokenPointsCap: 6,
		CounterpartyBuckets: []CounterpartyBucket{
			{Min: 5, Points: 2},
			{Min: 25, Points: 4},
			{Min: 100, Points: 6},
		},
		NoTokenPenalty:    12,
		NoNativePenalty:   6,
		TruncationPenalty: 2,
		MinWalletAgeDays:  30,
		HighTierMax:       0,
		MediumTierMax:     6,
	}
}
