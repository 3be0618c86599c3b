package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chainscore/internal/features"
)

func healthySnap() features.Snapshot {
	return features.Snapshot{
		Wallet:               "0x1111111111111111111111111111111111111111",
		WindowDays:           30,
		DataOK:               true,
		WalletAgeDays:        400,
		ActiveDays:           25,
		ConsistencyScore:     0.8,
		UniqueTokens:         15,
		UniqueCounterparties: 300,
		StablecoinRatio:      0.7,
		NormalTxCount:        30,
		InternalTxCount:      5,
		ERC20TxCount:         40,
	}
}

func TestScoreStrongWallet(t *testing.T) {
	res := NewEngine(DefaultPolicy()).Score(healthySnap())

	require.Equal(t, TierLow, res.Tier)
	require.Equal(t, DecisionAllow, res.Decision)
	require.False(t, res.HardGated)
	// 10 base + 10 capped active days + 1 diversity + 6 counterparty bucket.
	require.Equal(t, 27, res.RawScore)
	require.Equal(t, 27, res.Score)
	require.Empty(t, res.Flags)
	require.Len(t, res.Breakdown, 4)
}

func TestScoreEmptyWallet(t *testing.T) {
	snap := features.Snapshot{Wallet: "0xabc", WindowDays: 30, DataOK: true}
	res := NewEngine(DefaultPolicy()).Score(snap)

	require.Equal(t, -8, res.RawScore)
	require.Equal(t, 0, res.Score, "reported score floors at zero")
	require.Equal(t, TierHigh, res.Tier)
	require.Equal(t, DecisionDeny, res.Decision)
	require.True(t, res.HardGated)

	var names []string
	for _, f := range res.Flags {
		names = append(names, f.Flag)
	}
	require.Equal(t, []string{"no_eth_activity_in_window", "no_erc20_activity_in_window"}, names)
}

func TestScoreClampedAbove(t *testing.T) {
	policy := DefaultPolicy()
	policy.BaseScore = 200

	res := NewEngine(policy).Score(healthySnap())
	require.Equal(t, 100, res.Score)
	require.Equal(t, 217, res.RawScore)
}

func TestScoreDeterministic(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	snap := healthySnap()
	require.Equal(t, engine.Score(snap), engine.Score(snap))
}

func TestHardGateDeniesRegardlessOfScore(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	young := healthySnap()
	young.WalletAgeDays = 10
	res := engine.Score(young)
	require.True(t, res.HardGated)
	require.Equal(t, DecisionDeny, res.Decision)
	require.Equal(t, TierLow, res.Tier, "the gate overrides the decision, not the tier")

	noTokens := healthySnap()
	noTokens.ERC20TxCount = 0
	noTokens.UniqueTokens = 0
	res = engine.Score(noTokens)
	require.True(t, res.HardGated)
	require.Equal(t, DecisionDeny, res.Decision)
}

func TestCounterpartyMonotonicity(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	prev := -1
	for _, n := range []int{0, 4, 5, 24, 25, 99, 100, 1000} {
		snap := healthySnap()
		snap.UniqueCounterparties = n
		score := engine.Score(snap).Score
		require.GreaterOrEqual(t, score, prev, "counterparties=%d", n)
		prev = score
	}
}

func TestTierCutPoints(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	high := healthySnap()
	high.ERC20TxCount = 0
	high.UniqueTokens = 0
	high.UniqueCounterparties = 0
	high.ActiveDays = 2
	// 10 + 2 - 12 = 0, on the HIGH boundary.
	res := engine.Score(high)
	require.Equal(t, 0, res.RawScore)
	require.Equal(t, TierHigh, res.Tier)

	medium := healthySnap()
	medium.NormalTxCount = 0
	medium.InternalTxCount = 0
	medium.ActiveDays = 1
	medium.UniqueTokens = 5
	medium.UniqueCounterparties = 0
	// 10 + 1 - 6 = 5.
	res = engine.Score(medium)
	require.Equal(t, 5, res.RawScore)
	require.Equal(t, TierMedium, res.Tier)
	require.Equal(t, DecisionLimit, res.Decision)

	res = engine.Score(healthySnap())
	require.Equal(t, TierLow, res.Tier)
}

func TestUnknownTierOnDegradedData(t *testing.T) {
	snap := healthySnap()
	snap.DataOK = false
	snap.Errors = map[string]string{"erc20": "retries exhausted"}

	res := NewEngine(DefaultPolicy()).Score(snap)
	require.Equal(t, TierUnknown, res.Tier)
	require.Equal(t, DecisionDeny, res.Decision)
}

func TestTruncationPenalty(t *testing.T) {
	snap := healthySnap()
	snap.Truncated = true

	res := NewEngine(DefaultPolicy()).Score(snap)
	require.Equal(t, 25, res.RawScore)

	found := false
	for _, f := range res.Flags {
		if f.Flag == "history_truncated" {
			found = true
			require.Equal(t, SeverityMedium, f.Severity)
		}
	}
	require.True(t, found)
}

func TestNewEngineZeroPolicyFallsBack(t *testing.T) {
	snap := healthySnap()
	require.Equal(t, NewEngine(DefaultPolicy()).Score(snap), NewEngine(Policy{}).Score(snap))
}
