package trajectory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chainscore/internal/features"
)

func snap(normal, internal, erc20, counterparties int, stableRatio float64) features.Snapshot {
	return features.Snapshot{
		DataOK:               true,
		NormalTxCount:        normal,
		InternalTxCount:      internal,
		ERC20TxCount:         erc20,
		UniqueCounterparties: counterparties,
		StablecoinRatio:      stableRatio,
	}
}

func TestDirectionFollowsScore(t *testing.T) {
	base := snap(10, 0, 10, 5, 0.5)

	require.Equal(t, "improving", Compare(base, base, 70, 40).Direction.Risk)
	require.Equal(t, "worsening", Compare(base, base, 40, 70).Direction.Risk)
	require.Equal(t, "flat", Compare(base, base, 40, 40).Direction.Risk)
}

func TestZeroBaselineIsNeutral(t *testing.T) {
	curr := snap(10, 5, 20, 8, 0.5)
	prev := features.Snapshot{DataOK: true}

	c := Compare(curr, prev, 20, 10)
	require.Zero(t, c.Deltas.TxCount)
	require.Zero(t, c.Deltas.StablecoinRatio)
	require.Zero(t, c.Deltas.UniqueCounterparties)
	require.Empty(t, c.Drivers)
	require.Equal(t, "stable", c.Trend)
}

func TestDeterioratingOnStackedDrivers(t *testing.T) {
	curr := snap(10, 0, 10, 20, 0.3)
	prev := snap(10, 0, 10, 10, 0.8)

	c := Compare(curr, prev, 15, 20)
	require.Equal(t, []string{"stablecoin usage dropping fast", "counterparties spiking"}, c.Drivers)
	require.Equal(t, "deteriorating", c.Trend)
	require.Equal(t, "worsening", c.Direction.Risk)
	require.InDelta(t, -0.625, c.Deltas.StablecoinRatio, 1e-9)
	require.InDelta(t, 1.0, c.Deltas.UniqueCounterparties, 1e-9)
}

func TestImprovingOnStablecoinRise(t *testing.T) {
	curr := snap(10, 0, 10, 5, 0.5)
	prev := snap(10, 0, 10, 5, 0.4)

	c := Compare(curr, prev, 20, 18)
	require.Empty(t, c.Drivers)
	require.Equal(t, "improving", c.Trend)
}

func TestActivitySpikeAloneStaysStable(t *testing.T) {
	curr := snap(20, 5, 5, 5, 0.5)
	prev := snap(4, 1, 5, 5, 0.5)

	c := Compare(curr, prev, 20, 20)
	require.Equal(t, []string{"tx activity spike"}, c.Drivers)
	require.Equal(t, "stable", c.Trend, "one positive driver is not deterioration")
}

func TestIdenticalSnapshots(t *testing.T) {
	s := snap(10, 5, 20, 8, 0.5)
	c := Compare(s, s, 25, 25)

	require.Equal(t, Deltas{}, c.Deltas)
	require.Empty(t, c.Drivers)
	require.Equal(t, "stable", c.Trend)
	require.Equal(t, "flat", c.Direction.Risk)
}
