// Package trajectory diffs two feature snapshots of one wallet, offset by
// a window, into normalized deltas, qualitative drivers, and a trend label.
// It is a threshold table, not a model.
package trajectory

import (
	"chainscore/internal/features"
)

// Driver thresholds over the normalized deltas.
const (
	stableDropThreshold   = -0.25
	stableRiseThreshold   = 0.20
	counterpartySpikeMin  = 0.50
	activitySpikeMultiple = 1.0
)

// Deltas holds the percentage change of each tracked metric, current
// against previous. A zero baseline yields a neutral zero delta.
type Deltas struct {
	TxCount              float64 `json:"tx_count"`
	NormalTxCount        float64 `json:"normal_tx_count"`
	InternalTxCount      float64 `json:"internal_tx_count"`
	ERC20TxCount         float64 `json:"erc20_tx_count"`
	ConsistencyScore     float64 `json:"consistency_score"`
	UniqueTokens         float64 `json:"unique_tokens"`
	UniqueCounterparties float64 `json:"unique_counterparties"`
	StablecoinRatio      float64 `json:"stablecoin_ratio"`
	Score                float64 `json:"score"`
}

// Direction summarises where the wallet is heading.
type Direction struct {
	Risk string `json:"risk"`
}

// Comparison is the full trajectory verdict.
type Comparison struct {
	Trend     string    `json:"trend"`
	Deltas    Deltas    `json:"deltas"`
	Drivers   []string  `json:"drivers"`
	Direction Direction `json:"direction"`
}

// Compare diffs current against previous. Scores are the raw scoring sums
// so that movement below the reporting floor still registers.
func Compare(curr, prev features.Snapshot, currScore, prevScore int) Comparison {
	deltas := Deltas{
		TxCount:              pctChange(float64(curr.TotalTxCount()), float64(prev.TotalTxCount())),
		NormalTxCount:        pctChange(float64(curr.NormalTxCount), float64(prev.NormalTxCount)),
		InternalTxCount:      pctChange(float64(curr.InternalTxCount), float64(prev.InternalTxCount)),
		ERC20TxCount:         pctChange(float64(curr.ERC20TxCount), float64(prev.ERC20TxCount)),
		ConsistencyScore:     pctChange(curr.ConsistencyScore, prev.ConsistencyScore),
		UniqueTokens:         pctChange(float64(curr.UniqueTokens), float64(prev.UniqueTokens)),
		UniqueCounterparties: pctChange(float64(curr.UniqueCounterparties), float64(prev.UniqueCounterparties)),
		StablecoinRatio:      pctChange(curr.StablecoinRatio, prev.StablecoinRatio),
		Score:                pctChange(float64(currScore), float64(prevScore)),
	}

	drivers := []string{}
	if deltas.StablecoinRatio < stableDropThreshold {
		drivers = append(drivers, "stablecoin usage dropping fast")
	}
	if deltas.UniqueCounterparties > counterpartySpikeMin {
		drivers = append(drivers, "counterparties spiking")
	}
	if deltas.TxCount > activitySpikeMultiple {
		drivers = append(drivers, "tx activity spike")
	}

	trend := "stable"
	if len(drivers) >= 2 {
		trend = "deteriorating"
	} else if deltas.StablecoinRatio > stableRiseThreshold {
		trend = "improving"
	}

	risk := "flat"
	if currScore > prevScore {
		risk = "improving"
	} else if currScore < prevScore {
		risk = "worsening"
	}

	return Comparison{
		Trend:     trend,
		Deltas:    deltas,
		Drivers:   drivers,
		Direction: Direction{Risk: risk},
	}
}

func pctChange(curr, prev float64) float64 {
	if prev == 0 {
		return 0.0
	}
	return (curr - prev) / prev
}
