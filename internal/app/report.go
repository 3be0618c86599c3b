package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"chainscore/internal/service"
)

// Report renders a wallet scorecard as CSV and/or a PNG activity chart.
// When neither path is given, both land under report.output_dir.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	svc := a.newService(nil)
	defer svc.Close()

	outcome, err := svc.Score(ctx, opts.Wallet, opts.Profile, opts.WindowDays)
	if err != nil {
		return err
	}

	if opts.CSVPath == "" && opts.PNGPath == "" {
		base := filepath.Join(a.Config.Report.OutputDir, strings.ToLower(outcome.Wallet))
		opts.CSVPath = base + ".csv"
		opts.PNGPath = base + ".png"
	}

	if opts.CSVPath != "" {
		if err := writeScorecardCSV(opts.CSVPath, outcome); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	if opts.PNGPath != "" {
		if err := writeActivityPNG(opts.PNGPath, outcome); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}

	a.Logger.Info().
		Str("wallet", outcome.Wallet).
		Str("csv", opts.CSVPath).
		Str("png", opts.PNGPath).
		Msg("report written")
	return nil
}

func writeScorecardCSV(path string, outcome service.ScoreOutcome) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	snap := outcome.Features
	rows := [][]string{
		{"field", "value"},
		{"wallet", outcome.Wallet},
		{"profile", outcome.Profile},
		{"window_days", strconv.Itoa(snap.WindowDays)},
		{"data_ok", strconv.FormatBool(snap.DataOK)},
		{"score", strconv.Itoa(outcome.Score.Score)},
		{"raw_score", strconv.Itoa(outcome.Score.RawScore)},
		{"tier", string(outcome.Score.Tier)},
		{"decision", string(outcome.Score.Decision)},
		{"hard_gated", strconv.FormatBool(outcome.Score.HardGated)},
		{"wallet_age_days", strconv.Itoa(snap.WalletAgeDays)},
		{"active_days", strconv.Itoa(snap.ActiveDays)},
		{"consistency_score", strconv.FormatFloat(snap.ConsistencyScore, 'f', 4, 64)},
		{"unique_tokens", strconv.Itoa(snap.UniqueTokens)},
		{"unique_counterparties", strconv.Itoa(snap.UniqueCounterparties)},
		{"stablecoin_ratio", strconv.FormatFloat(snap.StablecoinRatio, 'f', 4, 64)},
		{"normal_tx_count", strconv.Itoa(snap.NormalTxCount)},
		{"internal_tx_count", strconv.Itoa(snap.InternalTxCount)},
		{"erc20_tx_count", strconv.Itoa(snap.ERC20TxCount)},
		{"truncated", strconv.FormatBool(snap.Truncated)},
	}
	for _, factor := range outcome.Score.Breakdown {
		rows = append(rows, []string{"factor_" + factor.Name, strconv.Itoa(factor.Points)})
	}
	for _, flag := range outcome.Score.Flags {
		rows = append(rows, []string{"flag", flag.Flag})
	}

	rec := outcome.Recommendation
	rows = append(rows, []string{"policy_label", rec.PolicyLabel})
	if rec.MaxLTV != nil && rec.CollateralFactor != nil && rec.APR != nil {
		rows = append(rows,
			[]string{"max_ltv", rec.MaxLTV.String()},
			[]string{"collateral_factor", rec.CollateralFactor.String()},
			[]string{"apr", rec.APR.String()},
		)
	}
	for _, line := range rec.Rationale {
		rows = append(rows, []string{"rationale", line})
	}

	writer := csv.NewWriter(file)
	return writer.WriteAll(rows)
}

func writeActivityPNG(path string, outcome service.ScoreOutcome) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	snap := outcome.Features
	bars := []chart.Value{
		{Value: float64(snap.ActiveDays), Label: "Active days"},
		{Value: float64(snap.UniqueTokens), Label: "Tokens"},
		{Value: float64(snap.UniqueCounterparties), Label: "Counterparties"},
		{Value: float64(snap.NormalTxCount), Label: "Normal tx"},
		{Value: float64(snap.InternalTxCount), Label: "Internal tx"},
		{Value: float64(snap.ERC20TxCount), Label: "ERC-20 tx"},
	}

	// A fixed range keeps the render from failing on an all-zero wallet.
	maxValue := 1.0
	for _, bar := range bars {
		if bar.Value > maxValue {
			maxValue = bar.Value
		}
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s activity, %d-day window", outcome.Wallet, snap.WindowDays),
		Width:    1280,
		Height:   720,
		BarWidth: 80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
