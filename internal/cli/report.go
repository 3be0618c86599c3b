package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	reportWallet  string
	reportProfile string
	reportWindow  int
	reportCSVPath string
	reportPNGPath string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a wallet scorecard as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportWallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}

		opts := app.ReportOptions{
			Wallet:     reportWallet,
			Profile:    reportProfile,
			WindowDays: reportWindow,
			CSVPath:    reportCSVPath,
			PNGPath:    reportPNGPath,
		}

		return getApp().Report(cmd.Context(), opts)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWallet, "wallet", "", "Wallet address (0x-prefixed)")
	reportCmd.Flags().StringVar(&reportProfile, "profile", "", "Lending profile (defaults to config)")
	reportCmd.Flags().IntVar(&reportWindow, "window-days", 0, "Observation window in days (defaults to config)")
	reportCmd.Flags().StringVar(&reportCSVPath, "csv", "", "Path to write CSV data (defaults under report.output_dir)")
	reportCmd.Flags().StringVar(&reportPNGPath, "png", "", "Path to write PNG chart (defaults under report.output_dir)")
}
