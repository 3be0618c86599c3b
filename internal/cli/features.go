package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	featuresWallet  string
	featuresProfile string
	featuresWindow  int
	featuresOffset  int
	featuresJSON    bool
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Extract the behavioural snapshot for one wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if featuresWallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}
		if featuresOffset < 0 {
			return fmt.Errorf("--offset-days cannot be negative")
		}

		opts := app.FeatureOptions{
			Wallet:     featuresWallet,
			Profile:    featuresProfile,
			WindowDays: featuresWindow,
			OffsetDays: featuresOffset,
			JSON:       featuresJSON,
		}

		return getApp().ShowFeatures(cmd.Context(), opts)
	},
}

func init() {
	featuresCmd.Flags().StringVar(&featuresWallet, "wallet", "", "Wallet address (0x-prefixed)")
	featuresCmd.Flags().StringVar(&featuresProfile, "profile", "", "Lending profile (defaults to config)")
	featuresCmd.Flags().IntVar(&featuresWindow, "window-days", 0, "Observation window in days (defaults to config)")
	featuresCmd.Flags().IntVar(&featuresOffset, "offset-days", 0, "Shift the window back by this many days")
	featuresCmd.Flags().BoolVar(&featuresJSON, "json", false, "Print raw JSON instead of a table")
}
