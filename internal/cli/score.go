package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	scoreWallet  string
	scoreProfile string
	scoreWindow  int
	scoreJSON    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one wallet and print the lending decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreWallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}

		opts := app.ScoreOptions{
			Wallet:     scoreWallet,
			Profile:    scoreProfile,
			WindowDays: scoreWindow,
			JSON:       scoreJSON,
		}

		return getApp().ScoreWallet(cmd.Context(), opts)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreWallet, "wallet", "", "Wallet address (0x-prefixed)")
	scoreCmd.Flags().StringVar(&scoreProfile, "profile", "", "Lending profile (defaults to config)")
	scoreCmd.Flags().IntVar(&scoreWindow, "window-days", 0, "Observation window in days (defaults to config)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print raw JSON instead of a table")
}
