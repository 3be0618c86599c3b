package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	compareWalletA string
	compareWalletB string
	compareProfile string
	compareWindow  int
	compareJSON    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score two wallets under the same profile and rank them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if compareWalletA == "" || compareWalletB == "" {
			return fmt.Errorf("--wallet-a and --wallet-b must be provided")
		}

		opts := app.CompareOptions{
			WalletA:    compareWalletA,
			WalletB:    compareWalletB,
			Profile:    compareProfile,
			WindowDays: compareWindow,
			JSON:       compareJSON,
		}

		return getApp().CompareWallets(cmd.Context(), opts)
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareWalletA, "wallet-a", "", "First wallet address")
	compareCmd.Flags().StringVar(&compareWalletB, "wallet-b", "", "Second wallet address")
	compareCmd.Flags().StringVar(&compareProfile, "profile", "", "Lending profile (defaults to config)")
	compareCmd.Flags().IntVar(&compareWindow, "window-days", 0, "Observation window in days (defaults to config)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print raw JSON instead of a table")
}
