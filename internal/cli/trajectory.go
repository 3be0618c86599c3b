package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	trajectoryWallet  string
	trajectoryProfile string
	trajectoryWindow  int
	trajectoryJSON    bool
)

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory",
	Short: "Compare a wallet's current window against the preceding one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trajectoryWallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}

		opts := app.TrajectoryOptions{
			Wallet:     trajectoryWallet,
			Profile:    trajectoryProfile,
			WindowDays: trajectoryWindow,
			JSON:       trajectoryJSON,
		}

		return getApp().ShowTrajectory(cmd.Context(), opts)
	},
}

func init() {
	trajectoryCmd.Flags().StringVar(&trajectoryWallet, "wallet", "", "Wallet address (0x-prefixed)")
	trajectoryCmd.Flags().StringVar(&trajectoryProfile, "profile", "", "Lending profile (defaults to config)")
	trajectoryCmd.Flags().IntVar(&trajectoryWindow, "window-days", 0, "Observation window in days (defaults to config)")
	trajectoryCmd.Flags().BoolVar(&trajectoryJSON, "json", false, "Print raw JSON instead of a table")
}
