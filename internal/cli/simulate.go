package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	simulateProfile        string
	simulateWindow         int
	simulateAge            int
	simulateActiveDays     int
	simulateTokens         int
	simulateCounterparties int
	simulateStableRatio    float64
	simulateNormalTx       int
	simulateInternalTx     int
	simulateERC20Tx        int
	simulateTruncated      bool
	simulateJSON           bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Score a synthetic wallet snapshot offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateStableRatio < 0 || simulateStableRatio > 1 {
			return fmt.Errorf("--stablecoin-ratio must be within [0, 1]")
		}

		opts := app.SimulateOptions{
			Profile:              simulateProfile,
			WindowDays:           simulateWindow,
			WalletAgeDays:        simulateAge,
			ActiveDays:           simulateActiveDays,
			UniqueTokens:         simulateTokens,
			UniqueCounterparties: simulateCounterparties,
			StablecoinRatio:      simulateStableRatio,
			NormalTxCount:        simulateNormalTx,
			InternalTxCount:      simulateInternalTx,
			ERC20TxCount:         simulateERC20Tx,
			Truncated:            simulateTruncated,
			JSON:                 simulateJSON,
		}

		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateProfile, "profile", "", "Lending profile (defaults to config)")
	simulateCmd.Flags().IntVar(&simulateWindow, "window-days", 0, "Observation window in days (defaults to config)")
	simulateCmd.Flags().IntVar(&simulateAge, "age-days", 365, "Wallet age in days")
	simulateCmd.Flags().IntVar(&simulateActiveDays, "active-days", 10, "Distinct active days inside the window")
	simulateCmd.Flags().IntVar(&simulateTokens, "tokens", 5, "Unique token contracts touched")
	simulateCmd.Flags().IntVar(&simulateCounterparties, "counterparties", 20, "Unique transfer counterparties")
	simulateCmd.Flags().Float64Var(&simulateStableRatio, "stablecoin-ratio", 0.5, "Share of ERC-20 transfers in stablecoins")
	simulateCmd.Flags().IntVar(&simulateNormalTx, "normal-tx", 20, "Normal transaction count")
	simulateCmd.Flags().IntVar(&simulateInternalTx, "internal-tx", 2, "Internal transaction count")
	simulateCmd.Flags().IntVar(&simulateERC20Tx, "erc20-tx", 15, "ERC-20 transfer count")
	simulateCmd.Flags().BoolVar(&simulateTruncated, "truncated", false, "Mark the history as truncated")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "Print raw JSON instead of a table")
}
