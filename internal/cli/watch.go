package cli

import (
	"github.com/spf13/cobra"

	"chainscore/internal/app"
)

var (
	watchWallets []string
	watchProfile string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-score wallets on a schedule and alert on deterioration",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.WatchOptions{
			Wallets: watchWallets,
			Profile: watchProfile,
		}

		return getApp().Watch(cmd.Context(), opts)
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchWallets, "wallet", nil, "Wallet to watch (repeatable; defaults to watch.wallets)")
	watchCmd.Flags().StringVar(&watchProfile, "profile", "", "Lending profile (defaults to config)")
}
