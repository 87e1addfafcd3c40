package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gadgetstore/internal/app"
)

var tickStep int64

var promotionsCmd = &cobra.Command{
	Use:   "promotions",
	Short: "Promotion maintenance",
}

var promotionsTickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Advance the countdown of every active promotion",
	Long: `tick subtracts --step seconds from the remaining time of every active
promotion and expires those that run out, restoring the regular price of the
products they covered. Scheduled promotions whose start date has passed are
activated. Schedule it once per --step seconds.

The API server caches products, so tick refuses to run without redis.addr.
Without redis, use POST /api/v1/admin/promotions/tick instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		if err := app.RequireSharedCache(cfg.Redis); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := app.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Services.Promotions.Tick(ctx, tickStep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "decremented: %d, expired: %d, activated: %d\n",
			result.Decremented, result.Expired, result.Activated)
		return nil
	},
}

func init() {
	promotionsTickCmd.Flags().Int64Var(&tickStep, "step", 1, "seconds to subtract from each countdown")
	promotionsCmd.AddCommand(promotionsTickCmd)
	rootCmd.AddCommand(promotionsCmd)
}
