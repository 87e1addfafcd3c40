package cmd

import (
	"github.com/spf13/cobra"

	"gadgetstore/internal/database"
)

var withCatalog bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, statuses, the admin account and optionally a demo catalogue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DB, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx := cmd.Context()
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.SeedDefaults(ctx, db); err != nil {
			return err
		}
		if err := database.SeedAdmin(ctx, db, cfg.Admin.Email, cfg.Admin.Password, logger); err != nil {
			return err
		}
		if withCatalog {
			if err := database.SeedCatalog(ctx, db, logger); err != nil {
				return err
			}
		}
		logger.Info("seed completed")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&withCatalog, "catalog", true, "also seed demo categories, brands, attributes and products")
	rootCmd.AddCommand(seedCmd)
}
