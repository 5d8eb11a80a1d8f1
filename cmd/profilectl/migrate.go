package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-hub/internal/config"
	"profile-hub/internal/db"
	"profile-hub/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		pool, err := db.NewPool(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		applied, err := db.Migrate(cmd.Context(), pool, migrations.FS)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
		if len(applied) == 0 {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return err
		}
		for _, name := range applied {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
