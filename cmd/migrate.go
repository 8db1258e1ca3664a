package cmd

import (
	"surplus-food-api/logging"
	"surplus-food-api/store"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.New(cfg.Log.Level, cfg.Log.Format)

		s, err := store.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.WithField("driver", cfg.Database.Driver).Info("database migrated")
		return nil
	},
}
