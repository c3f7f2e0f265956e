package cmd

import (
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg.UseMemoryStore = false
			_, closeStore, err := openStore(cfg, log, true)
			if err != nil {
				return err
			}
			closeStore()
			return nil
		},
	}
}
