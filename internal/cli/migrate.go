package cli

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/team-task-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}
