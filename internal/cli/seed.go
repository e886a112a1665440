package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
)

func newSeedMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-members <file.yaml>",
		Short: "Upsert team members from a YAML file",
		Long: `Upsert team members from a YAML file of the form:

  teamMembers:
    - workdayId: "W1001"
      email: ana@example.com
      name: Ana
      status: active`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}

			svc := services.NewTeamMemberService(repository.NewTeamMemberRepository(db), logger)
			count, err := svc.SeedFromYAML(cmd.Context(), f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d team members\n", count)
			return nil
		},
	}
}
