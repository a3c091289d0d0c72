package cli

import (
	"cultural-quiz-service/internal/infra/postgres"
	"cultural-quiz-service/internal/infra/seed"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the bundled catalog dataset into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed countries, guides and quizzes into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if !skipMigrate {
				if err := runMigrations(ctx, cfg, log); err != nil {
					return err
				}
			}

			dataset, err := seed.Load()
			if err != nil {
				return err
			}
			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.NewSeeder(db).Seed(ctx, dataset.Entries())
			if err != nil {
				return err
			}
			log.Info("catalog seeded", "countries", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations before seeding")
	return cmd
}
