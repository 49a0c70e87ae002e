package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"tebak-kode-bot/internal/config"
	"tebak-kode-bot/internal/infra/postgres"
	"tebak-kode-bot/internal/logging"
	"tebak-kode-bot/internal/seed"
)

// NewSeedCmd loads the question set into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the quiz questions into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "question YAML file (defaults to quiz.questions_file, then the built-in set)")
	return cmd
}

func runSeed(ctx context.Context, configPath, file string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	if file == "" {
		file = cfg.Quiz.QuestionsFile
	}
	questions, err := seed.Load(file)
	if err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	db := openDB(cfg.Postgres.URL)
	defer db.Close()

	n, err := postgres.SeedQuestions(ctx, db, questions)
	if err != nil {
		return err
	}
	source := file
	if source == "" {
		source = "built-in"
	}
	logger.Info("questions seeded", slog.Int("count", n), slog.String("source", source))
	return nil
}
