package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gameforge/internal/artifact"
	"github.com/fyrsmithlabs/gameforge/internal/config"
	"github.com/fyrsmithlabs/gameforge/internal/generate"
	"github.com/fyrsmithlabs/gameforge/internal/logging"
	"github.com/fyrsmithlabs/gameforge/internal/pipeline"
	"github.com/fyrsmithlabs/gameforge/internal/telemetry"
)

var (
	runName      string
	runMaxRounds int
)

var runCmd = &cobra.Command{
	Use:   "run <concept>",
	Short: "Run the full pipeline for a game concept",
	Long: `Run the full pipeline: design the game, implement it, evaluate the
result and repair it until every check passes or the fix budget runs out,
then publish.

Examples:
  # Generate a game from a concept
  gameforge run "a snake game with power-ups"

  # Name the project explicitly and allow five fix rounds
  gameforge run --name snake --max-rounds 5 "a snake game"`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "project name (derived from the concept when empty)")
	runCmd.Flags().IntVar(&runMaxRounds, "max-rounds", -1, "override the fix round budget (-1 keeps the configured value)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if runMaxRounds >= 0 {
		cfg.Pipeline.MaxFixRounds = runMaxRounds
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		logger.Warn("telemetry init failed, continuing without it", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	store, err := artifact.NewFileStore(artifact.FileStoreConfig{BaseDir: cfg.Project.OutputDir}, logger)
	if err != nil {
		return fmt.Errorf("failed to create artifact store: %w", err)
	}

	gen, err := generate.New(generate.Config{
		Provider:    cfg.Generator.Provider,
		Model:       cfg.Generator.Model,
		APIKey:      cfg.Generator.APIKey,
		BaseURL:     cfg.Generator.BaseURL,
		MaxTokens:   cfg.Generator.MaxTokens,
		Temperature: cfg.Generator.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	ctrl, err := pipeline.NewController(&pipeline.Config{
		MaxFixRounds:     cfg.Pipeline.MaxFixRounds,
		GeneratorTimeout: cfg.Pipeline.GeneratorTimeout,
	}, store, gen, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	result, err := ctrl.Run(ctx, &pipeline.RunRequest{
		Concept: args[0],
		Name:    runName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Project:  %s\n", store.ProjectDir(result.ProjectName))
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Rounds:   %d\n", result.Rounds)
	fmt.Printf("Duration: %s\n", result.Duration.Round(time.Millisecond))
	if result.Status == pipeline.StatusBudgetExhausted && result.FinalReport != nil {
		fmt.Printf("\nPublished with %d open issue(s); see %s\n",
			len(result.FinalReport.Issues),
			artifact.KindEvaluationReport.Filename(),
		)
	}
	return nil
}
