package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gameforge/internal/artifact"
	"github.com/fyrsmithlabs/gameforge/internal/config"
	"github.com/fyrsmithlabs/gameforge/internal/evaluate"
	"github.com/fyrsmithlabs/gameforge/internal/logging"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <project>",
	Short: "Re-run the quality checks against an existing project",
	Long: `Re-run every evaluator against the latest stored artifacts of a
project and print the aggregate report. Reports are stored as new versions.

Examples:
  # Re-evaluate a previously generated project
  gameforge evaluate snake`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logging.Sync(logger)

	store, err := artifact.NewFileStore(artifact.FileStoreConfig{BaseDir: cfg.Project.OutputDir}, logger)
	if err != nil {
		return fmt.Errorf("failed to create artifact store: %w", err)
	}

	ctx := cmd.Context()
	project := artifact.SanitizeName(args[0])

	design, err := store.Read(ctx, project, artifact.KindDesign)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return fmt.Errorf("project %s has no design document", project)
		}
		return err
	}
	impl, err := store.Read(ctx, project, artifact.KindImplementation)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return fmt.Errorf("project %s has no implementation", project)
		}
		return err
	}

	inputs := evaluate.Inputs{Design: design, Implementation: impl}
	verdicts := make([]*evaluate.Verdict, 0, len(evaluate.Sources()))
	for _, ev := range evaluate.DefaultEvaluators() {
		v, err := ev.Evaluate(ctx, inputs)
		if err != nil {
			return fmt.Errorf("%s evaluator: %w", ev.Source(), err)
		}
		if _, err := store.Write(ctx, project, v.Source.ReportKind(), v.Render()); err != nil {
			return fmt.Errorf("failed to store %s report: %w", v.Source, err)
		}
		verdicts = append(verdicts, v)
	}

	report, err := evaluate.NewCompiler().Compile(0, verdicts)
	if err != nil {
		return err
	}
	if _, err := store.Write(ctx, project, artifact.KindEvaluationReport, report.Render()); err != nil {
		return fmt.Errorf("failed to store evaluation report: %w", err)
	}

	fmt.Print(report.Render())
	if !report.OverallPassed {
		return fmt.Errorf("evaluation failed with %d issue(s)", len(report.Issues))
	}
	return nil
}
