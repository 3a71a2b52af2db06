package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/gameforge/internal/artifact"
	"github.com/fyrsmithlabs/gameforge/internal/evaluate"
	"github.com/fyrsmithlabs/gameforge/internal/generate"
)

const instrumentationName = "github.com/fyrsmithlabs/gameforge/internal/pipeline"

// Controller runs the generate-evaluate-fix loop for one project.
type Controller interface {
	// Run executes the full pipeline for a concept and returns the outcome.
	Run(ctx context.Context, req *RunRequest) (*Result, error)
}

// RunRequest describes one pipeline run.
type RunRequest struct {
	// Concept is the free-form game idea to build from.
	Concept string

	// Name optionally names the project; when empty the concept is used.
	// Either way the name is sanitized before storage.
	Name string
}

// Config configures the iteration controller.
type Config struct {
	// MaxFixRounds bounds repair attempts before forced publication
	// (default: 3). Zero means publish after the first failed evaluation.
	MaxFixRounds int

	// GeneratorTimeout bounds a single generation call (default: 5m).
	GeneratorTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFixRounds:     3,
		GeneratorTimeout: 5 * time.Minute,
	}
}

// controller implements the Controller interface.
type controller struct {
	config     *Config
	store      artifact.Store
	generator  generate.Generator
	evaluators []evaluate.Evaluator
	compiler   *evaluate.Compiler
	logger     *zap.Logger

	// Telemetry
	tracer       trace.Tracer
	meter        metric.Meter
	runsCounter  metric.Int64Counter
	roundCounter metric.Int64Counter
	fixCounter   metric.Int64Counter
}

// NewController creates an iteration controller.
//
// A nil evaluators slice selects the default evaluator set.
func NewController(cfg *Config, store artifact.Store, gen generate.Generator, evaluators []evaluate.Evaluator, logger *zap.Logger) (Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxFixRounds < 0 {
		return nil, fmt.Errorf("max fix rounds must be >= 0, got %d", cfg.MaxFixRounds)
	}
	if cfg.GeneratorTimeout <= 0 {
		cfg.GeneratorTimeout = DefaultConfig().GeneratorTimeout
	}
	if store == nil {
		return nil, errors.New("artifact store is required")
	}
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if evaluators == nil {
		evaluators = evaluate.DefaultEvaluators()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &controller{
		config:     cfg,
		store:      store,
		generator:  gen,
		evaluators: evaluators,
		compiler:   evaluate.NewCompiler(),
		logger:     logger,
		tracer:     otel.Tracer(instrumentationName),
		meter:      otel.Meter(instrumentationName),
	}

	c.initMetrics()

	return c, nil
}

// initMetrics initializes OpenTelemetry metrics.
func (c *controller) initMetrics() {
	var err error

	c.runsCounter, err = c.meter.Int64Counter(
		"gameforge.pipeline.runs_total",
		metric.WithDescription("Total number of pipeline runs by status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		c.logger.Warn("failed to create runs counter", zap.Error(err))
	}

	c.roundCounter, err = c.meter.Int64Counter(
		"gameforge.pipeline.evaluation_rounds_total",
		metric.WithDescription("Total number of evaluation rounds executed"),
		metric.WithUnit("{round}"),
	)
	if err != nil {
		c.logger.Warn("failed to create round counter", zap.Error(err))
	}

	c.fixCounter, err = c.meter.Int64Counter(
		"gameforge.pipeline.fix_attempts_total",
		metric.WithDescription("Total number of fix attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		c.logger.Warn("failed to create fix counter", zap.Error(err))
	}
}

// Run executes the full pipeline: design, implement, then evaluate-fix rounds
// until the checks pass or the fix budget runs out, then publish.
func (c *controller) Run(ctx context.Context, req *RunRequest) (*Result, error) {
	if req == nil || strings.TrimSpace(req.Concept) == "" {
		return nil, errors.New("concept is required")
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.Concept
	}
	project := artifact.SanitizeName(name)
	runID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("project", project),
		attribute.Int("max_fix_rounds", c.config.MaxFixRounds),
	)

	logger := c.logger.With(
		zap.String("run_id", runID),
		zap.String("project", project),
	)
	logger.Info("starting pipeline run", zap.String("concept", req.Concept))

	start := time.Now()
	st := &IterationState{State: StateDesigning, Status: StatusInProgress}

	result, err := c.run(ctx, logger, project, req.Concept, st)
	if err != nil {
		span.RecordError(err)
		c.countRun(ctx, "error")
		return nil, err
	}

	result.ProjectName = project
	result.Duration = time.Since(start)
	c.countRun(ctx, string(result.Status))
	logger.Info("pipeline run finished",
		zap.String("status", string(result.Status)),
		zap.Int("rounds", result.Rounds),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// run drives the state machine. It mutates st as it moves and returns the
// terminal result.
func (c *controller) run(ctx context.Context, logger *zap.Logger, project, concept string, st *IterationState) (*Result, error) {
	// Designing
	design, err := c.generateStep(ctx, "design", st.Round, generate.Request{
		Mode:    generate.ModeDesign,
		Concept: concept,
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Write(ctx, project, artifact.KindDesign, design); err != nil {
		return nil, fmt.Errorf("failed to store design: %w", err)
	}
	logger.Info("design stored")

	// Implementing
	c.transition(logger, st, StateImplementing)
	impl, err := c.generateStep(ctx, "implement", st.Round, generate.Request{
		Mode:   generate.ModeImplement,
		Design: design,
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Write(ctx, project, artifact.KindImplementation, impl); err != nil {
		return nil, fmt.Errorf("failed to store implementation: %w", err)
	}

	reqs, err := c.generateStep(ctx, "requirements", st.Round, generate.Request{
		Mode:           generate.ModeRequirements,
		Implementation: impl,
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Write(ctx, project, artifact.KindRequirements, reqs); err != nil {
		return nil, fmt.Errorf("failed to store requirements: %w", err)
	}
	logger.Info("implementation stored")

	// Evaluate-fix loop. Round 0 evaluates the first implementation; each
	// fix attempt increments the round, so at most MaxFixRounds+1 rounds run.
	var report *evaluate.AggregateReport
	for {
		c.transition(logger, st, StateEvaluating)
		report, err = c.evaluateRound(ctx, project, st.Round)
		if err != nil {
			return nil, err
		}
		c.countRound(ctx, report.OverallPassed)
		logger.Info("evaluation round complete",
			zap.Int("round", report.Round),
			zap.Bool("passed", report.OverallPassed),
			zap.Int("issues", len(report.Issues)),
		)

		c.transition(logger, st, StateDeciding)
		if report.OverallPassed {
			st.Status = StatusPassed
			break
		}
		if st.Round >= c.config.MaxFixRounds {
			st.Status = StatusBudgetExhausted
			logger.Warn("fix budget exhausted, publishing with open issues",
				zap.Int("open_issues", len(report.Issues)),
			)
			break
		}

		c.transition(logger, st, StateFixing)
		st.Round++
		c.countFix(ctx)
		if err := c.fix(ctx, project, st.Round, report); err != nil {
			return nil, err
		}
		logger.Info("fix applied", zap.Int("round", st.Round))
	}

	// Publishing
	c.transition(logger, st, StatePublishing)
	if err := c.publish(ctx, logger, project, st.Round, report); err != nil {
		return nil, err
	}
	if st.Status == StatusBudgetExhausted {
		st.Status = StatusPublishedWithOpenIssues
	}
	c.transition(logger, st, StateDone)

	status := StatusPassed
	if st.Status != StatusPassed {
		status = StatusBudgetExhausted
	}
	return &Result{
		Status:      status,
		Rounds:      st.Round + 1,
		FinalReport: report,
	}, nil
}

// generateStep runs one generation call under the configured timeout and
// classifies failures.
func (c *controller) generateStep(ctx context.Context, step string, round int, req generate.Request) (string, error) {
	ctx, span := c.tracer.Start(ctx, "pipeline.generate."+step)
	defer span.End()

	gctx, cancel := context.WithTimeout(ctx, c.config.GeneratorTimeout)
	defer cancel()

	out, err := c.generator.Generate(gctx, req)
	if err != nil {
		span.RecordError(err)
		kind := FailureGeneration
		if errors.Is(err, context.DeadlineExceeded) {
			kind = FailureGenerationTimeout
		}
		return "", newPipelineError(step, round, kind, err)
	}

	cleaned := generate.Clean(out)
	if strings.TrimSpace(cleaned) == "" {
		return "", newPipelineError(step, round, FailureGeneration, errors.New("generator returned empty content"))
	}
	return cleaned, nil
}

// evaluateRound fans the evaluators out concurrently, stores their reports
// and compiles the aggregate. Verdicts land in evaluator declaration order
// regardless of completion order.
func (c *controller) evaluateRound(ctx context.Context, project string, round int) (*evaluate.AggregateReport, error) {
	ctx, span := c.tracer.Start(ctx, "pipeline.evaluate")
	defer span.End()
	span.SetAttributes(attribute.Int("round", round))

	design, err := c.readRequired(ctx, project, artifact.KindDesign, round)
	if err != nil {
		return nil, err
	}
	impl, err := c.readRequired(ctx, project, artifact.KindImplementation, round)
	if err != nil {
		return nil, err
	}
	inputs := evaluate.Inputs{Design: design, Implementation: impl}

	verdicts := make([]*evaluate.Verdict, len(c.evaluators))
	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range c.evaluators {
		g.Go(func() error {
			v, verr := ev.Evaluate(gctx, inputs)
			if verr != nil {
				return fmt.Errorf("%s evaluator: %w", ev.Source(), verr)
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		kind := FailureInvariantViolation
		if errors.Is(err, evaluate.ErrMissingArtifact) {
			kind = FailureMissingArtifact
		}
		return nil, newPipelineError("evaluate", round, kind, err)
	}

	for _, v := range verdicts {
		if _, err := c.store.Write(ctx, project, v.Source.ReportKind(), v.Render()); err != nil {
			return nil, fmt.Errorf("failed to store %s report: %w", v.Source, err)
		}
	}

	report, err := c.compiler.Compile(round, verdicts)
	if err != nil {
		span.RecordError(err)
		return nil, newPipelineError("compile", round, FailureInvariantViolation, err)
	}
	if _, err := c.store.Write(ctx, project, artifact.KindEvaluationReport, report.Render()); err != nil {
		return nil, fmt.Errorf("failed to store evaluation report: %w", err)
	}
	return report, nil
}

// fix produces a corrected implementation from the latest report and stores
// it as a new version. The fix is a full replacement, never a patch.
func (c *controller) fix(ctx context.Context, project string, round int, report *evaluate.AggregateReport) error {
	design, err := c.readRequired(ctx, project, artifact.KindDesign, round)
	if err != nil {
		return err
	}
	impl, err := c.readRequired(ctx, project, artifact.KindImplementation, round)
	if err != nil {
		return err
	}

	fixed, err := c.generateStep(ctx, "fix", round, generate.Request{
		Mode:           generate.ModeFix,
		Design:         design.Content,
		Implementation: impl.Content,
		Report:         report.Render(),
	})
	if err != nil {
		return err
	}
	if _, err := c.store.Write(ctx, project, artifact.KindImplementation, fixed); err != nil {
		return fmt.Errorf("failed to store fixed implementation: %w", err)
	}
	return nil
}

// publish stores the publication summary. A run that exhausted its budget is
// still published; its open issues appear in the summary. When the publish
// generation itself fails the run does not fail with it, a locally rendered
// summary is stored instead.
func (c *controller) publish(ctx context.Context, logger *zap.Logger, project string, round int, report *evaluate.AggregateReport) error {
	design, err := c.readRequired(ctx, project, artifact.KindDesign, round)
	if err != nil {
		return err
	}

	reportText := ""
	if report != nil && !report.OverallPassed {
		reportText = report.Render()
	}

	pub, err := c.generateStep(ctx, "publish", round, generate.Request{
		Mode:        generate.ModePublish,
		ProjectName: project,
		Design:      design.Content,
		Report:      reportText,
	})
	if err != nil {
		logger.Warn("publication generation failed, storing fallback summary", zap.Error(err))
		pub = fallbackPublication(project, report)
	}
	if _, err := c.store.Write(ctx, project, artifact.KindPublication, pub); err != nil {
		return fmt.Errorf("failed to store publication: %w", err)
	}
	return nil
}

// readRequired reads the latest artifact of a kind, classifying absence as a
// missing artifact failure.
func (c *controller) readRequired(ctx context.Context, project string, kind artifact.Kind, round int) (*artifact.Artifact, error) {
	a, err := c.store.Read(ctx, project, kind)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, newPipelineError("read_"+string(kind), round, FailureMissingArtifact, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return a, nil
}

// fallbackPublication renders a minimal publication summary without the
// generator.
func fallbackPublication(project string, report *evaluate.AggregateReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nRun `python game.py` to play.\n", project)
	if report != nil && !report.OverallPassed {
		fmt.Fprintf(&b, "\n## Known issues\n\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&b, "- [%s] %s\n", issue.Source, issue.Finding)
		}
	}
	return b.String()
}

func (c *controller) transition(logger *zap.Logger, st *IterationState, next State) {
	logger.Debug("state transition",
		zap.String("from", string(st.State)),
		zap.String("to", string(next)),
		zap.Int("round", st.Round),
	)
	st.State = next
}

func (c *controller) countRun(ctx context.Context, status string) {
	if c.runsCounter == nil {
		return
	}
	c.runsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (c *controller) countRound(ctx context.Context, passed bool) {
	if c.roundCounter == nil {
		return
	}
	c.roundCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("passed", passed)))
}

func (c *controller) countFix(ctx context.Context) {
	if c.fixCounter == nil {
		return
	}
	c.fixCounter.Add(ctx, 1)
}

var _ Controller = (*controller)(nil)
