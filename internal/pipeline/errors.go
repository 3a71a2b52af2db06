package pipeline

import (
	"fmt"
)

// FailureKind classifies a pipeline failure for callers and telemetry.
type FailureKind string

const (
	// FailureGeneration indicates a generation step failed after retries.
	FailureGeneration FailureKind = "generation_failure"
	// FailureGenerationTimeout indicates a generation step exceeded its deadline.
	FailureGenerationTimeout FailureKind = "generation_timeout"
	// FailureMissingArtifact indicates a step's required input artifact was absent.
	FailureMissingArtifact FailureKind = "missing_artifact"
	// FailureInvariantViolation indicates internally inconsistent pipeline data.
	FailureInvariantViolation FailureKind = "invariant_violation"
)

// PipelineError represents a structured failure within a pipeline run.
type PipelineError struct {
	Step  string      // The step that failed (e.g. "design", "evaluate", "fix")
	Round int         // The evaluation round at the time of failure
	Kind  FailureKind // Failure classification
	Err   error       // The underlying error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed (round %d, %s): %s", e.Step, e.Round, e.Kind, e.Err.Error())
}

// Unwrap allows errors.Is and errors.As to work with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// newPipelineError creates a classified pipeline error.
func newPipelineError(step string, round int, kind FailureKind, err error) *PipelineError {
	return &PipelineError{
		Step:  step,
		Round: round,
		Kind:  kind,
		Err:   err,
	}
}
