package pipeline

import (
	"time"

	"github.com/fyrsmithlabs/gameforge/internal/evaluate"
)

// State is the controller's position in the iteration state machine.
type State string

const (
	// StateDesigning produces the design document from the concept.
	StateDesigning State = "designing"
	// StateImplementing produces the game source and its requirements.
	StateImplementing State = "implementing"
	// StateEvaluating runs all evaluators against the latest artifacts.
	StateEvaluating State = "evaluating"
	// StateDeciding inspects the aggregate report and picks the next state.
	StateDeciding State = "deciding"
	// StateFixing produces a corrected implementation from the report.
	StateFixing State = "fixing"
	// StatePublishing produces the publication summary.
	StatePublishing State = "publishing"
	// StateDone is terminal.
	StateDone State = "done"
)

// Status is the run's outcome classification.
type Status string

const (
	// StatusInProgress marks a run that has not reached a terminal state.
	StatusInProgress Status = "in_progress"
	// StatusPassed marks a run whose final evaluation passed every check.
	StatusPassed Status = "passed"
	// StatusBudgetExhausted marks a run that spent all fix rounds without
	// passing.
	StatusBudgetExhausted Status = "budget_exhausted"
	// StatusPublishedWithOpenIssues marks an exhausted run after its forced
	// publication.
	StatusPublishedWithOpenIssues Status = "published_with_open_issues"
)

// IterationState is the controller's mutable position within a run.
//
// Round counts evaluation rounds: 0 is the evaluation of the first
// implementation, each fix attempt increments it. A run therefore evaluates
// at most maxFixRounds+1 times.
type IterationState struct {
	State  State  `json:"state"`
	Status Status `json:"status"`
	Round  int    `json:"round"`
}

// Result is the outcome of a completed run.
type Result struct {
	// ProjectName is the sanitized name artifacts were stored under.
	ProjectName string `json:"project_name"`

	// Status is the terminal outcome: StatusPassed when the last evaluation
	// passed, StatusBudgetExhausted when fix rounds ran out.
	Status Status `json:"status"`

	// Rounds is the number of evaluation rounds executed.
	Rounds int `json:"rounds"`

	// FinalReport is the last aggregate report. For an exhausted run its
	// issues are the ones published as open.
	FinalReport *evaluate.AggregateReport `json:"final_report"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}
