package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/gameforge/internal/artifact"
)

// ErrMissingArtifact is returned when an evaluator's required input artifact
// is absent. This is an infrastructure failure, never a content finding.
var ErrMissingArtifact = errors.New("missing required artifact")

// ErrInvariantViolation is returned by the Compiler when a verdict is
// self-contradictory (passed with non-empty findings).
var ErrInvariantViolation = errors.New("invariant violation")

// Source identifies an evaluator variant.
type Source string

const (
	// SourceLint checks syntactic/structural validity of the implementation.
	SourceLint Source = "lint"
	// SourceCleanliness checks the implementation contains only source code.
	SourceCleanliness Source = "cleanliness"
	// SourceDesignFormat checks the design document's structure.
	SourceDesignFormat Source = "design_format"
	// SourceCompliance checks the implementation against the design.
	SourceCompliance Source = "compliance"
)

// Sources returns all evaluator sources in declaration order. This order
// fixes the ordering of issues in the aggregate report.
func Sources() []Source {
	return []Source{SourceLint, SourceCleanliness, SourceDesignFormat, SourceCompliance}
}

// ReportKind maps a source to the artifact kind its report is stored under.
func (s Source) ReportKind() artifact.Kind {
	switch s {
	case SourceLint:
		return artifact.KindLintReport
	case SourceCleanliness:
		return artifact.KindCleanlinessReport
	case SourceDesignFormat:
		return artifact.KindDesignFormatReport
	case SourceCompliance:
		return artifact.KindComplianceReport
	default:
		return artifact.Kind(string(s) + "_report")
	}
}

// Verdict is one evaluator's judgment for a single round.
//
// Findings must be empty iff Passed is true. Verdicts are produced fresh each
// round and never mutated; the next round's verdict of the same source
// supersedes them.
type Verdict struct {
	Source   Source   `json:"source"`
	Passed   bool     `json:"passed"`
	Findings []string `json:"findings,omitempty"`
}

// Render formats the verdict as a markdown report for storage.
func (v *Verdict) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s evaluation report\n\n", v.Source)
	if v.Passed {
		b.WriteString("**PASS**: no issues detected.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "**FAIL**: %d issue(s) found.\n\n", len(v.Findings))
	for _, f := range v.Findings {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}

// Inputs bundles the latest artifacts an evaluator may need.
type Inputs struct {
	Design         *artifact.Artifact
	Implementation *artifact.Artifact
}

// Evaluator is one heuristic quality check.
//
// Evaluators are stateless across rounds: each call judges only the inputs it
// is handed, never prior verdicts. Content defects are reported as findings;
// only infrastructure problems (a missing required artifact) are errors.
type Evaluator interface {
	// Source returns the evaluator's identity.
	Source() Source

	// Evaluate inspects the inputs and returns a fresh verdict.
	Evaluate(ctx context.Context, in Inputs) (*Verdict, error)
}

// Issue is a single finding attributed to its evaluator.
type Issue struct {
	Source  Source `json:"source"`
	Finding string `json:"finding"`
}

// AggregateReport is the merged judgment across all evaluators for one round.
type AggregateReport struct {
	Round         int     `json:"round"`
	OverallPassed bool    `json:"overall_passed"`
	Issues        []Issue `json:"issues,omitempty"`
}

// Render formats the aggregate report as markdown. The rendered form is
// stored as the evaluation report artifact and fed to the fix step.
func (r *AggregateReport) Render() string {
	var b strings.Builder
	b.WriteString("# Evaluation report\n\n")
	fmt.Fprintf(&b, "Round: %d\n\n", r.Round)
	if r.OverallPassed {
		b.WriteString("## Overall status\n\n**PASS**: all checks passed. No issues detected.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "## Summary\n\n- Issues found: %d\n\n## Issues\n\n", len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- [%s] %s\n", issue.Source, issue.Finding)
	}
	return b.String()
}
