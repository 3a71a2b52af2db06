package evaluate

import (
	"fmt"
)

// Compiler merges one round's verdicts into an aggregate report.
//
// Compile is a pure function of its inputs: it reads no artifacts and keeps
// no state, so evaluation ordering and side effects stay owned by the
// pipeline controller.
type Compiler struct{}

// NewCompiler creates a report compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile merges the verdicts for one round.
//
// OverallPassed is the logical AND of all verdicts. Issues are ordered by
// evaluator declaration order (Sources()), then by each verdict's own finding
// order, with exact duplicate (source, finding) pairs dropped.
//
// A verdict that claims to pass while carrying findings is self-contradictory;
// Compile rejects it with ErrInvariantViolation rather than silently dropping
// data.
func (c *Compiler) Compile(round int, verdicts []*Verdict) (*AggregateReport, error) {
	if len(verdicts) != len(Sources()) {
		return nil, fmt.Errorf("expected %d verdicts, got %d", len(Sources()), len(verdicts))
	}

	bySource := make(map[Source]*Verdict, len(verdicts))
	for _, v := range verdicts {
		if v == nil {
			return nil, fmt.Errorf("nil verdict in round %d", round)
		}
		if v.Passed && len(v.Findings) > 0 {
			return nil, fmt.Errorf("%w: %s verdict passed with %d findings (%v)",
				ErrInvariantViolation, v.Source, len(v.Findings), v.Findings)
		}
		if _, dup := bySource[v.Source]; dup {
			return nil, fmt.Errorf("duplicate verdict for source %s", v.Source)
		}
		bySource[v.Source] = v
	}

	report := &AggregateReport{
		Round:         round,
		OverallPassed: true,
	}

	seen := make(map[Issue]struct{})
	for _, source := range Sources() {
		v, ok := bySource[source]
		if !ok {
			return nil, fmt.Errorf("missing verdict for source %s", source)
		}
		if !v.Passed {
			report.OverallPassed = false
		}
		for _, finding := range v.Findings {
			issue := Issue{Source: source, Finding: finding}
			if _, dup := seen[issue]; dup {
				continue
			}
			seen[issue] = struct{}{}
			report.Issues = append(report.Issues, issue)
		}
	}

	return report, nil
}
