// Package evaluate provides the heuristic quality checks run against
// generated artifacts and the compiler that merges their verdicts.
//
// Four evaluator variants inspect a project's latest artifacts:
//
//   - LintEvaluator: structural validity of the implementation source
//   - CleanlinessEvaluator: the implementation holds only source code
//   - DesignFormatEvaluator: the design document's markdown structure
//   - ComplianceEvaluator: the implementation is traceable to the design
//
// Each produces a Verdict (passed + findings). Evaluators are stateless
// across rounds and independent of each other; the pipeline controller may
// dispatch them concurrently. The Compiler folds one round's four verdicts
// into an AggregateReport whose issue ordering follows Sources().
//
// Evaluators are heuristics, not formal verifiers. They report content
// defects as findings, never as errors; the only failure an evaluator raises
// is a missing required input artifact.
package evaluate

// DefaultEvaluators returns the four evaluator variants in declaration order.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		NewLintEvaluator(),
		NewCleanlinessEvaluator(),
		NewDesignFormatEvaluator(),
		NewComplianceEvaluator(),
	}
}
