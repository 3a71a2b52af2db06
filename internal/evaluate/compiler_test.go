package evaluate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingVerdicts() []*Verdict {
	verdicts := make([]*Verdict, 0, len(Sources()))
	for _, s := range Sources() {
		verdicts = append(verdicts, &Verdict{Source: s, Passed: true})
	}
	return verdicts
}

func TestCompiler_AllPass(t *testing.T) {
	report, err := NewCompiler().Compile(0, passingVerdicts())

	require.NoError(t, err)
	assert.True(t, report.OverallPassed)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 0, report.Round)
}

// TestCompiler_TruthTable verifies OverallPassed is exactly the AND of the
// four verdicts for every pass/fail combination.
func TestCompiler_TruthTable(t *testing.T) {
	sources := Sources()
	for mask := 0; mask < 1<<len(sources); mask++ {
		name := fmt.Sprintf("mask_%04b", mask)
		t.Run(name, func(t *testing.T) {
			verdicts := make([]*Verdict, len(sources))
			expectPass := true
			for i, s := range sources {
				passed := mask&(1<<i) != 0
				v := &Verdict{Source: s, Passed: passed}
				if !passed {
					v.Findings = []string{fmt.Sprintf("%s failed", s)}
					expectPass = false
				}
				verdicts[i] = v
			}

			report, err := NewCompiler().Compile(1, verdicts)
			require.NoError(t, err)
			assert.Equal(t, expectPass, report.OverallPassed)
		})
	}
}

func TestCompiler_RejectsPassingVerdictWithFindings(t *testing.T) {
	verdicts := passingVerdicts()
	verdicts[2].Findings = []string{"contradiction"}

	_, err := NewCompiler().Compile(0, verdicts)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	// The full verdict payload is preserved for diagnosis.
	assert.Contains(t, err.Error(), "contradiction")
}

func TestCompiler_IssueOrderingFollowsDeclarationOrder(t *testing.T) {
	// Hand the verdicts in scrambled order; issue ordering must still follow
	// Sources().
	verdicts := []*Verdict{
		{Source: SourceCompliance, Passed: false, Findings: []string{"compliance issue"}},
		{Source: SourceLint, Passed: false, Findings: []string{"lint issue a", "lint issue b"}},
		{Source: SourceDesignFormat, Passed: true},
		{Source: SourceCleanliness, Passed: false, Findings: []string{"cleanliness issue"}},
	}

	report, err := NewCompiler().Compile(2, verdicts)

	require.NoError(t, err)
	assert.False(t, report.OverallPassed)
	require.Len(t, report.Issues, 4)
	assert.Equal(t, Issue{SourceLint, "lint issue a"}, report.Issues[0])
	assert.Equal(t, Issue{SourceLint, "lint issue b"}, report.Issues[1])
	assert.Equal(t, Issue{SourceCleanliness, "cleanliness issue"}, report.Issues[2])
	assert.Equal(t, Issue{SourceCompliance, "compliance issue"}, report.Issues[3])
}

func TestCompiler_DeduplicatesIssues(t *testing.T) {
	verdicts := passingVerdicts()
	verdicts[0] = &Verdict{
		Source:   SourceLint,
		Passed:   false,
		Findings: []string{"same issue", "same issue", "other issue"},
	}

	report, err := NewCompiler().Compile(0, verdicts)

	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "same issue", report.Issues[0].Finding)
	assert.Equal(t, "other issue", report.Issues[1].Finding)
}

func TestCompiler_RejectsWrongVerdictCount(t *testing.T) {
	_, err := NewCompiler().Compile(0, passingVerdicts()[:3])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 verdicts")
}

func TestCompiler_RejectsDuplicateSource(t *testing.T) {
	verdicts := passingVerdicts()
	verdicts[1] = &Verdict{Source: SourceLint, Passed: true}

	_, err := NewCompiler().Compile(0, verdicts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate verdict")
}

func TestCompiler_RejectsMissingSource(t *testing.T) {
	verdicts := passingVerdicts()
	verdicts[3] = &Verdict{Source: Source("other"), Passed: true}

	_, err := NewCompiler().Compile(0, verdicts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing verdict")
}

func TestAggregateReport_Render(t *testing.T) {
	report := &AggregateReport{
		Round:         1,
		OverallPassed: false,
		Issues: []Issue{
			{Source: SourceCleanliness, Finding: "contains embedded JSON"},
		},
	}

	rendered := report.Render()

	assert.Contains(t, rendered, "Round: 1")
	assert.Contains(t, rendered, "Issues found: 1")
	assert.Contains(t, rendered, "[cleanliness] contains embedded JSON")
}

func TestAggregateReport_RenderPassing(t *testing.T) {
	report := &AggregateReport{Round: 0, OverallPassed: true}

	rendered := report.Render()

	assert.Contains(t, rendered, "PASS")
	assert.NotContains(t, rendered, "Issues found")
}
