package evaluate

import (
	"context"
	"fmt"
	"strings"
)

// gameLibraries are the libraries a design may prescribe.
var gameLibraries = []string{"pygame", "arcade", "turtle", "pyglet", "panda3d"}

// mechanicChecks map a term the design may mention to the term its
// implementation should contain. Text comparison only; false positives and
// negatives are an accepted tradeoff.
var mechanicChecks = []struct {
	designTerm string
	codeTerm   string
}{
	{"collision", "collision"},
	{"score", "score"},
	{"game over", "game over"},
	{"movement", "move"},
	{"controls", "key"},
	{"input", "input"},
}

// ComplianceEvaluator checks that the implementation's observable structure
// is traceable to the design document: prescribed library imported, mechanics
// the design names present in code, self-containment rules honored.
type ComplianceEvaluator struct{}

// NewComplianceEvaluator creates the design compliance evaluator.
func NewComplianceEvaluator() *ComplianceEvaluator {
	return &ComplianceEvaluator{}
}

// Source returns the evaluator's identity.
func (e *ComplianceEvaluator) Source() Source {
	return SourceCompliance
}

// Evaluate compares the implementation against the design document.
func (e *ComplianceEvaluator) Evaluate(ctx context.Context, in Inputs) (*Verdict, error) {
	if in.Design == nil {
		return nil, fmt.Errorf("%w: design", ErrMissingArtifact)
	}
	if in.Implementation == nil {
		return nil, fmt.Errorf("%w: implementation", ErrMissingArtifact)
	}

	design := strings.ToLower(in.Design.Content)
	code := strings.ToLower(in.Implementation.Content)
	var findings []string

	if lib := prescribedLibrary(design); lib != "" {
		if !strings.Contains(code, "import "+lib) && !strings.Contains(code, "from "+lib) {
			findings = append(findings, fmt.Sprintf("design prescribes the %s library but the implementation does not import it", lib))
		}
	}

	for _, m := range mechanicChecks {
		if strings.Contains(design, m.designTerm) && !strings.Contains(code, m.codeTerm) {
			findings = append(findings, fmt.Sprintf("design mentions %q but the implementation has no trace of it", m.designTerm))
		}
	}

	// Visuals must be drawn, not loaded from assets the project doesn't ship.
	if strings.Contains(code, "image.load") || strings.Contains(code, "load_image") {
		findings = append(findings, "implementation loads image assets; the design requires drawn shapes only")
	}

	// Generated games must be self-contained single files.
	if strings.Contains(code, "from config import") || containsLine(code, "import config") {
		findings = append(findings, "implementation imports a config module; it must be self-contained")
	}

	return &Verdict{
		Source:   SourceCompliance,
		Passed:   len(findings) == 0,
		Findings: findings,
	}, nil
}

// prescribedLibrary returns the library the design names, if any.
func prescribedLibrary(design string) string {
	for _, lib := range gameLibraries {
		for _, form := range []string{
			"library: " + lib,
			"recommended library: " + lib,
			"using " + lib,
			lib + " library",
		} {
			if strings.Contains(design, form) {
				return lib
			}
		}
	}
	return ""
}

// containsLine reports whether any line of content equals s after trimming.
func containsLine(content, s string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == s {
			return true
		}
	}
	return false
}
