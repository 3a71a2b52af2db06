package artifact

import (
	"regexp"
	"strings"
	"time"
)

// Kind identifies a named artifact within a project.
type Kind string

const (
	// KindDesign is the game design document.
	KindDesign Kind = "design"
	// KindImplementation is the generated game source.
	KindImplementation Kind = "implementation"
	// KindRequirements is the dependency manifest for the generated game.
	KindRequirements Kind = "requirements"
	// KindLintReport is the syntax/lint evaluator report.
	KindLintReport Kind = "lint_report"
	// KindCleanlinessReport is the code cleanliness evaluator report.
	KindCleanlinessReport Kind = "cleanliness_report"
	// KindDesignFormatReport is the design document format evaluator report.
	KindDesignFormatReport Kind = "design_format_report"
	// KindComplianceReport is the design compliance evaluator report.
	KindComplianceReport Kind = "compliance_report"
	// KindEvaluationReport is the aggregate evaluation report.
	KindEvaluationReport Kind = "evaluation_report"
	// KindPublication is the user-facing publication summary.
	KindPublication Kind = "publication"
)

// Filename returns the canonical on-disk filename for a kind.
func (k Kind) Filename() string {
	switch k {
	case KindDesign:
		return "game_design.md"
	case KindImplementation:
		return "game.py"
	case KindRequirements:
		return "requirements.md"
	case KindLintReport:
		return "linter_report.md"
	case KindCleanlinessReport:
		return "code_quality_report.md"
	case KindDesignFormatReport:
		return "design_quality_report.md"
	case KindComplianceReport:
		return "compliance_report.md"
	case KindEvaluationReport:
		return "evaluation_report.md"
	case KindPublication:
		return "publication.md"
	default:
		return string(k) + ".txt"
	}
}

// Artifact is a named, versioned piece of generated content.
type Artifact struct {
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9\s_-]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

// SanitizeName normalizes a project name into a safe directory name:
// lowercase, [a-z0-9_-] only, whitespace collapsed to underscores.
// An empty result falls back to "untitled_game".
func SanitizeName(name string) string {
	s := strings.ToLower(name)
	s = invalidNameChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "untitled_game"
	}
	return s
}
