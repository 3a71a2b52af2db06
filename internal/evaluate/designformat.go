package evaluate

import (
	"context"
	"fmt"
	"strings"
)

// templatingPatterns are placeholder forms that indicate the design document
// was emitted with unexpanded template variables.
var templatingPatterns = []string{
	"{{game_name}}",
	"{game_name}",
	"${game_name}",
	"<game_name>",
	"%game_name%",
	"{{ ",
	"{% ",
}

// designExplanatoryPatterns mirror the cleanliness phrases, targeted at
// design prose.
var designExplanatoryPatterns = []string{
	"here's the design:",
	"here is the design:",
	"save this as",
	"create a file",
	"the design is as follows:",
	"below is the design:",
	"i'll create the design",
}

// DesignFormatEvaluator checks the design document adheres to the expected
// markdown structure: starts with a heading, is not wrapped in a code fence,
// carries no JSON metadata or unexpanded template variables.
type DesignFormatEvaluator struct{}

// NewDesignFormatEvaluator creates the design document format evaluator.
func NewDesignFormatEvaluator() *DesignFormatEvaluator {
	return &DesignFormatEvaluator{}
}

// Source returns the evaluator's identity.
func (e *DesignFormatEvaluator) Source() Source {
	return SourceDesignFormat
}

// Evaluate inspects the design document's structure.
func (e *DesignFormatEvaluator) Evaluate(ctx context.Context, in Inputs) (*Verdict, error) {
	if in.Design == nil {
		return nil, fmt.Errorf("%w: design", ErrMissingArtifact)
	}

	content := in.Design.Content
	lines := strings.Split(content, "\n")
	var findings []string

	firstLine := ""
	if len(lines) > 0 {
		firstLine = strings.TrimSpace(lines[0])
	}
	switch {
	case firstLine == "":
		findings = append(findings, "document is empty or starts with a blank line")
	case strings.HasPrefix(firstLine, "```"):
		findings = append(findings, "document starts with a code fence instead of a markdown heading")
	case looksLikeJSONMetadata(firstLine):
		findings = append(findings, "document starts with JSON metadata")
	}

	hasHeading := false
	for i, line := range lines {
		if i >= 10 {
			break
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			hasHeading = true
			break
		}
	}
	if !hasHeading && firstLine != "" {
		findings = append(findings, "no markdown heading in the first 10 lines")
	}

	lastLine := strings.TrimSpace(lines[len(lines)-1])
	if lastLine == "" && len(lines) > 1 {
		lastLine = strings.TrimSpace(lines[len(lines)-2])
	}
	if strings.HasPrefix(lastLine, "```") {
		findings = append(findings, "document ends with a code fence marker")
	}
	if looksLikeJSONMetadata(lastLine) {
		findings = append(findings, "document ends with JSON metadata")
	}

	var foundTemplates []string
	for _, p := range templatingPatterns {
		if strings.Contains(content, p) {
			foundTemplates = append(foundTemplates, p)
		}
	}
	if len(foundTemplates) > 0 {
		findings = append(findings, fmt.Sprintf("document contains unexpanded template variables: %s", strings.Join(foundTemplates, ", ")))
	}

	lowered := strings.ToLower(content)
	var foundPhrases []string
	for _, p := range designExplanatoryPatterns {
		if strings.Contains(lowered, p) {
			foundPhrases = append(foundPhrases, p)
		}
	}
	if len(foundPhrases) > 0 {
		findings = append(findings, fmt.Sprintf("document contains explanatory text: %s", strings.Join(foundPhrases, ", ")))
	}

	return &Verdict{
		Source:   SourceDesignFormat,
		Passed:   len(findings) == 0,
		Findings: findings,
	}, nil
}
