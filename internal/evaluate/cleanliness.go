package evaluate

import (
	"context"
	"fmt"
	"strings"
)

// explanatoryPatterns are phrases a generation step leaves behind when it
// narrates instead of emitting pure source.
var explanatoryPatterns = []string{
	"here's the code:",
	"here is the code:",
	"save this as",
	"create a file",
	"the code is as follows:",
	"below is the code:",
	"i'll create",
	"let me create",
}

// CleanlinessEvaluator checks that the implementation artifact contains only
// source code: no markdown fences, no JSON metadata, no explanatory prose.
type CleanlinessEvaluator struct{}

// NewCleanlinessEvaluator creates the artifact cleanliness evaluator.
func NewCleanlinessEvaluator() *CleanlinessEvaluator {
	return &CleanlinessEvaluator{}
}

// Source returns the evaluator's identity.
func (e *CleanlinessEvaluator) Source() Source {
	return SourceCleanliness
}

// Evaluate inspects the implementation for embedded non-code artifacts.
func (e *CleanlinessEvaluator) Evaluate(ctx context.Context, in Inputs) (*Verdict, error) {
	if in.Implementation == nil {
		return nil, fmt.Errorf("%w: implementation", ErrMissingArtifact)
	}

	content := in.Implementation.Content
	lines := strings.Split(content, "\n")
	var findings []string

	firstLine := ""
	if len(lines) > 0 {
		firstLine = strings.TrimSpace(lines[0])
	}
	switch {
	case firstLine == "":
		findings = append(findings, "file is empty or starts with a blank line")
	case strings.HasPrefix(firstLine, "```"):
		findings = append(findings, "first line is a markdown code fence")
	case looksLikeJSONMetadata(firstLine):
		findings = append(findings, "first line is JSON metadata, not source code")
	}

	lastLine := strings.TrimSpace(lines[len(lines)-1])
	if lastLine == "" && len(lines) > 1 {
		lastLine = strings.TrimSpace(lines[len(lines)-2])
	}
	switch {
	case lastLine == "```":
		findings = append(findings, "last line is a closing markdown fence")
	case looksLikeJSONMetadata(lastLine):
		findings = append(findings, "last line is JSON metadata, not source code")
	}

	if strings.Contains(content, "```") {
		findings = append(findings, "file contains markdown code fence markers")
	}

	lowered := strings.ToLower(content)
	var foundPhrases []string
	for _, p := range explanatoryPatterns {
		if strings.Contains(lowered, p) {
			foundPhrases = append(foundPhrases, p)
		}
	}
	if len(foundPhrases) > 0 {
		findings = append(findings, fmt.Sprintf("file contains explanatory text: %s", strings.Join(foundPhrases, ", ")))
	}

	return &Verdict{
		Source:   SourceCleanliness,
		Passed:   len(findings) == 0,
		Findings: findings,
	}, nil
}

// looksLikeJSONMetadata reports whether a line is a standalone JSON object of
// the shape generators leak around source files.
func looksLikeJSONMetadata(line string) bool {
	if !strings.HasPrefix(line, "{") {
		return false
	}
	return strings.Contains(line, "game_name") ||
		(strings.HasSuffix(line, "}") && strings.Contains(line, ":") && strings.Contains(line, `"`))
}
