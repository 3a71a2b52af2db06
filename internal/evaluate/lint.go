package evaluate

import (
	"context"
	"fmt"
	"strings"
)

// LintEvaluator performs a heuristic structural check of the implementation
// source. It is not a real parser: it catches the gross breakage a generation
// step tends to produce (empty output, unbalanced delimiters, unterminated
// strings), and accepts false negatives as a product tradeoff.
type LintEvaluator struct{}

// NewLintEvaluator creates the syntax/lint evaluator.
func NewLintEvaluator() *LintEvaluator {
	return &LintEvaluator{}
}

// Source returns the evaluator's identity.
func (e *LintEvaluator) Source() Source {
	return SourceLint
}

// Evaluate checks structural validity of the implementation.
func (e *LintEvaluator) Evaluate(ctx context.Context, in Inputs) (*Verdict, error) {
	if in.Implementation == nil {
		return nil, fmt.Errorf("%w: implementation", ErrMissingArtifact)
	}

	content := in.Implementation.Content
	var findings []string

	if strings.TrimSpace(content) == "" {
		findings = append(findings, "implementation is empty")
		return &Verdict{Source: SourceLint, Passed: false, Findings: findings}, nil
	}

	if f := checkBalancedDelimiters(content); f != "" {
		findings = append(findings, f)
	}
	if strings.Count(content, `"""`)%2 != 0 {
		findings = append(findings, "unterminated triple-quoted string")
	}
	if strings.Count(content, "'''")%2 != 0 {
		findings = append(findings, "unterminated triple-quoted string (single-quote form)")
	}
	if strings.HasSuffix(strings.TrimRight(content, "\n"), "\\") {
		findings = append(findings, "file ends with a line continuation")
	}
	if f := checkDanglingBlocks(content); f != "" {
		findings = append(findings, f)
	}

	return &Verdict{
		Source:   SourceLint,
		Passed:   len(findings) == 0,
		Findings: findings,
	}, nil
}

// checkBalancedDelimiters verifies (), [], {} nest correctly outside strings
// and comments.
func checkBalancedDelimiters(content string) string {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune

	for _, line := range strings.Split(content, "\n") {
		line = stripStringsAndComment(line)
		for _, r := range line {
			switch r {
			case '(', '[', '{':
				stack = append(stack, r)
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
					return fmt.Sprintf("unbalanced delimiter %q", r)
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Sprintf("unclosed delimiter %q", stack[len(stack)-1])
	}
	return ""
}

// checkDanglingBlocks flags a block header (line ending in ':') with nothing
// following it.
func checkDanglingBlocks(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	last := strings.TrimSpace(stripStringsAndComment(lines[len(lines)-1]))
	if strings.HasSuffix(last, ":") {
		return "file ends with an empty block header"
	}
	return ""
}

// stripStringsAndComment blanks out single-line string literals and trailing
// comments so delimiter counting ignores them. Triple-quoted strings are
// handled separately by parity counting.
func stripStringsAndComment(line string) string {
	var b strings.Builder
	var quote rune
	for i := 0; i < len(line); i++ {
		c := rune(line[i])
		switch {
		case quote != 0:
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return b.String()
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
