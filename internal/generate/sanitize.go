package generate

import (
	"strings"
)

// Clean strips the wrappers models habitually leave around generated content:
// a markdown code fence enclosing the whole output and standalone JSON
// metadata lines at the top or bottom. The evaluators still police the result;
// Clean only removes the unambiguous cases.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripEnclosingFence(s)
	s = stripEdgeMetadata(s)
	return strings.TrimSpace(s) + "\n"
}

// stripEnclosingFence removes a single code fence that wraps the entire
// output. Fences in the interior are left alone.
func stripEnclosingFence(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(first, "```") || last != "```" {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// stripEdgeMetadata drops standalone single-line JSON objects from the first
// and last lines.
func stripEdgeMetadata(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 1 && isMetadataLine(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 1 && isMetadataLine(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func isMetadataLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") &&
		strings.Contains(t, `"`) && strings.Contains(t, ":")
}
