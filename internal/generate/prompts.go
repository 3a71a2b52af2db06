package generate

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the prompt for a request, validating that the mode's
// required inputs are present.
func BuildPrompt(req Request) (string, error) {
	switch req.Mode {
	case ModeDesign:
		if strings.TrimSpace(req.Concept) == "" {
			return "", fmt.Errorf("design prompt requires a concept")
		}
		return designPrompt(req), nil
	case ModeImplement:
		if strings.TrimSpace(req.Design) == "" {
			return "", fmt.Errorf("implement prompt requires the design document")
		}
		return implementPrompt(req), nil
	case ModeRequirements:
		if strings.TrimSpace(req.Implementation) == "" {
			return "", fmt.Errorf("requirements prompt requires the implementation")
		}
		return requirementsPrompt(req), nil
	case ModeFix:
		if strings.TrimSpace(req.Implementation) == "" {
			return "", fmt.Errorf("fix prompt requires the implementation")
		}
		if strings.TrimSpace(req.Report) == "" {
			return "", fmt.Errorf("fix prompt requires the evaluation report")
		}
		return fixPrompt(req), nil
	case ModePublish:
		if strings.TrimSpace(req.Design) == "" {
			return "", fmt.Errorf("publish prompt requires the design document")
		}
		return publishPrompt(req), nil
	default:
		return "", fmt.Errorf("unknown generation mode: %s", req.Mode)
	}
}

func designPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a game designer. Write a complete game design document in markdown for the following concept.\n\n")
	fmt.Fprintf(&b, "Concept: %s\n\n", req.Concept)
	b.WriteString(`Requirements for the document:
- Start with a level-1 markdown heading naming the game.
- Describe the core mechanics, controls, win/lose conditions and scoring.
- Name exactly one Python game library to build with (pygame unless the concept demands otherwise).
- All visuals must be drawn with primitive shapes. Do not reference image or sound asset files.
- The game must fit in a single self-contained Python file.

Output only the markdown document. No code fences around it, no JSON, no commentary before or after.`)
	return b.String()
}

func implementPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a game developer. Implement the game described by this design document as a single Python file.\n\n")
	b.WriteString("Design document:\n\n")
	b.WriteString(req.Design)
	b.WriteString("\n\n")
	b.WriteString(`Requirements:
- One self-contained Python file. No imports of local modules, no config files.
- Use only the library the design prescribes plus the standard library.
- Draw all visuals with primitive shapes; never load image or sound files.
- Implement every mechanic the design names.

Output only the Python source. No markdown fences, no JSON metadata, no explanation.`)
	return b.String()
}

func requirementsPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("List the third-party Python packages this program imports, as a markdown document with one package per bullet. If only the standard library is used, say so.\n\n")
	b.WriteString("Program:\n\n")
	b.WriteString(req.Implementation)
	b.WriteString("\n\nOutput only the markdown document.")
	return b.String()
}

func fixPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a game developer. The following Python game failed evaluation. Produce a corrected version of the complete file that resolves every issue in the report.\n\n")
	b.WriteString("Evaluation report:\n\n")
	b.WriteString(req.Report)
	b.WriteString("\n\nCurrent source:\n\n")
	b.WriteString(req.Implementation)
	if strings.TrimSpace(req.Design) != "" {
		b.WriteString("\n\nDesign document the game must comply with:\n\n")
		b.WriteString(req.Design)
	}
	b.WriteString("\n\n")
	b.WriteString(`Output the complete corrected Python file, not a diff or a fragment. No markdown fences, no JSON metadata, no explanation.`)
	return b.String()
}

func publishPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Write a short, user-facing publication announcement in markdown for this finished game. Include the game name, a one-paragraph description and how to run it (python game.py).\n\n")
	if req.ProjectName != "" {
		fmt.Fprintf(&b, "Project name: %s\n\n", req.ProjectName)
	}
	b.WriteString("Design document:\n\n")
	b.WriteString(req.Design)
	if strings.TrimSpace(req.Report) != "" {
		b.WriteString("\n\nFinal evaluation report (mention known issues honestly if any remain):\n\n")
		b.WriteString(req.Report)
	}
	b.WriteString("\n\nOutput only the markdown document.")
	return b.String()
}
