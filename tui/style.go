package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleTitle = lipgloss.NewStyle().
			Bold(true)

	stylePass = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	styleFail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	// Typing session styles: untouched snippet text, correct keystrokes,
	// and mistakes.
	stylePending = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleTypedGood = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	styleTypedBad = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Underline(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTitle
	kindSystem
	kindError
	kindPass
	kindFail
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "PASSED"):
		return kindPass
	case strings.HasPrefix(line, "FAILED"):
		return kindFail
	case strings.HasPrefix(line, "Chapter "), strings.HasPrefix(line, "== "):
		return kindTitle
	default:
		return kindNarrative
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTitle:
		return styleTitle.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindPass:
		return stylePass.Render(line)
	case kindFail:
		return styleFail.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}
