package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/typequest/persistence"
)

// renderStatusBar produces a full-width inverted status line showing wallet,
// stats, current chapter, and autosave health.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	chName := ""
	if ch, ok := m.catalog.Chapters[s.CurrentChapterID]; ok {
		chName = ch.Name
	}
	p := m.engine.Progress(s.CurrentChapterID)

	left := fmt.Sprintf(" $%d | H:%d E:%d S:%d | Ch%d %s (%d/%d)",
		s.Money, s.Happiness, s.Energy, s.Skill,
		s.CurrentChapterID, chName, p.Completed, p.Total)

	right := " "
	if m.saver != nil {
		switch m.saver.Status() {
		case persistence.StatusOK:
			right = "saved "
		case persistence.StatusDegraded:
			right = "save: retrying "
		case persistence.StatusFailing:
			right = "SAVE FAILING "
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
