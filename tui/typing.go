package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/typequest/types"
	"github.com/nathoo/typequest/typing"
)

// session is one live typing run. The clock starts on the first keystroke,
// not when the snippet is shown, so reading time is free.
type session struct {
	lesson  types.Lesson
	target  []rune
	typed   []rune
	started time.Time
}

func newSession(lesson types.Lesson) *session {
	return &session{
		lesson: lesson,
		target: []rune(lesson.Snippet),
	}
}

// handleKey feeds one keystroke into the session. It returns the finished
// measurement once every target rune has been answered, and done=false until
// then. Esc aborts with aborted=true.
func (s *session) handleKey(msg tea.KeyMsg) (result types.TypingResult, done, aborted bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return types.TypingResult{}, false, true

	case tea.KeyBackspace:
		if len(s.typed) > 0 {
			s.typed = s.typed[:len(s.typed)-1]
		}
		return types.TypingResult{}, false, false

	case tea.KeyEnter:
		s.press('\n')
	case tea.KeySpace:
		s.press(' ')
	case tea.KeyTab:
		s.press('\t')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			s.press(r)
		}
	default:
		return types.TypingResult{}, false, false
	}

	if len(s.typed) < len(s.target) {
		return types.TypingResult{}, false, false
	}
	elapsed := time.Since(s.started)
	return typing.Measure(s.lesson.Snippet, string(s.typed), elapsed), true, false
}

func (s *session) press(r rune) {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if len(s.typed) < len(s.target) {
		s.typed = append(s.typed, r)
	}
}

// render paints the snippet with per-character feedback: green for correct,
// red underline for wrong, dim for not yet typed.
func (s *session) render() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(s.lesson.Title))
	b.WriteString("\n\n")
	for i, want := range s.target {
		display := string(want)
		if want == '\n' {
			display = "↵\n"
		} else if want == '\t' {
			display = "⇥   "
		}
		switch {
		case i >= len(s.typed):
			b.WriteString(stylePending.Render(display))
		case s.typed[i] == want:
			b.WriteString(styleTypedGood.Render(display))
		default:
			b.WriteString(styleTypedBad.Render(display))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(styleSystem.Render("Type the text above. Backspace fixes, Esc abandons."))
	return b.String()
}
