package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/typequest/engine"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

func TestHistory(t *testing.T) {
	h := newHistory(3)

	if _, ok := h.prev(); ok {
		t.Error("empty history has no prev")
	}

	h.push("status")
	h.push("lessons")
	h.push("lessons") // consecutive duplicate is dropped
	h.push("shop")

	if got, _ := h.prev(); got != "shop" {
		t.Errorf("prev = %q, want shop", got)
	}
	if got, _ := h.prev(); got != "lessons" {
		t.Errorf("prev = %q, want lessons", got)
	}
	if got, _ := h.prev(); got != "status" {
		t.Errorf("prev = %q, want status", got)
	}
	// Past the oldest entry: stays put.
	if got, _ := h.prev(); got != "status" {
		t.Errorf("prev past start = %q, want status", got)
	}

	if got, _ := h.next(); got != "lessons" {
		t.Errorf("next = %q, want lessons", got)
	}
	if got, _ := h.next(); got != "shop" {
		t.Errorf("next = %q, want shop", got)
	}
	if _, ok := h.next(); ok {
		t.Error("next past newest should report false")
	}

	h.push("a")
	h.push("b")
	// Cap of 3: the oldest entry fell off.
	h.reset()
	for i := 0; i < 10; i++ {
		h.prev()
	}
	if got, _ := h.prev(); got != "shop" {
		t.Errorf("oldest = %q, want shop after eviction", got)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"PASSED — 97.0% accuracy", kindPass},
		{"FAILED — 70.0% accuracy", kindFail},
		{"[Chapter unlocked: 1. Home Row Hustle]", kindSystem},
		{"Chapter 2: Markup Money", kindTitle},
		{"== Shop ==", kindTitle},
		{"The phone buzzes again.", kindNarrative},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	if got := wordWrap("short", 40); got != "short" {
		t.Errorf("no wrap needed: %q", got)
	}
	got := wordWrap("one two three four five", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.ReplaceAll(got, "\n", " ") != "one two three four five" {
		t.Errorf("words lost in wrap: %q", got)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSessionHandleKey(t *testing.T) {
	lesson := types.Lesson{ID: "l", Title: "Drill", Snippet: "ab c"}

	t.Run("completes when every rune is answered", func(t *testing.T) {
		s := newSession(lesson)
		if _, done, _ := s.handleKey(keyRunes("ab")); done {
			t.Fatal("done too early")
		}
		if _, done, _ := s.handleKey(tea.KeyMsg{Type: tea.KeySpace}); done {
			t.Fatal("done too early")
		}
		result, done, aborted := s.handleKey(keyRunes("c"))
		if !done || aborted {
			t.Fatalf("done=%v aborted=%v", done, aborted)
		}
		if result.Accuracy != 100 || result.TotalChars != 4 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("mistakes lower accuracy", func(t *testing.T) {
		s := newSession(lesson)
		s.handleKey(keyRunes("ab"))
		s.handleKey(tea.KeyMsg{Type: tea.KeySpace})
		result, done, _ := s.handleKey(keyRunes("x"))
		if !done {
			t.Fatal("not done")
		}
		if result.Accuracy != 75 || result.Errors != 1 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("backspace retracts", func(t *testing.T) {
		s := newSession(lesson)
		s.handleKey(keyRunes("ax"))
		s.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})
		s.handleKey(keyRunes("b"))
		s.handleKey(tea.KeyMsg{Type: tea.KeySpace})
		result, done, _ := s.handleKey(keyRunes("c"))
		if !done || result.Accuracy != 100 {
			t.Errorf("done=%v result=%+v", done, result)
		}
	})

	t.Run("esc aborts", func(t *testing.T) {
		s := newSession(lesson)
		s.handleKey(keyRunes("a"))
		_, done, aborted := s.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
		if done || !aborted {
			t.Errorf("done=%v aborted=%v", done, aborted)
		}
	})

	t.Run("clock starts on first keystroke", func(t *testing.T) {
		s := newSession(lesson)
		if !s.started.IsZero() {
			t.Error("clock must not start before input")
		}
		s.handleKey(keyRunes("a"))
		if s.started.IsZero() {
			t.Error("clock should start on the first press")
		}
	})
}

func tuiCatalog() *state.Catalog {
	c := state.NewCatalog()
	c.Game = state.Game{Title: "Test Quest", StartHappiness: 50, StartEnergy: 70}
	c.Chapters[0] = types.Chapter{ID: 0, Name: "Opening", EntryLessonID: "intro"}
	c.AddLesson(types.Lesson{
		ID: "intro", ChapterID: 0, Title: "Hello", Snippet: "abc",
		GoalAccuracy: 50, GoalWPM: 10, Payout: 20,
	})
	c.Items["mech-keyboard"] = types.Item{ID: "mech-keyboard", Name: "Keyboard", Cost: 180}
	return c
}

func TestRunCommand(t *testing.T) {
	c := tuiCatalog()
	m := New(engine.New(c, nil), c, nil)

	t.Run("status", func(t *testing.T) {
		lines, startTyping, quit := m.runCommand("status")
		if startTyping || quit || len(lines) == 0 {
			t.Fatalf("lines=%v startTyping=%v quit=%v", lines, startTyping, quit)
		}
		if !strings.Contains(lines[0], "Money: $0") {
			t.Errorf("status line = %q", lines[0])
		}
	})

	t.Run("type starts a run when a lesson is current", func(t *testing.T) {
		_, startTyping, _ := m.runCommand("type")
		if !startTyping {
			t.Error("want startTyping with an entry lesson selected")
		}
	})

	t.Run("buy without funds reports the reason", func(t *testing.T) {
		lines, _, _ := m.runCommand("buy item mech-keyboard")
		if len(lines) != 1 || lines[0] != "Not enough cash" {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("quit", func(t *testing.T) {
		_, _, quit := m.runCommand("/quit")
		if !quit {
			t.Error("want quit")
		}
	})

	t.Run("save without a store", func(t *testing.T) {
		lines, _, _ := m.runCommand("/save")
		if len(lines) != 1 || lines[0] != "No save store configured." {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		lines, _, _ := m.runCommand("dance")
		if len(lines) != 1 || !strings.Contains(lines[0], "Unknown command") {
			t.Errorf("lines = %v", lines)
		}
	})
}
