package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/typequest/engine"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/persistence"
)

// mode selects what the keyboard drives: the command prompt or a live
// typing run.
type mode int

const (
	modeBrowse mode = iota
	modeTyping
)

// rawLine stores an unstyled output line with its classification, so we can
// re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool
}

// Model is the Bubble Tea model for the TypeQuest TUI.
type Model struct {
	engine  *engine.Engine
	catalog *state.Catalog
	saver   *persistence.Autosaver // nil when running without persistence

	viewport viewport.Model
	input    textinput.Model
	history  *history

	mode    mode
	session *session

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
}

// outputMsg carries command output into the Update loop.
type outputMsg struct {
	input    string // echoed player input (empty for intro)
	lines    []string
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, catalog *state.Catalog, saver *persistence.Autosaver) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		catalog: catalog,
		saver:   saver,
		input:   ti,
		history: newHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, catalog *state.Catalog, saver *persistence.Autosaver) error {
	m := New(eng, catalog, saver)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		if !m.engine.State.HasStarted {
			m.engine.StartGame()
		}
		g := m.catalog.Game
		lines := []string{
			g.Title + " v" + g.Version + " by " + g.Author,
			"",
		}
		lines = append(lines, m.cmdStatus()...)
		lines = append(lines, "", "Type /help for commands.")
		return outputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, command output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeTyping {
			return m.handleTypingKey(msg)
		}

		switch msg.String() {
		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.reset()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleTypingKey routes a keystroke into the live typing session.
func (m Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, done, aborted := m.session.handleKey(msg)
	if aborted {
		m.mode = modeBrowse
		m.session = nil
		m = m.appendOutput(outputMsg{lines: []string{"Run abandoned."}, isSystem: true})
		return m, nil
	}
	if !done {
		m.refreshViewport()
		return m, nil
	}

	lesson := m.session.lesson
	m.mode = modeBrowse
	m.session = nil

	outcome, res := m.engine.CompleteLesson(lesson.ID, result)
	if !res.OK {
		m = m.appendOutput(outputMsg{lines: []string{res.Reason}, isSystem: true})
		return m, nil
	}
	m = m.appendOutput(outputMsg{lines: m.outcomeLines(lesson, outcome)})
	return m, nil
}

// handleEnter processes the submitted command line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.push(input)
	m.history.reset()

	lines, startTyping, quit := m.runCommand(input)
	isSystem := strings.HasPrefix(input, "/")
	m = m.appendOutput(outputMsg{input: input, lines: lines, isSystem: isSystem})
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	if startTyping {
		lesson, ok := m.catalog.Lessons[m.engine.State.CurrentLessonID]
		if ok {
			m.mode = modeTyping
			m.session = newSession(lesson)
			m.refreshViewport()
		}
	}
	return m, nil
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line}
		if msg.isSystem {
			rl.kind = kindSystem
		} else {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content. In typing mode the session replaces the
// log.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	if m.mode == modeTyping && m.session != nil {
		m.viewport.SetContent(m.session.render())
		m.viewport.GotoTop()
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)
		if rl.isInput {
			styled = append(styled, stylePlayerInput.Render(wrapped))
			continue
		}
		styled = append(styled, renderLineKind(wrapped, rl.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit within width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	bottom := m.input.View()
	if m.mode == modeTyping {
		bottom = styleSystem.Render("typing…")
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + bottom
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (those drive input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
