// Package tui provides a Bubble Tea terminal UI for TypeQuest. It hosts the
// command prompt and the live typing sessions that produce the measurements
// the engine scores.
package tui

// history is a bounded command history with cursor navigation.
type history struct {
	entries []string
	max     int
	cursor  int // -1 when not navigating
}

func newHistory(max int) *history {
	return &history{max: max, cursor: -1}
}

// push records a command, skipping consecutive duplicates.
func (h *history) push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

func (h *history) prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

func (h *history) next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

func (h *history) reset() {
	h.cursor = -1
}
