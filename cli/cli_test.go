package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/typequest/engine"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

func cliCatalog() *state.Catalog {
	c := state.NewCatalog()
	c.Game = state.Game{
		Title: "Test Quest", Version: "1.0", Author: "tester",
		StartHappiness: 50, StartEnergy: 70,
	}
	c.Chapters[0] = types.Chapter{ID: 0, Name: "Opening", EntryLessonID: "intro"}
	c.AddLesson(types.Lesson{
		ID: "intro", ChapterID: 0, Title: "Hello", Snippet: "abc def",
		GoalAccuracy: 80, GoalWPM: 1, Payout: 40,
	})
	c.Items["mech-keyboard"] = types.Item{ID: "mech-keyboard", Name: "Keyboard", Cost: 180}
	return c
}

// run feeds a script through the CLI with a frozen clock that advances one
// minute per call, making typing runs deterministic.
func run(t *testing.T, c *state.Catalog, script string) string {
	t.Helper()
	eng := engine.New(c, nil)
	var out bytes.Buffer
	cli := New(eng, c)
	cli.In = strings.NewReader(script)
	cli.Out = &out

	base := time.Unix(1700000000, 0)
	calls := 0
	cli.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	cli.Run()
	return out.String()
}

func TestRunBanner(t *testing.T) {
	got := run(t, cliCatalog(), "/quit\n")
	if !strings.Contains(got, "Test Quest v1.0 by tester") {
		t.Errorf("missing banner:\n%s", got)
	}
	if !strings.Contains(got, "Money: $0") {
		t.Errorf("missing status:\n%s", got)
	}
	if !strings.Contains(got, "[Goodbye.]") {
		t.Errorf("missing goodbye:\n%s", got)
	}
}

func TestTypingRunPasses(t *testing.T) {
	// The entry lesson is preselected; one snippet line typed perfectly.
	got := run(t, cliCatalog(), "type\nabc def\n/quit\n")
	if !strings.Contains(got, "PASSED") {
		t.Errorf("want PASSED:\n%s", got)
	}
	if !strings.Contains(got, "Earned $40.") {
		t.Errorf("want payout line:\n%s", got)
	}
}

func TestTypingRunFails(t *testing.T) {
	got := run(t, cliCatalog(), "type\nxxx xxx\n/quit\n")
	if !strings.Contains(got, "FAILED") {
		t.Errorf("want FAILED:\n%s", got)
	}
	// Consolation quarter of 40.
	if !strings.Contains(got, "Earned $10.") {
		t.Errorf("want consolation payout:\n%s", got)
	}
}

func TestBuyDeniedReason(t *testing.T) {
	got := run(t, cliCatalog(), "buy item mech-keyboard\n/quit\n")
	if !strings.Contains(got, "[Not enough cash]") {
		t.Errorf("want denial reason:\n%s", got)
	}
}

func TestCommentAndBlankLinesSkipped(t *testing.T) {
	got := run(t, cliCatalog(), "# a script comment\n\nstatus\n/quit\n")
	if strings.Contains(got, "Unknown command") {
		t.Errorf("comment line was dispatched:\n%s", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := cliCatalog()
	eng := engine.New(c, nil)
	eng.State.Money = 500

	var out bytes.Buffer
	cli := New(eng, c)
	cli.In = strings.NewReader("/reset\nstatus\n/quit\n")
	cli.Out = &out
	cli.Run()

	if !strings.Contains(out.String(), "[Progress wiped. Fresh start.]") {
		t.Errorf("missing reset ack:\n%s", out.String())
	}
	if eng.State.Money != 0 {
		t.Errorf("money = %d after reset", eng.State.Money)
	}
}

func TestUnknownCommand(t *testing.T) {
	got := run(t, cliCatalog(), "dance\n/quit\n")
	if !strings.Contains(got, "Unknown command: dance") {
		t.Errorf("missing unknown-command notice:\n%s", got)
	}
}
