// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the TypeQuest engine. It doubles as the typing collaborator:
// it times the player's input against the lesson snippet and submits the
// finished measurement.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/typequest/engine"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/persistence"
	"github.com/nathoo/typequest/types"
	"github.com/nathoo/typequest/typing"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Catalog   *state.Catalog
	Saver     *persistence.Autosaver // nil when running without persistence
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)

	// now measures typing runs. Replaceable in tests.
	now func() time.Time
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, catalog *state.Catalog) *CLI {
	return &CLI{
		Engine:  eng,
		Catalog: catalog,
		In:      os.Stdin,
		Out:     os.Stdout,
		now:     time.Now,
	}
}

// Run starts the game loop: prompt, input, dispatch, output.
func (c *CLI) Run() {
	if !c.Engine.State.HasStarted {
		c.Engine.StartGame()
	}
	c.printLine(fmt.Sprintf("%s v%s by %s", c.Catalog.Game.Title, c.Catalog.Game.Version, c.Catalog.Game.Author))
	c.printLine("")
	c.cmdStatus()
	c.printLine("")
	c.printSystem("Type /help for commands.")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		c.dispatch(scanner, input)
	}
}

// dispatch routes a game command.
func (c *CLI) dispatch(scanner *bufio.Scanner, input string) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[len(parts)-1]
	}

	switch cmd {
	case "status", "st":
		c.cmdStatus()
	case "chapters":
		c.cmdChapters()
	case "lessons":
		c.cmdLessons()
	case "select":
		c.cmdSelect(arg)
	case "type", "t":
		c.cmdType(scanner)
	case "choose":
		c.cmdChoose(arg)
	case "story":
		c.cmdStory()
	case "decide":
		c.cmdDecide(arg)
	case "shop":
		c.cmdShop()
	case "buy":
		c.cmdBuy(parts)
	case "adopt":
		c.printAction(c.Engine.AdoptPet(arg))
	case "move":
		c.printAction(c.Engine.ChangeHousing(arg))
	case "partners":
		c.cmdPartners()
	case "endings":
		c.cmdEndings()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	switch parts[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		if c.Saver == nil {
			c.printSystem("No save store configured.")
			break
		}
		if err := c.Saver.Flush(); err != nil {
			c.printSystem(fmt.Sprintf("Save failed: %v", err))
		} else {
			c.printSystem("Game saved.")
		}

	case "/reset":
		c.Engine.ResetGame()
		c.Engine.StartGame()
		c.printSystem("Progress wiped. Fresh start.")

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0]))
	}
	return false
}

func (c *CLI) cmdStatus() {
	s := c.Engine.State
	b := c.Engine.Bonuses()
	c.printLine(fmt.Sprintf("Money: $%d   Happiness: %d   Energy: %d   Skill: %d", s.Money, s.Happiness, s.Energy, s.Skill))
	c.printLine(fmt.Sprintf("Bonuses: +%d%% accuracy, +%d wpm, x%.2f payout", b.AccuracyBonus, b.WPMBonus, b.PayoutMultiplier))
	if lesson, ok := c.Catalog.Lessons[s.CurrentLessonID]; ok {
		c.printLine(fmt.Sprintf("Current lesson: %s (%s)", lesson.Title, lesson.ID))
	}
	if c.Saver != nil && c.Saver.Status() != persistence.StatusOK {
		c.printSystem(fmt.Sprintf("Autosave %s.", c.Saver.Status()))
	}
}

func (c *CLI) cmdChapters() {
	s := c.Engine.State
	for _, id := range c.Catalog.ChapterIDs() {
		ch := c.Catalog.Chapters[id]
		p := c.Engine.Progress(id)
		lock := "locked"
		if s.UnlockedChapters[id] {
			lock = fmt.Sprintf("%d/%d", p.Completed, p.Total)
		}
		c.printLine(fmt.Sprintf("  %d. %-22s [%s]  %s", id, ch.Name, lock, ch.Summary))
	}
}

func (c *CLI) cmdLessons() {
	s := c.Engine.State
	chID := s.CurrentChapterID
	ch := c.Catalog.Chapters[chID]
	c.printLine(fmt.Sprintf("Chapter %d: %s", chID, ch.Name))
	for _, l := range c.Catalog.LessonsForChapter(chID) {
		mark := " "
		if rec, ok := s.CompletedLessons[l.ID]; ok {
			if rec.Passed {
				mark = "*"
			} else {
				mark = "."
			}
		}
		kind := ""
		if l.Kind == types.LessonJob {
			kind = " (job)"
		}
		c.printLine(fmt.Sprintf("  %s %-24s %s%s  goal %d%% / %d wpm, pays $%d",
			mark, l.ID, l.Title, kind, l.GoalAccuracy, l.GoalWPM, l.Payout))
	}
}

func (c *CLI) cmdSelect(id string) {
	res := c.Engine.SelectLesson(id)
	if !res.OK {
		c.printAction(res)
		return
	}
	lesson := c.Catalog.Lessons[id]
	c.printLine(lesson.Title)
	if lesson.Description != "" {
		c.printLine(lesson.Description)
	}
	for _, h := range lesson.Hints {
		c.printSystem("Hint: " + h.Text)
	}
}

// cmdType runs the current lesson: print the snippet, time the player's
// input line by line, then submit the measured result.
func (c *CLI) cmdType(scanner *bufio.Scanner) {
	lesson, ok := c.Catalog.Lessons[c.Engine.State.CurrentLessonID]
	if !ok {
		c.printSystem("No lesson selected. Use: select <lesson-id>")
		return
	}

	lines := strings.Split(lesson.Snippet, "\n")
	c.printLine("Type each line, then press Enter:")
	c.printLine("")

	var typed []string
	start := c.now()
	for _, line := range lines {
		c.printLine("  " + line)
		c.print("  ")
		if !scanner.Scan() {
			return
		}
		got := scanner.Text()
		if c.EchoInput {
			c.printLine(got)
		}
		typed = append(typed, got)
	}
	elapsed := c.now().Sub(start)

	result := typing.Measure(lesson.Snippet, strings.Join(typed, "\n"), elapsed)
	outcome, res := c.Engine.CompleteLesson(lesson.ID, result)
	if !res.OK {
		c.printAction(res)
		return
	}
	c.printOutcome(lesson, outcome)
}

func (c *CLI) printOutcome(lesson types.Lesson, o types.LessonOutcome) {
	verdict := "PASSED"
	if !o.Passed {
		verdict = "FAILED"
	}
	c.printLine("")
	c.printLine(fmt.Sprintf("%s — %.1f%% accuracy (goal %d%%), %.1f wpm (goal %d)",
		verdict, o.EffectiveAccuracy, o.GoalAccuracy, o.EffectiveWPM, o.GoalWPM))
	c.printLine(fmt.Sprintf("Earned $%d.", o.Earned))
	if o.UnlockedChapterID >= 0 {
		ch := c.Catalog.Chapters[o.UnlockedChapterID]
		c.printSystem(fmt.Sprintf("Chapter unlocked: %d. %s", ch.ID, ch.Name))
	}
	if len(lesson.Choices) == 2 {
		if _, made := c.Engine.State.LessonChoices[lesson.ID]; !made {
			c.printLine("")
			c.printLine("A decision:")
			for _, ch := range lesson.Choices {
				c.printLine(fmt.Sprintf("  choose %-24s %s — %s", ch.ID, ch.Label, ch.Description))
			}
		}
	}
}

func (c *CLI) cmdChoose(choiceID string) {
	lessonID := c.Engine.State.CurrentLessonID
	res := c.Engine.ResolveLessonChoice(lessonID, choiceID)
	if !res.OK {
		c.printAction(res)
		return
	}
	c.printSystem("Decision made.")
}

func (c *CLI) cmdStory() {
	node, ok := c.Catalog.Choices[c.Engine.State.ActiveChoiceNodeID]
	if !ok {
		c.printSystem("No story decision is waiting.")
		return
	}
	c.printLine(node.Title)
	c.printLine(node.Narrative)
	for _, opt := range node.Options {
		gate := ""
		if !c.Engine.CanSatisfy(opt.Requirements) {
			gate = " (requirements not met)"
		}
		c.printLine(fmt.Sprintf("  decide %-16s %s%s", opt.ID, opt.Label, gate))
	}
}

func (c *CLI) cmdDecide(optionID string) {
	out := c.Engine.ResolveChoice("", optionID)
	if !out.OK {
		c.printAction(out.ActionResult)
		return
	}
	c.printSystem("Decision made.")
	if out.TriggeredLessonID != "" {
		if lesson, ok := c.Catalog.Lessons[out.TriggeredLessonID]; ok {
			c.printSystem("New lesson: " + lesson.Title)
		}
	}
}

func (c *CLI) cmdShop() {
	s := c.Engine.State
	c.printLine("Items:  (buy item <id>)")
	for _, it := range sortedByID(c.Catalog.Items, func(i types.Item) string { return i.ID }) {
		c.printLine(fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedItems[it.ID]), it.ID, it.Cost, it.Name))
	}
	c.printLine("Vehicles:  (buy vehicle <id>)")
	for _, v := range sortedByID(c.Catalog.Vehicles, func(v types.Vehicle) string { return v.ID }) {
		c.printLine(fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedVehicles[v.ID]), v.ID, v.Cost, v.Name))
	}
	c.printLine("Pets:  (adopt <id>)")
	for _, p := range sortedByID(c.Catalog.Pets, func(p types.Pet) string { return p.ID }) {
		c.printLine(fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedPets[p.ID]), p.ID, p.Cost, p.Name))
	}
	c.printLine("Housing:  (move <id>)")
	for _, h := range sortedByID(c.Catalog.Housing, func(h types.Housing) string { return h.ID }) {
		c.printLine(fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.HousingID == h.ID), h.ID, h.Cost, h.Name))
	}
}

func (c *CLI) cmdBuy(parts []string) {
	if len(parts) < 3 {
		c.printSystem("Usage: buy item <id> | buy vehicle <id>")
		return
	}
	switch parts[1] {
	case "item":
		c.printAction(c.Engine.BuyItem(parts[2]))
	case "vehicle":
		c.printAction(c.Engine.BuyVehicle(parts[2]))
	default:
		c.printSystem("Usage: buy item <id> | buy vehicle <id>")
	}
}

func (c *CLI) cmdPartners() {
	s := c.Engine.State
	for _, p := range sortedByID(c.Catalog.Partners, func(p types.RelationshipPartner) string { return p.ID }) {
		rel := s.Relationships[p.ID]
		label := "just met"
		for _, m := range p.Milestones {
			if m.Level == rel.Level {
				label = m.Label
			}
		}
		c.printLine(fmt.Sprintf("  %-16s %s, level %d — %s", p.ID, p.Name, rel.Level, label))
	}
}

func (c *CLI) cmdEndings() {
	unlocked := c.Engine.UnlockedEndings()
	if len(unlocked) == 0 {
		c.printSystem("No endings reached yet.")
		return
	}
	for _, e := range unlocked {
		c.printLine("  " + e.Title)
		c.printLine("    " + e.Description)
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save   — Save now",
		"  /reset  — Wipe all progress",
		"  /quit   — Exit game",
		"  /help   — Show this help",
		"",
		"Game commands:",
		"  status (st)        — Money, stats, bonuses",
		"  chapters           — Chapter list and progress",
		"  lessons            — Lessons in the current chapter",
		"  select <lesson-id> — Pick a lesson",
		"  type (t)           — Run the selected lesson",
		"  choose <choice-id> — Commit a lesson decision",
		"  story              — Show the pending story decision",
		"  decide <option-id> — Commit a story decision",
		"  shop               — Browse items, vehicles, pets, housing",
		"  buy item <id>      — Buy an item",
		"  buy vehicle <id>   — Buy a vehicle",
		"  adopt <id>         — Adopt a pet",
		"  move <id>          — Change housing",
		"  partners           — Relationship status",
		"  endings            — Endings reached",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printAction(res types.ActionResult) {
	if res.OK {
		c.printSystem("Done.")
		return
	}
	c.printSystem(res.Reason)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

func ownedMark(owned bool) string {
	if owned {
		return "*"
	}
	return " "
}

// sortedByID returns map values ordered by id for stable listings.
func sortedByID[V any](m map[string]V, id func(V) string) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
