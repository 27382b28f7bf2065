package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/typequest/types"
)

// runCommand dispatches one submitted line. It returns the output lines,
// whether a typing run should start, and whether the program should quit.
func (m *Model) runCommand(input string) (lines []string, startTyping, quit bool) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[len(parts)-1]
	}

	if strings.HasPrefix(cmd, "/") {
		return m.runMeta(cmd)
	}

	switch cmd {
	case "status", "st":
		return m.cmdStatus(), false, false
	case "chapters":
		return m.cmdChapters(), false, false
	case "lessons":
		return m.cmdLessons(), false, false
	case "select":
		return m.cmdSelect(arg), false, false
	case "type", "t":
		if _, ok := m.catalog.Lessons[m.engine.State.CurrentLessonID]; !ok {
			return []string{"No lesson selected. Use: select <lesson-id>"}, false, false
		}
		return nil, true, false
	case "choose":
		return m.actionLines(m.engine.ResolveLessonChoice(m.engine.State.CurrentLessonID, arg)), false, false
	case "story":
		return m.cmdStory(), false, false
	case "decide":
		return m.cmdDecide(arg), false, false
	case "shop":
		return m.cmdShop(), false, false
	case "buy":
		if len(parts) == 3 && parts[1] == "item" {
			return m.actionLines(m.engine.BuyItem(parts[2])), false, false
		}
		if len(parts) == 3 && parts[1] == "vehicle" {
			return m.actionLines(m.engine.BuyVehicle(parts[2])), false, false
		}
		return []string{"Usage: buy item <id> | buy vehicle <id>"}, false, false
	case "adopt":
		return m.actionLines(m.engine.AdoptPet(arg)), false, false
	case "move":
		return m.actionLines(m.engine.ChangeHousing(arg)), false, false
	case "partners":
		return m.cmdPartners(), false, false
	case "endings":
		return m.cmdEndings(), false, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false, false
	}
}

func (m *Model) runMeta(cmd string) (lines []string, startTyping, quit bool) {
	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, false, true

	case "/save":
		if m.saver == nil {
			return []string{"No save store configured."}, false, false
		}
		if err := m.saver.Flush(); err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false, false
		}
		return []string{"Game saved."}, false, false

	case "/reset":
		m.engine.ResetGame()
		m.engine.StartGame()
		return []string{"Progress wiped. Fresh start."}, false, false

	case "/help":
		return m.cmdHelp(), false, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false, false
	}
}

func (m *Model) cmdStatus() []string {
	s := m.engine.State
	b := m.engine.Bonuses()
	lines := []string{
		fmt.Sprintf("Money: $%d   Happiness: %d   Energy: %d   Skill: %d", s.Money, s.Happiness, s.Energy, s.Skill),
		fmt.Sprintf("Bonuses: +%d%% accuracy, +%d wpm, x%.2f payout", b.AccuracyBonus, b.WPMBonus, b.PayoutMultiplier),
	}
	if lesson, ok := m.catalog.Lessons[s.CurrentLessonID]; ok {
		lines = append(lines, fmt.Sprintf("Current lesson: %s (%s)", lesson.Title, lesson.ID))
	}
	return lines
}

func (m *Model) cmdChapters() []string {
	s := m.engine.State
	var lines []string
	for _, id := range m.catalog.ChapterIDs() {
		ch := m.catalog.Chapters[id]
		p := m.engine.Progress(id)
		lock := "locked"
		if s.UnlockedChapters[id] {
			lock = fmt.Sprintf("%d/%d", p.Completed, p.Total)
		}
		lines = append(lines, fmt.Sprintf("  %d. %-22s [%s]  %s", id, ch.Name, lock, ch.Summary))
	}
	return lines
}

func (m *Model) cmdLessons() []string {
	s := m.engine.State
	chID := s.CurrentChapterID
	ch := m.catalog.Chapters[chID]
	lines := []string{fmt.Sprintf("Chapter %d: %s", chID, ch.Name)}
	for _, l := range m.catalog.LessonsForChapter(chID) {
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
		lines = append(lines, fmt.Sprintf("  %s %-24s %s%s  goal %d%% / %d wpm, pays $%d",
			mark, l.ID, l.Title, kind, l.GoalAccuracy, l.GoalWPM, l.Payout))
	}
	return lines
}

func (m *Model) cmdSelect(id string) []string {
	res := m.engine.SelectLesson(id)
	if !res.OK {
		return []string{res.Reason}
	}
	lesson := m.catalog.Lessons[id]
	lines := []string{lesson.Title}
	if lesson.Description != "" {
		lines = append(lines, lesson.Description)
	}
	for _, h := range lesson.Hints {
		lines = append(lines, "[Hint: "+h.Text+"]")
	}
	lines = append(lines, "", "Type `t` to start the run.")
	return lines
}

// outcomeLines formats a finished run for the log.
func (m *Model) outcomeLines(lesson types.Lesson, o types.LessonOutcome) []string {
	verdict := "PASSED"
	if !o.Passed {
		verdict = "FAILED"
	}
	lines := []string{
		fmt.Sprintf("%s — %.1f%% accuracy (goal %d%%), %.1f wpm (goal %d)",
			verdict, o.EffectiveAccuracy, o.GoalAccuracy, o.EffectiveWPM, o.GoalWPM),
		fmt.Sprintf("Earned $%d.", o.Earned),
	}
	if o.UnlockedChapterID >= 0 {
		ch := m.catalog.Chapters[o.UnlockedChapterID]
		lines = append(lines, fmt.Sprintf("[Chapter unlocked: %d. %s]", ch.ID, ch.Name))
	}
	if len(lesson.Choices) == 2 {
		if _, made := m.engine.State.LessonChoices[lesson.ID]; !made {
			lines = append(lines, "", "A decision:")
			for _, ch := range lesson.Choices {
				lines = append(lines, fmt.Sprintf("  choose %-24s %s — %s", ch.ID, ch.Label, ch.Description))
			}
		}
	}
	return lines
}

func (m *Model) cmdStory() []string {
	node, ok := m.catalog.Choices[m.engine.State.ActiveChoiceNodeID]
	if !ok {
		return []string{"No story decision is waiting."}
	}
	lines := []string{node.Title, node.Narrative}
	for _, opt := range node.Options {
		gate := ""
		if !m.engine.CanSatisfy(opt.Requirements) {
			gate = " (requirements not met)"
		}
		lines = append(lines, fmt.Sprintf("  decide %-16s %s%s", opt.ID, opt.Label, gate))
	}
	return lines
}

func (m *Model) cmdDecide(optionID string) []string {
	node, hasNode := m.catalog.Choices[m.engine.State.ActiveChoiceNodeID]
	out := m.engine.ResolveChoice("", optionID)
	if !out.OK {
		return []string{out.Reason}
	}
	var lines []string
	if hasNode {
		for _, opt := range node.Options {
			if opt.ID == optionID && opt.OutcomeText != "" {
				lines = append(lines, opt.OutcomeText)
			}
		}
	}
	if out.TriggeredLessonID != "" {
		if lesson, ok := m.catalog.Lessons[out.TriggeredLessonID]; ok {
			lines = append(lines, "[New lesson: "+lesson.Title+"]")
		}
	}
	if len(lines) == 0 {
		lines = []string{"Decision made."}
	}
	return lines
}

func (m *Model) cmdShop() []string {
	s := m.engine.State
	var lines []string
	lines = append(lines, "Items:  (buy item <id>)")
	for _, it := range sortedByID(m.catalog.Items, func(i types.Item) string { return i.ID }) {
		lines = append(lines, fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedItems[it.ID]), it.ID, it.Cost, it.Name))
	}
	lines = append(lines, "Vehicles:  (buy vehicle <id>)")
	for _, v := range sortedByID(m.catalog.Vehicles, func(v types.Vehicle) string { return v.ID }) {
		lines = append(lines, fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedVehicles[v.ID]), v.ID, v.Cost, v.Name))
	}
	lines = append(lines, "Pets:  (adopt <id>)")
	for _, p := range sortedByID(m.catalog.Pets, func(p types.Pet) string { return p.ID }) {
		lines = append(lines, fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.OwnedPets[p.ID]), p.ID, p.Cost, p.Name))
	}
	lines = append(lines, "Housing:  (move <id>)")
	for _, h := range sortedByID(m.catalog.Housing, func(h types.Housing) string { return h.ID }) {
		lines = append(lines, fmt.Sprintf("  %s %-16s $%-6d %s", ownedMark(s.HousingID == h.ID), h.ID, h.Cost, h.Name))
	}
	return lines
}

func (m *Model) cmdPartners() []string {
	s := m.engine.State
	var lines []string
	for _, p := range sortedByID(m.catalog.Partners, func(p types.RelationshipPartner) string { return p.ID }) {
		rel := s.Relationships[p.ID]
		label := "just met"
		for _, mi := range p.Milestones {
			if mi.Level == rel.Level {
				label = mi.Label
			}
		}
		lines = append(lines, fmt.Sprintf("  %-16s %s, level %d — %s", p.ID, p.Name, rel.Level, label))
	}
	return lines
}

func (m *Model) cmdEndings() []string {
	unlocked := m.engine.UnlockedEndings()
	if len(unlocked) == 0 {
		return []string{"No endings reached yet."}
	}
	var lines []string
	for _, e := range unlocked {
		lines = append(lines, "  "+e.Title, "    "+e.Description)
	}
	return lines
}

func (m *Model) cmdHelp() []string {
	return []string{
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
		"  type (t)           — Start the typing run",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) actionLines(res types.ActionResult) []string {
	if res.OK {
		return []string{"Done."}
	}
	return []string{res.Reason}
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
