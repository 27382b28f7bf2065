// Package engine is the progression core of TypeQuest. It owns the single
// mutable PlayerState, applies every rule transition, and exposes the action
// surface hosts drive. Typing measurement lives in the hosts; the engine only
// ever sees a finished TypingResult.
package engine

import (
	"math"
	"time"

	"github.com/nathoo/typequest/engine/choice"
	"github.com/nathoo/typequest/engine/effects"
	"github.com/nathoo/typequest/engine/endings"
	"github.com/nathoo/typequest/engine/rules"
	"github.com/nathoo/typequest/engine/save"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// chapterUnlockRatio is the share of a chapter's non-job lessons that must
// have been attempted before the next chapter opens.
const chapterUnlockRatio = 0.7

// failedPayoutShare is the fraction of a lesson's payout earned on a failed
// attempt, floored before the payout multiplier applies.
const failedPayoutShare = 0.25

// Saver receives change notifications from the engine. Schedule must not
// block; Wipe removes every persisted copy of the state.
type Saver interface {
	Schedule()
	Wipe()
}

// NopSaver discards all notifications. Useful for tests and validation runs.
type NopSaver struct{}

func (NopSaver) Schedule() {}
func (NopSaver) Wipe()     {}

// Engine binds one catalog to one player state and serializes all mutations.
// It is not safe for concurrent use; hosts submit one action at a time.
type Engine struct {
	Catalog *state.Catalog
	State   *types.PlayerState

	saver Saver

	// now is the timestamp source, in unix millis. Replaceable in tests.
	now func() int64
}

// New creates an engine with a fresh default state for the catalog.
func New(c *state.Catalog, saver Saver) *Engine {
	if saver == nil {
		saver = NopSaver{}
	}
	return &Engine{
		Catalog: c,
		State:   state.NewState(c),
		saver:   saver,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Resume creates an engine from snapshot bytes, hydrating them over catalog
// defaults. Corrupt or empty bytes yield a fresh state.
func Resume(c *state.Catalog, data []byte, saver Saver) *Engine {
	e := New(c, saver)
	e.State = save.Hydrate(data, c)
	return e
}

// AttachSaver replaces the engine's change listener. Wiring happens after
// construction because the autosaver needs the engine's Marshal.
func (e *Engine) AttachSaver(s Saver) {
	if s == nil {
		s = NopSaver{}
	}
	e.saver = s
}

// Marshal serializes the current state as snapshot bytes.
func (e *Engine) Marshal() ([]byte, error) {
	return save.Marshal(e.State, e.Catalog, e.now())
}

// StartGame marks the session as begun.
func (e *Engine) StartGame() {
	e.State.HasStarted = true
	e.saver.Schedule()
}

// ResetGame discards all progress and wipes every persisted copy.
func (e *Engine) ResetGame() {
	e.State = state.NewState(e.Catalog)
	e.saver.Wipe()
}

// Bonuses returns the transient modifiers from owned items and pets.
func (e *Engine) Bonuses() types.Bonuses {
	return state.ComputeBonuses(e.State, e.Catalog)
}

// CanSatisfy reports whether the player currently meets all requirements.
func (e *Engine) CanSatisfy(reqs []types.Requirement) bool {
	return rules.Satisfies(e.State, reqs)
}

// SelectLesson makes a lesson current. The lesson must exist, its chapter
// must be unlocked, and its requirements must hold.
func (e *Engine) SelectLesson(lessonID string) types.ActionResult {
	lesson, ok := e.Catalog.Lessons[lessonID]
	if !ok {
		return types.Denied("Lesson missing")
	}
	if !e.State.UnlockedChapters[lesson.ChapterID] {
		return types.Denied("Chapter locked")
	}
	if !rules.Satisfies(e.State, lesson.Requirements) {
		return types.Denied("Requirements not met")
	}
	e.State.CurrentLessonID = lesson.ID
	e.State.CurrentChapterID = lesson.ChapterID
	e.saver.Schedule()
	return types.Allowed()
}

// CompleteLesson scores a finished typing run against a lesson's goals and
// applies every consequence: payout, stat drift, lifetime totals, lesson
// rewards, relationship milestones, chapter unlock, and ending checks.
func (e *Engine) CompleteLesson(lessonID string, result types.TypingResult) (types.LessonOutcome, types.ActionResult) {
	s := e.State
	lesson, ok := e.Catalog.Lessons[lessonID]
	if !ok {
		return types.LessonOutcome{}, types.Denied("Lesson missing")
	}
	if !s.UnlockedChapters[lesson.ChapterID] {
		return types.LessonOutcome{}, types.Denied("Chapter locked")
	}

	b := state.ComputeBonuses(s, e.Catalog)

	effAcc := math.Min(100, result.Accuracy+float64(b.AccuracyBonus))
	effWPM := result.WPM + float64(b.WPMBonus)
	goalAcc := state.ClampStat(lesson.GoalAccuracy+s.DifficultyModifier, 1, 100)
	goalWPM := lesson.GoalWPM + s.DifficultyModifier
	if goalWPM < 1 {
		goalWPM = 1
	}
	passed := effAcc >= float64(goalAcc) && effWPM >= float64(goalWPM)

	base := float64(lesson.Payout)
	if !passed {
		base = math.Floor(base * failedPayoutShare)
	}
	earned := state.FloorZero(scoreRound(base * b.PayoutMultiplier))

	s.Money += earned
	if passed {
		s.Energy = state.FloorZero(s.Energy - 5)
		s.Happiness = state.ClampStat(s.Happiness+2, state.StatMin, state.StatMax)
	} else {
		s.Energy = state.FloorZero(s.Energy - 7)
		s.Happiness = state.ClampStat(s.Happiness-2, state.StatMin, state.StatMax)
	}
	s.Skill += state.FloorZero(scoreRound((result.Accuracy + result.WPM) / 100))

	s.CompletedLessons[lesson.ID] = types.CompletedLesson{
		Result:           result,
		Payout:           earned,
		Passed:           passed,
		CompletedAt:      e.now(),
		SelectedChoiceID: s.LessonChoices[lesson.ID],
	}

	ls := &s.LifetimeStats
	ls.TotalCharsTyped += result.TotalChars
	ls.CorrectChars += result.CorrectChars
	ls.SessionsCompleted++
	ls.TotalTimeMs += result.TimeMs
	ls.BestAccuracy = math.Max(ls.BestAccuracy, result.Accuracy)
	ls.BestWPM = math.Max(ls.BestWPM, result.WPM)

	// Lesson rewards land on every attempt; milestones need a pass.
	effects.Apply(s, lesson.Rewards)
	if passed {
		e.advanceRelationships(lesson.ID)
	}

	unlocked := e.maybeUnlockNext(lesson.ChapterID)
	if unlocked >= 0 {
		s.CurrentChapterID = unlocked
	} else if lesson.ChapterID > s.CurrentChapterID {
		s.CurrentChapterID = lesson.ChapterID
	}
	s.CurrentLessonID = lesson.ID
	endings.Evaluate(s, e.Catalog)
	e.saver.Schedule()

	return types.LessonOutcome{
		Passed:            passed,
		Earned:            earned,
		UnlockedChapterID: unlocked,
		EffectiveAccuracy: effAcc,
		EffectiveWPM:      effWPM,
		GoalAccuracy:      goalAcc,
		GoalWPM:           goalWPM,
	}, types.Allowed()
}

// advanceRelationships bumps every partner whose next milestone names the
// passed lesson and whose extra requirement, if any, currently holds.
func (e *Engine) advanceRelationships(lessonID string) {
	s := e.State
	for pid, partner := range e.Catalog.Partners {
		rel := s.Relationships[pid]
		next := rel.Level + 1
		for _, m := range partner.Milestones {
			if m.Level != next || m.LessonID != lessonID {
				continue
			}
			if m.Requirement != nil && !rules.Eval(*m.Requirement, s) {
				continue
			}
			rel.Level = next
			rel.Progress = 0
			s.Relationships[pid] = rel
			if m.Reward != nil {
				effects.Apply(s, []types.Reward{*m.Reward})
			}
			break
		}
	}
}

// maybeUnlockNext opens the chapter after chapterID once enough of its
// non-job lessons have been attempted. Attempted counts any recorded run,
// passed or not. Returns the newly unlocked chapter id, or -1.
func (e *Engine) maybeUnlockNext(chapterID int) int {
	s := e.State
	next := chapterID + 1
	if !e.Catalog.HasChapter(next) || s.UnlockedChapters[next] {
		return -1
	}
	lessons := e.Catalog.NonJobLessons(chapterID)
	if len(lessons) == 0 {
		return -1
	}
	attempted := 0
	for _, l := range lessons {
		if _, ok := s.CompletedLessons[l.ID]; ok {
			attempted++
		}
	}
	if float64(attempted)/float64(len(lessons)) < chapterUnlockRatio {
		return -1
	}
	s.UnlockedChapters[next] = true
	return next
}

// Progress reports the pass-based completion of a chapter's non-job lessons.
// Note the asymmetry with chapter unlock, which counts attempts.
func (e *Engine) Progress(chapterID int) types.ChapterProgress {
	lessons := e.Catalog.NonJobLessons(chapterID)
	p := types.ChapterProgress{Total: len(lessons)}
	for _, l := range lessons {
		if rec, ok := e.State.CompletedLessons[l.ID]; ok && rec.Passed {
			p.Completed++
		}
	}
	return p
}

// BuyItem purchases an item if it exists, is not owned, its requirements
// hold, and the player can afford it.
func (e *Engine) BuyItem(itemID string) types.ActionResult {
	s := e.State
	item, ok := e.Catalog.Items[itemID]
	if !ok {
		return types.Denied("Item missing")
	}
	if s.OwnedItems[item.ID] {
		return types.Denied("Already owned")
	}
	if !rules.Satisfies(s, item.Requirements) {
		return types.Denied("Requirements not met")
	}
	if s.Money < item.Cost {
		return types.Denied("Not enough cash")
	}
	s.Money -= item.Cost
	s.OwnedItems[item.ID] = true
	endings.Evaluate(s, e.Catalog)
	e.saver.Schedule()
	return types.Allowed()
}

// BuyVehicle purchases a vehicle under the same gating as items.
func (e *Engine) BuyVehicle(vehicleID string) types.ActionResult {
	s := e.State
	v, ok := e.Catalog.Vehicles[vehicleID]
	if !ok {
		return types.Denied("Vehicle missing")
	}
	if s.OwnedVehicles[v.ID] {
		return types.Denied("Already owned")
	}
	if !rules.Satisfies(s, v.Requirements) {
		return types.Denied("Requirements not met")
	}
	if s.Money < v.Cost {
		return types.Denied("Not enough cash")
	}
	s.Money -= v.Cost
	s.OwnedVehicles[v.ID] = true
	endings.Evaluate(s, e.Catalog)
	e.saver.Schedule()
	return types.Allowed()
}

// AdoptPet takes in a pet. Pets carry no requirements, only a cost.
func (e *Engine) AdoptPet(petID string) types.ActionResult {
	s := e.State
	pet, ok := e.Catalog.Pets[petID]
	if !ok {
		return types.Denied("Pet missing")
	}
	if s.OwnedPets[pet.ID] {
		return types.Denied("Already adopted")
	}
	if s.Money < pet.Cost {
		return types.Denied("Not enough cash")
	}
	s.Money -= pet.Cost
	s.OwnedPets[pet.ID] = true
	endings.Evaluate(s, e.Catalog)
	e.saver.Schedule()
	return types.Allowed()
}

// ChangeHousing moves the player. Housing with an ending flag latches it on
// move-in.
func (e *Engine) ChangeHousing(housingID string) types.ActionResult {
	s := e.State
	h, ok := e.Catalog.Housing[housingID]
	if !ok {
		return types.Denied("Housing missing")
	}
	if s.HousingID == h.ID {
		return types.Denied("Already living here")
	}
	if s.Money < h.Cost {
		return types.Denied("Not enough cash")
	}
	s.Money -= h.Cost
	s.HousingID = h.ID
	if h.EndingFlag != "" {
		s.Flags[h.EndingFlag] = true
	}
	endings.Evaluate(s, e.Catalog)
	e.saver.Schedule()
	return types.Allowed()
}

// EarnMoney credits the wallet. Negative amounts are ignored.
func (e *Engine) EarnMoney(amount int) {
	if amount <= 0 {
		return
	}
	e.State.Money += amount
	endings.Evaluate(e.State, e.Catalog)
	e.saver.Schedule()
}

// SpendMoney debits the wallet if the balance covers it.
func (e *Engine) SpendMoney(amount int) types.ActionResult {
	if amount <= 0 {
		return types.Allowed()
	}
	if e.State.Money < amount {
		return types.Denied("Not enough cash")
	}
	e.State.Money -= amount
	e.saver.Schedule()
	return types.Allowed()
}

// ResolveChoice resolves an option on the active (or named) choice node. A
// triggered lesson is selected immediately when its gates allow it.
func (e *Engine) ResolveChoice(nodeID, optionID string) choice.Outcome {
	out := choice.ResolveOption(e.State, e.Catalog, nodeID, optionID)
	if out.OK {
		if out.TriggeredLessonID != "" {
			// Best effort: a locked or missing lesson leaves the current
			// selection untouched.
			e.SelectLesson(out.TriggeredLessonID)
		}
		e.saver.Schedule()
	}
	return out
}

// ResolveLessonChoice commits one of a lesson's two branches, exactly once.
func (e *Engine) ResolveLessonChoice(lessonID, choiceID string) types.ActionResult {
	res := choice.ResolveLessonChoice(e.State, e.Catalog, lessonID, choiceID)
	if res.OK {
		e.saver.Schedule()
	}
	return res
}

// UnlockedEndings lists the endings reached so far, in catalog order.
func (e *Engine) UnlockedEndings() []types.Ending {
	return endings.Unlocked(e.State, e.Catalog)
}

// scoreRound rounds half up. Payouts and skill gains never go negative, so
// half-up and half-away-from-zero agree here.
func scoreRound(x float64) int {
	return int(math.Floor(x + 0.5))
}
