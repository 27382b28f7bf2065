// Package state holds the immutable catalog container and the construction
// and bounds rules for the mutable player state.
package state

import (
	"sort"

	"github.com/nathoo/typequest/types"
)

// Game holds catalog-wide metadata and starting conditions.
type Game struct {
	Title   string
	Author  string
	Version string

	StartMoney      int
	StartHappiness  int
	StartEnergy     int
	StarterItems    []string
	StarterVehicles []string
	StartHousingID  string
	StartChoiceNode string
}

// Catalog is the immutable content set supplied to the engine at startup.
// It is read-only for the process lifetime and safe to share.
type Catalog struct {
	Game     Game
	Chapters map[int]types.Chapter
	Lessons  map[string]types.Lesson
	Items    map[string]types.Item
	Vehicles map[string]types.Vehicle
	Pets     map[string]types.Pet
	Housing  map[string]types.Housing
	Partners map[string]types.RelationshipPartner
	Endings  []types.Ending
	Choices  map[string]types.ChoiceNode

	// lessonOrder preserves authoring order for deterministic listings and
	// for resolving the default entry lesson.
	lessonOrder []string
}

// NewCatalog builds an empty catalog with all maps allocated.
func NewCatalog() *Catalog {
	return &Catalog{
		Chapters: map[int]types.Chapter{},
		Lessons:  map[string]types.Lesson{},
		Items:    map[string]types.Item{},
		Vehicles: map[string]types.Vehicle{},
		Pets:     map[string]types.Pet{},
		Housing:  map[string]types.Housing{},
		Partners: map[string]types.RelationshipPartner{},
		Choices:  map[string]types.ChoiceNode{},
	}
}

// AddLesson inserts a lesson preserving authoring order.
func (c *Catalog) AddLesson(l types.Lesson) {
	if _, ok := c.Lessons[l.ID]; !ok {
		c.lessonOrder = append(c.lessonOrder, l.ID)
	}
	c.Lessons[l.ID] = l
}

// LessonIDs returns lesson ids in authoring order.
func (c *Catalog) LessonIDs() []string {
	out := make([]string, len(c.lessonOrder))
	copy(out, c.lessonOrder)
	return out
}

// LessonsForChapter returns the chapter's lessons in authoring order.
func (c *Catalog) LessonsForChapter(chapterID int) []types.Lesson {
	var out []types.Lesson
	for _, id := range c.lessonOrder {
		if l := c.Lessons[id]; l.ChapterID == chapterID {
			out = append(out, l)
		}
	}
	return out
}

// NonJobLessons returns the chapter's lessons whose kind is not "job".
// Job gigs are excluded from both the unlock ratio and the progress bar.
func (c *Catalog) NonJobLessons(chapterID int) []types.Lesson {
	var out []types.Lesson
	for _, l := range c.LessonsForChapter(chapterID) {
		if l.Kind != types.LessonJob {
			out = append(out, l)
		}
	}
	return out
}

// HasChapter reports whether a chapter id exists.
func (c *Catalog) HasChapter(id int) bool {
	_, ok := c.Chapters[id]
	return ok
}

// ChapterIDs returns chapter ids in ascending order.
func (c *Catalog) ChapterIDs() []int {
	out := make([]int, 0, len(c.Chapters))
	for id := range c.Chapters {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// EntryLessonID resolves the lesson a fresh game starts on: chapter 0's
// entry lesson when defined, else the first authored lesson.
func (c *Catalog) EntryLessonID() string {
	if ch, ok := c.Chapters[0]; ok && ch.EntryLessonID != "" {
		return ch.EntryLessonID
	}
	if len(c.lessonOrder) > 0 {
		return c.lessonOrder[0]
	}
	return ""
}

// Stat bounds. Happiness and energy are percentages; the difficulty
// modifier shifts lesson goals and is kept in a narrow band so content
// stays beatable.
const (
	StatMin          = 0
	StatMax          = 100
	DifficultyModMin = -15
	DifficultyModMax = 25
)

// ClampStat clamps v into [min, max].
func ClampStat(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// FloorZero clamps v to be non-negative.
func FloorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// NewState creates a fresh player state from catalog defaults.
func NewState(c *Catalog) *types.PlayerState {
	s := &types.PlayerState{
		Money:            c.Game.StartMoney,
		Happiness:        c.Game.StartHappiness,
		Energy:           c.Game.StartEnergy,
		CurrentChapterID: 0,
		UnlockedChapters: map[int]bool{0: true},
		CurrentLessonID:  c.EntryLessonID(),
		CompletedLessons: map[string]types.CompletedLesson{},
		OwnedItems:       map[string]bool{},
		OwnedVehicles:    map[string]bool{},
		OwnedPets:        map[string]bool{},
		HousingID:        c.Game.StartHousingID,
		Relationships:    map[string]types.Relationship{},
		Flags:            map[string]bool{},
		ChosenFlags:      []string{},
		LessonChoices:    map[string]string{},
	}
	for _, id := range c.Game.StarterItems {
		s.OwnedItems[id] = true
	}
	for _, id := range c.Game.StarterVehicles {
		s.OwnedVehicles[id] = true
	}
	for id := range c.Partners {
		s.Relationships[id] = types.Relationship{}
	}
	s.ActiveChoiceNodeID = c.Game.StartChoiceNode
	return s
}

// ComputeBonuses derives the transient accuracy/WPM/payout modifiers from
// owned items and pets. Ownership alone confers the bonus; there is no
// requirement gating here.
func ComputeBonuses(s *types.PlayerState, c *Catalog) types.Bonuses {
	b := types.Bonuses{PayoutMultiplier: 1}
	for id := range s.OwnedItems {
		item, ok := c.Items[id]
		if !ok {
			continue
		}
		b.AccuracyBonus += item.Effects.AccuracyBonus
		b.WPMBonus += item.Effects.WPMBonus
		if item.Effects.PayoutMultiplier != 0 {
			b.PayoutMultiplier *= item.Effects.PayoutMultiplier
		}
	}
	for id := range s.OwnedPets {
		pet, ok := c.Pets[id]
		if !ok {
			continue
		}
		b.AccuracyBonus += pet.Effects.AccuracyBonus
		b.WPMBonus += pet.Effects.WPMBonus
	}
	return b
}
