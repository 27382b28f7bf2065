// Package save implements the versioned snapshot codec for player state and
// the hydration of raw snapshots over fresh defaults.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/typequest/engine/endings"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// Version is the current snapshot format version.
const Version = 1

// Snapshot is the serialized save format: one flat structured document
// holding the full player state.
type Snapshot struct {
	Version int               `json:"version"`
	Game    string            `json:"game"`
	SavedAt int64             `json:"saved_at"` // unix millis
	Player  types.PlayerState `json:"player"`
}

// Marshal serializes the player state into snapshot bytes.
func Marshal(s *types.PlayerState, c *state.Catalog, savedAt int64) ([]byte, error) {
	snap := Snapshot{
		Version: Version,
		Game:    c.Game.Title,
		SavedAt: savedAt,
		Player:  *s,
	}
	return json.Marshal(snap)
}

// Unmarshal decodes snapshot bytes. The player state inside is raw: callers
// must pass it through Hydrate before use.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Hydrate merges snapshot bytes over fresh catalog defaults and returns a
// state that honors every engine invariant. Unknown fields are dropped,
// missing fields keep their defaults, and stale catalog references are
// repaired to the default entry points. A nil or unparseable snapshot
// yields fresh defaults, never an error: a corrupt save is "no save".
func Hydrate(data []byte, c *state.Catalog) *types.PlayerState {
	s := state.NewState(c)
	if len(data) == 0 {
		return s
	}

	// Decoding over the prefilled default state merges maps key-by-key and
	// leaves absent scalar fields at their defaults.
	snap := Snapshot{Player: *s}
	if err := json.Unmarshal(data, &snap); err != nil {
		return state.NewState(c)
	}
	hydrated := snap.Player
	repair(&hydrated, c)
	endings.Evaluate(&hydrated, c)
	return &hydrated
}

// repair restores invariants on a freshly decoded state: nil containers,
// stat bounds, and references to catalog ids that no longer exist.
func repair(s *types.PlayerState, c *state.Catalog) {
	if s.UnlockedChapters == nil {
		s.UnlockedChapters = map[int]bool{}
	}
	s.UnlockedChapters[0] = true
	if s.CompletedLessons == nil {
		s.CompletedLessons = map[string]types.CompletedLesson{}
	}
	if s.OwnedItems == nil {
		s.OwnedItems = map[string]bool{}
	}
	if s.OwnedVehicles == nil {
		s.OwnedVehicles = map[string]bool{}
	}
	if s.OwnedPets == nil {
		s.OwnedPets = map[string]bool{}
	}
	if s.Relationships == nil {
		s.Relationships = map[string]types.Relationship{}
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.ChosenFlags == nil {
		s.ChosenFlags = []string{}
	}
	if s.LessonChoices == nil {
		s.LessonChoices = map[string]string{}
	}

	s.Money = state.FloorZero(s.Money)
	s.Skill = state.FloorZero(s.Skill)
	s.Happiness = state.ClampStat(s.Happiness, state.StatMin, state.StatMax)
	s.Energy = state.ClampStat(s.Energy, state.StatMin, state.StatMax)
	s.DifficultyModifier = state.ClampStat(s.DifficultyModifier, state.DifficultyModMin, state.DifficultyModMax)

	// Content may have been removed since the save was written.
	if _, ok := c.Lessons[s.CurrentLessonID]; !ok {
		s.CurrentLessonID = c.EntryLessonID()
	}
	if !c.HasChapter(s.CurrentChapterID) {
		s.CurrentChapterID = 0
	}
	if s.ActiveChoiceNodeID != "" {
		if _, ok := c.Choices[s.ActiveChoiceNodeID]; !ok {
			s.ActiveChoiceNodeID = c.Game.StartChoiceNode
		}
	}
	if s.HousingID != "" {
		if _, ok := c.Housing[s.HousingID]; !ok {
			s.HousingID = c.Game.StartHousingID
		}
	}
}
