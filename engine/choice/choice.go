// Package choice implements the narrative choice machine: traversal of the
// global choice graph and the write-once binary branch attached to lessons.
package choice

import (
	"github.com/nathoo/typequest/engine/effects"
	"github.com/nathoo/typequest/engine/endings"
	"github.com/nathoo/typequest/engine/rules"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// Outcome is the result of resolving a choice-graph option. When the option
// triggers a lesson, TriggeredLessonID carries it so the caller can attempt
// the selection under normal lesson gating.
type Outcome struct {
	types.ActionResult
	TriggeredLessonID string
}

// ResolveOption applies the given option of a choice node: rewards, an
// optional ending flag, ending re-evaluation, and graph advancement.
// nodeID may be empty, meaning the state's active node. On any gating
// failure the state is left untouched.
func ResolveOption(s *types.PlayerState, c *state.Catalog, nodeID, optionID string) Outcome {
	if nodeID == "" {
		nodeID = s.ActiveChoiceNodeID
	}
	node, ok := c.Choices[nodeID]
	if !ok {
		return Outcome{ActionResult: types.Denied("No active choice")}
	}

	var opt *types.ChoiceOption
	for i := range node.Options {
		if node.Options[i].ID == optionID {
			opt = &node.Options[i]
			break
		}
	}
	if opt == nil {
		return Outcome{ActionResult: types.Denied("Option not found")}
	}
	if !rules.Satisfies(s, opt.Requirements) {
		return Outcome{ActionResult: types.Denied("Requirements not met")}
	}

	effects.Apply(s, opt.Rewards)
	if opt.EndingFlag != "" {
		s.Flags[opt.EndingFlag] = true
	}
	endings.Evaluate(s, c)

	if opt.NextNodeID != "" {
		s.ActiveChoiceNodeID = opt.NextNodeID
	}
	return Outcome{ActionResult: types.Allowed(), TriggeredLessonID: opt.TriggersLessonID}
}

// ResolveLessonChoice applies one of a lesson's two branches. The choice is
// exactly-once: a second call for the same lesson fails and changes nothing.
func ResolveLessonChoice(s *types.PlayerState, c *state.Catalog, lessonID, choiceID string) types.ActionResult {
	lesson, ok := c.Lessons[lessonID]
	if !ok || len(lesson.Choices) != 2 {
		return types.Denied("No choices for this lesson")
	}
	if _, chosen := s.LessonChoices[lessonID]; chosen {
		return types.Denied("Choice already made")
	}

	var picked *types.LessonChoice
	for i := range lesson.Choices {
		if lesson.Choices[i].ID == choiceID {
			picked = &lesson.Choices[i]
			break
		}
	}
	if picked == nil {
		return types.Denied("Choice not found")
	}

	// Lesson-choice effects use the clamped stat vocabulary: happiness and
	// energy stay in [0,100], money and skill floor at 0, and the difficulty
	// modifier is bounded to keep goals reachable.
	fx := picked.Effects
	s.Money = state.FloorZero(s.Money + fx.Money)
	s.Happiness = state.ClampStat(s.Happiness+fx.Happiness, state.StatMin, state.StatMax)
	s.Energy = state.ClampStat(s.Energy+fx.Energy, state.StatMin, state.StatMax)
	s.Skill = state.FloorZero(s.Skill + fx.Skill)
	s.DifficultyModifier = state.ClampStat(
		s.DifficultyModifier+fx.DifficultyModifier,
		state.DifficultyModMin, state.DifficultyModMax,
	)

	s.LessonChoices[lessonID] = picked.ID
	if picked.StoryFlag != "" {
		s.ChosenFlags = append(s.ChosenFlags, picked.StoryFlag)
	}
	// If the lesson was already completed, remember which branch was taken
	// on the history record as well.
	if rec, ok := s.CompletedLessons[lessonID]; ok {
		rec.SelectedChoiceID = picked.ID
		s.CompletedLessons[lessonID] = rec
	}

	endings.Evaluate(s, c)
	return types.Allowed()
}
