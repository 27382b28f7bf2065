package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known requirement kinds.
var validRequirementKinds = map[types.RequirementKind]bool{
	types.ReqItemOwned:         true,
	types.ReqVehicleOwned:      true,
	types.ReqPetOwned:          true,
	types.ReqRelationshipLevel: true,
	types.ReqStatAtLeast:       true,
	types.ReqChapterUnlocked:   true,
	types.ReqFlagSet:           true,
	types.ReqMoneyAtLeast:      true,
}

// Known reward kinds.
var validRewardKinds = map[types.RewardKind]bool{
	types.RewMoneyDelta:        true,
	types.RewItemGrant:         true,
	types.RewVehicleGrant:      true,
	types.RewPetGrant:          true,
	types.RewRelationshipDelta: true,
	types.RewStatDelta:         true,
	types.RewFlagSet:           true,
}

var validStats = map[types.Stat]bool{
	types.StatHappiness: true,
	types.StatEnergy:    true,
	types.StatSkill:     true,
}

var validLessonKinds = map[types.LessonKind]bool{
	types.LessonNarrative: true,
	types.LessonDrill:     true,
	types.LessonJob:       true,
}

// validate checks the compiled catalog for referential integrity and
// consistency.
func validate(c *state.Catalog) error {
	ve := &ValidationError{}

	if c.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	validateChapters(c, ve)
	validateLessons(c, ve)
	validateShop(c, ve)
	validatePartners(c, ve)
	validateEndings(c, ve)
	validateChoiceNodes(c, ve)
	validateStartState(c, ve)

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateChapters requires dense chapter ids from 0 and resolvable entry
// lessons.
func validateChapters(c *state.Catalog, ve *ValidationError) {
	if len(c.Chapters) == 0 {
		ve.Errors = append(ve.Errors, "at least one chapter is required")
		return
	}
	for i := 0; i < len(c.Chapters); i++ {
		if !c.HasChapter(i) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"chapter ids must be dense from 0: chapter %d is missing", i))
		}
	}
	for _, id := range c.ChapterIDs() {
		ch := c.Chapters[id]
		if ch.EntryLessonID == "" {
			continue
		}
		lesson, ok := c.Lessons[ch.EntryLessonID]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"chapter %d entry lesson %q is not defined", id, ch.EntryLessonID))
		} else if lesson.ChapterID != id {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"chapter %d entry lesson %q belongs to chapter %d", id, ch.EntryLessonID, lesson.ChapterID))
		}
	}
}

func validateLessons(c *state.Catalog, ve *ValidationError) {
	for _, id := range c.LessonIDs() {
		l := c.Lessons[id]
		where := fmt.Sprintf("lesson %q", id)
		if !c.HasChapter(l.ChapterID) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s references undefined chapter %d", where, l.ChapterID))
		}
		if !validLessonKinds[l.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has unknown kind %q", where, l.Kind))
		}
		if l.Snippet == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s has no snippet", where))
		}
		if l.GoalAccuracy < 1 || l.GoalAccuracy > 100 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s goal accuracy %d is outside 1..100", where, l.GoalAccuracy))
		}
		if l.GoalWPM < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s goal wpm %d must be at least 1", where, l.GoalWPM))
		}
		if l.Payout < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s payout %d is negative", where, l.Payout))
		}
		if n := len(l.Choices); n != 0 && n != 2 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has %d choices, want exactly two", where, n))
		}
		if len(l.Choices) == 2 && l.Choices[0].ID == l.Choices[1].ID {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s choice ids are not distinct", where))
		}
		validateRequirements(l.Requirements, where, c, ve)
		validateRewards(l.Rewards, where, c, ve)
	}
}

func validateShop(c *state.Catalog, ve *ValidationError) {
	for id, item := range c.Items {
		where := fmt.Sprintf("item %q", id)
		if item.Cost < 0 {
			ve.Errors = append(ve.Errors, where+" has negative cost")
		}
		validateRequirements(item.Requirements, where, c, ve)
	}
	for id, v := range c.Vehicles {
		where := fmt.Sprintf("vehicle %q", id)
		if v.Cost < 0 {
			ve.Errors = append(ve.Errors, where+" has negative cost")
		}
		validateRequirements(v.Requirements, where, c, ve)
	}
	for id, p := range c.Pets {
		if p.Cost < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("pet %q has negative cost", id))
		}
	}
	for id, h := range c.Housing {
		if h.Cost < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("housing %q has negative cost", id))
		}
	}
}

func validatePartners(c *state.Catalog, ve *ValidationError) {
	for id, p := range c.Partners {
		where := fmt.Sprintf("partner %q", id)
		prev := 0
		for _, m := range p.Milestones {
			if m.Level != prev+1 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s milestones must be consecutive levels from 1, got %d after %d", where, m.Level, prev))
			}
			prev = m.Level
			if m.LessonID != "" {
				if _, ok := c.Lessons[m.LessonID]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"%s milestone %d references undefined lesson %q", where, m.Level, m.LessonID))
				}
			}
			if m.Requirement != nil {
				validateRequirements([]types.Requirement{*m.Requirement}, where, c, ve)
			}
			if m.Reward != nil {
				validateRewards([]types.Reward{*m.Reward}, where, c, ve)
			}
		}
	}
}

func validateEndings(c *state.Catalog, ve *ValidationError) {
	seen := map[string]bool{}
	for _, e := range c.Endings {
		where := fmt.Sprintf("ending %q", e.ID)
		if seen[e.ID] {
			ve.Errors = append(ve.Errors, "duplicate "+where)
		}
		seen[e.ID] = true
		if len(e.Conditions) == 0 {
			ve.Warnings = append(ve.Warnings, where+" has no conditions and unlocks immediately")
		}
		validateRequirements(e.Conditions, where, c, ve)
	}
}

func validateChoiceNodes(c *state.Catalog, ve *ValidationError) {
	for id, node := range c.Choices {
		where := fmt.Sprintf("choice node %q", id)
		if len(node.Options) == 0 {
			ve.Warnings = append(ve.Warnings, where+" has no options")
		}
		seen := map[string]bool{}
		for _, opt := range node.Options {
			if opt.ID == "" {
				ve.Errors = append(ve.Errors, where+" has an option with no id")
				continue
			}
			if seen[opt.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s has duplicate option id %q", where, opt.ID))
			}
			seen[opt.ID] = true
			if opt.NextNodeID != "" {
				if _, ok := c.Choices[opt.NextNodeID]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"%s option %q advances to undefined node %q", where, opt.ID, opt.NextNodeID))
				}
			}
			if opt.TriggersLessonID != "" {
				if _, ok := c.Lessons[opt.TriggersLessonID]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"%s option %q triggers undefined lesson %q", where, opt.ID, opt.TriggersLessonID))
				}
			}
			validateRequirements(opt.Requirements, where, c, ve)
			validateRewards(opt.Rewards, where, c, ve)
		}
	}
}

// validateStartState checks the Game block's starting references.
func validateStartState(c *state.Catalog, ve *ValidationError) {
	for _, id := range c.Game.StarterItems {
		if _, ok := c.Items[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"starter item %q is not defined", id))
		}
	}
	for _, id := range c.Game.StarterVehicles {
		if _, ok := c.Vehicles[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"starter vehicle %q is not defined", id))
		}
	}
	if id := c.Game.StartHousingID; id != "" {
		if _, ok := c.Housing[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"start housing %q is not defined", id))
		}
	}
	if id := c.Game.StartChoiceNode; id != "" {
		if _, ok := c.Choices[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"start choice node %q is not defined", id))
		}
	}
	if c.EntryLessonID() == "" {
		ve.Errors = append(ve.Errors, "no lessons defined")
	}
}

func validateRequirements(reqs []types.Requirement, where string, c *state.Catalog, ve *ValidationError) {
	for _, r := range reqs {
		if !validRequirementKinds[r.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has unknown requirement kind %q", where, r.Kind))
			continue
		}
		switch r.Kind {
		case types.ReqItemOwned:
			if _, ok := c.Items[r.ItemID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires undefined item %q", where, r.ItemID))
			}
		case types.ReqVehicleOwned:
			if _, ok := c.Vehicles[r.VehicleID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires undefined vehicle %q", where, r.VehicleID))
			}
		case types.ReqPetOwned:
			if _, ok := c.Pets[r.PetID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires undefined pet %q", where, r.PetID))
			}
		case types.ReqRelationshipLevel:
			if _, ok := c.Partners[r.PartnerID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires undefined partner %q", where, r.PartnerID))
			}
		case types.ReqStatAtLeast:
			if !validStats[r.Stat] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires unknown stat %q", where, r.Stat))
			}
		case types.ReqChapterUnlocked:
			if !c.HasChapter(r.ChapterID) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s requires undefined chapter %d", where, r.ChapterID))
			}
		}
	}
}

func validateRewards(rewards []types.Reward, where string, c *state.Catalog, ve *ValidationError) {
	for _, r := range rewards {
		if !validRewardKinds[r.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has unknown reward kind %q", where, r.Kind))
			continue
		}
		switch r.Kind {
		case types.RewItemGrant:
			if _, ok := c.Items[r.ItemID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s grants undefined item %q", where, r.ItemID))
			}
		case types.RewVehicleGrant:
			if _, ok := c.Vehicles[r.VehicleID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s grants undefined vehicle %q", where, r.VehicleID))
			}
		case types.RewPetGrant:
			if _, ok := c.Pets[r.PetID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s grants undefined pet %q", where, r.PetID))
			}
		case types.RewRelationshipDelta:
			if _, ok := c.Partners[r.PartnerID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s rewards undefined partner %q", where, r.PartnerID))
			}
		case types.RewStatDelta:
			if !validStats[r.Stat] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s rewards unknown stat %q", where, r.Stat))
			}
		}
	}
}
