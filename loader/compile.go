// Package loader loads Lua game content into Go structs at startup. The Lua
// VM is discarded after loading; nothing runs Lua at play time.
package loader

import (
	"fmt"
	"math"

	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a string-keyed definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawChapter holds a chapter table before compilation.
type rawChapter struct {
	id    int
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns an array field as a []string.
func getStringList(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	arr.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// forEachEntry calls fn for every integer-keyed table element.
func forEachEntry(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if t, ok := v.(*lua.LTable); ok {
			fn(t)
		}
	})
}

// compile converts all collected Lua data into a Catalog.
func compile(coll *collector) (*state.Catalog, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	catalog := state.NewCatalog()
	catalog.Game = compileGame(coll.game)

	for _, raw := range coll.chapters {
		catalog.Chapters[raw.id] = compileChapter(raw)
	}
	for _, raw := range coll.lessons {
		catalog.AddLesson(compileLesson(raw))
	}
	for _, raw := range coll.items {
		catalog.Items[raw.id] = compileItem(raw)
	}
	for _, raw := range coll.vehicles {
		catalog.Vehicles[raw.id] = compileVehicle(raw)
	}
	for _, raw := range coll.pets {
		catalog.Pets[raw.id] = compilePet(raw)
	}
	for _, raw := range coll.housing {
		catalog.Housing[raw.id] = compileHousing(raw)
	}
	for _, raw := range coll.partners {
		catalog.Partners[raw.id] = compilePartner(raw)
	}
	for _, raw := range coll.endings {
		catalog.Endings = append(catalog.Endings, compileEnding(raw))
	}
	for _, raw := range coll.choices {
		catalog.Choices[raw.id] = compileChoiceNode(raw)
	}

	return catalog, nil
}

func compileGame(tbl *lua.LTable) state.Game {
	return state.Game{
		Title:           getString(tbl, "title"),
		Author:          getString(tbl, "author"),
		Version:         getString(tbl, "version"),
		StartMoney:      getInt(tbl, "start_money"),
		StartHappiness:  getInt(tbl, "start_happiness"),
		StartEnergy:     getInt(tbl, "start_energy"),
		StarterItems:    getStringList(tbl, "starter_items"),
		StarterVehicles: getStringList(tbl, "starter_vehicles"),
		StartHousingID:  getString(tbl, "start_housing"),
		StartChoiceNode: getString(tbl, "start_choice"),
	}
}

func compileChapter(raw rawChapter) types.Chapter {
	tbl := raw.table
	return types.Chapter{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Summary:       getString(tbl, "summary"),
		Beats:         getStringList(tbl, "beats"),
		EntryLessonID: getString(tbl, "entry_lesson"),
		EndingFlags:   getStringList(tbl, "ending_flags"),
	}
}

func compileLesson(raw rawDef) types.Lesson {
	tbl := raw.table
	lesson := types.Lesson{
		ID:           raw.id,
		ChapterID:    getInt(tbl, "chapter"),
		Kind:         types.LessonKind(getString(tbl, "kind")),
		Title:        getString(tbl, "title"),
		Description:  getString(tbl, "description"),
		Snippet:      getString(tbl, "snippet"),
		GoalAccuracy: getInt(tbl, "goal_accuracy"),
		GoalWPM:      getInt(tbl, "goal_wpm"),
		Payout:       getInt(tbl, "payout"),
		Flavor:       getString(tbl, "flavor"),
		Tags:         getStringList(tbl, "tags"),
		Difficulty:   getString(tbl, "difficulty"),
		Requirements: compileRequirements(getTable(tbl, "requirements")),
		Rewards:      compileRewards(getTable(tbl, "rewards")),
	}
	if lesson.Kind == "" {
		lesson.Kind = types.LessonDrill
	}

	forEachEntry(getTable(tbl, "hints"), func(h *lua.LTable) {
		lesson.Hints = append(lesson.Hints, types.Hint{
			ID:   getString(h, "id"),
			Text: getString(h, "text"),
		})
	})

	forEachEntry(getTable(tbl, "choices"), func(c *lua.LTable) {
		lesson.Choices = append(lesson.Choices, compileLessonChoice(c))
	})
	if lesson.Choices == nil {
		lesson.Choices = defaultChoices(lesson)
	}

	return lesson
}

func compileLessonChoice(tbl *lua.LTable) types.LessonChoice {
	choice := types.LessonChoice{
		ID:          getString(tbl, "id"),
		Label:       getString(tbl, "label"),
		Description: getString(tbl, "description"),
		StoryFlag:   getString(tbl, "story_flag"),
	}
	if eff := getTable(tbl, "effects"); eff != nil {
		choice.Effects = types.LessonChoiceEffects{
			Money:              getInt(eff, "money"),
			Happiness:          getInt(eff, "happiness"),
			Energy:             getInt(eff, "energy"),
			Skill:              getInt(eff, "skill"),
			DifficultyModifier: getInt(eff, "difficulty"),
		}
	}
	return choice
}

// defaultChoices synthesizes the push/steady pair for lessons with no
// authored branches, so every lesson offers a decision.
func defaultChoices(lesson types.Lesson) []types.LessonChoice {
	bonusPay := int(math.Floor(float64(lesson.Payout)*0.05 + 0.5))
	if bonusPay < 2 {
		bonusPay = 2
	}
	return []types.LessonChoice{
		{
			ID:          lesson.ID + "-push",
			Label:       "Speed-run the snippet",
			Description: "Chase a tiny bonus by typing like rent is due in five minutes.",
			Effects:     types.LessonChoiceEffects{Money: bonusPay, Happiness: -1},
			StoryFlag:   lesson.ID + "-push",
		},
		{
			ID:          lesson.ID + "-steady",
			Label:       "Keep it cozy",
			Description: "Take it slow, protect your wrists, and actually breathe.",
			Effects:     types.LessonChoiceEffects{Happiness: 2, Energy: 3},
			StoryFlag:   lesson.ID + "-steady",
		},
	}
}

func compileItem(raw rawDef) types.Item {
	tbl := raw.table
	item := types.Item{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Type:         getString(tbl, "type"),
		Cost:         getInt(tbl, "cost"),
		Requirements: compileRequirements(getTable(tbl, "requirements")),
	}
	if eff := getTable(tbl, "effects"); eff != nil {
		item.Effects = types.ItemEffects{
			AccuracyBonus:    getInt(eff, "accuracy"),
			WPMBonus:         getInt(eff, "wpm"),
			PayoutMultiplier: getNumber(eff, "payout_mult"),
		}
	}
	return item
}

func compileVehicle(raw rawDef) types.Vehicle {
	tbl := raw.table
	return types.Vehicle{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Tier:         getInt(tbl, "tier"),
		Cost:         getInt(tbl, "cost"),
		Upkeep:       getInt(tbl, "upkeep"),
		Requirements: compileRequirements(getTable(tbl, "requirements")),
		JobTags:      getStringList(tbl, "job_tags"),
	}
}

func compilePet(raw rawDef) types.Pet {
	tbl := raw.table
	pet := types.Pet{
		ID:     raw.id,
		Name:   getString(tbl, "name"),
		Cost:   getInt(tbl, "cost"),
		Upkeep: getInt(tbl, "upkeep"),
	}
	if eff := getTable(tbl, "effects"); eff != nil {
		pet.Effects = types.PetEffects{
			AccuracyBonus:   getInt(eff, "accuracy"),
			WPMBonus:        getInt(eff, "wpm"),
			MotivationBonus: getInt(eff, "motivation"),
		}
	}
	return pet
}

func compileHousing(raw rawDef) types.Housing {
	tbl := raw.table
	h := types.Housing{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Tier:       getInt(tbl, "tier"),
		Cost:       getInt(tbl, "cost"),
		Upkeep:     getInt(tbl, "upkeep"),
		EndingFlag: getString(tbl, "ending_flag"),
	}
	if eff := getTable(tbl, "effects"); eff != nil {
		h.Effects = types.HousingEffects{
			HappinessBonus: getInt(eff, "happiness"),
			EnergyRegen:    getInt(eff, "energy_regen"),
		}
	}
	return h
}

func compilePartner(raw rawDef) types.RelationshipPartner {
	tbl := raw.table
	partner := types.RelationshipPartner{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Occupation: getString(tbl, "occupation"),
	}
	forEachEntry(getTable(tbl, "milestones"), func(m *lua.LTable) {
		milestone := types.RelationshipMilestone{
			Level:    getInt(m, "level"),
			Label:    getString(m, "label"),
			LessonID: getString(m, "lesson"),
		}
		if req := getTable(m, "requirement"); req != nil {
			r := compileRequirement(req)
			milestone.Requirement = &r
		}
		if rew := getTable(m, "reward"); rew != nil {
			r := compileReward(rew)
			milestone.Reward = &r
		}
		partner.Milestones = append(partner.Milestones, milestone)
	})
	return partner
}

func compileEnding(raw rawDef) types.Ending {
	tbl := raw.table
	return types.Ending{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Conditions:  compileRequirements(getTable(tbl, "conditions")),
	}
}

func compileChoiceNode(raw rawDef) types.ChoiceNode {
	tbl := raw.table
	node := types.ChoiceNode{
		ID:        raw.id,
		ChapterID: getInt(tbl, "chapter"),
		Title:     getString(tbl, "title"),
		Narrative: getString(tbl, "narrative"),
	}
	forEachEntry(getTable(tbl, "options"), func(o *lua.LTable) {
		node.Options = append(node.Options, types.ChoiceOption{
			ID:               getString(o, "id"),
			Label:            getString(o, "label"),
			OutcomeText:      getString(o, "outcome"),
			Requirements:     compileRequirements(getTable(o, "requirements")),
			Rewards:          compileRewards(getTable(o, "rewards")),
			NextNodeID:       getString(o, "next"),
			TriggersLessonID: getString(o, "triggers_lesson"),
			EndingFlag:       getString(o, "ending_flag"),
		})
	})
	return node
}

func compileRequirements(tbl *lua.LTable) []types.Requirement {
	var reqs []types.Requirement
	forEachEntry(tbl, func(t *lua.LTable) {
		reqs = append(reqs, compileRequirement(t))
	})
	return reqs
}

func compileRequirement(tbl *lua.LTable) types.Requirement {
	return types.Requirement{
		Kind:      types.RequirementKind(getString(tbl, "kind")),
		ItemID:    getString(tbl, "item"),
		VehicleID: getString(tbl, "vehicle"),
		PetID:     getString(tbl, "pet"),
		PartnerID: getString(tbl, "partner"),
		Stat:      types.Stat(getString(tbl, "stat")),
		Min:       getInt(tbl, "min"),
		ChapterID: getInt(tbl, "chapter"),
		Flag:      getString(tbl, "flag"),
		Amount:    getInt(tbl, "amount"),
	}
}

func compileRewards(tbl *lua.LTable) []types.Reward {
	var rewards []types.Reward
	forEachEntry(tbl, func(t *lua.LTable) {
		rewards = append(rewards, compileReward(t))
	})
	return rewards
}

func compileReward(tbl *lua.LTable) types.Reward {
	return types.Reward{
		Kind:      types.RewardKind(getString(tbl, "kind")),
		Amount:    getInt(tbl, "amount"),
		ItemID:    getString(tbl, "item"),
		VehicleID: getString(tbl, "vehicle"),
		PetID:     getString(tbl, "pet"),
		PartnerID: getString(tbl, "partner"),
		Stat:      types.Stat(getString(tbl, "stat")),
		Delta:     getInt(tbl, "delta"),
		Flag:      getString(tbl, "flag"),
	}
}
