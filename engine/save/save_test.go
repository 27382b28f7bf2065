package save

import (
	"encoding/json"
	"testing"

	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

func saveCatalog() *state.Catalog {
	c := state.NewCatalog()
	c.Game = state.Game{
		Title:           "Test Quest",
		StartMoney:      25,
		StartHappiness:  50,
		StartEnergy:     70,
		StarterItems:    []string{"starter-laptop"},
		StartHousingID:  "apt-small",
		StartChoiceNode: "opening",
	}
	c.Chapters[0] = types.Chapter{ID: 0, EntryLessonID: "intro"}
	c.Chapters[1] = types.Chapter{ID: 1}
	c.AddLesson(types.Lesson{ID: "intro", ChapterID: 0})
	c.AddLesson(types.Lesson{ID: "drill-a", ChapterID: 1})
	c.Items["starter-laptop"] = types.Item{ID: "starter-laptop"}
	c.Housing["apt-small"] = types.Housing{ID: "apt-small"}
	c.Housing["loft-mid"] = types.Housing{ID: "loft-mid"}
	c.Choices["opening"] = types.ChoiceNode{ID: "opening"}
	c.Endings = []types.Ending{
		{ID: "ending-rich", Conditions: []types.Requirement{{Kind: types.ReqMoneyAtLeast, Amount: 1000}}},
	}
	return c
}

func TestMarshalRoundTrip(t *testing.T) {
	c := saveCatalog()
	s := state.NewState(c)
	s.Money = 321
	s.Flags["took-first-gig"] = true
	s.CompletedLessons["intro"] = types.CompletedLesson{
		Passed:      true,
		Payout:      12,
		CompletedAt: 1700000000000,
		Result:      types.TypingResult{Accuracy: 97.5, WPM: 42, TotalChars: 80, CorrectChars: 78},
	}

	data, err := Marshal(s, c, 1700000001000)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	snap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if snap.Version != Version || snap.Game != "Test Quest" || snap.SavedAt != 1700000001000 {
		t.Errorf("envelope = %+v", snap)
	}
	if snap.Player.Money != 321 || !snap.Player.Flags["took-first-gig"] {
		t.Error("player payload lost fields")
	}
	if got := snap.Player.CompletedLessons["intro"]; got.Result.Accuracy != 97.5 {
		t.Errorf("completed record = %+v", got)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("want error for malformed snapshot")
	}
}

func TestHydrate(t *testing.T) {
	c := saveCatalog()

	t.Run("empty data yields fresh defaults", func(t *testing.T) {
		s := Hydrate(nil, c)
		if s.Money != 25 || s.CurrentLessonID != "intro" || !s.OwnedItems["starter-laptop"] {
			t.Errorf("not fresh defaults: %+v", s)
		}
	})

	t.Run("corrupt data yields fresh defaults", func(t *testing.T) {
		s := Hydrate([]byte("]]]"), c)
		if s.Money != 25 || s.CurrentLessonID != "intro" {
			t.Errorf("not fresh defaults: %+v", s)
		}
	})

	t.Run("saved fields override defaults, missing keep defaults", func(t *testing.T) {
		data := []byte(`{"version":1,"player":{"money":900,"housing_id":"loft-mid"}}`)
		s := Hydrate(data, c)
		if s.Money != 900 {
			t.Errorf("money = %d", s.Money)
		}
		if s.HousingID != "loft-mid" {
			t.Errorf("housing = %q", s.HousingID)
		}
		// Absent in the snapshot: keeps construction defaults.
		if s.Happiness != 50 || s.Energy != 70 {
			t.Errorf("stats = %d/%d, want defaults", s.Happiness, s.Energy)
		}
		if !s.OwnedItems["starter-laptop"] {
			t.Error("starter item default lost")
		}
	})

	t.Run("bounds are repaired", func(t *testing.T) {
		data := []byte(`{"player":{"money":-50,"happiness":400,"energy":-2,"skill":-1,"difficulty_modifier":99}}`)
		s := Hydrate(data, c)
		if s.Money != 0 || s.Skill != 0 {
			t.Errorf("floors: money=%d skill=%d", s.Money, s.Skill)
		}
		if s.Happiness != 100 || s.Energy != 0 {
			t.Errorf("clamps: happiness=%d energy=%d", s.Happiness, s.Energy)
		}
		if s.DifficultyModifier != state.DifficultyModMax {
			t.Errorf("diff = %d", s.DifficultyModifier)
		}
	})

	t.Run("stale catalog references are repaired", func(t *testing.T) {
		data := []byte(`{"player":{
			"current_lesson_id":"deleted-lesson",
			"current_chapter_id":9,
			"active_choice_node_id":"deleted-node",
			"housing_id":"deleted-housing"
		}}`)
		s := Hydrate(data, c)
		if s.CurrentLessonID != "intro" {
			t.Errorf("lesson = %q", s.CurrentLessonID)
		}
		if s.CurrentChapterID != 0 {
			t.Errorf("chapter = %d", s.CurrentChapterID)
		}
		if s.ActiveChoiceNodeID != "opening" {
			t.Errorf("choice node = %q", s.ActiveChoiceNodeID)
		}
		if s.HousingID != "apt-small" {
			t.Errorf("housing = %q", s.HousingID)
		}
	})

	t.Run("chapter zero is always unlocked", func(t *testing.T) {
		data := []byte(`{"player":{"unlocked_chapters":{"1":true}}}`)
		s := Hydrate(data, c)
		if !s.UnlockedChapters[0] || !s.UnlockedChapters[1] {
			t.Errorf("unlocked = %v", s.UnlockedChapters)
		}
	})

	t.Run("endings re-evaluate after hydration", func(t *testing.T) {
		data := []byte(`{"player":{"money":5000}}`)
		s := Hydrate(data, c)
		if !s.Flags["ending-rich"] {
			t.Error("ending should latch on hydrated state")
		}
	})

	t.Run("unknown fields are dropped", func(t *testing.T) {
		data := []byte(`{"player":{"money":40,"mystery_field":{"a":1}}}`)
		s := Hydrate(data, c)
		if s.Money != 40 {
			t.Errorf("money = %d", s.Money)
		}
	})
}

func TestHydrateFullRoundTrip(t *testing.T) {
	c := saveCatalog()
	orig := state.NewState(c)
	orig.Money = 777
	orig.Skill = 9
	orig.UnlockedChapters[1] = true
	orig.CurrentLessonID = "drill-a"
	orig.CurrentChapterID = 1
	orig.LessonChoices["intro"] = "grind"
	orig.ChosenFlags = append(orig.ChosenFlags, "night-grinder")
	orig.Relationships["riley"] = types.Relationship{Level: 2, Progress: 1}

	data, err := Marshal(orig, c, 42)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := Hydrate(data, c)

	var a, b map[string]any
	ja, _ := json.Marshal(orig)
	jb, _ := json.Marshal(got)
	json.Unmarshal(ja, &a)
	json.Unmarshal(jb, &b)
	for k, v := range a {
		bv, ok := b[k]
		if !ok {
			t.Errorf("field %q lost in round trip", k)
			continue
		}
		av, _ := json.Marshal(v)
		bvj, _ := json.Marshal(bv)
		if string(av) != string(bvj) {
			t.Errorf("field %q: %s != %s", k, av, bvj)
		}
	}
}
