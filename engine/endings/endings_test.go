package endings

import (
	"testing"

	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

func endingCatalog() *state.Catalog {
	c := state.NewCatalog()
	c.Endings = []types.Ending{
		{
			ID:    "ending-rich",
			Title: "Comfortably Off",
			Conditions: []types.Requirement{
				{Kind: types.ReqMoneyAtLeast, Amount: 1000},
			},
		},
		{
			ID:    "ending-grind",
			Title: "The Grind",
			Conditions: []types.Requirement{
				{Kind: types.ReqStatAtLeast, Stat: types.StatSkill, Min: 20},
				{Kind: types.ReqFlagSet, Flag: "took-first-gig"},
			},
		},
		{
			ID:    "ending-free",
			Title: "Free",
			// No conditions: latches on first evaluation.
		},
	}
	return c
}

func endingState() *types.PlayerState {
	return &types.PlayerState{
		Money: 0,
		Skill: 0,
		Flags: map[string]bool{},
	}
}

func TestEvaluateLatchesMetEndings(t *testing.T) {
	c := endingCatalog()
	s := endingState()
	s.Money = 1200

	Evaluate(s, c)

	if !s.Flags["ending-rich"] {
		t.Error("ending-rich should be latched")
	}
	if s.Flags["ending-grind"] {
		t.Error("ending-grind conditions are not met")
	}
	if !s.Flags["ending-free"] {
		t.Error("condition-free ending should latch immediately")
	}
}

func TestEvaluatePartialConjunctionFails(t *testing.T) {
	c := endingCatalog()
	s := endingState()
	s.Skill = 25 // flag still missing

	Evaluate(s, c)
	if s.Flags["ending-grind"] {
		t.Error("one unmet condition must block the ending")
	}

	s.Flags["took-first-gig"] = true
	Evaluate(s, c)
	if !s.Flags["ending-grind"] {
		t.Error("ending-grind should latch once all conditions hold")
	}
}

func TestEvaluateLatchIsSticky(t *testing.T) {
	c := endingCatalog()
	s := endingState()
	s.Money = 1200
	Evaluate(s, c)

	// Conditions regress; the flag stays.
	s.Money = 0
	Evaluate(s, c)
	if !s.Flags["ending-rich"] {
		t.Error("latched ending must survive condition regression")
	}
}

func TestUnlockedCatalogOrder(t *testing.T) {
	c := endingCatalog()
	s := endingState()
	s.Flags["ending-free"] = true
	s.Flags["ending-rich"] = true

	got := Unlocked(s, c)
	if len(got) != 2 {
		t.Fatalf("Unlocked len = %d, want 2", len(got))
	}
	if got[0].ID != "ending-rich" || got[1].ID != "ending-free" {
		t.Errorf("order = [%s %s], want catalog order", got[0].ID, got[1].ID)
	}

	if got := Unlocked(endingState(), c); len(got) != 0 {
		t.Errorf("no latched flags should yield no endings, got %v", got)
	}
}
