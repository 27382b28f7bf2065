// Package rules implements the requirement evaluator: a pure predicate over
// the player state, used identically for lesson gating, purchase gating,
// choice-option gating, and ending conditions.
package rules

import "github.com/nathoo/typequest/types"

// Eval evaluates a single requirement against the current state.
// Unknown kinds are satisfied, so an engine built against an older
// vocabulary keeps working when the catalog grows.
func Eval(r types.Requirement, s *types.PlayerState) bool {
	switch r.Kind {
	case types.ReqItemOwned:
		return s.OwnedItems[r.ItemID]

	case types.ReqVehicleOwned:
		return s.OwnedVehicles[r.VehicleID]

	case types.ReqPetOwned:
		return s.OwnedPets[r.PetID]

	case types.ReqRelationshipLevel:
		return s.Relationships[r.PartnerID].Level >= r.Min

	case types.ReqStatAtLeast:
		switch r.Stat {
		case types.StatHappiness:
			return s.Happiness >= r.Min
		case types.StatEnergy:
			return s.Energy >= r.Min
		case types.StatSkill:
			return s.Skill >= r.Min
		default:
			return true
		}

	case types.ReqChapterUnlocked:
		return s.UnlockedChapters[r.ChapterID]

	case types.ReqFlagSet:
		return s.Flags[r.Flag]

	case types.ReqMoneyAtLeast:
		return s.Money >= r.Amount

	default:
		return true
	}
}

// Satisfies returns true if all requirements pass (AND logic).
// An empty or nil list is vacuously satisfied.
func Satisfies(s *types.PlayerState, reqs []types.Requirement) bool {
	for _, r := range reqs {
		if !Eval(r, s) {
			return false
		}
	}
	return true
}
