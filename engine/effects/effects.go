// Package effects implements centralized reward application. Every reward
// kind is one atomic field update; grants are idempotent set insertions.
package effects

import (
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// Apply folds a list of rewards into the player state, mutating it.
// Stat deltas are floored at zero but not ceiling-clamped here: ceilings
// differ per caller (lesson-choice effects clamp, reward lists do not), so
// upper bounds stay with the stat-specific transitions.
// An empty or nil list leaves the state untouched.
func Apply(s *types.PlayerState, rewards []types.Reward) {
	for _, r := range rewards {
		switch r.Kind {
		case types.RewMoneyDelta:
			s.Money += r.Amount

		case types.RewItemGrant:
			s.OwnedItems[r.ItemID] = true

		case types.RewVehicleGrant:
			s.OwnedVehicles[r.VehicleID] = true

		case types.RewPetGrant:
			s.OwnedPets[r.PetID] = true

		case types.RewRelationshipDelta:
			rel := s.Relationships[r.PartnerID]
			rel.Level = state.FloorZero(rel.Level + r.Delta)
			s.Relationships[r.PartnerID] = rel

		case types.RewStatDelta:
			switch r.Stat {
			case types.StatHappiness:
				s.Happiness = state.FloorZero(s.Happiness + r.Delta)
			case types.StatEnergy:
				s.Energy = state.FloorZero(s.Energy + r.Delta)
			case types.StatSkill:
				s.Skill = state.FloorZero(s.Skill + r.Delta)
			}

		case types.RewFlagSet:
			s.Flags[r.Flag] = true

		default:
			// Unknown reward kind, ignore.
		}
	}
}
