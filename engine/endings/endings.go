// Package endings re-scans the catalog's endings against the player state
// and latches the flag of any ending whose conditions are all met.
package endings

import (
	"github.com/nathoo/typequest/engine/rules"
	"github.com/nathoo/typequest/engine/state"
	"github.com/nathoo/typequest/types"
)

// Evaluate latches the flag of every ending whose conditions hold.
// A flag, once true, stays true; already-latched endings are skipped, which
// makes repeated evaluation of an unchanged state a no-op. Must run after
// every state-mutating action because conditions may reference any field.
func Evaluate(s *types.PlayerState, c *state.Catalog) {
	for _, e := range c.Endings {
		if s.Flags[e.ID] {
			continue
		}
		if rules.Satisfies(s, e.Conditions) {
			s.Flags[e.ID] = true
		}
	}
}

// Unlocked returns the endings whose flags are latched, in catalog order.
func Unlocked(s *types.PlayerState, c *state.Catalog) []types.Ending {
	var out []types.Ending
	for _, e := range c.Endings {
		if s.Flags[e.ID] {
			out = append(out, e)
		}
	}
	return out
}
