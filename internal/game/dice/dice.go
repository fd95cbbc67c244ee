// Package dice samples a single damage roll from a computed damage range.
package dice

import "fmt"

// RollResult is one sampled damage roll.
type RollResult struct {
	// Percent is the roll multiplier in percent, 85 through 100.
	Percent int `json:"percent"`
	// Damage is the damage dealt by this roll.
	Damage int `json:"damage"`
}

// String returns an audit string in the format "93% → 48".
func (r RollResult) String() string {
	return fmt.Sprintf("%d%% → %d", r.Percent, r.Damage)
}

// Source is the randomness provider for roll sampling.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
