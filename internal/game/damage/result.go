package damage

import (
	"fmt"
	"math"
)

// RollCount is the number of distinct damage rolls, 85% through 100%.
const RollCount = 16

// Result is the outcome of one damage calculation.
//
// When Status is true the move deals no damage and every numeric field is zero.
// MinHits and MaxHits are 0 when undefined.
type Result struct {
	Status bool `json:"status"`

	// Power is the resolved base power.
	Power int `json:"power"`
	// Attack and Defense are the post-modifier stats fed to the base formula.
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	// DefenderHP is the defender's derived HP.
	DefenderHP int `json:"defender_hp"`

	MinDamage  int     `json:"min_damage"`
	MaxDamage  int     `json:"max_damage"`
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	MinHits    int     `json:"min_hits"`
	MaxHits    int     `json:"max_hits"`

	// Rolls holds floor(damage * r / 100) for r = 85..100.
	Rolls []int `json:"rolls,omitempty"`
	// AppliedModifiers names each modifier that changed the result, in pipeline order.
	AppliedModifiers []string `json:"applied_modifiers"`
}

// PercentRange formats the percentage of defender HP, e.g. "35.4% - 41.7%".
//
// Postcondition: Returns "0%" for a status result.
func (r Result) PercentRange() string {
	if r.Status {
		return "0%"
	}
	return fmt.Sprintf("%.1f%% - %.1f%%", r.MinPercent, r.MaxPercent)
}

// HitsToKO formats the hit count range, e.g. "3HKO" or "2-3HKO".
//
// Postcondition: Returns "-" when either bound is undefined.
func (r Result) HitsToKO() string {
	if r.Status || r.MinHits == 0 || r.MaxHits == 0 {
		return "-"
	}
	if r.MinHits == r.MaxHits {
		return fmt.Sprintf("%dHKO", r.MinHits)
	}
	return fmt.Sprintf("%d-%dHKO", r.MinHits, r.MaxHits)
}

// percentOf returns dmg as a percentage of hp, rounded to one decimal place.
func percentOf(dmg, hp int) float64 {
	if hp <= 0 {
		return 0
	}
	return math.Round(float64(dmg)/float64(hp)*100*10) / 10
}

// hitsFor returns ceil(hp / dmg), or 0 when dmg is not positive.
func hitsFor(hp, dmg int) int {
	if dmg <= 0 || hp <= 0 {
		return 0
	}
	return (hp + dmg - 1) / dmg
}

// rollsFor returns the RollCount roll values for damage.
func rollsFor(damage int) []int {
	out := make([]int, RollCount)
	for i := range out {
		out[i] = damage * (85 + i) / 100
	}
	return out
}
