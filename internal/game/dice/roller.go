package dice

import "errors"

// LowestPercent is the roll multiplier of the first entry of a roll vector.
const LowestPercent = 85

// ErrNoRolls is returned when sampling from an empty roll vector.
var ErrNoRolls = errors.New("dice: no rolls to sample")

// Sample picks one entry of rolls uniformly using src. rolls[i] is the damage
// of the (85+i)% roll.
//
// Precondition: src must be non-nil.
// Postcondition: result.Damage == rolls[result.Percent-85], or ErrNoRolls if rolls is empty.
func Sample(rolls []int, src Source) (RollResult, error) {
	if len(rolls) == 0 {
		return RollResult{}, ErrNoRolls
	}
	i := src.Intn(len(rolls))
	return RollResult{Percent: LowestPercent + i, Damage: rolls[i]}, nil
}
