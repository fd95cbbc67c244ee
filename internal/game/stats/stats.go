// Package stats derives final battle stats from base stats and a per-stat
// training configuration.
package stats

import "math"

// Key identifies one of the six battle stats.
type Key int

const (
	HP Key = iota
	Attack
	Defense
	SpecialAttack
	SpecialDefense
	Speed
)

// Keys lists every stat in canonical order.
var Keys = [...]Key{HP, Attack, Defense, SpecialAttack, SpecialDefense, Speed}

var keyNames = [...]string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// String returns the stat's canonical identifier, e.g. "special-attack".
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey resolves a canonical stat identifier.
//
// Postcondition: ok is true iff name is one of the six identifiers returned by Key.String.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return 0, false
}

const (
	// MaxIV is the largest individual value.
	MaxIV = 31
	// MaxEV is the largest effort value a single stat may hold.
	MaxEV = 252
)

// Base holds a species' base stats indexed by Key.
type Base [6]int

// Config is the training applied to one stat.
type Config struct {
	IV     int     `json:"iv" yaml:"iv"`
	EV     int     `json:"ev" yaml:"ev"`
	Nature float64 `json:"nature" yaml:"nature"`
}

// Spread is the Config for all six stats, indexed by Key.
type Spread [6]Config

// Block is a fully derived set of battle stats, indexed by Key.
type Block [6]int

// Get returns the derived value for k.
func (b Block) Get(k Key) int { return b[k] }

// ClampIV limits iv to [0, MaxIV].
func ClampIV(iv int) int { return clamp(iv, 0, MaxIV) }

// ClampEV limits ev to [0, MaxEV]. The six-stat EV total is not enforced.
func ClampEV(ev int) int { return clamp(ev, 0, MaxEV) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Derive computes a final battle stat.
//
// A base of 1 on HP always yields 1. A base of 0 means the stat is unknown and yields 0.
// HP:     floor((2*base + iv + floor(ev/4)) * level / 100) + level + 10
// Others: floor((floor((2*base + iv + floor(ev/4)) * level / 100) + 5) * nature)
// HP ignores nature.
//
// Precondition: level > 0.
// Postcondition: Returns >= 0; identical inputs yield identical output.
func Derive(base, iv, ev, level int, nature float64, isHP bool) int {
	if base == 1 && isHP {
		return 1
	}
	if base == 0 {
		return 0
	}
	iv = ClampIV(iv)
	ev = ClampEV(ev)
	core := (2*base + iv + ev/4) * level / 100
	if isHP {
		return core + level + 10
	}
	return int(math.Floor(float64(core+5) * nature))
}

// DeriveAll derives all six stats from base using spread at level.
//
// Postcondition: result[HP] is computed with nature 1.0 regardless of spread[HP].Nature.
func DeriveAll(base Base, spread Spread, level int) Block {
	var out Block
	for _, k := range Keys {
		c := spread[k]
		out[k] = Derive(base[k], c.IV, c.EV, level, natureOrNeutral(c.Nature), k == HP)
	}
	return out
}

// natureOrNeutral treats an unset multiplier as neutral.
func natureOrNeutral(n float64) float64 {
	if n == 0 {
		return 1.0
	}
	return n
}

// NeutralSpread returns a spread of zero IVs, zero EVs, and neutral natures.
func NeutralSpread() Spread {
	var s Spread
	for i := range s {
		s[i].Nature = 1.0
	}
	return s
}

// MaxBulk returns the fixed spread used for opponents the user cannot configure:
// IV 31 and EV 252 everywhere, 1.1 on defense and special-defense, 1.0 elsewhere.
func MaxBulk() Spread {
	var s Spread
	for _, k := range Keys {
		s[k] = Config{IV: MaxIV, EV: MaxEV, Nature: 1.0}
	}
	s[Defense].Nature = 1.1
	s[SpecialDefense].Nature = 1.1
	return s
}
