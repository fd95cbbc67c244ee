package stats

import (
	"sort"
	"strings"
)

// Nature names a ±10% pair of stat adjustments. Neutral natures raise and
// lower the same stat, which cancels out.
type Nature struct {
	Name    string
	Raises  Key
	Lowers  Key
	neutral bool
}

// Multiplier returns the nature's multiplier for k.
//
// Postcondition: Returns 1.0 for HP and for every stat of a neutral nature.
func (n Nature) Multiplier(k Key) float64 {
	switch {
	case k == HP || n.neutral:
		return 1.0
	case k == n.Raises:
		return 1.1
	case k == n.Lowers:
		return 0.9
	default:
		return 1.0
	}
}

// Apply returns spread with every non-HP nature multiplier set from n.
func (n Nature) Apply(spread Spread) Spread {
	for _, k := range Keys {
		spread[k].Nature = n.Multiplier(k)
	}
	return spread
}

func nature(name string, up, down Key) Nature {
	return Nature{Name: name, Raises: up, Lowers: down, neutral: up == down}
}

var natures = map[string]Nature{
	"hardy":   nature("hardy", Attack, Attack),
	"docile":  nature("docile", Defense, Defense),
	"serious": nature("serious", Speed, Speed),
	"bashful": nature("bashful", SpecialAttack, SpecialAttack),
	"quirky":  nature("quirky", SpecialDefense, SpecialDefense),

	"lonely":  nature("lonely", Attack, Defense),
	"brave":   nature("brave", Attack, Speed),
	"adamant": nature("adamant", Attack, SpecialAttack),
	"naughty": nature("naughty", Attack, SpecialDefense),

	"bold":    nature("bold", Defense, Attack),
	"relaxed": nature("relaxed", Defense, Speed),
	"impish":  nature("impish", Defense, SpecialAttack),
	"lax":     nature("lax", Defense, SpecialDefense),

	"timid": nature("timid", Speed, Attack),
	"hasty": nature("hasty", Speed, Defense),
	"jolly": nature("jolly", Speed, SpecialAttack),
	"naive": nature("naive", Speed, SpecialDefense),

	"modest": nature("modest", SpecialAttack, Attack),
	"mild":   nature("mild", SpecialAttack, Defense),
	"quiet":  nature("quiet", SpecialAttack, Speed),
	"rash":   nature("rash", SpecialAttack, SpecialDefense),

	"calm":    nature("calm", SpecialDefense, Attack),
	"gentle":  nature("gentle", SpecialDefense, Defense),
	"sassy":   nature("sassy", SpecialDefense, Speed),
	"careful": nature("careful", SpecialDefense, SpecialAttack),
}

// LookupNature resolves a nature by case-insensitive name.
func LookupNature(name string) (Nature, bool) {
	n, ok := natures[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// Natures returns every known nature sorted by name.
func Natures() []Nature {
	out := make([]Nature, 0, len(natures))
	for _, n := range natures {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
