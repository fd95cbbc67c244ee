// Package battle defines the per-calculation input assembled by the UI layer:
// two combatants, their stat spreads, the move, and auxiliary scalars.
package battle

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

// Combatant is one creature as seen by the damage pipeline. Ability and item
// tags are resolved into capabilities once, by NewCombatant.
type Combatant struct {
	Name  string
	Base  stats.Base
	Types []string
	// Ability is the selected ability tag; empty means none.
	Ability string
	// Item is the held item tag; empty means none.
	Item string

	Attacker modifier.AttackerCapability
	Defender modifier.DefenderCapability
}

// NewCombatant builds a Combatant and resolves its ability into capabilities using catalog.
//
// Precondition: catalog must be non-nil.
// Postcondition: Type, ability, and item tags are lower-cased.
func NewCombatant(catalog *modifier.Catalog, name string, base stats.Base, types []string, ability, item string) Combatant {
	tags := make([]string, 0, len(types))
	for _, t := range types {
		if t = normalize(t); t != "" {
			tags = append(tags, t)
		}
	}
	ability = normalize(ability)
	return Combatant{
		Name:     normalize(name),
		Base:     base,
		Types:    tags,
		Ability:  ability,
		Item:     normalize(item),
		Attacker: catalog.AttackerCapability(ability),
		Defender: catalog.DefenderCapability(ability),
	}
}

// HasType reports whether typ is one of the combatant's types.
func (c Combatant) HasType(typ string) bool {
	return slices.Contains(c.Types, normalize(typ))
}

// Policy selects how the defender's stats are derived.
type Policy int

const (
	// PolicyConfigured derives stats from the side's own spread.
	PolicyConfigured Policy = iota
	// PolicyMaxBulk derives stats from stats.MaxBulk at the battle level.
	PolicyMaxBulk
)

// String returns "configured" or "max_bulk".
func (p Policy) String() string {
	if p == PolicyMaxBulk {
		return "max_bulk"
	}
	return "configured"
}

// Side pairs a Combatant with its stat spread.
type Side struct {
	Combatant Combatant
	Spread    stats.Spread
	Policy    Policy
}

// Configuration is the complete input to one damage calculation. It is a
// value: callers build a fresh one per calculation and the engine never
// mutates or retains it.
type Configuration struct {
	Attacker Side
	Defender Side
	Move     move.Move
	// Level is shared by both combatants.
	Level int
	// Friendship is consulted only by friendship-dependent moves.
	Friendship int
}

// Normalize returns a copy of c with IVs clamped to [0,31], EVs to [0,252],
// friendship to [0,255], and HP natures forced to 1.0.
//
// Postcondition: Normalize is idempotent.
func (c Configuration) Normalize() Configuration {
	c.Attacker.Spread = normalizeSpread(c.Attacker.Spread)
	c.Defender.Spread = normalizeSpread(c.Defender.Spread)
	c.Friendship = min(max(c.Friendship, 0), move.MaxFriendship)
	return c
}

func normalizeSpread(s stats.Spread) stats.Spread {
	for _, k := range stats.Keys {
		s[k].IV = stats.ClampIV(s[k].IV)
		s[k].EV = stats.ClampEV(s[k].EV)
		if s[k].Nature == 0 || k == stats.HP {
			s[k].Nature = 1.0
		}
	}
	return s
}

// Rules are the structural constraints a Configuration must satisfy.
type Rules struct {
	// SupportedLevels lists the levels the UI offers.
	SupportedLevels []int
}

// DefaultRules supports levels 50 and 100.
func DefaultRules() Rules {
	return Rules{SupportedLevels: []int{50, 100}}
}

// Validate checks the structural invariants of c against r.
// Out-of-range IVs and EVs are not errors; Normalize clamps them.
//
// Postcondition: Returns nil if c is valid, or an error describing all violations.
func (r Rules) Validate(c Configuration) error {
	var errs []string
	if !slices.Contains(r.SupportedLevels, c.Level) {
		errs = append(errs, fmt.Sprintf("level must be one of %v, got %d", r.SupportedLevels, c.Level))
	}
	for _, s := range []struct {
		role string
		side Side
	}{{"attacker", c.Attacker}, {"defender", c.Defender}} {
		if n := len(s.side.Combatant.Types); n > 2 {
			errs = append(errs, fmt.Sprintf("%s has %d types, at most 2 allowed", s.role, n))
		}
		for _, k := range stats.Keys {
			if s.side.Combatant.Base[k] < 0 {
				errs = append(errs, fmt.Sprintf("%s base %s must be >= 0, got %d", s.role, k, s.side.Combatant.Base[k]))
			}
			if n := s.side.Spread[k].Nature; n < 0 {
				errs = append(errs, fmt.Sprintf("%s %s nature must be >= 0, got %v", s.role, k, n))
			}
		}
	}
	if c.Attacker.Policy != PolicyConfigured {
		errs = append(errs, "attacker must use the configured policy")
	}
	if c.Move.Power < 0 {
		errs = append(errs, fmt.Sprintf("move power must be >= 0, got %d", c.Move.Power))
	}
	if c.Move.Power > 0 && c.Move.Class == move.Status {
		errs = append(errs, fmt.Sprintf("move %q has power %d but no damage class", c.Move.Name, c.Move.Power))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid battle configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
