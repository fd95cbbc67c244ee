package modifier

import "github.com/cory-johannsen/damagecalc/internal/game/move"

// AttackerCapability is the offensive effect of an attacker's ability.
type AttackerCapability string

const (
	AttackerNone AttackerCapability = ""
	// DoublesRawPower doubles the physical offensive stat (huge-power class).
	DoublesRawPower AttackerCapability = "doubles_raw_power"
	// EmpoweredByStatus boosts physical offense ×1.5 while statused and ignores
	// the burn attack penalty (guts class).
	EmpoweredByStatus AttackerCapability = "empowered_by_status"
)

func (a AttackerCapability) valid() bool {
	switch a {
	case AttackerNone, DoublesRawPower, EmpoweredByStatus:
		return true
	}
	return false
}

// DefenderCapability is the defensive effect of a defender's ability.
type DefenderCapability string

const (
	DefenderNone DefenderCapability = ""
	// HalvesPhysical doubles the defensive stat against physical moves (fur-coat class).
	HalvesPhysical DefenderCapability = "halves_physical"
	// HalvesSpecial doubles the defensive stat against special moves (ice-scales class).
	HalvesSpecial DefenderCapability = "halves_special"
	// HalvesWhenFullHP halves final damage while the holder is at full HP (multiscale class).
	HalvesWhenFullHP DefenderCapability = "halves_when_full_hp"
)

func (d DefenderCapability) valid() bool {
	switch d {
	case DefenderNone, HalvesPhysical, HalvesSpecial, HalvesWhenFullHP:
		return true
	}
	return false
}

// DoublesDefenseAgainst reports whether d doubles the defensive stat used against class.
func (d DefenderCapability) DoublesDefenseAgainst(class move.Class) bool {
	switch d {
	case HalvesPhysical:
		return class == move.Physical
	case HalvesSpecial:
		return class == move.Special
	}
	return false
}
