// Package move models attacking moves and the name-keyed rules that resolve
// a move's effective base power.
package move

import (
	"fmt"
	"strings"
)

// Class is a move's damage class.
type Class int

const (
	Status Class = iota
	Physical
	Special
)

// String returns the class identifier used by the lookup data ("physical", "special", "status").
func (c Class) String() string {
	switch c {
	case Physical:
		return "physical"
	case Special:
		return "special"
	case Status:
		return "status"
	default:
		return "unknown"
	}
}

// ParseClass resolves a damage class identifier.
//
// Postcondition: Returns an error iff s is not one of "physical", "special", "status".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical":
		return Physical, nil
	case "special":
		return Special, nil
	case "status":
		return Status, nil
	default:
		return Status, fmt.Errorf("unknown damage class %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Move is an attacking move as supplied by the move lookup.
type Move struct {
	// Name is the lower-case hyphenated identifier, e.g. "close-combat".
	Name string `json:"name"`
	// DisplayName is the human-readable name, e.g. "Close Combat".
	DisplayName string `json:"display_name,omitempty"`
	// Power is the listed base power; 0 marks a status move.
	Power int `json:"power"`
	// Type is the move's elemental type tag.
	Type  string `json:"type"`
	Class Class  `json:"damage_class"`
}

// Context carries the inputs a power rule may consult.
type Context struct {
	// Friendship is the attacker's friendship value in [0, 255].
	Friendship int
	// HoldsStatusItem reports whether the attacker holds a status-inducing item.
	HoldsStatusItem bool
}
