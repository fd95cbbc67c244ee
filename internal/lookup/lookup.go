// Package lookup fetches creature and move records by name. Sources are
// opaque to the damage core: a failed lookup returns an error and never a
// partial record.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

// ErrNotFound reports an unknown creature or move name.
var ErrNotFound = errors.New("not found")

// Kind names the record type of a failed lookup.
type Kind string

const (
	KindCreature Kind = "creature"
	KindMove     Kind = "move"
)

// Error is a failed lookup.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CreatureRecord is the data a creature lookup returns.
type CreatureRecord struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name,omitempty"`
	Base        stats.Base `json:"base_stats"`
	Types       []string   `json:"types"`
	Abilities   []string   `json:"abilities"`
	Sprite      string     `json:"sprite,omitempty"`
	Moves       []string   `json:"moves,omitempty"`
}

// MoveRecord is the data a move lookup returns.
type MoveRecord struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name,omitempty"`
	Power       int        `json:"power"`
	Type        string     `json:"type"`
	Class       move.Class `json:"damage_class"`
}

// Move converts r into the engine's move type.
func (r MoveRecord) Move() move.Move {
	return move.Move{Name: r.Name, DisplayName: r.DisplayName, Power: r.Power, Type: r.Type, Class: r.Class}
}

// Source looks up records by name.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	Creature(ctx context.Context, name string) (CreatureRecord, error)
	Move(ctx context.Context, name string) (MoveRecord, error)
}

// NormalizeName converts user input into a lookup key: lower case, trimmed,
// with spaces replaced by hyphens ("Choice Band" -> "choice-band").
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
