// Package modifier holds the static item and ability tables consulted by the
// damage pipeline. Tables are data: adding an item or ability is a new entry,
// never a new branch.
package modifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
)

// ItemKind classifies how a held item affects damage.
type ItemKind string

const (
	// KindTypeBoost multiplies damage of moves matching the item's type.
	KindTypeBoost ItemKind = "type_boost"
	// KindStatus inflicts a status on the holder.
	KindStatus ItemKind = "status"
	// KindChoice multiplies one offensive stat category.
	KindChoice ItemKind = "choice"
	// KindFlatBoost multiplies all damage regardless of type.
	KindFlatBoost ItemKind = "flat_boost"
)

// Status is the condition a status item inflicts.
type Status string

const (
	StatusNone   Status = ""
	StatusBurn   Status = "burn"
	StatusPoison Status = "poison"
)

// ItemDef is one held item.
type ItemDef struct {
	ID   string   `yaml:"id" json:"id"`
	Name string   `yaml:"name,omitempty" json:"name,omitempty"`
	Kind ItemKind `yaml:"kind" json:"kind"`
	// Type is the boosted move type for KindTypeBoost.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Status is the inflicted status for KindStatus.
	Status Status `yaml:"status,omitempty" json:"status,omitempty"`
	// Class is the boosted category for KindChoice.
	Class string `yaml:"class,omitempty" json:"class,omitempty"`
	// Multiplier applies to KindTypeBoost, KindChoice, and KindFlatBoost.
	Multiplier float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
}

func (d *ItemDef) validate() error {
	if d.ID == "" {
		return fmt.Errorf("item missing id")
	}
	switch d.Kind {
	case KindTypeBoost:
		if d.Type == "" {
			return fmt.Errorf("item %q: type_boost requires type", d.ID)
		}
	case KindStatus:
		if d.Status != StatusBurn && d.Status != StatusPoison {
			return fmt.Errorf("item %q: status must be burn or poison, got %q", d.ID, d.Status)
		}
		return nil
	case KindChoice:
		c, err := move.ParseClass(d.Class)
		if err != nil || c == move.Status {
			return fmt.Errorf("item %q: choice class must be physical or special, got %q", d.ID, d.Class)
		}
	case KindFlatBoost:
	default:
		return fmt.Errorf("item %q: unknown kind %q", d.ID, d.Kind)
	}
	if d.Multiplier <= 0 {
		return fmt.Errorf("item %q: multiplier must be > 0", d.ID)
	}
	return nil
}

// AbilityDef maps an ability to the capabilities it grants.
type AbilityDef struct {
	ID       string             `yaml:"id" json:"id"`
	Name     string             `yaml:"name,omitempty" json:"name,omitempty"`
	Attacker AttackerCapability `yaml:"attacker,omitempty" json:"attacker,omitempty"`
	Defender DefenderCapability `yaml:"defender,omitempty" json:"defender,omitempty"`
}

func (d *AbilityDef) validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability missing id")
	}
	if !d.Attacker.valid() {
		return fmt.Errorf("ability %q: unknown attacker capability %q", d.ID, d.Attacker)
	}
	if !d.Defender.valid() {
		return fmt.Errorf("ability %q: unknown defender capability %q", d.ID, d.Defender)
	}
	return nil
}

// Catalog holds item and ability definitions indexed by ID.
// A Catalog is read-only once built; lookups are safe for concurrent use.
type Catalog struct {
	items     map[string]*ItemDef
	abilities map[string]*AbilityDef
}

// NewCatalog returns an empty Catalog.
//
// Postcondition: all internal maps are initialised.
func NewCatalog() *Catalog {
	return &Catalog{
		items:     make(map[string]*ItemDef),
		abilities: make(map[string]*AbilityDef),
	}
}

// RegisterItem adds d to the catalog.
//
// Precondition: d must not be nil.
// Postcondition: Item(d.ID) returns d; returns error if d is invalid or d.ID is already registered.
func (c *Catalog) RegisterItem(d *ItemDef) error {
	d.ID = normalizeID(d.ID)
	d.Type = normalizeID(d.Type)
	d.Class = normalizeID(d.Class)
	if err := d.validate(); err != nil {
		return fmt.Errorf("modifier: Catalog.RegisterItem: %w", err)
	}
	if _, exists := c.items[d.ID]; exists {
		return fmt.Errorf("modifier: Catalog.RegisterItem: item ID %q already registered", d.ID)
	}
	c.items[d.ID] = d
	return nil
}

// RegisterAbility adds d to the catalog.
//
// Precondition: d must not be nil.
// Postcondition: Ability(d.ID) returns d; returns error if d is invalid or d.ID is already registered.
func (c *Catalog) RegisterAbility(d *AbilityDef) error {
	d.ID = normalizeID(d.ID)
	if err := d.validate(); err != nil {
		return fmt.Errorf("modifier: Catalog.RegisterAbility: %w", err)
	}
	if _, exists := c.abilities[d.ID]; exists {
		return fmt.Errorf("modifier: Catalog.RegisterAbility: ability ID %q already registered", d.ID)
	}
	c.abilities[d.ID] = d
	return nil
}

// Item returns the ItemDef for id and whether it was found.
func (c *Catalog) Item(id string) (*ItemDef, bool) {
	d, ok := c.items[normalizeID(id)]
	return d, ok
}

// Ability returns the AbilityDef for id and whether it was found.
func (c *Catalog) Ability(id string) (*AbilityDef, bool) {
	d, ok := c.abilities[normalizeID(id)]
	return d, ok
}

// Items returns all item definitions sorted by ID.
func (c *Catalog) Items() []*ItemDef {
	out := make([]*ItemDef, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Abilities returns all ability definitions sorted by ID.
func (c *Catalog) Abilities() []*AbilityDef {
	out := make([]*AbilityDef, 0, len(c.abilities))
	for _, d := range c.abilities {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TypeBoost returns the multiplier item applies to moves of moveType.
//
// Postcondition: ok is true iff item is a type-boosting item for moveType.
func (c *Catalog) TypeBoost(item, moveType string) (float64, bool) {
	d, found := c.Item(item)
	if !found || d.Kind != KindTypeBoost || d.Type != normalizeID(moveType) {
		return 0, false
	}
	return d.Multiplier, true
}

// StatusOf returns the status item inflicts, or StatusNone.
func (c *Catalog) StatusOf(item string) Status {
	d, found := c.Item(item)
	if !found || d.Kind != KindStatus {
		return StatusNone
	}
	return d.Status
}

// IsStatusItem reports whether item inflicts any status on its holder.
func (c *Catalog) IsStatusItem(item string) bool { return c.StatusOf(item) != StatusNone }

// IsBurnItem reports whether item burns its holder.
func (c *Catalog) IsBurnItem(item string) bool { return c.StatusOf(item) == StatusBurn }

// ChoiceBoost returns the offensive multiplier item applies to moves of class.
//
// Postcondition: ok is true iff item is a choice item locked to class.
func (c *Catalog) ChoiceBoost(item string, class move.Class) (float64, bool) {
	d, found := c.Item(item)
	if !found || d.Kind != KindChoice || d.Class != class.String() {
		return 0, false
	}
	return d.Multiplier, true
}

// FlatBoost returns the type-independent damage multiplier of item.
func (c *Catalog) FlatBoost(item string) (float64, bool) {
	d, found := c.Item(item)
	if !found || d.Kind != KindFlatBoost {
		return 0, false
	}
	return d.Multiplier, true
}

// AttackerCapability returns the offensive capability ability grants.
func (c *Catalog) AttackerCapability(ability string) AttackerCapability {
	if d, ok := c.Ability(ability); ok {
		return d.Attacker
	}
	return AttackerNone
}

// DefenderCapability returns the defensive capability ability grants.
func (c *Catalog) DefenderCapability(ability string) DefenderCapability {
	if d, ok := c.Ability(ability); ok {
		return d.Defender
	}
	return DefenderNone
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
