package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

const (
	dexCreaturesFile = "creatures.json"
	dexMovesFile     = "moves.json"
)

type rawCreature struct {
	Name      string         `json:"name"`
	Types     []string       `json:"types"`
	BaseStats map[string]int `json:"base_stats"`
	Abilities []string       `json:"abilities"`
	Sprite    string         `json:"sprite"`
	Moves     []string       `json:"moves"`
}

type rawMove struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Power       int    `json:"power"`
	DamageClass string `json:"damage_class"`
}

// Dex is an offline Source loaded from JSON files. It is read-only after
// LoadDex and safe for concurrent use.
type Dex struct {
	creatures map[string]CreatureRecord
	moves     map[string]MoveRecord
}

// LoadDex reads creatures.json and moves.json from dir. Each file is a JSON
// object keyed by name.
//
// Precondition: dir must contain both files.
// Postcondition: Returns a non-nil Dex keyed by NormalizeName, or an error.
func LoadDex(dir string) (*Dex, error) {
	var rawCreatures map[string]rawCreature
	if err := readJSON(filepath.Join(dir, dexCreaturesFile), &rawCreatures); err != nil {
		return nil, err
	}
	var rawMoves map[string]rawMove
	if err := readJSON(filepath.Join(dir, dexMovesFile), &rawMoves); err != nil {
		return nil, err
	}

	d := &Dex{
		creatures: make(map[string]CreatureRecord, len(rawCreatures)),
		moves:     make(map[string]MoveRecord, len(rawMoves)),
	}
	for key, c := range rawCreatures {
		if c.Name == "" {
			c.Name = key
		}
		rec := CreatureRecord{
			Name:      NormalizeName(c.Name),
			Types:     c.Types,
			Abilities: c.Abilities,
			Sprite:    c.Sprite,
			Moves:     c.Moves,
		}
		for statName, v := range c.BaseStats {
			k, ok := stats.ParseKey(statName)
			if !ok {
				return nil, fmt.Errorf("dex creature %q: unknown stat %q", c.Name, statName)
			}
			rec.Base[k] = v
		}
		d.creatures[rec.Name] = rec
	}
	for key, m := range rawMoves {
		if m.Name == "" {
			m.Name = key
		}
		class, err := move.ParseClass(m.DamageClass)
		if err != nil {
			return nil, fmt.Errorf("dex move %q: %w", m.Name, err)
		}
		rec := MoveRecord{
			Name:        NormalizeName(m.Name),
			DisplayName: m.DisplayName,
			Power:       m.Power,
			Type:        m.Type,
			Class:       class,
		}
		d.moves[rec.Name] = rec
	}
	return d, nil
}

func readJSON(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dex file: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("parsing dex file %q: %w", path, err)
	}
	return nil
}

// Creature returns the creature record for name.
func (d *Dex) Creature(_ context.Context, name string) (CreatureRecord, error) {
	key := NormalizeName(name)
	rec, ok := d.creatures[key]
	if !ok {
		return CreatureRecord{}, &Error{Kind: KindCreature, Name: key, Err: ErrNotFound}
	}
	return rec, nil
}

// Move returns the move record for name.
func (d *Dex) Move(_ context.Context, name string) (MoveRecord, error) {
	key := NormalizeName(name)
	rec, ok := d.moves[key]
	if !ok {
		return MoveRecord{}, &Error{Kind: KindMove, Name: key, Err: ErrNotFound}
	}
	return rec, nil
}

// CreatureNames returns every creature name in sorted order, for autocompletion.
func (d *Dex) CreatureNames() []string {
	out := make([]string, 0, len(d.creatures))
	for name := range d.creatures {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
