// Package importer snapshots creature and move records from a lookup source
// into the offline dex format read by lookup.LoadDex.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
)

// DefaultConcurrency bounds in-flight lookups.
const DefaultConcurrency = 4

type dexCreature struct {
	Name      string         `json:"name"`
	Types     []string       `json:"types"`
	BaseStats map[string]int `json:"base_stats"`
	Abilities []string       `json:"abilities"`
	Sprite    string         `json:"sprite,omitempty"`
}

type dexMove struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Type        string `json:"type"`
	Power       int    `json:"power"`
	DamageClass string `json:"damage_class"`
}

// Importer orchestrates a dex snapshot from a Source to an output directory.
type Importer struct {
	source      lookup.Source
	concurrency int
	out         io.Writer
}

// New constructs an Importer backed by source that reports progress to out.
//
// Precondition: source and out must be non-nil; concurrency > 0.
// Postcondition: returns a non-nil Importer.
func New(source lookup.Source, concurrency int, out io.Writer) *Importer {
	return &Importer{source: source, concurrency: concurrency, out: out}
}

// Run looks up every named creature and move and writes creatures.json and
// moves.json to outputDir.
//
// Precondition: outputDir must exist or be creatable.
// Postcondition: both files are written and load with lookup.LoadDex, or an
// error is returned naming the first failed lookup.
func (imp *Importer) Run(ctx context.Context, creatures, moves []string, outputDir string) error {
	overall := time.Now()

	t0 := time.Now()
	var mu sync.Mutex
	outCreatures := make(map[string]dexCreature, len(creatures))
	outMoves := make(map[string]dexMove, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.concurrency)
	for _, name := range creatures {
		g.Go(func() error {
			rec, err := imp.source.Creature(gctx, name)
			if err != nil {
				return err
			}
			c := dexCreature{
				Name:      rec.Name,
				Types:     rec.Types,
				BaseStats: make(map[string]int, len(stats.Keys)),
				Abilities: rec.Abilities,
				Sprite:    rec.Sprite,
			}
			for _, k := range stats.Keys {
				c.BaseStats[k.String()] = rec.Base[k]
			}
			mu.Lock()
			outCreatures[rec.Name] = c
			mu.Unlock()
			return nil
		})
	}
	for _, name := range moves {
		g.Go(func() error {
			rec, err := imp.source.Move(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			outMoves[rec.Name] = dexMove{
				Name:        rec.Name,
				DisplayName: rec.DisplayName,
				Type:        rec.Type,
				Power:       rec.Power,
				DamageClass: rec.Class.String(),
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}
	fmt.Fprintf(imp.out, "fetch   %d creature(s), %d move(s) in %s\n",
		len(outCreatures), len(outMoves), time.Since(t0).Round(time.Millisecond))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}
	if err := writeJSON(filepath.Join(outputDir, "creatures.json"), outCreatures); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outputDir, "moves.json"), outMoves); err != nil {
		return err
	}

	// Validate output is loadable.
	if _, err := lookup.LoadDex(outputDir); err != nil {
		return fmt.Errorf("dex in %s failed validation: %w", outputDir, err)
	}

	fmt.Fprintf(imp.out, "total   %s\n", time.Since(overall).Round(time.Millisecond))
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
