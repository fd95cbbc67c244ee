package calcserver

import (
	"fmt"

	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
)

// DefaultSpread is the spread a freshly selected creature starts with:
// IV 31, EV 0, neutral nature on every stat.
func DefaultSpread() stats.Spread {
	var s stats.Spread
	for _, k := range stats.Keys {
		s[k] = stats.Config{IV: stats.MaxIV, Nature: 1.0}
	}
	return s
}

// sideState is one combatant slot of a draft. It is a value; copies share
// only the record's read-only slices.
type sideState struct {
	Record  lookup.CreatureRecord
	Loaded  bool
	Ability string
	Item    string
	Spread  stats.Spread
	MaxBulk bool
}

// newSideState starts a slot for rec with its first listed ability selected.
func newSideState(rec lookup.CreatureRecord) sideState {
	s := sideState{Record: rec, Loaded: true, Spread: DefaultSpread()}
	if len(rec.Abilities) > 0 {
		s.Ability = rec.Abilities[0]
	}
	return s
}

// withCreature swaps in rec, keeping the slot's item, spread, and policy.
func (s sideState) withCreature(rec lookup.CreatureRecord) sideState {
	next := newSideState(rec)
	next.Item = s.Item
	next.MaxBulk = s.MaxBulk
	if s.Loaded {
		next.Spread = s.Spread
	}
	return next
}

func (s sideState) battleSide(catalog *modifier.Catalog) battle.Side {
	policy := battle.PolicyConfigured
	if s.MaxBulk {
		policy = battle.PolicyMaxBulk
	}
	return battle.Side{
		Combatant: battle.NewCombatant(catalog, s.Record.Name, s.Record.Base, s.Record.Types, s.Ability, s.Item),
		Spread:    s.Spread,
		Policy:    policy,
	}
}

// applyRequest overlays the optional fields of req onto s.
//
// Postcondition: Returns an error naming the first unknown stat, nature, or item.
func (s sideState) applyRequest(catalog *modifier.Catalog, req SideRequest) (sideState, error) {
	if req.Ability != "" {
		s.Ability = req.Ability
	}
	if req.Item != "" {
		if _, ok := catalog.Item(req.Item); !ok {
			return s, fmt.Errorf("unknown item %q", req.Item)
		}
		s.Item = req.Item
	}
	for name, cfg := range req.Stats {
		k, ok := stats.ParseKey(name)
		if !ok {
			return s, fmt.Errorf("unknown stat %q", name)
		}
		s.Spread[k] = stats.Config{IV: stats.ClampIV(cfg.IV), EV: stats.ClampEV(cfg.EV), Nature: cfg.Nature}
		if s.Spread[k].Nature == 0 {
			s.Spread[k].Nature = 1.0
		}
	}
	if req.Nature != "" {
		n, ok := stats.LookupNature(lookup.NormalizeName(req.Nature))
		if !ok {
			return s, fmt.Errorf("unknown nature %q", req.Nature)
		}
		s.Spread = n.Apply(s.Spread)
	}
	s.MaxBulk = s.MaxBulk || req.MaxBulk
	return s, nil
}

// SideView is the client-facing summary of a combatant slot.
type SideView struct {
	Creature string         `json:"creature,omitempty"`
	Types    []string       `json:"types,omitempty"`
	Sprite   string         `json:"sprite,omitempty"`
	Ability  string         `json:"ability,omitempty"`
	Item     string         `json:"item,omitempty"`
	Stats    map[string]int `json:"stats,omitempty"`
	MaxBulk  bool           `json:"max_bulk"`
}

func (s sideState) view(level int) SideView {
	if !s.Loaded {
		return SideView{MaxBulk: s.MaxBulk}
	}
	spread := s.Spread
	if s.MaxBulk {
		spread = stats.MaxBulk()
	}
	block := stats.DeriveAll(s.Record.Base, spread, level)
	out := SideView{
		Creature: s.Record.Name,
		Types:    s.Record.Types,
		Sprite:   s.Record.Sprite,
		Ability:  s.Ability,
		Item:     s.Item,
		Stats:    make(map[string]int, len(stats.Keys)),
		MaxBulk:  s.MaxBulk,
	}
	for _, k := range stats.Keys {
		out.Stats[k.String()] = block.Get(k)
	}
	return out
}
