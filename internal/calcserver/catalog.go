package calcserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
)

type itemView struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Kind modifier.ItemKind `json:"kind"`
}

type abilityView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type natureView struct {
	Name   string `json:"name"`
	Raises string `json:"raises,omitempty"`
	Lowers string `json:"lowers,omitempty"`
}

type creatureView struct {
	Name      string         `json:"name"`
	Types     []string       `json:"types"`
	BaseStats map[string]int `json:"base_stats"`
	Abilities []abilityView  `json:"abilities"`
	Sprite    string         `json:"sprite,omitempty"`
	Moves     []string       `json:"moves,omitempty"`
}

func displayOr(name, id string) string {
	if name != "" {
		return name
	}
	return modifier.DisplayName(id)
}

func (s *Server) handleItems(w http.ResponseWriter, _ *http.Request) {
	items := s.engine.Catalog().Items()
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{ID: it.ID, Name: displayOr(it.Name, it.ID), Kind: it.Kind})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAbilities(w http.ResponseWriter, _ *http.Request) {
	abilities := s.engine.Catalog().Abilities()
	out := make([]abilityView, 0, len(abilities))
	for _, a := range abilities {
		out = append(out, abilityView{ID: a.ID, Name: displayOr(a.Name, a.ID)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNatures(w http.ResponseWriter, _ *http.Request) {
	natures := stats.Natures()
	out := make([]natureView, 0, len(natures))
	for _, n := range natures {
		v := natureView{Name: n.Name}
		if n.Multiplier(n.Raises) != 1.0 {
			v.Raises = n.Raises.String()
			v.Lowers = n.Lowers.String()
		}
		out = append(out, v)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreature(w http.ResponseWriter, r *http.Request) {
	rec, err := s.source.Creature(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, lookupStatus(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, newCreatureView(rec))
}

func newCreatureView(rec lookup.CreatureRecord) creatureView {
	v := creatureView{
		Name:      rec.Name,
		Types:     rec.Types,
		BaseStats: make(map[string]int, len(stats.Keys)),
		Abilities: make([]abilityView, 0, len(rec.Abilities)),
		Sprite:    rec.Sprite,
		Moves:     rec.Moves,
	}
	for _, k := range stats.Keys {
		v.BaseStats[k.String()] = rec.Base[k]
	}
	for _, a := range rec.Abilities {
		v.Abilities = append(v.Abilities, abilityView{ID: a, Name: modifier.DisplayName(a)})
	}
	return v
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	rec, err := s.source.Move(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, lookupStatus(err), err)
		return
	}
	if rec.DisplayName == "" {
		rec.DisplayName = modifier.DisplayName(rec.Name)
	}
	s.writeJSON(w, http.StatusOK, rec)
}
