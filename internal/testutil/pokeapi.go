package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// FakeCreature is the subset of a PokeAPI /pokemon payload the fake serves.
type FakeCreature struct {
	Types     []string
	Stats     [6]int
	Abilities []string
	Moves     []string
}

// FakeMove is the subset of a PokeAPI /move payload the fake serves. A nil
// Power is served as JSON null.
type FakeMove struct {
	Power       *int
	Type        string
	DamageClass string
	EnglishName string
}

// FakePokeAPI is an in-process PokeAPI replacement backed by httptest.
type FakePokeAPI struct {
	server    *httptest.Server
	URL       string
	Creatures map[string]FakeCreature
	Moves     map[string]FakeMove

	hits atomic.Int64
}

var fakeStatNames = [6]string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

func intPtr(v int) *int { return &v }

// NewFakePokeAPI starts a fake PokeAPI seeded with a few creatures and moves.
// The server is closed when the test ends.
//
// Postcondition: Returns a running server; "broken" yields HTTP 500 on both
// resources, and unknown names yield 404.
func NewFakePokeAPI(t *testing.T) *FakePokeAPI {
	t.Helper()
	start := time.Now()

	f := &FakePokeAPI{
		Creatures: map[string]FakeCreature{
			"garchomp": {
				Types:     []string{"dragon", "ground"},
				Stats:     [6]int{108, 130, 95, 80, 85, 102},
				Abilities: []string{"sand-veil", "rough-skin"},
				Moves:     []string{"earthquake", "tackle"},
			},
			"blissey": {
				Types:     []string{"normal"},
				Stats:     [6]int{255, 10, 10, 75, 135, 55},
				Abilities: []string{"natural-cure", "serene-grace", "healer"},
				Moves:     []string{"tackle"},
			},
			"snorlax": {
				Types:     []string{"normal"},
				Stats:     [6]int{160, 110, 65, 65, 110, 30},
				Abilities: []string{"immunity", "thick-fat"},
				Moves:     []string{"return", "facade"},
			},
		},
		Moves: map[string]FakeMove{
			"earthquake":   {Power: intPtr(100), Type: "ground", DamageClass: "physical", EnglishName: "Earthquake"},
			"tackle":       {Power: intPtr(40), Type: "normal", DamageClass: "physical", EnglishName: "Tackle"},
			"facade":       {Power: intPtr(70), Type: "normal", DamageClass: "physical", EnglishName: "Facade"},
			"return":       {Power: nil, Type: "normal", DamageClass: "physical", EnglishName: "Return"},
			"swords-dance": {Power: nil, Type: "normal", DamageClass: "status", EnglishName: "Swords Dance"},
			"shadow-ball":  {Power: intPtr(80), Type: "ghost", DamageClass: "special", EnglishName: "Shadow Ball"},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/pokemon/{name}", f.servePokemon).Methods(http.MethodGet)
	r.HandleFunc("/move/{name}", f.serveMove).Methods(http.MethodGet)
	f.server = httptest.NewServer(r)
	f.URL = f.server.URL
	t.Cleanup(f.server.Close)

	t.Logf("fake pokeapi listening on %s [%s]", f.URL, time.Since(start))
	return f
}

// Hits returns the number of requests served so far.
func (f *FakePokeAPI) Hits() int64 { return f.hits.Load() }

func (f *FakePokeAPI) servePokemon(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	name := mux.Vars(r)["name"]
	if name == "broken" {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}
	c, ok := f.Creatures[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	type named struct {
		Name string `json:"name"`
	}
	type typeSlot struct {
		Slot int   `json:"slot"`
		Type named `json:"type"`
	}
	type statSlot struct {
		BaseStat int   `json:"base_stat"`
		Stat     named `json:"stat"`
	}
	type abilitySlot struct {
		Ability named `json:"ability"`
	}
	type moveSlot struct {
		Move named `json:"move"`
	}

	body := struct {
		Name      string        `json:"name"`
		Types     []typeSlot    `json:"types"`
		Stats     []statSlot    `json:"stats"`
		Abilities []abilitySlot `json:"abilities"`
		Moves     []moveSlot    `json:"moves"`
		Sprites   any           `json:"sprites"`
	}{Name: name}
	for i, tp := range c.Types {
		body.Types = append(body.Types, typeSlot{Slot: i + 1, Type: named{tp}})
	}
	for i, v := range c.Stats {
		body.Stats = append(body.Stats, statSlot{BaseStat: v, Stat: named{fakeStatNames[i]}})
	}
	for _, a := range c.Abilities {
		body.Abilities = append(body.Abilities, abilitySlot{Ability: named{a}})
	}
	for _, m := range c.Moves {
		body.Moves = append(body.Moves, moveSlot{Move: named{m}})
	}
	body.Sprites = map[string]any{
		"front_default": "https://sprites.example/" + name + ".png",
		"other": map[string]any{
			"official-artwork": map[string]any{"front_default": "https://artwork.example/" + name + ".png"},
		},
	}
	writeFakeJSON(w, body)
}

func (f *FakePokeAPI) serveMove(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	name := mux.Vars(r)["name"]
	if name == "broken" {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}
	m, ok := f.Moves[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	body := map[string]any{
		"name":         name,
		"power":        m.Power,
		"type":         map[string]string{"name": m.Type},
		"damage_class": map[string]string{"name": m.DamageClass},
		"names": []map[string]any{
			{"name": "Séisme", "language": map[string]string{"name": "fr"}},
			{"name": m.EnglishName, "language": map[string]string{"name": "en"}},
		},
	}
	writeFakeJSON(w, body)
}

func writeFakeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
