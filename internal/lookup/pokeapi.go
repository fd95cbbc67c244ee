package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

// DefaultPokeAPIURL is the public PokeAPI v2 root.
const DefaultPokeAPIURL = "https://pokeapi.co/api/v2"

type pokemonResponse struct {
	Name  string `json:"name"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

type moveResponse struct {
	Name  string `json:"name"`
	Power *int   `json:"power"`
	Type  struct {
		Name string `json:"name"`
	} `json:"type"`
	DamageClass struct {
		Name string `json:"name"`
	} `json:"damage_class"`
	Names []struct {
		Name     string `json:"name"`
		Language struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"names"`
}

// PokeAPI is a Source backed by the PokeAPI REST service.
type PokeAPI struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewPokeAPI creates a PokeAPI source rooted at baseURL.
//
// Precondition: logger must be non-nil; timeout > 0.
// Postcondition: baseURL has no trailing slash.
func NewPokeAPI(baseURL string, timeout time.Duration, logger *zap.Logger) *PokeAPI {
	return &PokeAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Creature fetches /pokemon/{name}.
//
// Postcondition: Returns a *Error wrapping ErrNotFound on 404, or wrapping the
// transport/decoding error otherwise. Missing stats are left at 0.
func (p *PokeAPI) Creature(ctx context.Context, name string) (CreatureRecord, error) {
	key := NormalizeName(name)
	var data pokemonResponse
	if err := p.getJSON(ctx, "pokemon", key, &data); err != nil {
		return CreatureRecord{}, &Error{Kind: KindCreature, Name: key, Err: err}
	}

	rec := CreatureRecord{
		Name:   data.Name,
		Sprite: data.Sprites.Other.OfficialArtwork.FrontDefault,
	}
	if rec.Sprite == "" {
		rec.Sprite = data.Sprites.FrontDefault
	}
	seen := make(map[stats.Key]bool, len(stats.Keys))
	for _, s := range data.Stats {
		k, ok := stats.ParseKey(s.Stat.Name)
		if !ok {
			continue
		}
		rec.Base[k] = s.BaseStat
		seen[k] = true
	}
	for _, k := range stats.Keys {
		if !seen[k] {
			p.logger.Warn("pokeapi: creature missing base stat",
				zap.String("creature", key),
				zap.String("stat", k.String()),
			)
		}
	}
	for _, t := range data.Types {
		rec.Types = append(rec.Types, strings.ToLower(t.Type.Name))
	}
	for _, a := range data.Abilities {
		rec.Abilities = append(rec.Abilities, a.Ability.Name)
	}
	for _, m := range data.Moves {
		rec.Moves = append(rec.Moves, m.Move.Name)
	}
	return rec, nil
}

// Move fetches /move/{name}. A null power is reported as 0.
//
// Postcondition: Returns a *Error wrapping ErrNotFound on 404, or wrapping the
// transport/decoding error otherwise.
func (p *PokeAPI) Move(ctx context.Context, name string) (MoveRecord, error) {
	key := NormalizeName(name)
	var data moveResponse
	if err := p.getJSON(ctx, "move", key, &data); err != nil {
		return MoveRecord{}, &Error{Kind: KindMove, Name: key, Err: err}
	}
	class, err := move.ParseClass(data.DamageClass.Name)
	if err != nil {
		return MoveRecord{}, &Error{Kind: KindMove, Name: key, Err: err}
	}
	rec := MoveRecord{
		Name:  data.Name,
		Type:  strings.ToLower(data.Type.Name),
		Class: class,
	}
	if data.Power != nil {
		rec.Power = *data.Power
	}
	for _, n := range data.Names {
		if n.Language.Name == "en" {
			rec.DisplayName = n.Name
			break
		}
	}
	return rec, nil
}

func (p *PokeAPI) getJSON(ctx context.Context, resource, key string, dst any) error {
	if key == "" {
		return ErrNotFound
	}
	u := fmt.Sprintf("%s/%s/%s", p.baseURL, resource, url.PathEscape(key))
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	p.logger.Debug("pokeapi request",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", u, err)
	}
	return nil
}
