package calcserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/damage"
	"github.com/cory-johannsen/damagecalc/internal/game/dice"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
	"github.com/cory-johannsen/damagecalc/internal/observability"
)

// SideRequest describes one combatant by name plus optional overrides.
type SideRequest struct {
	Creature string `json:"creature"`
	// Ability defaults to the creature's first listed ability.
	Ability string `json:"ability,omitempty"`
	Item    string `json:"item,omitempty"`
	// Nature, when set, overrides the per-stat nature multipliers in Stats.
	Nature string `json:"nature,omitempty"`
	// Stats is keyed by stat identifier ("attack", "special-defense", ...).
	// Unlisted stats keep IV 31, EV 0, neutral nature.
	Stats   map[string]stats.Config `json:"stats,omitempty"`
	MaxBulk bool                    `json:"max_bulk,omitempty"`
}

// DamageRequest is the body of POST /api/damage.
type DamageRequest struct {
	Attacker SideRequest `json:"attacker"`
	// Defender defaults to the configured boss at max bulk when Creature is empty.
	Defender   SideRequest `json:"defender"`
	Move       string      `json:"move"`
	Level      *int        `json:"level,omitempty"`
	Friendship *int        `json:"friendship,omitempty"`
	// Sample also draws one roll from the damage range.
	Sample bool `json:"sample,omitempty"`
}

// DamageResponse is the body returned by POST /api/damage.
type DamageResponse struct {
	RequestID    string            `json:"request_id"`
	Attacker     SideView          `json:"attacker"`
	Defender     SideView          `json:"defender"`
	Move         lookup.MoveRecord `json:"move"`
	Level        int               `json:"level"`
	Result       damage.Result     `json:"result"`
	PercentRange string            `json:"percent_range"`
	HitsToKO     string            `json:"hits_to_ko"`
	Sample       *dice.RollResult  `json:"sample,omitempty"`
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	var req DamageRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.Attacker.Creature == "" || req.Move == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("attacker.creature and move are required"))
		return
	}
	defenderName := req.Defender.Creature
	if defenderName == "" {
		defenderName = s.defaults.Boss
		req.Defender.MaxBulk = true
	}

	recs, err := lookup.FetchAll(r.Context(), s.source, req.Attacker.Creature, defenderName, req.Move)
	if err != nil {
		s.writeError(w, r, lookupStatus(err), err)
		return
	}

	catalog := s.engine.Catalog()
	attacker, err := newSideState(recs.Attacker).applyRequest(catalog, req.Attacker)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("attacker: %w", err))
		return
	}
	defender, err := newSideState(recs.Defender).applyRequest(catalog, req.Defender)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("defender: %w", err))
		return
	}

	cfg := battle.Configuration{
		Attacker:   attacker.battleSide(catalog),
		Defender:   defender.battleSide(catalog),
		Move:       recs.Move.Move(),
		Level:      s.defaults.Level,
		Friendship: s.defaults.Friendship,
	}
	if req.Level != nil {
		cfg.Level = *req.Level
	}
	if req.Friendship != nil {
		cfg.Friendship = *req.Friendship
	}

	result, err := s.engine.Compute(cfg)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	resp := DamageResponse{
		RequestID:    observability.RequestID(r.Context()),
		Attacker:     attacker.view(cfg.Level),
		Defender:     defender.view(cfg.Level),
		Move:         recs.Move,
		Level:        cfg.Level,
		Result:       result,
		PercentRange: result.PercentRange(),
		HitsToKO:     result.HitsToKO(),
	}
	if req.Sample && !result.Status {
		roll, err := s.roller.Sample(result.Rolls)
		if err == nil {
			resp.Sample = &roll
		}
	}
	s.logger.Info("damage computed",
		zap.String("request_id", resp.RequestID),
		zap.String("attacker", recs.Attacker.Name),
		zap.String("defender", recs.Defender.Name),
		zap.String("move", recs.Move.Name),
		zap.Int("min", result.MinDamage),
		zap.Int("max", result.MaxDamage),
	)
	s.writeJSON(w, http.StatusOK, resp)
}
