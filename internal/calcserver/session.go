package calcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/damage"
	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
	"github.com/cory-johannsen/damagecalc/internal/observability"
)

// Patch operations accepted by a session.
const (
	OpAttacker   = "attacker"
	OpDefender   = "defender"
	OpMove       = "move"
	OpAbility    = "ability"
	OpItem       = "item"
	OpNature     = "nature"
	OpSpread     = "spread"
	OpLevel      = "level"
	OpFriendship = "friendship"
	OpPolicy     = "policy"
)

// Message types sent by a session.
const (
	MsgState  = "state"
	MsgResult = "result"
	MsgError  = "error"
)

// Patch is one edit sent by the client.
type Patch struct {
	Op string `json:"op"`
	// Side is "attacker" or "defender" for per-side ops.
	Side string `json:"side,omitempty"`
	// Name is the creature, move, ability, item, nature, or policy name.
	Name string `json:"name,omitempty"`
	// Stat, IV, and EV drive the spread op. Nil leaves the value unchanged.
	Stat string `json:"stat,omitempty"`
	IV   *int   `json:"iv,omitempty"`
	EV   *int   `json:"ev,omitempty"`
	// Value carries the level or friendship.
	Value int `json:"value,omitempty"`
}

// DraftView is the client-facing snapshot of a session's configuration.
type DraftView struct {
	Attacker   SideView `json:"attacker"`
	Defender   SideView `json:"defender"`
	Move       string   `json:"move,omitempty"`
	Level      int      `json:"level"`
	Friendship int      `json:"friendship"`
}

// Message is one frame sent to the client.
type Message struct {
	Type         string         `json:"type"`
	SessionID    string         `json:"session_id"`
	Seq          int            `json:"seq"`
	Error        string         `json:"error,omitempty"`
	Result       *damage.Result `json:"result,omitempty"`
	PercentRange string         `json:"percent_range,omitempty"`
	HitsToKO     string         `json:"hits_to_ko,omitempty"`
	Draft        DraftView      `json:"draft"`
}

// draft is a session's current configuration. Patches are applied to a copy
// and committed only when they succeed.
type draft struct {
	Attacker   sideState
	Defender   sideState
	Move       lookup.MoveRecord
	MoveLoaded bool
	Level      int
	Friendship int
}

func (d draft) ready() bool {
	return d.Attacker.Loaded && d.Defender.Loaded && d.MoveLoaded
}

func (d draft) view() DraftView {
	return DraftView{
		Attacker:   d.Attacker.view(d.Level),
		Defender:   d.Defender.view(d.Level),
		Move:       d.Move.Name,
		Level:      d.Level,
		Friendship: d.Friendship,
	}
}

type session struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	logger *zap.Logger
	draft  draft
	seq    int
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := &session{
		id:   uuid.NewString(),
		srv:  s,
		conn: conn,
		draft: draft{
			Defender:   sideState{MaxBulk: true},
			Level:      s.defaults.Level,
			Friendship: s.defaults.Friendship,
		},
	}
	sess.logger = s.logger.With(
		zap.String("session_id", sess.id),
		zap.String("request_id", observability.RequestID(r.Context())),
	)
	sess.logger.Info("session opened")
	sess.run(r.Context())
	sess.logger.Info("session closed", zap.Int("patches", sess.seq))
}

func (ss *session) run(ctx context.Context) {
	if rec, err := ss.srv.source.Creature(ctx, ss.srv.defaults.Boss); err != nil {
		ss.logger.Warn("boss lookup failed", zap.Error(err))
		ss.send(Message{Type: MsgError, Error: fmt.Sprintf("loading default defender: %v", err)})
	} else {
		ss.draft.Defender = ss.draft.Defender.withCreature(rec)
		ss.send(Message{Type: MsgState})
	}

	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.logger.Warn("session read failed", zap.Error(err))
			}
			return
		}
		ss.seq++

		var p Patch
		if err := json.Unmarshal(data, &p); err != nil {
			ss.send(Message{Type: MsgError, Error: fmt.Sprintf("decoding patch: %v", err)})
			continue
		}
		ss.handle(ctx, p)
	}
}

// handle applies p and pushes the outcome. A failed patch leaves the draft
// exactly as it was.
func (ss *session) handle(ctx context.Context, p Patch) {
	next, err := ss.srv.applyPatch(ctx, ss.draft, p)
	if err != nil {
		ss.logger.Debug("patch rejected", zap.String("op", p.Op), zap.Error(err))
		ss.send(Message{Type: MsgError, Error: err.Error()})
		return
	}
	if !next.ready() {
		ss.draft = next
		ss.send(Message{Type: MsgState})
		return
	}

	result, err := ss.srv.compute(next)
	if err != nil {
		ss.send(Message{Type: MsgError, Error: err.Error()})
		return
	}
	ss.draft = next
	ss.send(Message{
		Type:         MsgResult,
		Result:       &result,
		PercentRange: result.PercentRange(),
		HitsToKO:     result.HitsToKO(),
	})
}

func (ss *session) send(m Message) {
	m.SessionID = ss.id
	m.Seq = ss.seq
	m.Draft = ss.draft.view()
	if err := ss.conn.WriteJSON(m); err != nil {
		ss.logger.Warn("session write failed", zap.Error(err))
	}
}

func (s *Server) compute(d draft) (damage.Result, error) {
	catalog := s.engine.Catalog()
	return s.engine.Compute(battle.Configuration{
		Attacker:   d.Attacker.battleSide(catalog),
		Defender:   d.Defender.battleSide(catalog),
		Move:       d.Move.Move(),
		Level:      d.Level,
		Friendship: d.Friendship,
	})
}

// errUnknownSide reports a per-side patch without a valid side.
var errUnknownSide = errors.New(`side must be "attacker" or "defender"`)

// applyPatch returns d with p applied.
//
// Postcondition: On error the returned draft is the zero value and d is unchanged.
func (s *Server) applyPatch(ctx context.Context, d draft, p Patch) (draft, error) {
	switch p.Op {
	case OpAttacker, OpDefender:
		rec, err := s.source.Creature(ctx, p.Name)
		if err != nil {
			return draft{}, err
		}
		if p.Op == OpAttacker {
			d.Attacker = d.Attacker.withCreature(rec)
		} else {
			d.Defender = d.Defender.withCreature(rec)
		}
		return d, nil

	case OpMove:
		rec, err := s.source.Move(ctx, p.Name)
		if err != nil {
			return draft{}, err
		}
		d.Move, d.MoveLoaded = rec, true
		return d, nil

	case OpLevel:
		if !slices.Contains(s.engine.Rules().SupportedLevels, p.Value) {
			return draft{}, fmt.Errorf("level must be one of %v, got %d", s.engine.Rules().SupportedLevels, p.Value)
		}
		d.Level = p.Value
		return d, nil

	case OpFriendship:
		d.Friendship = min(max(p.Value, 0), move.MaxFriendship)
		return d, nil

	case OpAbility, OpItem, OpNature, OpSpread, OpPolicy:
	default:
		return draft{}, fmt.Errorf("unknown op %q", p.Op)
	}

	side, err := d.side(p.Side)
	if err != nil {
		return draft{}, err
	}
	switch p.Op {
	case OpAbility:
		side.Ability = lookup.NormalizeName(p.Name)
	case OpItem:
		id := lookup.NormalizeName(p.Name)
		if id != "" {
			if _, ok := s.engine.Catalog().Item(id); !ok {
				return draft{}, fmt.Errorf("unknown item %q", p.Name)
			}
		}
		side.Item = id
	case OpNature:
		n, ok := stats.LookupNature(lookup.NormalizeName(p.Name))
		if !ok {
			return draft{}, fmt.Errorf("unknown nature %q", p.Name)
		}
		side.Spread = n.Apply(side.Spread)
	case OpSpread:
		k, ok := stats.ParseKey(p.Stat)
		if !ok {
			return draft{}, fmt.Errorf("unknown stat %q", p.Stat)
		}
		if p.IV != nil {
			side.Spread[k].IV = stats.ClampIV(*p.IV)
		}
		if p.EV != nil {
			side.Spread[k].EV = stats.ClampEV(*p.EV)
		}
	case OpPolicy:
		if p.Side != OpDefender {
			return draft{}, errors.New("only the defender may change policy")
		}
		switch p.Name {
		case battle.PolicyMaxBulk.String():
			side.MaxBulk = true
		case battle.PolicyConfigured.String():
			side.MaxBulk = false
		default:
			return draft{}, fmt.Errorf("unknown policy %q", p.Name)
		}
	}
	return d, nil
}

// side returns a pointer into d's slot for name.
func (d *draft) side(name string) (*sideState, error) {
	switch name {
	case OpAttacker:
		return &d.Attacker, nil
	case OpDefender:
		return &d.Defender, nil
	}
	return nil, errUnknownSide
}
