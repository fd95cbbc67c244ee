// Package calcserver exposes the damage engine over HTTP: catalog and lookup
// endpoints for the form, a one-shot damage endpoint, and a websocket session
// that recomputes on every edit.
package calcserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/game/damage"
	"github.com/cory-johannsen/damagecalc/internal/game/dice"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
	"github.com/cory-johannsen/damagecalc/internal/observability"
)

// Defaults seed new calculations and sessions.
type Defaults struct {
	Level      int
	Friendship int
	// Boss is the creature used as defender when none is chosen. It is
	// always evaluated with the max-bulk policy.
	Boss string
}

// Server holds the collaborators shared by every request.
type Server struct {
	engine   *damage.Engine
	source   lookup.Source
	roller   *dice.Roller
	defaults Defaults
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a Server.
//
// Precondition: engine, source, roller, and logger must be non-nil.
func New(engine *damage.Engine, source lookup.Source, roller *dice.Roller, defaults Defaults, logger *zap.Logger) *Server {
	return &Server{
		engine:   engine,
		source:   source,
		roller:   roller,
		defaults: defaults,
		logger:   logger,
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}
}

// Handler returns the routed HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(observability.RequestLogger(s.logger))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleSession).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/creatures/{name}", s.handleCreature).Methods(http.MethodGet)
	api.HandleFunc("/moves/{name}", s.handleMove).Methods(http.MethodGet)
	api.HandleFunc("/items", s.handleItems).Methods(http.MethodGet)
	api.HandleFunc("/abilities", s.handleAbilities).Methods(http.MethodGet)
	api.HandleFunc("/natures", s.handleNatures).Methods(http.MethodGet)
	api.HandleFunc("/damage", s.handleDamage).Methods(http.MethodPost)
	return r
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error(), RequestID: observability.RequestID(r.Context())})
}

// lookupStatus maps a lookup failure to an HTTP status.
func lookupStatus(err error) int {
	if errors.Is(err, lookup.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
