// Package handlers exposes donut sessions over HTTP and WebSocket.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/service/internal/auth"
	"github.com/jason-s-yu/donut/service/internal/config"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
	"github.com/jason-s-yu/donut/service/internal/game"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	registry *game.Registry
	provider equilibrium.Provider
	signer   *auth.Signer
	defaults config.GameDefaults
}

// NewServer wires the handlers to a registry, an equilibrium source, a token
// signer and the defaults applied to games created without explicit settings.
func NewServer(registry *game.Registry, provider equilibrium.Provider, signer *auth.Signer, defaults config.GameDefaults) *Server {
	return &Server{
		registry: registry,
		provider: provider,
		signer:   signer,
		defaults: defaults,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /games/{id}/moves", s.handleMove)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWebSocket)
	return mux
}

type createGameRequest struct {
	Roster     []string `json:"roster"`
	ScoreLimit int      `json:"scoreLimit"`
	Seed       *uint64  `json:"seed,omitempty"`
}

type createGameResponse struct {
	GameID uuid.UUID         `json:"gameId"`
	Token  string            `json:"token"`
	State  game.SessionState `json:"state"`
}

type moveRequest struct {
	Choice *int `json:"choice"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /games
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid json"))
			return
		}
	}
	settings := s.settingsFor(req)

	g := game.NewDonutGame(settings, s.provider)
	if err := g.Start(r.Context()); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	token, err := s.signer.Issue(g.ID)
	if err != nil {
		log.WithField("game", g.ID).Errorf("Issuing token failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("could not issue token"))
		return
	}
	s.registry.Add(g)
	log.WithFields(log.Fields{"game": g.ID, "remote": r.RemoteAddr}).Info("Game created")

	writeJSON(w, http.StatusCreated, createGameResponse{GameID: g.ID, Token: token, State: g.State()})
}

// GET /games/{id}
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.State())
}

// POST /games/{id}/moves
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.signer.Authorize(bearerToken(r), g.ID); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Choice == nil {
		writeError(w, http.StatusBadRequest, errors.New("body must be {\"choice\": <int>}"))
		return
	}
	res, err := g.SubmitMove(*req.Choice)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// settingsFor fills unset request fields from the configured defaults.
func (s *Server) settingsFor(req createGameRequest) game.Settings {
	settings := game.Settings{
		Roster:     req.Roster,
		ScoreLimit: req.ScoreLimit,
		Seed:       req.Seed,
	}
	if len(settings.Roster) == 0 {
		settings.Roster = append([]string(nil), s.defaults.Roster...)
	}
	if settings.ScoreLimit == 0 {
		settings.ScoreLimit = s.defaults.ScoreLimit
	}
	return settings
}

// lookup resolves the {id} path value, writing the error response itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.DonutGame, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid game id"))
		return nil, false
	}
	g, err := s.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return g, true
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrConfiguration), errors.Is(err, engine.ErrInvalidMove):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrGameOver), errors.Is(err, game.ErrNotStarted):
		return http.StatusConflict
	case errors.Is(err, equilibrium.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Writing response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
