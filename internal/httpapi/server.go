// Package httpapi exposes games over HTTP and streams public hand views
// over WebSocket.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/holdem-engine/internal/auth"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/lox/holdem-engine/internal/table"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 64 << 10

// ProfileResolver maps a profile name to the style and settings used by
// the options menu of a new game.
type ProfileResolver func(name string) (options.Profile, options.Settings, error)

// Server serves the game API.
type Server struct {
	manager   *table.Manager
	validator *Validator
	profiles  ProfileResolver
	auth      auth.Validator
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAuth requires a bearer token on requests that act for or reveal a
// seat. The token's player must own the seat.
func WithAuth(v auth.Validator) Option {
	return func(s *Server) {
		s.auth = v
	}
}

// NewServer returns a server for the games in manager. A nil profiles
// resolver only knows the built-in profiles.
func NewServer(manager *table.Manager, profiles ProfileResolver, logger zerolog.Logger, opts ...Option) (*Server, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = builtinProfile
	}
	s := &Server{
		manager:   manager,
		validator: validator,
		profiles:  profiles,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With().Str("component", "httpapi").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func builtinProfile(name string) (options.Profile, options.Settings, error) {
	p, ok := options.ProfileByName(name)
	if !ok {
		return options.Profile{}, options.Settings{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, options.Settings{}, nil
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /games", s.handleListGames)
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", s.handleGetGame)
	mux.HandleFunc("DELETE /games/{id}", s.handleDeleteGame)
	mux.HandleFunc("POST /games/{id}/actions", s.handleSubmitAction)
	mux.HandleFunc("GET /games/{id}/options", s.handleOptions)
	mux.HandleFunc("POST /games/{id}/hands", s.handleStartHand)
	mux.HandleFunc("GET /games/{id}/watch", s.handleWatch)
	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"games": s.manager.List()})
}

type createGameRequest struct {
	ID                  string      `json:"id"`
	SmallBlind          int         `json:"small_blind"`
	BigBlind            int         `json:"big_blind"`
	Seats               []game.Seat `json:"seats"`
	Dealer              int         `json:"dealer"`
	Seed                int64       `json:"seed"`
	Profile             string      `json:"profile"`
	SituationalGuidance bool        `json:"situational_guidance"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !s.decode(w, r, "create_game", &req) {
		return
	}

	profile, settings, err := s.profiles(req.Profile)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid-request", err.Error())
		return
	}
	settings.SituationalGuidance = settings.SituationalGuidance || req.SituationalGuidance

	t, err := s.manager.Create(table.Config{
		ID:         req.ID,
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		Seats:      req.Seats,
		Dealer:     req.Dealer,
		Seed:       req.Seed,
		Profile:    profile,
		Settings:   settings,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":    t.ID(),
		"state": t.Snapshot(""),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	if s.auth != nil {
		id, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		viewer = id.Player
	}
	s.writeJSON(w, http.StatusOK, t.Snapshot(viewer))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.PathValue("id")); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	var req game.ActionRequest
	if !s.decode(w, r, "action", &req) {
		return
	}
	if !s.authorize(w, r, req.Actor) {
		return
	}

	res, err := t.Submit(r.Context(), req)
	if err != nil {
		var rej *game.RejectionError
		if errors.As(err, &rej) {
			s.writeJSON(w, http.StatusConflict, map[string]any{
				"error":   rej.Reason,
				"message": rej.Message,
				"state":   res.Snapshot,
			})
			return
		}
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	if s.auth != nil {
		actor, ok := t.State().Actor()
		if ok && !s.authorize(w, r, actor.Name) {
			return
		}
	}
	advice, err := t.Advise(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, advice)
}

func (s *Server) handleStartHand(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	snap, err := t.StartHand(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	t, err := s.manager.Get(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return nil, false
	}
	return t, true
}

// authenticate resolves the bearer token of r. It writes the error
// response and returns false when the token is missing or invalid.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, err := s.auth.Validate(r.Context(), token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		s.writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return nil, false
	case err != nil:
		s.logger.Warn().Err(err).Msg("auth service unavailable")
		s.writeError(w, http.StatusServiceUnavailable, "auth-unavailable", err.Error())
		return nil, false
	case id == nil:
		s.writeError(w, http.StatusUnauthorized, "unauthorized", "no identity for token")
		return nil, false
	}
	return id, true
}

// authorize checks the caller may act for player. Without auth everyone
// may act for every seat.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, player string) bool {
	if s.auth == nil {
		return true
	}
	id, ok := s.authenticate(w, r)
	if !ok {
		return false
	}
	if id.Player != player {
		s.writeError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("%s may not act for %s", id.Player, player))
		return false
	}
	return true
}

// decode validates the body against schema and unmarshals it into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema string, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid-request", err.Error())
		return false
	}
	if err := s.validator.Validate(schema, body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid-request", err.Error())
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid-request", err.Error())
		return false
	}
	return true
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, table.ErrGameNotFound):
		s.writeError(w, http.StatusNotFound, "game-not-found", err.Error())
	case errors.Is(err, table.ErrGameExists):
		s.writeError(w, http.StatusConflict, "game-exists", err.Error())
	case errors.Is(err, table.ErrHandInProgress):
		s.writeError(w, http.StatusConflict, "hand-in-progress", err.Error())
	case errors.Is(err, table.ErrGameOver):
		s.writeError(w, http.StatusConflict, "game-over", err.Error())
	case errors.Is(err, table.ErrNoActor):
		s.writeError(w, http.StatusConflict, "no-actor", err.Error())
	case errors.Is(err, game.ErrInvalidHand):
		s.writeError(w, http.StatusBadRequest, "invalid-request", err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug().Err(err).Msg("failed to write response")
	}
}

// logRequests logs every request once it has been served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
