package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lox/holdem-engine/cmd/holdem/shared"
	"github.com/lox/holdem-engine/internal/auth"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/httpapi"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/internal/table"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ServeCmd runs the HTTP server with the games from the config file.
type ServeCmd struct {
	Config   string `kong:"default='holdem.hcl',help='Path to the HCL config file'"`
	Addr     string `kong:"help='Listen address, overrides the config file'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
	JSONLogs bool   `kong:"name='json-logs',help='Log as JSON'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	level := shared.Level(cfg.Server.LogLevel, c.Debug)
	logger := shared.SetupLogger(level)
	if c.JSONLogs {
		logger = shared.SetupStructuredLogger(level)
	}

	var history table.HistoryWriter
	if dir := cfg.Server.HandHistoryDir; dir != "" {
		history = phh.NewWriter(dir, nil, logger)
		logger.Info().Str("dir", dir).Msg("Recording hand histories")
	}
	manager := table.NewManager(logger, history)
	defer manager.Close()

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	g, ctx := errgroup.WithContext(ctx)

	for _, gc := range cfg.Games {
		runner, err := createGame(manager, cfg, gc, logger)
		if err != nil {
			return err
		}
		if runner == nil {
			continue
		}
		g.Go(func() error {
			if err := runner.Autoplay(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("game %s: %w", gc.ID, err)
			}
			return nil
		})
	}

	var opts []httpapi.Option
	switch {
	case cfg.Server.AuthURL != "":
		opts = append(opts, httpapi.WithAuth(auth.NewHTTPValidator(cfg.Server.AuthURL, cfg.Server.AuthSecret)))
		logger.Info().Str("url", cfg.Server.AuthURL).Msg("Seat tokens checked by auth service")
	case len(cfg.Server.Tokens) > 0:
		opts = append(opts, httpapi.WithAuth(auth.NewStaticValidator(cfg.Server.Tokens)))
		logger.Info().Int("players", len(cfg.Server.Tokens)).Msg("Seat tokens enabled")
	}
	srv, err := httpapi.NewServer(manager, cfg.Resolve, logger, opts...)
	if err != nil {
		return err
	}
	addr := cfg.Server.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("address", addr).
		Int("games", len(cfg.Games)).
		Dur("decision_timeout", cfg.Server.DecisionTimeout()).
		Msg("Starting holdem server")

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		manager.Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// createGame creates a configured game and returns the runner for its bot
// seats, or nil when every seat is played over the API.
func createGame(manager *table.Manager, cfg *config.Config, gc config.GameConfig, logger zerolog.Logger) (*table.DecisionRunner, error) {
	profile, settings, err := cfg.Resolve(gc.Profile)
	if err != nil {
		return nil, err
	}

	seats := make([]game.Seat, len(gc.Players))
	for i, name := range gc.Players {
		seats[i] = game.Seat{Name: name, Stack: gc.StartChips}
	}
	t, err := manager.Create(table.Config{
		ID:         gc.ID,
		SmallBlind: gc.SmallBlind,
		BigBlind:   gc.BigBlind,
		Seats:      seats,
		Seed:       gc.Seed,
		Profile:    profile,
		Settings:   settings,
	})
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gc.ID, err)
	}
	if len(gc.Bots) == 0 {
		return nil, nil
	}

	deciders := make(map[string]table.Decider, len(gc.Bots))
	for i, bot := range gc.Bots {
		deciders[bot] = table.OptionsDecider{Advisor: table.Advisor{
			Profile:  profile,
			Settings: settings,
			Seed:     randutil.Derive(t.Config().Seed, i+1),
		}}
	}
	logger.Info().Str("game_id", gc.ID).Strs("bots", gc.Bots).Msg("Bots seated")
	return table.NewDecisionRunner(t, deciders,
		table.WithTimeout(cfg.Server.DecisionTimeout()),
		table.WithRunnerLogger(logger),
	), nil
}
