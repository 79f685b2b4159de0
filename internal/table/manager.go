package table

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/gameid"
	"github.com/rs/zerolog"
)

// Summary holds lightweight metadata about a game.
type Summary struct {
	ID         string     `json:"id"`
	HandNumber int        `json:"hand_number"`
	Phase      game.Phase `json:"phase"`
	Players    int        `json:"players"`
	SmallBlind int        `json:"small_blind"`
	BigBlind   int        `json:"big_blind"`
}

// Manager tracks the running games.
type Manager struct {
	base    zerolog.Logger
	logger  zerolog.Logger
	history HistoryWriter

	mu     sync.RWMutex
	tables map[string]*Table
}

// NewManager constructs an empty manager. history may be nil.
func NewManager(logger zerolog.Logger, history HistoryWriter) *Manager {
	return &Manager{
		base:    logger,
		logger:  logger.With().Str("component", "game_manager").Logger(),
		history: history,
		tables:  make(map[string]*Table),
	}
}

// Create starts a new game. An empty cfg.ID is replaced by a generated one.
func (m *Manager) Create(cfg Config) (*Table, error) {
	if cfg.ID == "" {
		cfg.ID = gameid.Generate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[cfg.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, cfg.ID)
	}

	opts := []Option{WithLogger(m.base)}
	if m.history != nil {
		opts = append(opts, WithHistory(m.history))
	}
	t, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	m.tables[cfg.ID] = t
	m.logger.Info().Str("game_id", cfg.ID).Int("players", len(cfg.Seats)).Msg("game created")
	return t, nil
}

// Get retrieves a game by id.
func (m *Manager) Get(id string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return t, nil
}

// Delete removes a game and closes its subscriptions.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	t, ok := m.tables[id]
	delete(m.tables, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	t.Close()
	m.logger.Info().Str("game_id", id).Msg("game deleted")
	return nil
}

// List returns a summary of every game ordered by id.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.RUnlock()

	summaries := make([]Summary, 0, len(tables))
	for _, t := range tables {
		s := t.State()
		summaries = append(summaries, Summary{
			ID:         t.ID(),
			HandNumber: s.HandNumber,
			Phase:      s.Phase,
			Players:    len(s.Players),
			SmallBlind: s.SmallBlind,
			BigBlind:   s.BigBlind,
		})
	}
	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}

// Close closes every game.
func (m *Manager) Close() {
	m.mu.Lock()
	tables := m.tables
	m.tables = make(map[string]*Table)
	m.mu.Unlock()

	for _, t := range tables {
		t.Close()
	}
}
