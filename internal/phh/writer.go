package phh

import (
	"fmt"
	"path/filepath"

	"github.com/coder/quartz"
	"github.com/lox/holdem-engine/internal/fileutil"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/rs/zerolog"
)

// Writer stores every finished hand as its own PHH file under
// <dir>/game-<id>/hand-<n>.phh.
type Writer struct {
	dir    string
	clock  quartz.Clock
	logger zerolog.Logger
}

// NewWriter returns a writer rooted at dir. A nil clock uses the real clock.
func NewWriter(dir string, clock quartz.Clock, logger zerolog.Logger) *Writer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Writer{
		dir:    dir,
		clock:  clock,
		logger: logger.With().Str("component", "phh").Logger(),
	}
}

// Path returns the file a hand is written to.
func (w *Writer) Path(gameID string, handNumber int) string {
	return filepath.Join(w.dir, "game-"+gameID, fmt.Sprintf("hand-%06d.phh", handNumber))
}

// WriteHand encodes the finished hand and writes it atomically.
func (w *Writer) WriteHand(gameID string, s game.GameState) error {
	hist, err := FromHand(gameID, s, w.clock.Now())
	if err != nil {
		return err
	}
	data, err := EncodeToBytes(hist)
	if err != nil {
		return fmt.Errorf("phh: encode hand %d: %w", s.HandNumber, err)
	}

	path := w.Path(gameID, s.HandNumber)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("phh: write hand %d: %w", s.HandNumber, err)
	}
	w.logger.Debug().Str("game_id", gameID).Int("hand", s.HandNumber).Str("path", path).Msg("hand history written")
	return nil
}
