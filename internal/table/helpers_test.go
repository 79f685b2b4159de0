package table

import (
	"sync"
	"testing"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
	"github.com/stretchr/testify/require"
)

// stacked returns a deck source that stacks the given cards for hand 1.
func stacked(cards string) Option {
	return WithDeckSource(func(hand int) *poker.Deck {
		if hand != 1 {
			return nil
		}
		return poker.NewOrderedDeck(poker.MustParseCards(cards)...)
	})
}

func newTable(t *testing.T, stacks map[string]int, names []string, opts ...Option) *Table {
	t.Helper()
	seats := make([]game.Seat, len(names))
	for i, name := range names {
		seats[i] = game.Seat{Name: name, Stack: stacks[name]}
	}
	tbl, err := New(Config{ID: "test", SmallBlind: 5, BigBlind: 10, Seats: seats, Seed: 7}, opts...)
	require.NoError(t, err)
	return tbl
}

// keyed builds a request for the current hand and next sequence number.
func keyed(tbl *Table, actor string, action game.Action) game.ActionRequest {
	s := tbl.State()
	return game.ActionRequest{Actor: actor, Action: action, HandNumber: s.HandNumber, Seq: s.NextSeq()}
}

// recorder is a HistoryWriter that keeps finished hands in memory.
type recorder struct {
	mu    sync.Mutex
	hands []game.GameState
}

func (r *recorder) WriteHand(_ string, s game.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, s)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hands)
}

func totalStacks(seats []game.Seat) int {
	total := 0
	for _, s := range seats {
		total += s.Stack
	}
	return total
}
