package game

import (
	"testing"

	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandBlindPositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		players   []string
		dealer    int
		wantSB    int
		wantBB    int
		wantActor string
	}{
		{"heads-up dealer posts small blind", []string{"alice", "bob"}, 0, 0, 1, "alice"},
		{"heads-up dealer in seat 1", []string{"alice", "bob"}, 1, 1, 0, "bob"},
		{"three handed dealer acts first", []string{"alice", "bob", "carol"}, 0, 1, 2, "alice"},
		{"six handed wraps around", []string{"a", "b", "c", "d", "e", "f"}, 4, 5, 0, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stacks := make([]int, len(tt.players))
			for i := range stacks {
				stacks[i] = 1000
			}
			s := mustHand(t, seatsOf(tt.players, stacks...), tt.dealer, "")

			assert.Equal(t, PreFlop, s.Phase)
			assert.Equal(t, tt.wantSB, s.SmallBlindSeat)
			assert.Equal(t, tt.wantBB, s.BigBlindSeat)
			assert.Equal(t, 10, s.Players[tt.wantSB].CurrentBet)
			assert.Equal(t, 20, s.Players[tt.wantBB].CurrentBet)
			assert.Equal(t, 20, s.Betting.HighestBet)
			assert.Equal(t, 20, s.Betting.MinRaise)
			assert.Equal(t, tt.wantActor, actorName(s))
			assert.Equal(t, 30, s.Pot.Total())
			assert.Equal(t, 1000*len(tt.players), s.TotalChips())
		})
	}
}

func TestNewHandDealsUniqueHoleCards(t *testing.T) {
	t.Parallel()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	stacks := make([]int, len(names))
	for i := range stacks {
		stacks[i] = 500
	}
	s := mustHand(t, seatsOf(names, stacks...), 3, "")

	var seen poker.Hand
	for _, p := range s.Players {
		require.True(t, p.HasHoleCards())
		for _, c := range p.HoleCards {
			require.False(t, seen.HasCard(c), "card %s dealt twice", c)
			seen.AddCard(c)
		}
	}
	assert.Empty(t, s.Community)
}

func TestNewHandStackedDeck(t *testing.T) {
	t.Parallel()
	s := mustHand(t, seatsOf([]string{"alice", "bob"}, 1000, 1000), 0, "As Ad Kc Kd")

	assert.Equal(t, [2]poker.Card{poker.MustParseCards("As")[0], poker.MustParseCards("Ad")[0]}, s.Players[0].HoleCards)
	assert.Equal(t, [2]poker.Card{poker.MustParseCards("Kc")[0], poker.MustParseCards("Kd")[0]}, s.Players[1].HoleCards)
}

func TestNewHandRejectsBadSetup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		seats  []Seat
		dealer int
		sb, bb int
	}{
		{"one player", seatsOf([]string{"alice"}, 100), 0, 10, 20},
		{"dealer out of range", seatsOf([]string{"alice", "bob"}, 100, 100), 2, 10, 20},
		{"zero small blind", seatsOf([]string{"alice", "bob"}, 100, 100), 0, 0, 20},
		{"big blind below small blind", seatsOf([]string{"alice", "bob"}, 100, 100), 0, 20, 10},
		{"duplicate names", seatsOf([]string{"alice", "alice"}, 100, 100), 0, 10, 20},
		{"empty name", seatsOf([]string{"alice", ""}, 100, 100), 0, 10, 20},
		{"busted player", seatsOf([]string{"alice", "bob"}, 100, 0), 0, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewHand(randutil.New(1), tt.seats, tt.dealer, tt.sb, tt.bb)
			require.ErrorIs(t, err, ErrInvalidHand)
		})
	}

	t.Run("too many seats", func(t *testing.T) {
		t.Parallel()
		seats := make([]Seat, poker.MaxSeats+1)
		for i := range seats {
			seats[i] = Seat{Name: string(rune('A' + i)), Stack: 100}
		}
		_, err := NewHand(randutil.New(1), seats, 0, 10, 20)
		require.ErrorIs(t, err, ErrInvalidHand)
	})

	t.Run("nil rng panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			_, _ = NewHand(nil, seatsOf([]string{"alice", "bob"}, 100, 100), 0, 10, 20)
		})
	})
}

func TestShortBlindsPostAllIn(t *testing.T) {
	t.Parallel()
	s := mustHand(t, seatsOf([]string{"alice", "bob", "carol"}, 1000, 1000, 15), 0, "")

	carol := s.Players[2]
	assert.True(t, carol.AllIn)
	assert.Equal(t, 15, carol.CurrentBet)
	assert.Equal(t, 0, carol.Stack)
	assert.Equal(t, 15, s.Betting.HighestBet, "call level is what the big blind actually posted")
	assert.Equal(t, "alice", actorName(s))
}

func TestShortSmallBlindHeadsUpRunsOutImmediately(t *testing.T) {
	t.Parallel()
	s := mustHand(t, seatsOf([]string{"alice", "bob"}, 5, 1000), 0, "As Ad Kc Kd 2h 7c 9d Js 3s")

	require.Equal(t, HandOver, s.Phase)
	require.NotNil(t, s.Result)
	assert.Len(t, s.Community, 5)
	assert.Equal(t, []string{"alice"}, s.Result.Winners)
	assert.Equal(t, 10, s.Result.Winnings["alice"])
	assert.Equal(t, 15, s.Result.Returned["bob"])
	assert.Equal(t, 10, s.Players[0].Stack)
	assert.Equal(t, 995, s.Players[1].Stack)
	assert.Equal(t, 1005, s.TotalChips())
}

func TestConcludeMarksGameOver(t *testing.T) {
	t.Parallel()
	s := mustHand(t, seatsOf([]string{"alice", "bob"}, 1000, 1000), 0, "")
	assert.Equal(t, PreFlop, Conclude(s).Phase, "only finished hands conclude")

	s = mustApply(t, s, "alice", Fold, 0)
	over := Conclude(s)
	assert.Equal(t, GameOver, over.Phase)
	assert.Equal(t, HandOver, s.Phase)
	assert.True(t, over.IsComplete())
}
