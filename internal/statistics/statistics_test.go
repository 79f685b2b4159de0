package statistics

import (
	"sync"
	"testing"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()
	var s Statistics
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdError())
	assert.NoError(t, s.Validate())
}

func TestStatisticsMoments(t *testing.T) {
	t.Parallel()
	var s Statistics
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(HandResult{NetBB: v, WentToShowdown: v > 4, PotBB: v * 2})
	}

	assert.Equal(t, 8, s.Hands)
	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
	assert.InDelta(t, 500.0, s.BBPer100(), 1e-9)
	assert.InDelta(t, 32.0/7, s.Variance(), 1e-9)
	assert.InDelta(t, 18.0, s.MaxPotBB, 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, 5.0)
	assert.Greater(t, hi, 5.0)
	assert.InDelta(t, 5.0, (lo+hi)/2, 1e-9)

	assert.Equal(t, 4, s.ShowdownWins)
	assert.Equal(t, 4, s.NonShowdownWins)
	assert.NoError(t, s.Validate())
}

func TestStatisticsValidate(t *testing.T) {
	t.Parallel()
	s := Statistics{Hands: 1, SumBB: 3, ShowdownBB: 1}
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")

	s = Statistics{Hands: 1, ShowdownWins: 1, NonShowdownWins: 1}
	assert.ErrorContains(t, s.Validate(), "exceed")
}

func finishedHand(t *testing.T) game.GameState {
	t.Helper()
	seats := []game.Seat{{Name: "alice", Stack: 1000}, {Name: "bob", Stack: 1000}}
	s, err := game.NewHand(randutil.New(1), seats, 0, 10, 20,
		game.WithDeck(poker.NewOrderedDeck(poker.MustParseCards("As Ad Kc Kd")...)))
	require.NoError(t, err)

	s, err = game.Apply(s, game.ActionRequest{Actor: "alice", Action: game.Raise, Amount: 60})
	require.NoError(t, err)
	s, err = game.Apply(s, game.ActionRequest{Actor: "bob", Action: game.Fold})
	require.NoError(t, err)
	require.True(t, s.IsComplete())
	return s
}

func TestTrackerRecordHand(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	s := finishedHand(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tr.RecordHand(s))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, tr.Hands())
	summaries := tr.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "alice", summaries[0].Name)
	assert.InDelta(t, 100.0, summaries[0].BBPer100(), 1e-9, "alice wins bob's big blind every hand")
	assert.Equal(t, "bob", summaries[1].Name)
	assert.InDelta(t, -100.0, summaries[1].BBPer100(), 1e-9)
	assert.Equal(t, 10, summaries[0].NonShowdownWins)
	assert.NoError(t, summaries[1].Validate())

	assert.Error(t, tr.RecordHand(game.GameState{}))
}
