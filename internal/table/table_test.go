package table

import (
	"context"
	"sync"
	"testing"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	req := game.ActionRequest{Actor: "alice", Action: game.Call, HandNumber: 1, Seq: 1}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		applied    int
		duplicates int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := tbl.Submit(context.Background(), req)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			if res.Duplicate {
				duplicates++
			} else {
				applied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, 19, duplicates)
	state := tbl.State()
	require.Len(t, state.Log, 1)
	assert.Equal(t, 990, state.Players[0].Stack)
}

func TestConcurrentConflictingSubmissions(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	reqs := []game.ActionRequest{
		{Actor: "alice", Action: game.Call, HandNumber: 1, Seq: 1},
		{Actor: "alice", Action: game.Fold, HandNumber: 1, Seq: 1},
		{Actor: "alice", Action: game.Raise, Amount: 40, HandNumber: 1, Seq: 1},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reqs))
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = tbl.Submit(context.Background(), req)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, game.ReasonOutOfSequence, game.ReasonOf(err))
	}
	assert.Equal(t, 1, succeeded, "exactly one request claims seq 1")
	assert.Len(t, tbl.State().Log, 1)
}

func TestSubmitRejectionLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	before := tbl.Snapshot("")

	res, err := tbl.Submit(context.Background(), keyed(tbl, "bob", game.Check))
	require.Error(t, err)
	assert.Equal(t, game.ReasonWrongTurn, game.ReasonOf(err))
	assert.Equal(t, before, tbl.Snapshot(""))
	assert.Len(t, res.Snapshot.Players[1].Hand, 2, "submitter sees their own cards")
	assert.Empty(t, res.Snapshot.Players[0].Hand)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tbl.Submit(ctx, keyed(tbl, "alice", game.Call))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeylessRetryIsNotReapplied(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	ctx := context.Background()

	for _, req := range []game.ActionRequest{
		keyed(tbl, "alice", game.Call),
		{Actor: "bob", Action: game.Check, HandNumber: 1, Seq: 2},
	} {
		_, err := tbl.Submit(ctx, req)
		require.NoError(t, err)
	}

	bet := keyed(tbl, "bob", game.Raise)
	bet.Amount = 40
	_, err := tbl.Submit(ctx, bet)
	require.NoError(t, err)
	_, err = tbl.Submit(ctx, keyed(tbl, "alice", game.Call))
	require.NoError(t, err)

	state := tbl.State()
	require.Equal(t, game.Turn, state.Phase)
	require.Equal(t, 950, state.Players[1].Stack)
	require.Len(t, state.Log, 4)

	// bob is first to act on the turn, so an unkeyed replay of the bet
	// would be legal again.
	res, err := tbl.Submit(ctx, game.ActionRequest{Actor: "bob", Action: game.Raise, Amount: 40})
	require.Error(t, err)
	assert.Equal(t, game.ReasonOutOfSequence, game.ReasonOf(err))
	assert.Equal(t, 5, res.Snapshot.ActionSeq)

	again, err := tbl.Submit(ctx, bet)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)

	state = tbl.State()
	assert.Equal(t, 950, state.Players[1].Stack)
	assert.Len(t, state.Log, 4)

	_, err = tbl.Submit(ctx, game.ActionRequest{Actor: "bob", Action: game.Check, HandNumber: 1})
	assert.Equal(t, game.ReasonOutOfSequence, game.ReasonOf(err), "seq is required too")
}

func TestHandLifecycle(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000, "carol": 10},
		[]string{"alice", "bob", "carol"},
		WithHistory(rec),
		stacked("2c 3d As Ad Kc Kd 2h 7c 9s 3h 4c"))
	ctx := context.Background()

	_, err := tbl.StartHand(ctx)
	require.ErrorIs(t, err, ErrHandInProgress)

	// carol's big blind is all-in and bob's aces knock carol out.
	_, err = tbl.Submit(ctx, keyed(tbl, "alice", game.Fold))
	require.NoError(t, err)
	res, err := tbl.Submit(ctx, keyed(tbl, "bob", game.Call))
	require.NoError(t, err)
	require.NotNil(t, res.Showdown)
	assert.Equal(t, []string{"bob"}, res.Showdown.Winners)
	assert.Equal(t, game.HandOver, res.Snapshot.Phase)
	assert.Equal(t, 1, rec.count())

	assert.Equal(t, []game.Seat{{Name: "alice", Stack: 1000}, {Name: "bob", Stack: 1010}, {Name: "carol", Stack: 0}}, tbl.Stacks())

	snap, err := tbl.StartHand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.HandNumber)
	require.Len(t, snap.Players, 2, "busted players sit out")
	assert.Equal(t, "bob", snap.Players[snap.Dealer].Name, "the button moves on")
	assert.Equal(t, snap.Dealer, snap.SmallBlindSeat, "heads-up the dealer posts the small blind")
	for _, p := range snap.Players {
		assert.Empty(t, p.Hand, "public view hides hole cards")
	}
	assert.Equal(t, 2010, tbl.State().TotalChips())
}

func TestGameOver(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 10}, []string{"alice", "bob"},
		WithHistory(rec),
		stacked("As Ad Kc Kd 2h 7c 9s 3d 4c"))
	ctx := context.Background()

	res, err := tbl.Submit(ctx, game.ActionRequest{Actor: "alice", Action: game.Call, HandNumber: 1, Seq: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Showdown)
	assert.Equal(t, game.GameOver, res.Snapshot.Phase)
	assert.Contains(t, res.Showdown.PlayersShowdown, "bob")

	_, err = tbl.StartHand(ctx)
	assert.ErrorIs(t, err, ErrGameOver)

	again, err := tbl.Submit(ctx, game.ActionRequest{Actor: "alice", Action: game.Call, HandNumber: 1, Seq: 1})
	require.NoError(t, err)
	assert.True(t, again.Duplicate, "a retry after the hand ended is still recognised")

	_, err = tbl.Submit(ctx, keyed(tbl, "alice", game.Check))
	assert.Equal(t, game.ReasonHandComplete, game.ReasonOf(err))
	assert.Equal(t, 1, rec.count())
}

func TestSubscribe(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	ch, cancel := tbl.Subscribe()

	first := <-ch
	assert.Equal(t, 1, first.ActionSeq)

	_, err := tbl.Submit(context.Background(), keyed(tbl, "alice", game.Call))
	require.NoError(t, err)
	second := <-ch
	assert.Equal(t, 2, second.ActionSeq)
	for _, p := range second.Players {
		assert.Empty(t, p.Hand)
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel()
}

func TestSubscribeSlowReaderGetsLatest(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	ch, cancel := tbl.Subscribe()
	defer cancel()

	ctx := context.Background()
	for range 20 {
		state := tbl.State()
		actor, ok := state.Actor()
		if !ok {
			break
		}
		action := game.Check
		if state.Betting.HighestBet > actor.CurrentBet {
			action = game.Call
		}
		_, err := tbl.Submit(ctx, keyed(tbl, actor.Name, action))
		require.NoError(t, err)
	}
	require.True(t, tbl.State().IsComplete())
	require.Len(t, ch, cap(ch), "more updates than the buffer holds")

	var last game.Snapshot
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Equal(t, tbl.Snapshot("").ActionSeq, last.ActionSeq)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, map[string]int{"alice": 1000, "bob": 1000}, []string{"alice", "bob"})
	ch, _ := tbl.Subscribe()
	<-ch

	tbl.Close()
	_, open := <-ch
	assert.False(t, open)

	late, _ := tbl.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
