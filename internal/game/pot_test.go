package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allInPlayers(stacks ...int) ([]Player, PotManager) {
	players := make([]Player, len(stacks))
	pm := NewPotManager(len(stacks))
	for i, amount := range stacks {
		players[i] = Player{Seat: i, Name: string(rune('A' + i)), TotalBet: amount, AllIn: true}
		pm.Contribute(i, amount)
	}
	return players, pm
}

func TestPotsSplitAtAllInLevels(t *testing.T) {
	t.Parallel()
	players, pm := allInPlayers(100, 50, 20)

	pots := pm.Pots(players)
	require.Len(t, pots, 3)
	assert.Equal(t, Pot{Amount: 60, Eligible: []int{0, 1, 2}}, pots[0])
	assert.Equal(t, Pot{Amount: 60, Eligible: []int{0, 1}}, pots[1])
	assert.Equal(t, Pot{Amount: 50, Eligible: []int{0}, Uncalled: true}, pots[2])
	assert.Equal(t, 170, pm.Total())
}

func TestPotsExcludeFoldedPlayers(t *testing.T) {
	t.Parallel()
	players := []Player{
		{Seat: 0, Name: "A", AllIn: true},
		{Seat: 1, Name: "B"},
		{Seat: 2, Name: "C", Folded: true},
	}
	pm := NewPotManager(3)
	pm.Contribute(0, 50)
	pm.Contribute(1, 200)
	pm.Contribute(2, 100)

	pots := pm.Pots(players)
	require.Len(t, pots, 2)
	assert.Equal(t, Pot{Amount: 150, Eligible: []int{0, 1}}, pots[0])
	assert.Equal(t, Pot{Amount: 200, Eligible: []int{1}}, pots[1], "folded chips stay in the tier they reached")
}

func TestPotsFoldedOnlyTierJoinsPotBelow(t *testing.T) {
	t.Parallel()
	players := []Player{
		{Seat: 0, Name: "A", AllIn: true},
		{Seat: 1, Name: "B", Folded: true},
		{Seat: 2, Name: "C", Folded: true},
	}
	pm := NewPotManager(3)
	pm.Contribute(0, 50)
	pm.Contribute(1, 100)
	pm.Contribute(2, 100)

	pots := pm.Pots(players)
	require.Len(t, pots, 1)
	assert.Equal(t, 250, pots[0].Amount)
	assert.Equal(t, []int{0}, pots[0].Eligible)
}

func TestPotsWithoutContributions(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(2)
	assert.Empty(t, pm.Pots([]Player{{Seat: 0}, {Seat: 1}}))
	assert.Panics(t, func() { pm.Contribute(0, -1) })
}

func TestResolveAwardsEachPotIndependently(t *testing.T) {
	t.Parallel()
	players, pm := allInPlayers(100, 50, 20)
	// C has the best hand, then B, then A.
	strength := map[int]uint32{0: 1, 1: 2, 2: 3}

	won, awards := pm.Resolve(players, 0, func(seat int) uint32 { return strength[seat] })
	assert.Equal(t, []int{50, 60, 60}, won)
	require.Len(t, awards, 3)
	assert.Equal(t, []string{"C"}, awards[0].Winners)
	assert.Equal(t, []string{"A", "B", "C"}, awards[0].Eligible)
	assert.Equal(t, []string{"B"}, awards[1].Winners)
	assert.Equal(t, []string{"A"}, awards[2].Winners)
	assert.True(t, awards[2].Uncalled)
}

func TestResolveOddChips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dealer int
		want   []int
	}{
		{"left of dealer gets the odd chip", 2, []int{51, 0, 50}},
		{"order wraps around the table", 0, []int{50, 0, 51}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			players := []Player{{Seat: 0, Name: "A"}, {Seat: 1, Name: "B", Folded: true}, {Seat: 2, Name: "C"}}
			pm := NewPotManager(3)
			pm.Contribute(0, 50)
			pm.Contribute(1, 1)
			pm.Contribute(2, 50)

			won, awards := pm.Resolve(players, tt.dealer, func(int) uint32 { return 7 })
			assert.Equal(t, tt.want, won)
			require.Len(t, awards, 1)
			assert.Len(t, awards[0].Winners, 2)
			assert.Equal(t, 101, awards[0].Share[0]+awards[0].Share[1])
		})
	}
}

func TestSidePotShowdown(t *testing.T) {
	t.Parallel()
	// alice deals; carol has aces, bob kings, alice queen high.
	deck := "Qs Jd Ks Kd As Ad 2c 7h 9s 3d 4c"
	s := mustHandBlinds(t, seatsOf([]string{"alice", "bob", "carol"}, 100, 50, 20), 0, 5, 10, deck)

	s = mustApply(t, s, "alice", Call, 0)
	s = mustApply(t, s, "bob", Call, 0)
	s = mustApply(t, s, "carol", AllIn, 0)
	s = mustApply(t, s, "alice", Call, 0)
	s = mustApply(t, s, "bob", Call, 0)
	require.Equal(t, Flop, s.Phase)

	s = mustApply(t, s, "bob", Check, 0)
	s = mustApply(t, s, "alice", AllIn, 0)

	pots := s.Pots()
	require.Len(t, pots, 2, "bob has not called yet")

	s = mustApply(t, s, "bob", Call, 0)
	require.Equal(t, HandOver, s.Phase)
	require.NotNil(t, s.Result)

	res := s.Result
	require.Len(t, res.Pots, 3)
	assert.Equal(t, 60, res.Pots[0].Amount)
	assert.Equal(t, []string{"alice", "bob", "carol"}, res.Pots[0].Eligible)
	assert.Equal(t, []string{"carol"}, res.Pots[0].Winners)
	assert.Equal(t, 60, res.Pots[1].Amount)
	assert.Equal(t, []string{"alice", "bob"}, res.Pots[1].Eligible)
	assert.Equal(t, []string{"bob"}, res.Pots[1].Winners)
	assert.Equal(t, 50, res.Pots[2].Amount)
	assert.Equal(t, []string{"alice"}, res.Pots[2].Eligible)
	assert.True(t, res.Pots[2].Uncalled)

	assert.Equal(t, []string{"bob", "carol"}, res.Winners)
	assert.Equal(t, map[string]int{"bob": 60, "carol": 60}, res.Winnings)
	assert.Equal(t, map[string]int{"alice": 50}, res.Returned)
	assert.Equal(t, "Pair of aces", res.HandName)
	assert.Len(t, res.PlayersShowdown, 3)

	assert.Equal(t, 50, s.Players[0].Stack)
	assert.Equal(t, 60, s.Players[1].Stack)
	assert.Equal(t, 60, s.Players[2].Stack)
	assert.Equal(t, 170, s.TotalChips())
}
