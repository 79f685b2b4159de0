package game

import (
	"testing"

	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
	"github.com/stretchr/testify/require"
)

// seatsOf builds seats named by the given names, each with the matching stack.
func seatsOf(names []string, stacks ...int) []Seat {
	seats := make([]Seat, len(names))
	for i, name := range names {
		seats[i] = Seat{Name: name, Stack: stacks[i]}
	}
	return seats
}

// mustHand creates a hand with blinds 10/20. A non-empty deck stacks the
// given cards on top: two hole cards per seat in seat order, then the board.
func mustHand(t *testing.T, seats []Seat, dealer int, deck string, opts ...HandOption) GameState {
	t.Helper()
	return mustHandBlinds(t, seats, dealer, 10, 20, deck, opts...)
}

func mustHandBlinds(t *testing.T, seats []Seat, dealer, sb, bb int, deck string, opts ...HandOption) GameState {
	t.Helper()
	if deck != "" {
		opts = append(opts, WithDeck(poker.NewOrderedDeck(poker.MustParseCards(deck)...)))
	}
	s, err := NewHand(randutil.New(42), seats, dealer, sb, bb, opts...)
	require.NoError(t, err)
	return s
}

func mustApply(t *testing.T, s GameState, actor string, action Action, amount int) GameState {
	t.Helper()
	next, err := Apply(s, ActionRequest{Actor: actor, Action: action, Amount: amount})
	require.NoError(t, err, "%s %s %d", actor, action, amount)
	require.Equal(t, s.TotalChips(), next.TotalChips(), "chips not conserved by %s %s", actor, action)
	return next
}

func actorName(s GameState) string {
	p, ok := s.Actor()
	if !ok {
		return ""
	}
	return p.Name
}

func optionActions(opts []LegalOption) []Action {
	actions := make([]Action, len(opts))
	for i, o := range opts {
		actions[i] = o.Action
	}
	return actions
}
