package phh

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// FromHand converts a finished hand into a hand history. Starting stacks
// are recovered from the result, so s must be HAND_OVER or GAME_OVER.
func FromHand(table string, s game.GameState, at time.Time) (*HandHistory, error) {
	if !s.IsComplete() || s.Result == nil {
		return nil, fmt.Errorf("phh: hand %d is %s, not finished", s.HandNumber, s.Phase)
	}
	res := s.Result
	n := len(s.Players)

	// Position order starts with the small blind.
	order := make([]int, n)
	index := make([]int, n)
	for pos := range order {
		seat := (s.SmallBlindSeat + pos) % n
		order[pos] = seat
		index[seat] = pos
	}

	h := &HandHistory{
		Variant:           defaultVariant,
		Table:             table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            s.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            fmt.Sprintf("%s-%d", table, s.HandNumber),
		Metadata: map[string]any{
			"hand_number": s.HandNumber,
			"dealer":      s.Players[s.Dealer].Name,
		},
	}
	if res.HandName != "" {
		h.Metadata["hand_name"] = res.HandName
	}
	h.setTime(at)

	for pos, seat := range order {
		p := s.Players[seat]
		start := p.Stack + p.TotalBet - res.Winnings[p.Name] - res.Returned[p.Name]
		h.Seats[pos] = seat + 1
		h.Players[pos] = p.Name
		h.StartingStacks[pos] = start
		h.FinishingStacks[pos] = p.Stack
		h.Winnings[pos] = res.Winnings[p.Name]
		switch seat {
		case s.SmallBlindSeat:
			h.BlindsOrStraddles[pos] = min(s.SmallBlind, start)
		case s.BigBlindSeat:
			h.BlindsOrStraddles[pos] = min(s.BigBlind, start)
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", pos+1, joinCards(p.HoleCards[:])))
	}

	highest := slices.Max(h.BlindsOrStraddles)
	street := game.PreFlop
	for _, e := range s.Log {
		if e.Phase != street {
			h.Actions = append(h.Actions, dealBoard(street, e.Phase, s.Community)...)
			street = e.Phase
			highest = 0
		}
		h.Actions = append(h.Actions, formatEntry(index[e.Seat]+1, e, highest))
		highest = max(highest, e.BetTo)
	}

	if !res.Uncontested {
		h.Actions = append(h.Actions, dealBoard(street, game.Showdown, s.Community)...)
		for pos, seat := range order {
			if shown, ok := res.PlayersShowdown[s.Players[seat].Name]; ok {
				h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", pos+1, joinCards(shown.Cards)))
			}
		}
	}
	return h, nil
}

// formatEntry renders one logged action. An all-in that does not raise the
// bet is a call.
func formatEntry(player int, e game.LogEntry, highest int) string {
	var action string
	switch {
	case e.Action == game.Fold:
		action = fmt.Sprintf("p%d f", player)
	case e.Action == game.Raise, e.Action == game.AllIn && e.BetTo > highest:
		action = fmt.Sprintf("p%d cbr %d", player, e.BetTo)
	default:
		action = fmt.Sprintf("p%d cc", player)
	}
	if e.Requested != e.Action {
		action += fmt.Sprintf(" # requested %s to %d", e.Requested, e.Amount)
	}
	return action
}

// dealBoard returns the board deals for every street after from up to and
// including to.
func dealBoard(from, to game.Phase, community []poker.Card) []string {
	var out []string
	for _, street := range []struct {
		phase      game.Phase
		start, end int
	}{
		{game.Flop, 0, 3},
		{game.Turn, 3, 4},
		{game.River, 4, 5},
	} {
		if street.phase <= from || street.phase > to || len(community) < street.end {
			continue
		}
		out = append(out, "d db "+joinCards(community[street.start:street.end]))
	}
	return out
}

func joinCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
