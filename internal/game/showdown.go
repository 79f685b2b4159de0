package game

import (
	"maps"
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// HandResult is the outcome of a finished hand. Winnings excludes uncalled
// chips, which are listed in Returned.
type HandResult struct {
	Winners         []string                `json:"winners"`
	Winnings        map[string]int          `json:"winnings"`
	Returned        map[string]int          `json:"returned,omitempty"`
	HandName        string                  `json:"hand_name,omitempty"`
	PlayersShowdown map[string]ShowdownHand `json:"players_showdown,omitempty"`
	CommunityCards  []poker.Card            `json:"community_cards"`
	Pots            []PotAward              `json:"pots"`
	Uncontested     bool                    `json:"uncontested"`
}

// ShowdownHand is a hand revealed at showdown. HandRank orders hands: a
// higher rank wins and equal ranks split.
type ShowdownHand struct {
	Cards    []poker.Card `json:"cards"`
	HandName string       `json:"hand_name"`
	HandRank uint32       `json:"hand_rank"`
}

func (r HandResult) clone() HandResult {
	r.Winners = slices.Clone(r.Winners)
	r.Winnings = maps.Clone(r.Winnings)
	r.Returned = maps.Clone(r.Returned)
	r.PlayersShowdown = maps.Clone(r.PlayersShowdown)
	r.CommunityCards = slices.Clone(r.CommunityCards)
	r.Pots = slices.Clone(r.Pots)
	return r
}

// finish pays out every pot and ends the hand. With a single player left
// the pot is awarded without evaluating or revealing any cards.
func (s *GameState) finish() {
	uncontested := s.activePlayers() == 1
	res := HandResult{
		Winnings:       map[string]int{},
		CommunityCards: slices.Clone(s.Community),
		Uncontested:    uncontested,
	}

	values := make([]poker.HandValue, len(s.Players))
	if !uncontested {
		if len(s.Community) != 5 {
			panic("showdown without a full board")
		}
		s.Phase = Showdown
		res.PlayersShowdown = map[string]ShowdownHand{}
		board := s.board()
		for i, p := range s.Players {
			if p.Folded {
				continue
			}
			values[i] = poker.Evaluate(board | poker.NewHand(p.HoleCards[0], p.HoleCards[1]))
			res.PlayersShowdown[p.Name] = ShowdownHand{
				Cards:    []poker.Card{p.HoleCards[0], p.HoleCards[1]},
				HandName: values[i].String(),
				HandRank: values[i].Score(),
			}
		}
	}

	won, awards := s.Pot.Resolve(s.Players, s.Dealer, func(seat int) uint32 {
		return values[seat].Score()
	})
	res.Pots = awards

	for _, award := range awards {
		if !award.Uncalled {
			continue
		}
		if res.Returned == nil {
			res.Returned = map[string]int{}
		}
		res.Returned[award.Winners[0]] += award.Amount
	}
	for i, p := range s.Players {
		s.Players[i].Stack += won[i]
		if amount := won[i] - res.Returned[p.Name]; amount > 0 {
			res.Winners = append(res.Winners, p.Name)
			res.Winnings[p.Name] = amount
		}
	}

	if !uncontested && len(awards) > 0 {
		main := awards[0]
		seat, _ := s.PlayerByName(main.Winners[0])
		res.HandName = values[seat].String()
	}

	s.Pot.clear()
	s.CurrentActor = -1
	s.Phase = HandOver
	s.Result = &res
}
