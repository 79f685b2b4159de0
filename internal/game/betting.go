package game

import "slices"

// BettingRound holds the betting state of the current street.
type BettingRound struct {
	HighestBet    int
	MinRaise      int // size of the last full raise, at least the big blind
	LastAggressor int // seat that last raised the highest bet, -1 if none
	BigBlind      int

	// Acted is false for players who still owe a response to the latest bet.
	Acted []bool
	// ActedAt is the highest bet a player left behind after their last
	// voluntary action this street, -1 if they have not acted yet.
	ActedAt []int
}

func newBettingRound(numPlayers, bigBlind int) BettingRound {
	br := BettingRound{BigBlind: bigBlind}
	br.reset(numPlayers)
	return br
}

// reset clears the round for a new street.
func (br *BettingRound) reset(numPlayers int) {
	br.HighestBet = 0
	br.MinRaise = br.BigBlind
	br.LastAggressor = -1
	br.Acted = make([]bool, numPlayers)
	br.ActedAt = make([]int, numPlayers)
	for i := range br.ActedAt {
		br.ActedAt[i] = -1
	}
}

func (br BettingRound) clone() BettingRound {
	br.Acted = slices.Clone(br.Acted)
	br.ActedAt = slices.Clone(br.ActedAt)
	return br
}

// markActed records a voluntary action by seat at the current highest bet.
func (br *BettingRound) markActed(seat int) {
	br.Acted[seat] = true
	br.ActedAt[seat] = br.HighestBet
}

// raiseTo moves the highest bet to betTo. A full raise updates the minimum
// raise increment; a short all-in raise leaves it alone. Either way every
// other player must respond again.
func (br *BettingRound) raiseTo(seat, betTo int) {
	increment := betTo - br.HighestBet
	if increment >= br.MinRaise {
		br.MinRaise = increment
	}
	br.HighestBet = betTo
	br.LastAggressor = seat
	for i := range br.Acted {
		br.Acted[i] = false
	}
	br.markActed(seat)
}

// CanReopen reports whether seat may raise. A player who has already acted
// this street may only raise again once the bet has grown by at least a
// full raise since their last action, so short all-ins alone (unless they
// add up to a full raise) do not reopen the betting.
func (br BettingRound) CanReopen(seat int) bool {
	at := br.ActedAt[seat]
	return at < 0 || br.HighestBet-at >= br.MinRaise
}

// needsAction reports whether p still has a decision to make this street.
func (br BettingRound) needsAction(p Player) bool {
	if !p.CanAct() {
		return false
	}
	return !br.Acted[p.Seat] || p.CurrentBet < br.HighestBet
}

// isComplete reports whether the street's betting is finished: every player
// who can still act has acted since the last bet increase and matched it.
func (br BettingRound) isComplete(players []Player) bool {
	active := 0
	for _, p := range players {
		if p.CanAct() {
			active++
		}
	}

	switch active {
	case 0:
		return true
	case 1:
		// Nobody left to bet against; the last player only has to match.
		for _, p := range players {
			if p.CanAct() {
				return p.CurrentBet >= br.HighestBet
			}
		}
	}

	for _, p := range players {
		if br.needsAction(p) {
			return false
		}
	}
	return true
}
