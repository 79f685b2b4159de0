package game

import "github.com/lox/holdem-engine/poker"

// Outcome describes how Apply handled a request.
type Outcome struct {
	// Duplicate is set when the request replayed an already applied action.
	// The returned state is the input state.
	Duplicate bool
	// Entry is the log entry for the request, applied now or earlier.
	Entry LogEntry
}

// Apply validates req against s and returns the resulting state. s itself is
// never modified. A rejected request returns s unchanged together with a
// *RejectionError.
func Apply(s GameState, req ActionRequest) (GameState, error) {
	next, _, err := ApplyWithOutcome(s, req)
	return next, err
}

// RequireKey rejects a request that does not carry both a hand number and a
// sequence number. Without them a retried request cannot be told apart from
// a new one.
func RequireKey(req ActionRequest) error {
	if req.HandNumber < 1 || req.Seq < 1 {
		return reject(ReasonOutOfSequence, "hand_number and seq are required, got hand %d seq %d", req.HandNumber, req.Seq)
	}
	return nil
}

// ApplyWithOutcome is Apply with details of how the request was handled.
//
// Requests carrying a hand number and sequence number are idempotent: a
// request whose sequence number was already used is a no-op if it matches
// the logged action and an out-of-sequence rejection otherwise.
func ApplyWithOutcome(s GameState, req ActionRequest) (GameState, Outcome, error) {
	if req.HandNumber != 0 && req.HandNumber != s.HandNumber {
		if req.HandNumber < s.HandNumber {
			return s, Outcome{}, reject(ReasonStaleHand, "hand %d is over, current hand is %d", req.HandNumber, s.HandNumber)
		}
		return s, Outcome{}, reject(ReasonOutOfSequence, "hand %d has not started, current hand is %d", req.HandNumber, s.HandNumber)
	}

	if req.Seq != 0 {
		switch {
		case req.Seq < 0 || req.Seq > s.NextSeq():
			return s, Outcome{}, reject(ReasonOutOfSequence, "seq %d, expected %d", req.Seq, s.NextSeq())
		case req.Seq < s.NextSeq():
			entry := s.Log[req.Seq-1]
			if entry.Actor == req.Actor && entry.Requested == req.Action && (req.Action != Raise || entry.Amount == req.Amount) {
				return s, Outcome{Duplicate: true, Entry: entry}, nil
			}
			return s, Outcome{}, reject(ReasonOutOfSequence, "seq %d was already used by %s %s", req.Seq, entry.Actor, entry.Requested)
		}
	}

	if !s.Phase.IsBetting() || s.CurrentActor < 0 {
		return s, Outcome{}, reject(ReasonHandComplete, "hand %d is %s", s.HandNumber, s.Phase)
	}

	seat, ok := s.PlayerByName(req.Actor)
	if !ok {
		return s, Outcome{}, reject(ReasonUnknownActor, "no player named %q", req.Actor)
	}
	if seat != s.CurrentActor {
		return s, Outcome{}, reject(ReasonWrongTurn, "%s to act, not %s", s.Players[s.CurrentActor].Name, req.Actor)
	}

	next := s.clone()
	entry, err := next.act(seat, req)
	if err != nil {
		return s, Outcome{}, err
	}
	next.Log = append(next.Log, entry)
	next.advance(seat)
	return next, Outcome{Entry: entry}, nil
}

// act applies req for seat to s, which must be a private copy.
func (s *GameState) act(seat int, req ActionRequest) (LogEntry, error) {
	p := s.Players[seat]
	br := &s.Betting
	toCall := br.HighestBet - p.CurrentBet
	allInTo := p.Stack + p.CurrentBet

	entry := LogEntry{
		Seq:       s.NextSeq(),
		Seat:      seat,
		Actor:     p.Name,
		Phase:     s.Phase,
		Requested: req.Action,
		Action:    req.Action,
	}

	switch req.Action {
	case Fold:
		if toCall == 0 {
			return entry, reject(ReasonIllegalAction, "cannot fold when checking is free")
		}
		s.Players[seat].Folded = true
		br.markActed(seat)

	case Check:
		if toCall != 0 {
			return entry, reject(ReasonIllegalAction, "cannot check, %d to call", toCall)
		}
		br.markActed(seat)

	case Call:
		if toCall == 0 {
			return entry, reject(ReasonIllegalAction, "nothing to call")
		}
		entry.Chips = s.commit(seat, toCall)
		br.markActed(seat)

	case Raise:
		entry.Amount = req.Amount
		switch {
		case req.Amount > allInTo:
			return entry, reject(ReasonInsufficientStack, "raise to %d exceeds stack, maximum %d", req.Amount, allInTo)
		case req.Amount <= br.HighestBet:
			return entry, reject(ReasonIllegalAmount, "raise to %d does not exceed the current bet of %d", req.Amount, br.HighestBet)
		case !br.CanReopen(seat):
			return entry, reject(ReasonIllegalAction, "betting was not reopened by a full raise")
		case req.Amount == allInTo:
			// Raising the whole stack is an all-in, whatever its size.
			entry.Action = AllIn
			entry.Chips = s.commit(seat, p.Stack)
			br.raiseTo(seat, allInTo)
		case req.Amount < br.HighestBet+br.MinRaise:
			return entry, reject(ReasonBelowMinRaise, "raise to %d is below the minimum of %d", req.Amount, br.HighestBet+br.MinRaise)
		default:
			entry.Chips = s.commit(seat, req.Amount-p.CurrentBet)
			br.raiseTo(seat, req.Amount)
		}

	case AllIn:
		if allInTo > br.HighestBet && !br.CanReopen(seat) {
			// Betting was not reopened by a full raise: all-in for the call.
			if toCall == 0 {
				entry.Action = Check
			} else {
				entry.Action = Call
				entry.Chips = s.commit(seat, toCall)
			}
			br.markActed(seat)
			break
		}
		entry.Chips = s.commit(seat, p.Stack)
		if allInTo > br.HighestBet {
			br.raiseTo(seat, allInTo)
		} else {
			br.markActed(seat)
		}

	default:
		return entry, reject(ReasonIllegalAction, "unknown action %s", req.Action)
	}

	entry.BetTo = s.Players[seat].CurrentBet
	return entry, nil
}

// advance moves play on after seat acted: to the next player, the next
// street, or the end of the hand.
func (s *GameState) advance(seat int) {
	if s.activePlayers() == 1 {
		s.finish()
		return
	}
	if !s.Betting.isComplete(s.Players) {
		s.CurrentActor = s.nextToAct(seat)
		return
	}
	s.endStreet()
}

// endStreet deals the following streets until one needs betting, or goes to
// showdown after the river.
func (s *GameState) endStreet() {
	for {
		if s.Phase == River {
			s.Phase = Showdown
			s.finish()
			return
		}

		for i := range s.Players {
			s.Players[i].CurrentBet = 0
		}
		s.Betting.reset(len(s.Players))

		switch s.Phase {
		case PreFlop:
			s.Phase = Flop
			s.deal(3)
		case Flop:
			s.Phase = Turn
			s.deal(1)
		case Turn:
			s.Phase = River
			s.deal(1)
		}

		canAct := 0
		for _, p := range s.Players {
			if p.CanAct() {
				canAct++
			}
		}
		if canAct >= 2 {
			s.CurrentActor = s.nextToAct(s.Dealer)
			return
		}
		// Everyone else is all-in; run the board out.
		s.CurrentActor = -1
	}
}

func (s *GameState) deal(n int) {
	s.Community = append(s.Community, s.deck.Draw(n)...)
}

// board returns the community cards as a hand.
func (s GameState) board() poker.Hand {
	return poker.NewHand(s.Community...)
}
