package game

// LegalOptions returns the actions the current actor may take, in the order
// fold, check, call, raise, all_in. It is empty when nobody is to act.
//
// all_in is always offered. When a short all-in has not reopened betting for
// the actor, its Amount is capped at the call and Apply logs it as a call.
func LegalOptions(s GameState) []LegalOption {
	p, ok := s.Actor()
	if !ok || !s.Phase.IsBetting() || !p.CanAct() {
		return nil
	}

	br := s.Betting
	toCall := br.HighestBet - p.CurrentBet
	allInTo := p.Stack + p.CurrentBet
	reopen := br.CanReopen(p.Seat)

	var opts []LegalOption
	if toCall > 0 {
		opts = append(opts, LegalOption{Action: Fold})
		opts = append(opts, LegalOption{Action: Call, Amount: min(toCall, p.Stack)})
	} else {
		opts = append(opts, LegalOption{Action: Check})
	}

	minRaiseTo := br.HighestBet + br.MinRaise
	if reopen && allInTo > minRaiseTo {
		opts = append(opts, LegalOption{Action: Raise, Min: minRaiseTo, Max: allInTo})
	}

	// A player who may not raise can still move all-in, but only for the
	// call; the rest of the stack stays behind.
	allIn := p.Stack
	if !reopen && allInTo > br.HighestBet {
		allIn = toCall
	}
	opts = append(opts, LegalOption{Action: AllIn, Amount: allIn})
	return opts
}

// IsLegal reports whether action is among the current actor's options.
func IsLegal(s GameState, action Action) bool {
	for _, o := range LegalOptions(s) {
		if o.Action == action {
			return true
		}
	}
	return false
}
