package game

import (
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// Snapshot is the externally visible view of a GameState. It contains no
// references into the state it was built from.
type Snapshot struct {
	HandNumber     int           `json:"hand_number"`
	Players        []PlayerView  `json:"players"`
	CommunityCards []poker.Card  `json:"community_cards"`
	Pot            PotView       `json:"pot"`
	Phase          Phase         `json:"phase"`
	CurrentActor   int           `json:"current_actor_index"`
	Dealer         int           `json:"dealer_index"`
	SmallBlindSeat int           `json:"small_blind_index"`
	BigBlindSeat   int           `json:"big_blind_index"`
	SmallBlind     int           `json:"small_blind"`
	BigBlind       int           `json:"big_blind"`
	HighestBet     int           `json:"highest_bet"`
	MinRaise       int           `json:"min_raise"`
	LegalOptions   []LegalOption `json:"legal_options"`
	ActionSeq      int           `json:"action_seq"`
	Result         *HandResult   `json:"result,omitempty"`
}

// PlayerView is a player as shown in a snapshot. Hand is omitted when the
// viewer may not see it.
type PlayerView struct {
	Name     string       `json:"name"`
	Seat     int          `json:"seat"`
	Stack    int          `json:"stack"`
	Bet      int          `json:"bet"`
	TotalBet int          `json:"total_bet"`
	IsFolded bool         `json:"is_folded"`
	IsAllIn  bool         `json:"is_all_in"`
	Hand     []poker.Card `json:"hand,omitempty"`
}

// PotView splits the pot into the main pot and side pots.
type PotView struct {
	Total    int           `json:"total"`
	Main     int           `json:"main"`
	SidePots []SidePotView `json:"side_pots"`
}

// SidePotView is one side pot with the names of the players eligible for it.
type SidePotView struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// TakeSnapshot renders s with every hole card visible.
func TakeSnapshot(s GameState) Snapshot {
	return snapshot(s, "", true)
}

// SnapshotFor renders s as seen by viewer: their own hole cards plus any
// hands revealed at showdown. An empty viewer sees no hole cards.
func SnapshotFor(s GameState, viewer string) Snapshot {
	return snapshot(s, viewer, false)
}

func snapshot(s GameState, viewer string, revealAll bool) Snapshot {
	snap := Snapshot{
		HandNumber:     s.HandNumber,
		Players:        make([]PlayerView, len(s.Players)),
		CommunityCards: slices.Clone(s.Community),
		Phase:          s.Phase,
		CurrentActor:   s.CurrentActor,
		Dealer:         s.Dealer,
		SmallBlindSeat: s.SmallBlindSeat,
		BigBlindSeat:   s.BigBlindSeat,
		SmallBlind:     s.SmallBlind,
		BigBlind:       s.BigBlind,
		HighestBet:     s.Betting.HighestBet,
		MinRaise:       s.Betting.MinRaise,
		LegalOptions:   LegalOptions(s),
		ActionSeq:      s.NextSeq(),
	}
	if snap.LegalOptions == nil {
		snap.LegalOptions = []LegalOption{}
	}

	for i, p := range s.Players {
		view := PlayerView{
			Name:     p.Name,
			Seat:     p.Seat,
			Stack:    p.Stack,
			Bet:      p.CurrentBet,
			TotalBet: p.TotalBet,
			IsFolded: p.Folded,
			IsAllIn:  p.AllIn,
		}
		if p.HasHoleCards() && (revealAll || s.canSee(p, viewer)) {
			view.Hand = []poker.Card{p.HoleCards[0], p.HoleCards[1]}
		}
		snap.Players[i] = view
	}

	for i, pot := range s.Pots() {
		snap.Pot.Total += pot.Amount
		if i == 0 {
			snap.Pot.Main = pot.Amount
			continue
		}
		side := SidePotView{Amount: pot.Amount}
		for _, seat := range pot.Eligible {
			side.Eligible = append(side.Eligible, s.Players[seat].Name)
		}
		snap.Pot.SidePots = append(snap.Pot.SidePots, side)
	}
	if snap.Pot.SidePots == nil {
		snap.Pot.SidePots = []SidePotView{}
	}

	if s.Result != nil {
		r := s.Result.clone()
		snap.Result = &r
	}
	return snap
}

func (s GameState) canSee(p Player, viewer string) bool {
	if p.Name == viewer {
		return true
	}
	if s.Result == nil {
		return false
	}
	_, shown := s.Result.PlayersShowdown[p.Name]
	return shown
}

// Actor returns the player to act, if any.
func (s Snapshot) Actor() (PlayerView, bool) {
	if s.CurrentActor < 0 || s.CurrentActor >= len(s.Players) {
		return PlayerView{}, false
	}
	return s.Players[s.CurrentActor], true
}

// ToCall returns the chips the current actor needs to call, capped at their
// stack.
func (s Snapshot) ToCall() int {
	p, ok := s.Actor()
	if !ok {
		return 0
	}
	return min(max(s.HighestBet-p.Bet, 0), p.Stack)
}

// Legal returns the legal option for action, if available.
func (s Snapshot) Legal(action Action) (LegalOption, bool) {
	for _, o := range s.LegalOptions {
		if o.Action == action {
			return o, true
		}
	}
	return LegalOption{}, false
}

// Player returns the named player's view.
func (s Snapshot) Player(name string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerView{}, false
}
