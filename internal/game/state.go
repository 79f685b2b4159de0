package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// Seat is a player joining a hand with the chips they carry into it.
type Seat struct {
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

// GameState is one hand at one point in time. States are values: Apply
// returns a new state and never modifies the one it was given, so a state
// may be shared freely between goroutines once created.
type GameState struct {
	HandNumber     int
	Players        []Player
	Community      []poker.Card
	Phase          Phase
	CurrentActor   int // seat to act, -1 when nobody is
	Dealer         int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int
	Betting        BettingRound
	Pot            PotManager
	Log            []LogEntry
	Result         *HandResult

	deck *poker.Deck
}

// HandOption configures a hand during creation.
type HandOption func(*handConfig)

type handConfig struct {
	deck       *poker.Deck
	handNumber int
}

// WithDeck deals from a prepared deck instead of shuffling a new one.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithHandNumber sets the hand number used in the idempotency key.
// Defaults to 1.
func WithHandNumber(n int) HandOption {
	return func(c *handConfig) {
		c.handNumber = n
	}
}

// ErrInvalidHand wraps all NewHand argument errors.
var ErrInvalidHand = errors.New("invalid hand setup")

// NewHand posts the blinds, deals hole cards and returns the PRE_FLOP state.
// The RNG is required so shuffles are explicit and reproducible.
//
// Heads-up the dealer posts the small blind and acts first before the flop;
// otherwise the two seats left of the dealer post the blinds. A player who
// cannot cover a blind posts what they have and is all-in. If the blinds
// leave nobody able to bet the hand runs out immediately, so the returned
// state may already be HAND_OVER.
func NewHand(rng *rand.Rand, seats []Seat, dealer, smallBlind, bigBlind int, opts ...HandOption) (GameState, error) {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	cfg := handConfig{handNumber: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateSetup(seats, dealer, smallBlind, bigBlind); err != nil {
		return GameState{}, err
	}

	players := make([]Player, len(seats))
	for i, s := range seats {
		players[i] = Player{Seat: i, Name: s.Name, Stack: s.Stack}
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	} else {
		deck = deck.Clone()
	}

	s := GameState{
		HandNumber:   cfg.handNumber,
		Players:      players,
		Phase:        Initializing,
		CurrentActor: -1,
		Dealer:       dealer,
		SmallBlind:   smallBlind,
		BigBlind:     bigBlind,
		Betting:      newBettingRound(len(players), bigBlind),
		Pot:          NewPotManager(len(players)),
		deck:         deck,
	}

	if len(players) == 2 {
		s.SmallBlindSeat = dealer
		s.BigBlindSeat = (dealer + 1) % 2
	} else {
		s.SmallBlindSeat = (dealer + 1) % len(players)
		s.BigBlindSeat = (dealer + 2) % len(players)
	}

	sb := s.commit(s.SmallBlindSeat, smallBlind)
	bb := s.commit(s.BigBlindSeat, bigBlind)
	s.Betting.HighestBet = max(sb, bb)

	for i := range s.Players {
		cards := s.deck.Draw(2)
		s.Players[i].HoleCards = [2]poker.Card{cards[0], cards[1]}
	}

	s.Phase = PreFlop
	s.CurrentActor = s.nextToAct(s.BigBlindSeat)
	if s.Betting.isComplete(s.Players) {
		s.endStreet()
	}
	return s, nil
}

func validateSetup(seats []Seat, dealer, smallBlind, bigBlind int) error {
	switch {
	case len(seats) < 2:
		return fmt.Errorf("%w: at least 2 players required, got %d", ErrInvalidHand, len(seats))
	case len(seats) > poker.MaxSeats:
		return fmt.Errorf("%w: at most %d players allowed, got %d", ErrInvalidHand, poker.MaxSeats, len(seats))
	case dealer < 0 || dealer >= len(seats):
		return fmt.Errorf("%w: dealer %d out of range", ErrInvalidHand, dealer)
	case smallBlind <= 0 || bigBlind < smallBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidHand, smallBlind, bigBlind)
	}
	names := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.Name == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidHand)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidHand, s.Name)
		}
		names[s.Name] = true
		if s.Stack <= 0 {
			return fmt.Errorf("%w: player %q has no chips", ErrInvalidHand, s.Name)
		}
	}
	return nil
}

// clone returns a deep copy that shares nothing mutable with s.
func (s GameState) clone() GameState {
	s.Players = slices.Clone(s.Players)
	s.Community = slices.Clone(s.Community)
	s.Betting = s.Betting.clone()
	s.Pot = s.Pot.clone()
	s.Log = slices.Clone(s.Log)
	if s.deck != nil {
		s.deck = s.deck.Clone()
	}
	if s.Result != nil {
		r := s.Result.clone()
		s.Result = &r
	}
	return s
}

// commit moves up to amount chips from seat's stack into the pot and
// returns the chips actually moved.
func (s *GameState) commit(seat, amount int) int {
	p := &s.Players[seat]
	chips := min(amount, p.Stack)
	p.Stack -= chips
	p.CurrentBet += chips
	p.TotalBet += chips
	s.Pot.Contribute(seat, chips)
	if p.Stack == 0 {
		p.AllIn = true
	}
	return chips
}

// nextToAct returns the first seat clockwise after from that still owes a
// decision, or -1.
func (s GameState) nextToAct(from int) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if s.Betting.needsAction(s.Players[seat]) {
			return seat
		}
	}
	return -1
}

// PlayerByName returns the seat of the named player.
func (s GameState) PlayerByName(name string) (int, bool) {
	for i, p := range s.Players {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Actor returns the player to act, if any.
func (s GameState) Actor() (Player, bool) {
	if s.CurrentActor < 0 || s.CurrentActor >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentActor], true
}

// IsComplete reports whether the hand has finished.
func (s GameState) IsComplete() bool {
	return s.Phase == HandOver || s.Phase == GameOver
}

// NextSeq is the sequence number the next applied action will receive.
func (s GameState) NextSeq() int {
	return len(s.Log) + 1
}

// TotalChips returns stacks plus everything in the pot. It is constant from
// the moment the blinds are posted until the end of the hand.
func (s GameState) TotalChips() int {
	total := s.Pot.Total()
	for _, p := range s.Players {
		total += p.Stack
	}
	return total
}

// Pots returns the main pot followed by any side pots.
func (s GameState) Pots() []Pot {
	return s.Pot.Pots(s.Players)
}

// activePlayers counts players who have not folded.
func (s GameState) activePlayers() int {
	n := 0
	for _, p := range s.Players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// Conclude marks a finished hand as the last one of the game.
func Conclude(s GameState) GameState {
	if s.Phase != HandOver {
		return s
	}
	s = s.clone()
	s.Phase = GameOver
	return s
}
