package game

import (
	"fmt"

	"github.com/lox/holdem-engine/poker"
)

// Phase is the lifecycle stage of a hand.
type Phase int

const (
	Initializing Phase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
	HandOver
	GameOver
)

var phaseNames = [...]string{"INITIALIZING", "PRE_FLOP", "FLOP", "TURN", "RIVER", "SHOWDOWN", "HAND_OVER", "GAME_OVER"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// IsBetting reports whether players act in this phase.
func (p Phase) IsBetting() bool {
	return p >= PreFlop && p <= River
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "raise", "all_in"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction converts the wire name of an action. "allin" and "bet" are
// accepted as aliases of all_in and raise.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "all_in", "allin":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Player is one seat in a hand. Values are copied on every transition, so a
// Player held by a caller never changes underneath it.
type Player struct {
	Seat       int
	Name       string
	Stack      int
	CurrentBet int // committed this street
	TotalBet   int // committed this hand, blinds included
	Folded     bool
	AllIn      bool
	HoleCards  [2]poker.Card
}

// HasHoleCards reports whether cards have been dealt to the player.
func (p Player) HasHoleCards() bool {
	return p.HoleCards[0] != 0 && p.HoleCards[1] != 0
}

// CanAct reports whether the player still makes betting decisions.
func (p Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// ActionRequest is an action submitted for the current actor. Amount is only
// read for Raise and is the total bet-to amount for the street, not the
// increment. HandNumber and Seq form the idempotency key; zero values skip
// the corresponding check.
type ActionRequest struct {
	Actor      string `json:"actor_id"`
	Action     Action `json:"action"`
	Amount     int    `json:"amount,omitempty"`
	HandNumber int    `json:"hand_number,omitempty"`
	Seq        int    `json:"seq,omitempty"`
}

func (r ActionRequest) String() string {
	if r.Action == Raise {
		return fmt.Sprintf("%s %s to %d", r.Actor, r.Action, r.Amount)
	}
	return fmt.Sprintf("%s %s", r.Actor, r.Action)
}

// LegalOption is one action the current actor may take. For Call and AllIn,
// Amount is the chips that leave the stack. For Raise, Min and Max bound the
// bet-to amount.
type LegalOption struct {
	Action Action `json:"action"`
	Amount int    `json:"amount,omitempty"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
}

// LogEntry records an applied action. Requested differs from Action only
// when a raise for the whole stack was applied as an all-in.
type LogEntry struct {
	Seq       int    `json:"seq"`
	Seat      int    `json:"seat"`
	Actor     string `json:"actor"`
	Phase     Phase  `json:"phase"`
	Requested Action `json:"requested"`
	Action    Action `json:"action"`
	Amount    int    `json:"amount,omitempty"` // requested bet-to for raises
	Chips     int    `json:"chips"`            // chips moved from the stack
	BetTo     int    `json:"bet_to"`           // player's street bet afterwards
}
