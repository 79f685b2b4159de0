package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/holdem-engine/internal/equity"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/lox/holdem-engine/internal/randutil"
)

// ErrNoActor is returned when nobody is due to act.
var ErrNoActor = errors.New("no player to act")

// Decider chooses an action for the player to act. snap is that player's
// own view of the hand.
type Decider interface {
	Decide(ctx context.Context, snap game.Snapshot) (game.ActionRequest, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, snap game.Snapshot) (game.ActionRequest, error)

func (f DeciderFunc) Decide(ctx context.Context, snap game.Snapshot) (game.ActionRequest, error) {
	return f(ctx, snap)
}

// Advice is the bounded options menu offered to the current actor.
type Advice struct {
	Actor      string                  `json:"actor_id"`
	HandNumber int                     `json:"hand_number"`
	Seq        int                     `json:"seq"`
	Equity     float64                 `json:"equity"`
	Options    []options.BoundedOption `json:"options"`
}

// Advisor estimates the actor's equity and builds their options menu.
type Advisor struct {
	Profile  options.Profile
	Settings options.Settings
	Seed     int64
	Samples  int // Monte Carlo samples; zero uses the equity default
}

// Advise returns the menu for the actor of snap, which must show the
// actor's hole cards. The equity seed is derived from the hand and action
// sequence, so the same spot always gets the same menu.
func (a Advisor) Advise(ctx context.Context, snap game.Snapshot) (Advice, error) {
	actor, ok := snap.Actor()
	if !ok {
		return Advice{}, ErrNoActor
	}
	if len(actor.Hand) != 2 {
		return Advice{}, fmt.Errorf("hole cards of %s are not visible", actor.Name)
	}

	opponents := 0
	for _, p := range snap.Players {
		if !p.IsFolded && p.Name != actor.Name {
			opponents++
		}
	}

	res, err := equity.Calculate(ctx, equity.Request{
		Hole:      actor.Hand,
		Board:     snap.CommunityCards,
		Opponents: opponents,
		Samples:   a.Samples,
		Seed:      randutil.Derive(a.Seed, snap.HandNumber<<10|snap.ActionSeq),
	})
	if err != nil {
		return Advice{}, fmt.Errorf("equity for %s: %w", actor.Name, err)
	}
	eq := res.Equity()

	return Advice{
		Actor:      actor.Name,
		HandNumber: snap.HandNumber,
		Seq:        snap.ActionSeq,
		Equity:     eq,
		Options:    options.Generate(snap, eq, a.Profile, a.Settings),
	}, nil
}

// OptionsDecider plays the highest-EV bounded option.
type OptionsDecider struct {
	Advisor Advisor
}

func (d OptionsDecider) Decide(ctx context.Context, snap game.Snapshot) (game.ActionRequest, error) {
	advice, err := d.Advisor.Advise(ctx, snap)
	if err != nil {
		return game.ActionRequest{}, err
	}
	best := options.Fallback(snap, advice.Options)
	return best.Request(advice.Actor), nil
}
