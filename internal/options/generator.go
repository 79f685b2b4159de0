// Package options derives short, EV-labelled action menus for the player to
// act. It never modifies game state: Generate is a pure function of the
// snapshot, the equity estimate, the profile and the settings.
//
// All expected values are in chips relative to folding now, so chips already
// in the pot are sunk and folding is worth exactly zero. EVs are rough
// single-opponent estimates but are never adjusted to look better than the
// arithmetic says: a losing bluff is reported with its negative EV.
package options

import (
	"math"
	"slices"

	"github.com/lox/holdem-engine/internal/game"
)

// Rationale tags why an option is on the menu.
type Rationale string

const (
	Value        Rationale = "value"
	ThinValue    Rationale = "thin-value"
	Protection   Rationale = "protection"
	PotControl   Rationale = "pot-control"
	FreeCard     Rationale = "free-card"
	Bluff        Rationale = "bluff"
	PotOdds      Rationale = "pot-odds"
	PotCommitted Rationale = "pot-committed"
	Marginal     Rationale = "marginal"
	GiveUp       Rationale = "give-up"
)

// BoundedOption is one suggested action. RaiseTo is the bet-to amount for
// raises and all-ins.
type BoundedOption struct {
	Action    game.Action `json:"action"`
	RaiseTo   int         `json:"raise_to,omitempty"`
	EV        float64     `json:"ev_estimate"`
	Rationale Rationale   `json:"rationale"`
	StyleTag  string      `json:"style_tag"`
}

// Request converts the option into an action request for actor.
func (o BoundedOption) Request(actor string) game.ActionRequest {
	req := game.ActionRequest{Actor: actor, Action: o.Action}
	if o.Action == game.Raise {
		req.Amount = o.RaiseTo
	}
	return req
}

// Tier buckets a hand for the case matrix.
type Tier string

const (
	Monster    Tier = "monster"
	Strong     Tier = "strong"
	Decent     Tier = "decent"
	Weak       Tier = "weak"
	Crushing   Tier = "crushing"
	Profitable Tier = "profitable"
	Borderline Tier = "marginal"
	Dead       Tier = "dead"
)

// Situation is the classification Generate works from.
type Situation struct {
	Facing   bool    // there is a bet to call
	Pot      int     // chips in the middle, current bets included
	ToCall   int     // chips needed to call
	Winnable int     // pot the actor can win after calling, the call included
	Required float64 // equity needed to call by pot odds
	Ratio    float64 // equity divided by Required
	Equity   float64
	Tier     Tier
}

// Classify places the actor's equity in the free-to-act or facing-bet case
// matrix.
func Classify(snap game.Snapshot, equity float64) Situation {
	eq := clamp01(equity)
	sit := Situation{Pot: snap.Pot.Total, ToCall: snap.ToCall(), Equity: eq}
	sit.Winnable = winnablePot(snap, sit.ToCall)
	if sit.ToCall == 0 {
		switch {
		case eq >= 0.90:
			sit.Tier = Monster
		case eq >= 0.65:
			sit.Tier = Strong
		case eq >= 0.40:
			sit.Tier = Decent
		default:
			sit.Tier = Weak
		}
		return sit
	}

	sit.Facing = true
	sit.Required = float64(sit.ToCall) / float64(sit.Winnable)
	sit.Ratio = eq / sit.Required
	switch {
	case sit.Ratio < 1 && eq < 0.05:
		sit.Tier = Dead
	case sit.Ratio > 1.7:
		sit.Tier = Crushing
	case sit.Ratio >= 1.0:
		sit.Tier = Profitable
	case sit.Ratio >= 0.85:
		sit.Tier = Borderline
	default:
		sit.Tier = Weak
	}
	return sit
}

// Generate returns 2 to 4 legal options for the player to act, or nil when
// nobody is to act.
func Generate(snap game.Snapshot, equity float64, profile Profile, settings Settings) []BoundedOption {
	actor, ok := snap.Actor()
	if !ok || len(snap.LegalOptions) == 0 {
		return nil
	}
	g := generator{
		snap:     snap,
		actor:    actor,
		sit:      Classify(snap, equity),
		profile:  NewProfile(profile),
		settings: settings,
		oppMax:   opponentCover(snap, actor),
	}
	if g.sit.Facing {
		g.facingBet()
	} else {
		g.freeToAct()
	}
	g.fill()
	return g.out
}

type generator struct {
	snap     game.Snapshot
	actor    game.PlayerView
	sit      Situation
	profile  Profile
	settings Settings
	oppMax   int // most any opponent can have in this street
	out      []BoundedOption
}

func (g *generator) freeToAct() {
	p := g.profile
	check := func(r Rationale) { g.add(game.Check, 0, r) }

	switch g.sit.Tier {
	case Monster:
		check(PotControl)
		g.bet(p.MediumBet, Value)
		if g.shortStacked() || p.Aggression >= 0.7 {
			g.shove(Value)
		} else {
			g.bet(p.LargeBet, Value)
		}
	case Strong:
		check(PotControl)
		g.bet(p.SmallBet, Value)
		if g.shortStacked() {
			g.shove(Protection)
		} else {
			g.bet(p.MediumBet, Protection)
		}
	case Decent:
		check(PotControl)
		g.bet(p.SmallBet, ThinValue)
		if p.Aggression >= 0.6 {
			g.bet(p.MediumBet, Protection)
		}
	default:
		check(FreeCard)
		g.bet(p.SmallBet, Bluff)
		if p.BluffFrequency >= 0.4 {
			g.bet(p.LargeBet, Bluff)
		}
	}
}

func (g *generator) facingBet() {
	p := g.profile
	committed := g.potCommitted()

	callTag := PotOdds
	if committed {
		callTag = PotCommitted
	}

	switch g.sit.Tier {
	case Crushing:
		g.add(game.Fold, 0, GiveUp)
		g.add(game.Call, 0, callTag)
		g.raise(p.MediumBet, Value)
		if committed || g.shortStacked() || p.Aggression >= 0.7 {
			g.shove(Value)
		} else {
			g.raise(p.LargeBet, Value)
		}
	case Profitable:
		g.add(game.Fold, 0, GiveUp)
		g.add(game.Call, 0, callTag)
		if committed {
			g.shove(PotCommitted)
		} else if p.Aggression >= 0.5 {
			g.raise(p.SmallBet, Protection)
		}
	case Borderline:
		g.add(game.Fold, 0, PotOdds)
		g.add(game.Call, 0, Marginal)
		if p.Aggression >= 0.6 && p.BluffFrequency >= 0.3 {
			g.raise(p.MediumBet, Bluff)
		}
	case Weak:
		g.add(game.Fold, 0, PotOdds)
		if p.Looseness >= 0.5 {
			g.add(game.Call, 0, Marginal)
		}
		if p.BluffFrequency >= 0.3 {
			g.raise(p.LargeBet, Bluff)
		}
	default:
		g.add(game.Fold, 0, GiveUp)
		if p.BluffFrequency >= 0.5 {
			g.raise(p.LargeBet, Bluff)
		}
	}
}

// fill pads the menu to at least two options with the cheapest remaining
// legal actions.
func (g *generator) fill() {
	for _, action := range []game.Action{game.Check, game.Call, game.Fold, game.AllIn} {
		if len(g.out) >= 2 {
			return
		}
		switch action {
		case game.AllIn:
			g.shove(Marginal)
		default:
			g.add(action, 0, Marginal)
		}
	}
}

// bet offers a free-to-act bet of fraction of the pot.
func (g *generator) bet(fraction float64, r Rationale) {
	size := int(math.Round(fraction * float64(g.sit.Pot)))
	g.raiseTo(g.snap.HighestBet+size, r)
}

// raise offers a raise of fraction of the pot after calling.
func (g *generator) raise(fraction float64, r Rationale) {
	size := int(math.Round(fraction * float64(g.sit.Pot+g.sit.ToCall)))
	g.raiseTo(g.snap.HighestBet+g.sit.ToCall+size, r)
}

func (g *generator) raiseTo(amount int, r Rationale) {
	legal, ok := g.snap.Legal(game.Raise)
	if !ok {
		g.shove(r)
		return
	}
	amount = min(max(amount, legal.Min), legal.Max)
	if amount == legal.Max {
		g.shove(r)
		return
	}
	g.add(game.Raise, amount, r)
}

func (g *generator) shove(r Rationale) {
	allIn, ok := g.snap.Legal(game.AllIn)
	if !ok {
		return
	}
	// All-in for no more than a call is the call already on the menu.
	if g.actor.Stack <= g.sit.ToCall || allIn.Amount < g.actor.Stack {
		if g.sit.Facing && !g.has(game.Call, 0) {
			g.add(game.Call, 0, r)
		}
		return
	}
	g.add(game.AllIn, g.actor.Bet+g.actor.Stack, r)
}

func (g *generator) add(action game.Action, raiseTo int, r Rationale) {
	if len(g.out) >= 4 || g.has(action, raiseTo) {
		return
	}
	if _, ok := g.snap.Legal(action); !ok {
		return
	}
	// Raising is pointless when nobody can call any of it.
	if (action == game.Raise || action == game.AllIn) && g.oppMax <= g.snap.HighestBet && raiseTo > g.snap.HighestBet {
		return
	}
	ev := round2(g.ev(action, raiseTo))
	if ev < 0 && r.positive() {
		r = Marginal
	}
	g.out = append(g.out, BoundedOption{
		Action:    action,
		RaiseTo:   raiseTo,
		EV:        ev,
		Rationale: r,
		StyleTag:  g.profile.StyleTag,
	})
}

// positive reports tags that claim the action makes money.
func (r Rationale) positive() bool {
	switch r {
	case Value, ThinValue, Protection, PotOdds, PotCommitted:
		return true
	}
	return false
}

func (g *generator) has(action game.Action, raiseTo int) bool {
	return slices.ContainsFunc(g.out, func(o BoundedOption) bool {
		return o.Action == action && o.RaiseTo == raiseTo
	})
}

// ev computes the expected value of an action in chips relative to folding.
func (g *generator) ev(action game.Action, raiseTo int) float64 {
	eq := g.sit.Equity
	switch action {
	case game.Fold:
		return 0
	case game.Check:
		return eq * float64(g.sit.Winnable)
	case game.Call:
		return eq*float64(g.sit.Winnable) - float64(g.sit.ToCall)
	}

	pot := float64(g.sit.Pot)

	// Chips above what any opponent can match come straight back.
	effective := max(min(raiseTo, g.oppMax), g.snap.HighestBet)
	risk := float64(effective - g.actor.Bet)
	called := float64(effective - g.snap.HighestBet)
	fe := g.foldEquity(called)
	return BetEV(eq, pot, risk, called, fe)
}

// foldEquity scales the profile's fold equity by the size of the raise
// relative to the pot, reaching it at a pot-sized raise.
func (g *generator) foldEquity(raise float64) float64 {
	if g.sit.Pot == 0 {
		return 0
	}
	return g.profile.FoldEquity * math.Min(1, raise/float64(g.sit.Pot))
}

// BetEV is the value of putting risk chips into a pot of size pot when
// opponents fold with probability fe and otherwise call called chips and go
// to showdown, where we win with probability eq.
func BetEV(eq, pot, risk, called, fe float64) float64 {
	return fe*pot + (1-fe)*(eq*(pot+risk+called)-risk)
}

// potCommitted reports whether the actor has already put in at least as much
// as they have left and the call is priced correctly.
func (g *generator) potCommitted() bool {
	if !g.settings.SituationalGuidance {
		return false
	}
	return g.actor.TotalBet >= g.actor.Stack && g.sit.Ratio >= 1
}

// shortStacked reports a stack of ten big blinds or less.
func (g *generator) shortStacked() bool {
	return g.settings.SituationalGuidance && g.snap.BigBlind > 0 && g.actor.Stack <= 10*g.snap.BigBlind
}

// winnablePot is the pot the actor contests after putting in call more
// chips. Whatever an opponent has committed beyond the actor's total goes to
// side pots or back to them, so it is left out.
func winnablePot(snap game.Snapshot, call int) int {
	actor, ok := snap.Actor()
	if !ok {
		return snap.Pot.Total
	}
	covered := actor.TotalBet + call
	pot := snap.Pot.Total + call
	for _, p := range snap.Players {
		if p.Name == actor.Name {
			continue
		}
		pot -= max(p.TotalBet-covered, 0)
	}
	return pot
}

// opponentCover is the largest bet-to amount any opponent still in the hand
// could match this street.
func opponentCover(snap game.Snapshot, actor game.PlayerView) int {
	cover := 0
	for _, p := range snap.Players {
		if p.Name == actor.Name || p.IsFolded {
			continue
		}
		cover = max(cover, p.Bet+p.Stack)
	}
	return cover
}

// Best returns the option with the highest EV; ties keep menu order.
func Best(opts []BoundedOption) (BoundedOption, bool) {
	if len(opts) == 0 {
		return BoundedOption{}, false
	}
	best := opts[0]
	for _, o := range opts[1:] {
		if o.EV > best.EV {
			best = o
		}
	}
	return best, true
}

// Fallback picks a default action for an actor whose own decision is
// missing or invalid: the best menu option, else check, else fold.
func Fallback(snap game.Snapshot, opts []BoundedOption) BoundedOption {
	if best, ok := Best(opts); ok {
		if _, legal := snap.Legal(best.Action); legal {
			return best
		}
	}
	if _, ok := snap.Legal(game.Check); ok {
		return BoundedOption{Action: game.Check, Rationale: FreeCard}
	}
	return BoundedOption{Action: game.Fold, Rationale: GiveUp}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
