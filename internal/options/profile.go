package options

import (
	"errors"
	"fmt"
	"sort"
)

// Profile is a play style expressed as bounded numeric thresholds. Every
// field has a fixed valid range; NewProfile clamps into it.
type Profile struct {
	Name string

	Aggression     float64 // 0..1, preference for betting over checking and calling
	Looseness      float64 // 0..1, willingness to continue with weak hands
	BluffFrequency float64 // 0..1, how often bluffs are offered
	FoldEquity     float64 // 0..0.9, chance a pot-sized bet takes the pot uncontested

	// Bet sizes as fractions of the pot.
	SmallBet  float64
	MediumBet float64
	LargeBet  float64

	StyleTag string
}

type bound struct {
	name     string
	field    func(*Profile) *float64
	min, max float64
}

var bounds = []bound{
	{"aggression", func(p *Profile) *float64 { return &p.Aggression }, 0, 1},
	{"looseness", func(p *Profile) *float64 { return &p.Looseness }, 0, 1},
	{"bluff_frequency", func(p *Profile) *float64 { return &p.BluffFrequency }, 0, 1},
	{"fold_equity", func(p *Profile) *float64 { return &p.FoldEquity }, 0, 0.9},
	{"small_bet", func(p *Profile) *float64 { return &p.SmallBet }, 0.1, 3},
	{"medium_bet", func(p *Profile) *float64 { return &p.MediumBet }, 0.1, 3},
	{"large_bet", func(p *Profile) *float64 { return &p.LargeBet }, 0.1, 3},
}

// NewProfile returns p with every threshold clamped into its valid range,
// bet sizes ordered small <= medium <= large and a default style tag.
func NewProfile(p Profile) Profile {
	for _, b := range bounds {
		v := b.field(&p)
		*v = min(max(*v, b.min), b.max)
	}
	sizes := []float64{p.SmallBet, p.MediumBet, p.LargeBet}
	sort.Float64s(sizes)
	p.SmallBet, p.MediumBet, p.LargeBet = sizes[0], sizes[1], sizes[2]
	if p.StyleTag == "" {
		p.StyleTag = p.Name
	}
	if p.StyleTag == "" {
		p.StyleTag = "custom"
	}
	return p
}

// ErrOutOfRange is wrapped by Validate for every threshold outside its range.
var ErrOutOfRange = errors.New("profile threshold out of range")

// Validate reports the thresholds that NewProfile would have to clamp.
func (p Profile) Validate() error {
	var errs []error
	for _, b := range bounds {
		v := *b.field(&p)
		if v < b.min || v > b.max {
			errs = append(errs, fmt.Errorf("%w: %s = %g, want %g..%g", ErrOutOfRange, b.name, v, b.min, b.max))
		}
	}
	return errors.Join(errs...)
}

// Built-in profiles.
var (
	Balanced = NewProfile(Profile{
		Name:           "balanced",
		Aggression:     0.5,
		Looseness:      0.5,
		BluffFrequency: 0.25,
		FoldEquity:     0.3,
		SmallBet:       0.33,
		MediumBet:      0.66,
		LargeBet:       1.0,
	})

	Tight = NewProfile(Profile{
		Name:           "tight",
		Aggression:     0.35,
		Looseness:      0.2,
		BluffFrequency: 0.1,
		FoldEquity:     0.25,
		SmallBet:       0.5,
		MediumBet:      0.75,
		LargeBet:       1.0,
	})

	Aggressive = NewProfile(Profile{
		Name:           "aggressive",
		Aggression:     0.85,
		Looseness:      0.65,
		BluffFrequency: 0.5,
		FoldEquity:     0.4,
		SmallBet:       0.5,
		MediumBet:      0.85,
		LargeBet:       1.5,
	})
)

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "", "balanced":
		return Balanced, true
	case "tight":
		return Tight, true
	case "aggressive":
		return Aggressive, true
	}
	return Profile{}, false
}

// Settings toggles optional behaviour of the generator. It is passed
// explicitly with every call.
type Settings struct {
	// SituationalGuidance enables stack-aware adjustments: pot-committed
	// calls and shoves with short stacks.
	SituationalGuidance bool
}
