package equity

import (
	"github.com/lox/holdem-engine/poker"
)

// Range describes how likely an opponent is to hold a given two-card
// combination. Weights are in [0, 1]; sampling uses them as acceptance
// probabilities and exact enumeration as multipliers.
type Range interface {
	Weight(a, b poker.Card) float64
}

// RandomRange is any two cards.
type RandomRange struct{}

func (RandomRange) Weight(_, _ poker.Card) float64 { return 1 }

// CategoryRange weights holdings by their preflop category.
type CategoryRange map[poker.HoleCardCategory]float64

func (r CategoryRange) Weight(a, b poker.Card) float64 {
	w := r[poker.CategorizeHoleCards(a, b)]
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}

// TightRange continues mostly with premium and strong holdings.
var TightRange = CategoryRange{
	poker.CategoryPremium: 1,
	poker.CategoryStrong:  1,
	poker.CategoryMedium:  0.6,
	poker.CategoryWeak:    0.2,
	poker.CategoryTrash:   0.05,
}

// LooseRange plays most hands but still favours stronger ones.
var LooseRange = CategoryRange{
	poker.CategoryPremium: 1,
	poker.CategoryStrong:  1,
	poker.CategoryMedium:  0.9,
	poker.CategoryWeak:    0.8,
	poker.CategoryTrash:   0.5,
}

// RangeByName resolves the names accepted in configuration.
func RangeByName(name string) (Range, bool) {
	switch name {
	case "", "random":
		return RandomRange{}, true
	case "tight":
		return TightRange, true
	case "loose":
		return LooseRange, true
	}
	return nil, false
}
