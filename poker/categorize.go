package poker

// HoleCardCategory represents the strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// HoleCardCategories lists the known categories from strongest to weakest.
var HoleCardCategories = []HoleCardCategory{
	CategoryPremium, CategoryStrong, CategoryMedium, CategoryWeak, CategoryTrash,
}

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if !card1.Valid() || !card2.Valid() || card1 == card2 {
		return CategoryUnknown
	}

	// 2-14 scale reads closer to how ranges are written.
	small, big := int(card1.Rank())+2, int(card2.Rank())+2
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit() == card2.Suit()
	isPair := small == big

	switch {
	case isPair && small >= 11, small == 13 && big == 14:
		return CategoryPremium
	case isPair && small == 10, big == 14 && (small == 12 || small == 11):
		return CategoryStrong
	case isPair && small >= 7, suited && small >= 10:
		return CategoryMedium
	case isPair, suited && big-small <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}
