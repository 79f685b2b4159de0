package poker

import (
	"fmt"
	"math/bits"
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the rank of the best five-card hand: a category plus the
// ranks that break ties within it, most significant first. Unused kicker
// slots are zero and are identical for every hand of the same category.
//
// Kicker layout per category:
//
//	StraightFlush, Straight: [high]
//	FourOfAKind:             [quad, kicker]
//	FullHouse:               [trips, pair]
//	Flush, HighCard:         [five ranks descending]
//	ThreeOfAKind:            [trips, k1, k2]
//	TwoPair:                 [high pair, low pair, kicker]
//	Pair:                    [pair, k1, k2, k3]
type HandValue struct {
	Category HandType
	Kickers  [5]uint8
}

// Score packs the value into an integer where larger is stronger. Two
// values are tied exactly when their scores are equal.
func (v HandValue) Score() uint32 {
	s := uint32(v.Category) << 20
	for i, k := range v.Kickers {
		s |= uint32(k) << (16 - 4*i)
	}
	return s
}

// Compare returns 1 if v beats o, -1 if o beats v and 0 for a split.
func (v HandValue) Compare(o HandValue) int {
	a, b := v.Score(), o.Score()
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func (v HandValue) String() string {
	k := v.Kickers
	switch v.Category {
	case StraightFlush:
		if k[0] == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", rankName(k[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", rankPlural(k[0]))
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", rankPlural(k[0]), rankPlural(k[1]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", rankName(k[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", rankName(k[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", rankPlural(k[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", rankPlural(k[0]), rankPlural(k[1]))
	case Pair:
		return fmt.Sprintf("Pair of %s", rankPlural(k[0]))
	default:
		return fmt.Sprintf("High Card, %s", rankName(k[0]))
	}
}

var rankNames = [13]string{"deuce", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "jack", "queen", "king", "ace"}

func rankName(r uint8) string { return rankNames[r%13] }

func rankPlural(r uint8) string {
	if r == Six {
		return "sixes"
	}
	return rankNames[r%13] + "s"
}

// Evaluate ranks the best five-card hand contained in h, which must hold
// between five and seven cards.
func Evaluate(h Hand) HandValue {
	if n := h.CountCards(); n < 5 || n > 7 {
		panic(fmt.Sprintf("poker: cannot evaluate %d cards", n))
	}
	return evaluateUnchecked(h)
}

// EvaluateCards is Evaluate for a card slice; duplicate cards are rejected.
func EvaluateCards(cards ...Card) HandValue {
	h := NewHand(cards...)
	if h.CountCards() != len(cards) {
		panic("poker: duplicate cards in evaluation")
	}
	return Evaluate(h)
}

func evaluateUnchecked(h Hand) HandValue {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		mask := h.GetSuitMask(suit)
		suitMasks[suit] = mask
		rankMask |= mask
	}
	return rankFromMasks(suitMasks, rankMask)
}

// rankFromMasks relies on the fact that with at most seven cards a flush
// excludes quads and full houses, so the flush check can come first.
func rankFromMasks(suitMasks [4]uint16, rankMask uint16) HandValue {
	for _, suitMask := range suitMasks {
		if bits.OnesCount16(suitMask) < 5 {
			continue
		}
		if high, ok := straightHigh(suitMask); ok {
			return HandValue{Category: StraightFlush, Kickers: [5]uint8{high}}
		}
		return HandValue{Category: Flush, Kickers: topRanks(suitMask, 5)}
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quad := highestRank(quadsMask); quad >= 0 {
		k := topRanks(rankMask&^(1<<quad), 1)
		return HandValue{Category: FourOfAKind, Kickers: [5]uint8{uint8(quad), k[0]}}
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		// A second set of trips plays as the pair.
		if pair := highestRank(pairsMask | (tripsMask &^ (1 << trip))); pair >= 0 {
			return HandValue{Category: FullHouse, Kickers: [5]uint8{uint8(trip), uint8(pair)}}
		}
	}

	if high, ok := straightHigh(rankMask); ok {
		return HandValue{Category: Straight, Kickers: [5]uint8{high}}
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		k := topRanks(rankMask&^(1<<trip), 2)
		return HandValue{Category: ThreeOfAKind, Kickers: [5]uint8{uint8(trip), k[0], k[1]}}
	}

	if high := highestRank(pairsMask); high >= 0 {
		if low := highestRank(pairsMask &^ (1 << high)); low >= 0 {
			k := topRanks(rankMask&^(1<<high|1<<low), 1)
			return HandValue{Category: TwoPair, Kickers: [5]uint8{uint8(high), uint8(low), k[0]}}
		}
		k := topRanks(rankMask&^(1<<high), 3)
		return HandValue{Category: Pair, Kickers: [5]uint8{uint8(high), k[0], k[1], k[2]}}
	}

	return HandValue{Category: HighCard, Kickers: topRanks(rankMask, 5)}
}

// highestRank returns the highest rank present in the bitmask (or -1 when empty).
func highestRank(mask uint16) int {
	if mask == 0 {
		return -1
	}
	return bits.Len16(mask) - 1
}

// topRanks returns up to n highest ranks of mask in descending order.
func topRanks(mask uint16, n int) [5]uint8 {
	var out [5]uint8
	for i := 0; i < n && mask != 0; i++ {
		top := uint8(bits.Len16(mask) - 1)
		out[i] = top
		mask &^= 1 << top
	}
	return out
}

// straightHigh returns the high card of the best straight in mask. The
// wheel (A-2-3-4-5) is five high; there is no wrap past the ace.
func straightHigh(mask uint16) (uint8, bool) {
	mask &= 0x1FFF
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return uint8(bits.Len16(seq)-1) + 4, true
	}
	const wheelMask = 0x100F // ace + 2-3-4-5
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}
