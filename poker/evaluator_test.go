package poker

import (
	"testing"

	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, s string) HandValue {
	t.Helper()
	return EvaluateCards(MustParseCards(s)...)
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		category HandType
		kickers  [5]uint8
	}{
		{"royal flush", "Ah Kh Qh Jh Th 2c 3d", StraightFlush, [5]uint8{Ace}},
		{"steel wheel", "Ad 2d 3d 4d 5d Kc Ks", StraightFlush, [5]uint8{Five}},
		{"quads with kicker", "9s 9h 9d 9c Ah 2c 3d", FourOfAKind, [5]uint8{Nine, Ace}},
		{"full house from two trips", "Ks Kh Kd 7c 7h 7d 2s", FullHouse, [5]uint8{King, Seven}},
		{"flush uses top five", "Ah 9h 7h 5h 3h 2h Kc", Flush, [5]uint8{Ace, Nine, Seven, Five, Three}},
		{"broadway straight", "As Kd Qc Jh Ts 2c 2d", Straight, [5]uint8{Ace}},
		{"six high straight beats wheel", "As 2d 3c 4h 5s 6c Kd", Straight, [5]uint8{Six}},
		{"wheel", "As 2d 3c 4h 5s 9c Kd", Straight, [5]uint8{Five}},
		{"trips", "Qs Qh Qd 9c 7h 4d 2s", ThreeOfAKind, [5]uint8{Queen, Nine, Seven}},
		{"two pair with best kicker", "Ks Kh 7c 7d 3s 3h Ah", TwoPair, [5]uint8{King, Seven, Ace}},
		{"pair", "Js Jh Ad 9c 6h 4d 2s", Pair, [5]uint8{Jack, Ace, Nine, Six}},
		{"high card", "As Qh 9d 7c 5h 3d 2s", HighCard, [5]uint8{Ace, Queen, Nine, Seven, Five}},
		{"five card hand", "2s 3h 4d 5c 7h", HighCard, [5]uint8{Seven, Five, Four, Three, Two}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := eval(t, tc.cards)
			assert.Equal(t, tc.category, v.Category, v.String())
			assert.Equal(t, tc.kickers, v.Kickers)
		})
	}
}

func TestNoWrapAroundStraight(t *testing.T) {
	t.Parallel()
	v := eval(t, "Kh Ad 2c 3s 4h 9d 8c")
	assert.Equal(t, HighCard, v.Category)
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	// One fixture per category, strongest first, sharing no rule with its neighbour.
	ordered := []string{
		"9h Th Jh Qh Kh 2c 3d", // straight flush
		"4s 4h 4d 4c Ah 2c 3d", // quads
		"3s 3h 3d 2c 2h 9d 8s", // full house
		"2h 5h 7h 9h Jh Ac Kd", // flush
		"2s 3h 4d 5c 6h Jd Qs", // straight
		"Ac Ad As 2c 7h 9d Js", // trips
		"Ac Ad Ks Kc 7h 9d 2s", // two pair
		"Ac Ad Ks Qc 7h 9d 2s", // pair
		"Ac Jd Ks Qc 7h 9d 2s", // high card
	}
	for i := 0; i+1 < len(ordered); i++ {
		hi, lo := eval(t, ordered[i]), eval(t, ordered[i+1])
		assert.Equal(t, 1, hi.Compare(lo), "%s should beat %s", hi, lo)
		assert.Equal(t, -1, lo.Compare(hi))
		assert.Equal(t, HandType(len(ordered)-1-i), hi.Category)
	}
}

func TestBoardFixtureRanking(t *testing.T) {
	t.Parallel()
	board := MustParseCards("Kh Qh Jh 2c 3d")

	suited := EvaluateCards(append(MustParseCards("Ah 10h"), board...)...)
	kings := EvaluateCards(append(MustParseCards("Ks Kd"), board...)...)

	assert.GreaterOrEqual(t, suited.Category, Flush)
	assert.Equal(t, StraightFlush, suited.Category)
	assert.Equal(t, ThreeOfAKind, kings.Category)
	assert.Equal(t, 1, suited.Compare(kings))
}

func TestKickerTieBreaks(t *testing.T) {
	t.Parallel()
	board := "Ah Kd 8c 5s 2h"

	tests := []struct {
		name   string
		a, b   string
		expect int
	}{
		{"higher kicker wins", "Ac Qd", "As Jd", 1},
		{"same wheel splits", "3c 4c", "3d 4d", 0},
		{"second pair decides", "Kc 5c", "Ks 2d", 1},
		{"unpaired hole cards split", "Jc 9d", "Js 9h", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := eval(t, tc.a+" "+board)
			b := eval(t, tc.b+" "+board)
			assert.Equal(t, tc.expect, a.Compare(b), "%s vs %s", a, b)
		})
	}
}

func TestEvaluatePanicsOnBadCardCount(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Evaluate(NewHand(MustParseCards("As Kd Qc Jh")...)) })
	assert.Panics(t, func() { EvaluateCards(MustParseCards("As As Kd Qc Jh")...) })
}

func TestHandValueString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Royal Flush", eval(t, "Ah Kh Qh Jh Th").String())
	assert.Equal(t, "Full House, kings full of sevens", eval(t, "Ks Kh Kd 7c 7h").String())
	assert.Equal(t, "Pair of sixes", eval(t, "6s 6h Kd 7c 2h").String())
}

// TestSevenCardMatchesBestFive checks the mask evaluator against brute force
// over all 21 five-card subsets on random deals.
func TestSevenCardMatchesBestFive(t *testing.T) {
	t.Parallel()
	rng := randutil.New(2024)
	for i := 0; i < 500; i++ {
		cards := NewDeck(rng).Draw(7)
		best := HandValue{}
		for skipA := 0; skipA < 7; skipA++ {
			for skipB := skipA + 1; skipB < 7; skipB++ {
				var five []Card
				for j, c := range cards {
					if j != skipA && j != skipB {
						five = append(five, c)
					}
				}
				if v := EvaluateCards(five...); v.Compare(best) > 0 {
					best = v
				}
			}
		}
		got := EvaluateCards(cards...)
		require.Equal(t, 0, got.Compare(best), "%s: got %s want %s", FormatCards(cards), got, best)
	}
}

func BenchmarkEvaluate7(b *testing.B) {
	hand := NewHand(MustParseCards("Ah Kd 8c 5s 2h Qc Jd")...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(hand)
	}
}
