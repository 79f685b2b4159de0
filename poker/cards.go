// Package poker provides the card primitives used by the engine: bit-packed
// cards and hands, a shuffled deck, and a 5-to-7 card hand evaluator.
//
// A Card is a single bit in a 64-bit mask at position suit*13+rank, so a Hand
// is simply the union of its cards. Rank 0 is the deuce and rank 12 the ace.
package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank constants (0-12).
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit constants (0-3).
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card is a single playing card encoded as one bit.
type Card uint64

// NewCard returns the card with the given rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint(suit)*13 + uint(rank))
}

func (c Card) index() int {
	return bits.TrailingZeros64(uint64(c))
}

// Rank returns the rank of the card (0=deuce, 12=ace).
func (c Card) Rank() uint8 {
	return uint8(c.index() % 13)
}

// Suit returns the suit of the card.
func (c Card) Suit() uint8 {
	return uint8(c.index() / 13)
}

// Valid reports whether c encodes exactly one of the 52 cards.
func (c Card) Valid() bool {
	return bits.OnesCount64(uint64(c)) == 1 && c.index() < 52
}

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card %#x", uint64(c))
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses notation such as "As", "Td" or "10h".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}
	rank := strings.IndexByte(rankChars, upper(s[0]))
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank in card %q", s)
	}
	suit := strings.IndexByte(suitChars, lower(s[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit in card %q", s)
	}
	return NewCard(uint8(rank), uint8(suit)), nil
}

// ParseCards parses a list of cards separated by spaces or commas, or
// concatenated ("AsKd" or "As Kd").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	var cards []Card
	for _, f := range fields {
		for len(f) > 0 {
			n := 2
			if strings.HasPrefix(f, "10") {
				n = 3
			}
			if len(f) < n {
				return nil, fmt.Errorf("incomplete card %q", f)
			}
			c, err := ParseCard(f[:n])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
			f = f[n:]
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Hand is a set of cards.
type Hand uint64

// NewHand builds a hand from cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds c to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard reports whether c is in the hand.
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the 13-bit rank mask of cards in suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16(uint64(h)>>(uint(suit)*13)) & 0x1FFF
}

// Cards returns the cards in ascending bit order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for m := uint64(h); m != 0; m &= m - 1 {
		cards = append(cards, Card(m&-m))
	}
	return cards
}

func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// FormatCards renders cards in the given order, space separated.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
