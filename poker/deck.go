package poker

import (
	"fmt"
	"math/rand/v2"
)

// MaxSeats is the largest table the deck can serve: 2 hole cards per seat
// plus a 5-card board must fit in 52 cards.
const MaxSeats = 23

// Deck represents a standard 52-card deck.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck shuffled with rng. The RNG is required so that
// shuffles are reproducible from a seed (see randutil.New).
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("poker: NewDeck requires an rng")
	}
	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

// NewOrderedDeck returns an unshuffled deck whose first cards are top, in
// order, followed by the remaining cards in canonical order. Used to stack
// boards and hole cards in tests.
func NewOrderedDeck(top ...Card) *Deck {
	d := &Deck{}
	var used Hand
	i := 0
	for _, c := range top {
		if !c.Valid() || used.HasCard(c) {
			panic(fmt.Sprintf("poker: invalid or duplicate stacked card %v", c))
		}
		used.AddCard(c)
		d.cards[i] = c
		i++
	}
	for idx := 0; idx < 52; idx++ {
		c := Card(1) << uint(idx)
		if !used.HasCard(c) {
			d.cards[i] = c
			i++
		}
	}
	return d
}

func (d *Deck) fill() {
	i := 0
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.next = 0
}

// Shuffle performs a Fisher-Yates shuffle of the full deck and resets the
// draw position.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the next n cards. Running out of cards cannot
// happen within MaxSeats, so exhaustion panics.
func (d *Deck) Draw(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		panic(fmt.Sprintf("poker: deck exhausted: want %d cards, %d remain", n, d.Remaining()))
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Clone returns an independent copy of the deck at its current position.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
