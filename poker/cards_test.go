package poker

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank())
	assert.Equal(t, Spades, aceSpades.Suit())
	assert.Equal(t, "As", aceSpades.String())
	assert.Equal(t, "2c", NewCard(Two, Clubs).String())
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		{name: "ace of spades", input: "As", want: NewCard(Ace, Spades)},
		{name: "two of hearts", input: "2h", want: NewCard(Two, Hearts)},
		{name: "ten with T", input: "Tc", want: NewCard(Ten, Clubs)},
		{name: "ten with 10", input: "10h", want: NewCard(Ten, Hearts)},
		{name: "lower case rank", input: "kd", want: NewCard(King, Diamonds)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: "Asd", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, card)
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("Kh, Qh Jh10h")
	require.NoError(t, err)
	assert.Equal(t, []Card{NewCard(King, Hearts), NewCard(Queen, Hearts), NewCard(Jack, Hearts), NewCard(Ten, Hearts)}, cards)

	_, err = ParseCards("KhQ")
	require.Error(t, err)
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			card := NewCard(rank, suit)
			require.True(t, card.Valid())
			str := card.String()
			require.False(t, seen[str], "duplicate card %s", str)
			seen[str] = true

			parsed, err := ParseCard(str)
			require.NoError(t, err)
			require.Equal(t, card, parsed)
		}
	}
	assert.Len(t, seen, 52)
}

func TestHandOperations(t *testing.T) {
	t.Parallel()
	as, kh, qd := NewCard(Ace, Spades), NewCard(King, Hearts), NewCard(Queen, Diamonds)

	hand := NewHand(as, kh)
	assert.True(t, hand.HasCard(as))
	assert.True(t, hand.HasCard(kh))
	assert.False(t, hand.HasCard(qd))
	assert.Equal(t, 2, hand.CountCards())

	hand.AddCard(qd)
	assert.Equal(t, 3, hand.CountCards())
	assert.Len(t, hand.Cards(), 3)
	assert.Equal(t, 1, bits.OnesCount64(uint64(as)))
}

func TestGetSuitMask(t *testing.T) {
	t.Parallel()
	var hand Hand
	for rank := uint8(0); rank < 13; rank++ {
		hand.AddCard(NewCard(rank, Spades))
	}
	assert.Equal(t, uint16(0x1FFF), hand.GetSuitMask(Spades))
	assert.Equal(t, uint16(0), hand.GetSuitMask(Hearts))
}

func BenchmarkParseCard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseCard("As")
	}
}
