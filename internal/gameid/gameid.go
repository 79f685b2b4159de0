// Package gameid generates sortable game identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of every game ID.
const Length = 26

// Generate returns a new game ID.
func Generate() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// GenerateFrom returns a game ID whose random bits are read from r.
func GenerateFrom(r io.Reader) (string, error) {
	u, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return Encode(u), nil
}

// Encode renders u as 130 bits (two zero pad bits then the UUID), five
// bits per character.
func Encode(u uuid.UUID) string {
	var out [Length]byte
	for i := range out {
		var v byte
		for b := range 5 {
			bit := i*5 + b - 2
			v <<= 1
			if bit >= 0 && u[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Parse decodes a game ID back into its UUID.
func Parse(id string) (uuid.UUID, error) {
	var u uuid.UUID
	if len(id) != Length {
		return u, fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return u, fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := range Length {
		v := strings.IndexByte(alphabet, id[i])
		if v < 0 {
			return u, fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
		for b := range 5 {
			bit := i*5 + b - 2
			if bit >= 0 && v&(0x10>>b) != 0 {
				u[bit/8] |= 0x80 >> (bit % 8)
			}
		}
	}
	return u, nil
}

// Validate checks that id is a well formed game ID.
func Validate(id string) error {
	_, err := Parse(id)
	return err
}
