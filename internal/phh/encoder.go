package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a single PHH hand.
func Decode(data []byte) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.Decode(string(data), &hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	return &hand, nil
}
