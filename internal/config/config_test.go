package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/holdem-engine/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server {
  port                = 9090
  decision_timeout_ms = 250
  hand_history_dir    = "hands"
  tokens = {
    alice = "a-token"
  }
}

profile "maniac" {
  aggression           = 1.4
  bluff_frequency      = 0.6
  large_bet            = 2.5
  situational_guidance = true
}

game "heads-up" {
  small_blind = 5
  big_blind   = 10
  players     = ["alice", "bob"]
  seed        = 42
  profile     = "maniac"
  bots        = ["bob"]
}

game "six-max" {
  small_blind = 1
  big_blind   = 2
  start_chips = 200
  players     = ["p1", "p2", "p3", "p4", "p5", "p6"]
  profile     = "tight"
}
`

func TestParse(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sample), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "localhost:9090", cfg.Server.ListenAddr())
	assert.Equal(t, 250*time.Millisecond, cfg.Server.DecisionTimeout())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "hands", cfg.Server.HandHistoryDir)
	assert.Equal(t, map[string]string{"alice": "a-token"}, cfg.Server.Tokens)

	require.Len(t, cfg.Games, 2)
	assert.Equal(t, "heads-up", cfg.Games[0].ID)
	assert.Equal(t, 1000, cfg.Games[0].StartChips)
	assert.Equal(t, int64(42), cfg.Games[0].Seed)
	assert.Equal(t, []string{"bob"}, cfg.Games[0].Bots)
	assert.Equal(t, 200, cfg.Games[1].StartChips)

	maniac, err := cfg.Profile("maniac")
	require.NoError(t, err)
	assert.Equal(t, 1.0, maniac.Aggression, "clamped")
	assert.Equal(t, 0.6, maniac.BluffFrequency)
	assert.Equal(t, options.Balanced.Looseness, maniac.Looseness, "omitted values come from balanced")
	assert.Equal(t, 2.5, maniac.LargeBet)
	assert.Equal(t, "maniac", maniac.StyleTag)
	assert.True(t, cfg.Settings("maniac").SituationalGuidance)

	tight, err := cfg.Profile("tight")
	require.NoError(t, err)
	assert.Equal(t, options.Tight, tight)
	assert.False(t, cfg.Settings("tight").SituationalGuidance)

	_, settings, err := cfg.Resolve("maniac")
	require.NoError(t, err)
	assert.True(t, settings.SituationalGuidance)

	_, _, err = cfg.Resolve("nobody")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `game "x" {`, "parse"},
		{"missing blinds", `game "x" { players = ["a", "b"] }`, "decode"},
		{"one player", `game "x" {
  small_blind = 1
  big_blind = 2
  players = ["a"]
}`, "1 players"},
		{"bad blinds", `game "x" {
  small_blind = 5
  big_blind = 2
  players = ["a", "b"]
}`, "blinds 5/2"},
		{"unknown bot", `game "x" {
  small_blind = 1
  big_blind = 2
  players = ["a", "b"]
  bots = ["c"]
}`, `bot "c" is not a player`},
		{"unknown profile", `game "x" {
  small_blind = 1
  big_blind = 2
  players = ["a", "b"]
  profile = "nit"
}`, `unknown profile "nit"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.Len(t, cfg.Games, 1)
	assert.NoError(t, cfg.Validate())

	path := filepath.Join(dir, "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Games, 2)
}

func TestExampleConfig(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join("..", "..", "holdem.hcl"))
	require.NoError(t, err)
	require.Len(t, cfg.Games, 2)
	assert.Equal(t, []string{"bob"}, cfg.Games[0].Bots)

	maniac, err := cfg.Profile("maniac")
	require.NoError(t, err)
	assert.Equal(t, 0.95, maniac.Aggression)
}
