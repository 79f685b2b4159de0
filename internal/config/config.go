// Package config loads the HCL server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/lox/holdem-engine/poker"
)

// Config is the complete server configuration.
type Config struct {
	Server   *ServerSettings `hcl:"server,block"`
	Games    []GameConfig    `hcl:"game,block"`
	Profiles []ProfileConfig `hcl:"profile,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address           string `hcl:"address,optional"`
	Port              int    `hcl:"port,optional"`
	LogLevel          string `hcl:"log_level,optional"`
	DecisionTimeoutMs int    `hcl:"decision_timeout_ms,optional"`
	HandHistoryDir    string `hcl:"hand_history_dir,optional"`

	// Seat tokens, as a player -> token table or checked by an external
	// endpoint. auth_url wins when both are set.
	Tokens     map[string]string `hcl:"tokens,optional"`
	AuthURL    string            `hcl:"auth_url,optional"`
	AuthSecret string            `hcl:"auth_secret,optional"`
}

// GameConfig describes a game created at startup.
type GameConfig struct {
	ID         string   `hcl:"id,label"`
	SmallBlind int      `hcl:"small_blind"`
	BigBlind   int      `hcl:"big_blind"`
	StartChips int      `hcl:"start_chips,optional"`
	Players    []string `hcl:"players"`
	Seed       int64    `hcl:"seed,optional"`
	Profile    string   `hcl:"profile,optional"`
	Bots       []string `hcl:"bots,optional"` // players driven by the options menu
}

// ProfileConfig is a named play style for the bounded options generator.
// Omitted thresholds take the balanced profile's value.
type ProfileConfig struct {
	Name                string   `hcl:"name,label"`
	Aggression          *float64 `hcl:"aggression,optional"`
	Looseness           *float64 `hcl:"looseness,optional"`
	BluffFrequency      *float64 `hcl:"bluff_frequency,optional"`
	FoldEquity          *float64 `hcl:"fold_equity,optional"`
	SmallBet            *float64 `hcl:"small_bet,optional"`
	MediumBet           *float64 `hcl:"medium_bet,optional"`
	LargeBet            *float64 `hcl:"large_bet,optional"`
	SituationalGuidance bool     `hcl:"situational_guidance,optional"`
}

const (
	defaultAddress         = "localhost"
	defaultPort            = 8080
	defaultLogLevel        = "info"
	defaultDecisionTimeout = 5000
	defaultStartChips      = 1000
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Default returns the configuration used when no file exists: a single
// heads-up game.
func Default() *Config {
	cfg := &Config{
		Games: []GameConfig{{
			ID:         "default",
			SmallBlind: 5,
			BigBlind:   10,
			Players:    []string{"alice", "bob"},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL config file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	if c.Server.DecisionTimeoutMs == 0 {
		c.Server.DecisionTimeoutMs = defaultDecisionTimeout
	}
	for i := range c.Games {
		if c.Games[i].StartChips == 0 {
			c.Games[i].StartChips = defaultStartChips
		}
	}
}

// Validate checks the games reference known profiles and have playable
// blinds and seat counts.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for _, g := range c.Games {
		if seen[g.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate game %q", ErrInvalid, g.ID))
		}
		seen[g.ID] = true
		switch {
		case g.SmallBlind <= 0 || g.BigBlind < g.SmallBlind:
			errs = append(errs, fmt.Errorf("%w: game %q blinds %d/%d", ErrInvalid, g.ID, g.SmallBlind, g.BigBlind))
		case g.StartChips <= 0:
			errs = append(errs, fmt.Errorf("%w: game %q start_chips %d", ErrInvalid, g.ID, g.StartChips))
		}
		if n := len(g.Players); n < 2 || n > poker.MaxSeats {
			errs = append(errs, fmt.Errorf("%w: game %q has %d players, want 2..%d", ErrInvalid, g.ID, n, poker.MaxSeats))
		}
		for _, bot := range g.Bots {
			if !slices.Contains(g.Players, bot) {
				errs = append(errs, fmt.Errorf("%w: game %q bot %q is not a player", ErrInvalid, g.ID, bot))
			}
		}
		if _, err := c.Profile(g.Profile); err != nil {
			errs = append(errs, fmt.Errorf("game %q: %w", g.ID, err))
		}
	}
	return errors.Join(errs...)
}

// DecisionTimeout is the time a seat gets before the fallback action.
func (s ServerSettings) DecisionTimeout() time.Duration {
	return time.Duration(s.DecisionTimeoutMs) * time.Millisecond
}

// ListenAddr returns host:port for the HTTP server.
func (s ServerSettings) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Profile resolves a profile by name: configured profiles first, then the
// built-in ones. The result is clamped into valid ranges.
func (c *Config) Profile(name string) (options.Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p.toProfile(), nil
		}
	}
	if p, ok := options.ProfileByName(name); ok {
		return p, nil
	}
	return options.Profile{}, fmt.Errorf("%w: unknown profile %q", ErrInvalid, name)
}

// Settings returns the generator settings for a profile name. Built-in
// profiles run without situational guidance.
func (c *Config) Settings(name string) options.Settings {
	for _, p := range c.Profiles {
		if p.Name == name {
			return options.Settings{SituationalGuidance: p.SituationalGuidance}
		}
	}
	return options.Settings{}
}

// Resolve returns the profile and generator settings for a profile name.
func (c *Config) Resolve(name string) (options.Profile, options.Settings, error) {
	p, err := c.Profile(name)
	if err != nil {
		return options.Profile{}, options.Settings{}, err
	}
	return p, c.Settings(name), nil
}

func (p ProfileConfig) toProfile() options.Profile {
	profile := options.Balanced
	profile.Name, profile.StyleTag = p.Name, ""
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{p.Aggression, &profile.Aggression},
		{p.Looseness, &profile.Looseness},
		{p.BluffFrequency, &profile.BluffFrequency},
		{p.FoldEquity, &profile.FoldEquity},
		{p.SmallBet, &profile.SmallBet},
		{p.MediumBet, &profile.MediumBet},
		{p.LargeBet, &profile.LargeBet},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return options.NewProfile(profile)
}
