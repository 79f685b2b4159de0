// Package statistics accumulates per-player results in big blinds.
package statistics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
)

// HandResult is one player's outcome of one hand.
type HandResult struct {
	NetBB          float64 // net big blinds won or lost
	WentToShowdown bool
	PotBB          float64 // total pot in big blinds
}

// Statistics tracks the results of a single player.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64 // sum of squares for the variance

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // wins and losses at showdown
	NonShowdownBB   float64 // wins and losses without showdown

	MaxPotBB float64
}

// Add incorporates a hand result.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB

	if r.WentToShowdown {
		s.ShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.NonShowdownWins++
		}
	}
	s.MaxPotBB = max(s.MaxPotBB, r.PotBB)
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BBPer100 returns the win rate in big blinds per 100 hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance of per-hand results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of per-hand results.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval of the mean in
// big blinds per hand.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Validate checks that the showdown split accounts for every result.
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total %.6f, showdown %.6f, non-showdown %.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins (%d) exceed hands (%d)", wins, s.Hands)
	}
	return nil
}

// Tracker collects statistics for every player across games. It is safe
// for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	players map[string]*Statistics
	hands   int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*Statistics)}
}

// RecordHand adds the result of a finished hand for every seated player.
func (t *Tracker) RecordHand(s game.GameState) error {
	if s.Result == nil {
		return fmt.Errorf("hand %d has no result", s.HandNumber)
	}
	bb := float64(s.BigBlind)
	pot := 0
	for _, award := range s.Result.Pots {
		if !award.Uncalled {
			pot += award.Amount
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.hands++
	for _, p := range s.Players {
		net := s.Result.Winnings[p.Name] + s.Result.Returned[p.Name] - p.TotalBet
		stats, ok := t.players[p.Name]
		if !ok {
			stats = &Statistics{}
			t.players[p.Name] = stats
		}
		stats.Add(HandResult{
			NetBB:          float64(net) / bb,
			WentToShowdown: !s.Result.Uncontested && !p.Folded,
			PotBB:          float64(pot) / bb,
		})
	}
	return nil
}

// Hands returns the number of hands recorded.
func (t *Tracker) Hands() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands
}

// PlayerSummary is a copy of one player's statistics.
type PlayerSummary struct {
	Name string
	Statistics
}

// Summaries returns every player's statistics ordered by win rate, best
// first.
func (t *Tracker) Summaries() []PlayerSummary {
	t.mu.Lock()
	out := make([]PlayerSummary, 0, len(t.players))
	for name, stats := range t.players {
		out = append(out, PlayerSummary{Name: name, Statistics: *stats})
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b PlayerSummary) int {
		if c := cmp.Compare(b.BBPer100(), a.BBPer100()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
