// Package equity estimates how often a hand wins at showdown against one or
// more opponents.
//
// With one opponent and at least four board cards the result is computed
// exactly by enumerating every opponent holding and runout. Otherwise it is a
// Monte Carlo estimate: samples are split across a fixed number of workers,
// each with its own PCG stream derived from the request seed, so the same
// request always produces the same numbers regardless of scheduling. The
// sampled figure is a heuristic, not an exact probability; Result reports
// which method was used.
package equity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSamples is used when a request does not set Samples.
	DefaultSamples = 2000
	// DefaultWorkers is fixed rather than tied to CPU count so results do
	// not depend on the machine.
	DefaultWorkers = 4

	rangeAttempts = 64
)

// Request describes an equity calculation.
type Request struct {
	Hole      []poker.Card
	Board     []poker.Card
	Opponents int   // defaults to 1
	Samples   int   // Monte Carlo samples; defaults to DefaultSamples
	Seed      int64 // seed for sampling
	Range     Range // opponent range; defaults to RandomRange
	Workers   int   // defaults to DefaultWorkers
}

// Result holds the outcome of a calculation. Won and Split are weighted
// shares; Split counts each tied showdown as 1/(number of tied hands).
type Result struct {
	Samples int
	Wins    int
	Ties    int
	Losses  int
	Exact   bool

	Won   float64
	Split float64
	Total float64
}

// Equity returns the expected share of the pot in [0, 1].
func (r Result) Equity() float64 {
	if r.Total == 0 {
		return 0
	}
	return (r.Won + r.Split) / r.Total
}

// ConfidenceInterval returns the 95% interval for a sampled result. Exact
// results have zero width.
func (r Result) ConfidenceInterval() (lower, upper float64) {
	eq := r.Equity()
	if r.Exact || r.Samples == 0 {
		return eq, eq
	}
	margin := 1.96 * math.Sqrt(eq*(1-eq)/float64(r.Samples))
	return math.Max(0, eq-margin), math.Min(1, eq+margin)
}

func (r *Result) add(o Result) {
	r.Samples += o.Samples
	r.Wins += o.Wins
	r.Ties += o.Ties
	r.Losses += o.Losses
	r.Won += o.Won
	r.Split += o.Split
	r.Total += o.Total
}

func (r *Result) record(outcome int, tied int, weight float64) {
	r.Samples++
	r.Total += weight
	switch {
	case outcome > 0:
		r.Wins++
		r.Won += weight
	case outcome == 0:
		r.Ties++
		r.Split += weight / float64(tied+1)
	default:
		r.Losses++
	}
}

// ErrInvalidRequest wraps all request validation failures.
var ErrInvalidRequest = errors.New("equity: invalid request")

// Calculate runs the equity calculation described by req.
func Calculate(ctx context.Context, req Request) (Result, error) {
	if err := normalize(&req); err != nil {
		return Result{}, err
	}

	var used poker.Hand
	for _, c := range append(append([]poker.Card{}, req.Hole...), req.Board...) {
		used.AddCard(c)
	}
	avail := make([]poker.Card, 0, 52-used.CountCards())
	for idx := 0; idx < 52; idx++ {
		c := poker.Card(1) << uint(idx)
		if !used.HasCard(c) {
			avail = append(avail, c)
		}
	}

	if req.Opponents == 1 && len(req.Board) >= 4 {
		return enumerate(ctx, req, avail)
	}
	return sample(ctx, req, avail)
}

// Estimate is a convenience wrapper returning only the equity figure.
func Estimate(ctx context.Context, hole, board []poker.Card, opponents int, seed int64) (float64, error) {
	res, err := Calculate(ctx, Request{Hole: hole, Board: board, Opponents: opponents, Seed: seed})
	if err != nil {
		return 0, err
	}
	return res.Equity(), nil
}

func normalize(req *Request) error {
	if len(req.Hole) != 2 {
		return fmt.Errorf("%w: need 2 hole cards, got %d", ErrInvalidRequest, len(req.Hole))
	}
	switch len(req.Board) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("%w: board must have 0, 3, 4 or 5 cards, got %d", ErrInvalidRequest, len(req.Board))
	}
	all := append(append([]poker.Card{}, req.Hole...), req.Board...)
	if n := poker.NewHand(all...).CountCards(); n != len(all) {
		return fmt.Errorf("%w: duplicate or invalid cards", ErrInvalidRequest)
	}
	if req.Opponents == 0 {
		req.Opponents = 1
	}
	if req.Opponents < 1 || req.Opponents > poker.MaxSeats-1 {
		return fmt.Errorf("%w: opponents must be between 1 and %d", ErrInvalidRequest, poker.MaxSeats-1)
	}
	if req.Samples <= 0 {
		req.Samples = DefaultSamples
	}
	if req.Workers <= 0 {
		req.Workers = DefaultWorkers
	}
	if req.Range == nil {
		req.Range = RandomRange{}
	}
	return nil
}

func sample(ctx context.Context, req Request, avail []poker.Card) (Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]Result, req.Workers)

	per, rem := req.Samples/req.Workers, req.Samples%req.Workers
	for w := 0; w < req.Workers; w++ {
		n := per
		if w < rem {
			n++
		}
		rng := randutil.New(randutil.Derive(req.Seed, w))
		g.Go(func() error {
			res, err := runWorker(ctx, req, avail, n, rng)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total Result
	for _, r := range results {
		total.add(r)
	}
	return total, nil
}

func runWorker(ctx context.Context, req Request, avail []poker.Card, samples int, rng *rand.Rand) (Result, error) {
	var res Result
	deck := make([]poker.Card, len(avail))
	hero := poker.NewHand(append(append([]poker.Card{}, req.Hole...), req.Board...)...)
	opps := make([]poker.Hand, req.Opponents)
	need := 5 - len(req.Board)

	for i := 0; i < samples; i++ {
		if i&255 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		copy(deck, avail)
		pos := 0
		draw := func() poker.Card {
			j := pos + rng.IntN(len(deck)-pos)
			deck[pos], deck[j] = deck[j], deck[pos]
			pos++
			return deck[pos-1]
		}

		for o := range opps {
			var a, b poker.Card
			for attempt := 0; ; attempt++ {
				a, b = draw(), draw()
				if attempt >= rangeAttempts || rng.Float64() < req.Range.Weight(a, b) {
					break
				}
				// Rejected cards stay in the undealt region.
				pos -= 2
			}
			opps[o] = poker.NewHand(a, b)
		}

		var runout poker.Hand
		for k := 0; k < need; k++ {
			runout.AddCard(draw())
		}

		outcome, tied := showdown(hero|runout, opps, runout|poker.NewHand(req.Board...))
		res.record(outcome, tied, 1)
	}
	return res, nil
}

// showdown compares hero against every opponent hole pair completed with
// board. It returns 1 for an outright win, 0 for a split (with the number of
// tied opponents) and -1 for a loss.
func showdown(hero poker.Hand, opps []poker.Hand, board poker.Hand) (int, int) {
	heroScore := poker.Evaluate(hero).Score()
	tied := 0
	for _, opp := range opps {
		s := poker.Evaluate(opp | board).Score()
		switch {
		case s > heroScore:
			return -1, 0
		case s == heroScore:
			tied++
		}
	}
	if tied > 0 {
		return 0, tied
	}
	return 1, 0
}

func enumerate(ctx context.Context, req Request, avail []poker.Card) (Result, error) {
	res := Result{Exact: true}
	board := poker.NewHand(req.Board...)
	holes := poker.NewHand(req.Hole...)

	for i := 0; i < len(avail); i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for j := i + 1; j < len(avail); j++ {
			a, b := avail[i], avail[j]
			w := req.Range.Weight(a, b)
			if w == 0 {
				continue
			}
			opp := []poker.Hand{poker.NewHand(a, b)}
			if len(req.Board) == 5 {
				outcome, tied := showdown(holes|board, opp, board)
				res.record(outcome, tied, w)
				continue
			}
			for _, river := range avail {
				if river == a || river == b {
					continue
				}
				full := board | poker.Hand(river)
				outcome, tied := showdown(holes|full, opp, full)
				res.record(outcome, tied, w)
			}
		}
	}
	return res, nil
}
