package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/lox/holdem-engine/internal/equity"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
)

// OddsCmd estimates the equity of a hand against random opponents.
type OddsCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. 'AsKd'"`
	Board     string `short:"b" help:"Community cards, e.g. 'Td7s8h'"`
	Opponents int    `short:"o" default:"1" help:"Number of opponents"`
	Range     string `default:"random" enum:"random,tight,loose" help:"Opponent hand range"`
	Samples   int    `short:"n" default:"20000" help:"Monte Carlo samples"`
	Workers   int    `default:"4" help:"Parallel workers"`
	Seed      *int64 `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run() error {
	req, err := c.request()
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := equity.Calculate(context.Background(), req)
	if err != nil {
		return err
	}
	printOdds(os.Stdout, req, res, time.Since(start))
	return nil
}

func (c *OddsCmd) request() (equity.Request, error) {
	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return equity.Request{}, fmt.Errorf("hole cards: %w", err)
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return equity.Request{}, fmt.Errorf("board: %w", err)
	}
	rng, ok := equity.RangeByName(c.Range)
	if !ok {
		return equity.Request{}, fmt.Errorf("unknown range %q", c.Range)
	}
	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	return equity.Request{
		Hole:      hole,
		Board:     board,
		Opponents: c.Opponents,
		Samples:   c.Samples,
		Seed:      seed,
		Range:     rng,
		Workers:   c.Workers,
	}, nil
}

func printOdds(w io.Writer, req equity.Request, res equity.Result, elapsed time.Duration) {
	st := newStyles(w)
	label := func(name string) string { return st.header.Render(fmt.Sprintf("%-10s", name)) }

	fmt.Fprintf(w, "%s %s\n", label("Hand:"), st.hand.Render(poker.FormatCards(req.Hole)))
	if len(req.Board) > 0 {
		fmt.Fprintf(w, "%s %s\n", label("Board:"), poker.FormatCards(req.Board))
		fmt.Fprintf(w, "%s %s\n", label("Made:"), poker.EvaluateCards(slices.Concat(req.Hole, req.Board)...))
	}
	fmt.Fprintf(w, "%s %d\n\n", label("Opponents:"), req.Opponents)

	low, high := res.ConfidenceInterval()
	method := fmt.Sprintf("%d samples", res.Samples)
	if res.Exact {
		method = fmt.Sprintf("exact, %d runouts", res.Samples)
	}
	fmt.Fprintf(w, "%s %s %s\n", label("Equity:"),
		st.win.Render(fmt.Sprintf("%.2f%%", res.Equity()*100)),
		st.dim.Render(fmt.Sprintf("[%.2f%%, %.2f%%]", low*100, high*100)))
	fmt.Fprintf(w, "%s %s/%s/%s %s\n", label("W/T/L:"),
		st.win.Render(fmt.Sprint(res.Wins)),
		st.tie.Render(fmt.Sprint(res.Ties)),
		st.loss.Render(fmt.Sprint(res.Losses)),
		st.dim.Render(fmt.Sprintf("(%s in %s)", method, elapsed.Round(time.Millisecond))))
}
