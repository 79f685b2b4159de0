package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/holdem-engine/cmd/holdem/shared"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/internal/statistics"
	"github.com/lox/holdem-engine/internal/table"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SimulateCmd plays option-menu bots against each other on several tables
// at once and reports each seat's win rate.
type SimulateCmd struct {
	Hands          int           `kong:"default='1000',help='Hands to play per table'"`
	Tables         int           `kong:"default='4',help='Tables to run concurrently'"`
	Profiles       []string      `kong:"default='balanced,tight,aggressive',help='Profile of each seat'"`
	SmallBlind     int           `kong:"default='5',help='Small blind amount'"`
	BigBlind       int           `kong:"default='10',help='Big blind amount'"`
	StartChips     int           `kong:"default='1000',help='Starting chip count'"`
	Samples        int           `kong:"default='300',help='Equity samples per decision'"`
	Seed           *int64        `kong:"help='Deterministic RNG seed (optional)'"`
	Timeout        time.Duration `kong:"default='5s',help='Decision timeout'"`
	HandHistoryDir string        `kong:"help='Write PHH hand histories to this directory'"`
	Debug          bool          `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	level := zerolog.WarnLevel
	if c.Debug {
		level = zerolog.DebugLevel
	}
	logger := shared.SetupLogger(level)

	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info().Int64("seed", seed).Msg("Starting simulation")

	tracker := statistics.NewTracker()
	var history table.HistoryWriter
	if c.HandHistoryDir != "" {
		history = phh.NewWriter(c.HandHistoryDir, nil, logger)
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	start := time.Now()
	if err := c.simulate(ctx, seed, recorder{tracker: tracker, next: history}, logger); err != nil {
		return err
	}
	return printSummary(os.Stdout, tracker, time.Since(start))
}

// simulate runs every table to completion.
func (c *SimulateCmd) simulate(ctx context.Context, seed int64, rec recorder, logger zerolog.Logger) error {
	profiles := make([]options.Profile, len(c.Profiles))
	for i, name := range c.Profiles {
		p, ok := options.ProfileByName(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown profile %q", name)
		}
		profiles[i] = p
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range c.Tables {
		g.Go(func() error {
			return c.playTable(ctx, i, randutil.Derive(seed, i), profiles, rec, logger)
		})
	}
	return g.Wait()
}

// playTable plays the requested number of hands on one table. When a
// player busts everyone, a new session starts with fresh stacks.
func (c *SimulateCmd) playTable(ctx context.Context, n int, seed int64, profiles []options.Profile, rec recorder, logger zerolog.Logger) error {
	played := 0
	for session := 1; played < c.Hands; session++ {
		seats := make([]game.Seat, len(profiles))
		deciders := make(map[string]table.Decider, len(profiles))
		for i, p := range profiles {
			name := fmt.Sprintf("seat%d-%s", i+1, p.Name)
			seats[i] = game.Seat{Name: name, Stack: c.StartChips}
			deciders[name] = table.OptionsDecider{Advisor: table.Advisor{
				Profile: p,
				Seed:    randutil.Derive(seed, session<<8|i),
				Samples: c.Samples,
			}}
		}

		t, err := table.New(table.Config{
			ID:         fmt.Sprintf("sim-%d-%d", n, session),
			SmallBlind: c.SmallBlind,
			BigBlind:   c.BigBlind,
			Seats:      seats,
			Dealer:     (session - 1) % len(seats),
			Seed:       randutil.Derive(seed, -session),
		}, table.WithLogger(logger), table.WithHistory(rec))
		if err != nil {
			return err
		}

		runner := table.NewDecisionRunner(t, deciders,
			table.WithTimeout(c.Timeout),
			table.WithRunnerLogger(logger),
		)
		hands, err := runner.Play(ctx, c.Hands-played)
		t.Close()
		if err != nil {
			return fmt.Errorf("table %d: %w", n, err)
		}
		if hands == 0 {
			break
		}
		played += hands
	}
	return nil
}

// recorder feeds finished hands to the tracker and then to an optional
// hand history writer.
type recorder struct {
	tracker *statistics.Tracker
	next    table.HistoryWriter
}

func (r recorder) WriteHand(gameID string, s game.GameState) error {
	if err := r.tracker.RecordHand(s); err != nil {
		return err
	}
	if r.next != nil {
		return r.next.WriteHand(gameID, s)
	}
	return nil
}

func printSummary(w io.Writer, tracker *statistics.Tracker, elapsed time.Duration) error {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n\n",
		st.header.Render(fmt.Sprintf("%d hands", tracker.Hands())),
		st.dim.Render("in "+elapsed.Round(time.Millisecond).String()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, h := range []string{"player", "hands", "bb/100", "95% ci", "showdown wins", "other wins"} {
		fmt.Fprintf(tw, "%s\t", st.header.Render(h))
	}
	fmt.Fprintln(tw)
	for _, p := range tracker.Summaries() {
		low, high := p.ConfidenceInterval95()
		bb := p.BBPer100()
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%d\t\n",
			st.hand.Render(p.Name), p.Hands,
			st.result(bb, fmt.Sprintf("%+.2f", bb)),
			st.dim.Render(fmt.Sprintf("[%+.1f, %+.1f]", low*100, high*100)),
			p.ShowdownWins, p.NonShowdownWins)
	}
	return tw.Flush()
}
