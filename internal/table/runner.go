package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/rs/zerolog"
)

const (
	// DefaultDecisionTimeout is used when a runner is created without one.
	DefaultDecisionTimeout = 5 * time.Second

	// fallbackBudget bounds building the options menu for a fallback.
	fallbackBudget = time.Second
)

// DecisionRunner asks each player's Decider for an action and submits it
// to the table. A decider that errors, times out or returns an action the
// table rejects is replaced by the best option on the table's menu for that
// spot, or check or fold when no menu is available.
type DecisionRunner struct {
	table    *Table
	deciders map[string]Decider
	clock    quartz.Clock
	timeout  time.Duration
	logger   zerolog.Logger
}

// RunnerOption configures a DecisionRunner.
type RunnerOption func(*DecisionRunner)

// WithClock sets the clock used for decision timeouts.
func WithClock(clock quartz.Clock) RunnerOption {
	return func(r *DecisionRunner) {
		r.clock = clock
	}
}

// WithTimeout sets how long a decider may take.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *DecisionRunner) {
		r.timeout = d
	}
}

// WithRunnerLogger sets the runner logger.
func WithRunnerLogger(logger zerolog.Logger) RunnerOption {
	return func(r *DecisionRunner) {
		r.logger = logger
	}
}

// NewDecisionRunner drives t with one decider per player name.
func NewDecisionRunner(t *Table, deciders map[string]Decider, opts ...RunnerOption) *DecisionRunner {
	r := &DecisionRunner{
		table:    t,
		deciders: deciders,
		clock:    quartz.NewReal(),
		timeout:  DefaultDecisionTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "decision_runner").Str("game_id", t.ID()).Logger()
	return r
}

// Step makes one decision for the current actor and submits it. The
// submission carries the hand number and sequence number of the view the
// decision was made from, so a stale decision cannot be applied twice or
// to a later spot.
func (r *DecisionRunner) Step(ctx context.Context) (Result, error) {
	state := r.table.State()
	actor, ok := state.Actor()
	if !ok {
		return Result{}, ErrNoActor
	}
	snap := game.SnapshotFor(state, actor.Name)

	req, err := r.decide(ctx, actor.Name, snap)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		r.logger.Warn().Err(err).Str("actor", actor.Name).Int("hand", snap.HandNumber).Msg("using fallback action")
		req = r.fallback(ctx, snap)
	}
	req.Actor = actor.Name
	req.HandNumber = snap.HandNumber
	req.Seq = snap.ActionSeq

	res, err := r.table.Submit(ctx, req)
	if game.IsRejection(err) && game.ReasonOf(err) != game.ReasonOutOfSequence && game.ReasonOf(err) != game.ReasonStaleHand {
		r.logger.Warn().Err(err).Str("actor", actor.Name).Stringer("action", req.Action).Msg("decision rejected, using fallback action")
		fallback := r.fallback(ctx, snap)
		fallback.HandNumber, fallback.Seq = req.HandNumber, req.Seq
		return r.table.Submit(ctx, fallback)
	}
	return res, err
}

// fallback returns the best bounded option for the actor of snap. The menu
// gets fallbackBudget to build; past that, or if it fails, the actor checks
// or folds.
func (r *DecisionRunner) fallback(ctx context.Context, snap game.Snapshot) game.ActionRequest {
	actor, _ := snap.Actor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := r.clock.AfterFunc(fallbackBudget, cancel)
	defer timer.Stop()

	var menu []options.BoundedOption
	advice, err := r.table.advisor.Advise(ctx, snap)
	if err != nil {
		r.logger.Warn().Err(err).Str("actor", actor.Name).Msg("no options menu for fallback")
	} else {
		menu = advice.Options
	}
	return options.Fallback(snap, menu).Request(actor.Name)
}

// decide runs the actor's decider under the decision timeout.
func (r *DecisionRunner) decide(ctx context.Context, actor string, snap game.Snapshot) (game.ActionRequest, error) {
	d, ok := r.deciders[actor]
	if !ok {
		return game.ActionRequest{}, fmt.Errorf("no decider for %s", actor)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timedOut := make(chan struct{})
	timer := r.clock.AfterFunc(r.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	type decision struct {
		req game.ActionRequest
		err error
	}
	done := make(chan decision, 1)
	go func() {
		req, err := d.Decide(ctx, snap)
		done <- decision{req, err}
	}()

	select {
	case dec := <-done:
		return dec.req, dec.err
	case <-timedOut:
		return game.ActionRequest{}, fmt.Errorf("%s: %w after %s", actor, ErrDecisionTimeout, r.timeout)
	case <-ctx.Done():
		return game.ActionRequest{}, ctx.Err()
	}
}

// ErrDecisionTimeout is reported when a decider does not answer in time.
var ErrDecisionTimeout = errors.New("decision timed out")

// Autoplay acts for every player with a decider whenever it is their turn
// and leaves the other seats to outside submissions. It returns when ctx
// is done or the table is closed. Hands are not started automatically.
func (r *DecisionRunner) Autoplay(ctx context.Context) error {
	updates, cancel := r.table.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return nil
			}
		}
		for {
			actor, ok := r.table.State().Actor()
			if !ok {
				break
			}
			if _, bot := r.deciders[actor.Name]; !bot {
				break
			}
			if _, err := r.Step(ctx); err != nil {
				if game.IsRejection(err) || errors.Is(err, ErrNoActor) {
					continue
				}
				return err
			}
		}
	}
}

// PlayHand steps until the current hand is over and returns its result.
func (r *DecisionRunner) PlayHand(ctx context.Context) (*game.HandResult, error) {
	for {
		state := r.table.State()
		if state.IsComplete() {
			return state.Result, nil
		}
		res, err := r.Step(ctx)
		if err != nil {
			return nil, err
		}
		if res.Showdown != nil {
			return res.Showdown, nil
		}
	}
}

// Play plays up to hands hands, or until the game is over, and returns the
// number of hands completed.
func (r *DecisionRunner) Play(ctx context.Context, hands int) (int, error) {
	played := 0
	for played < hands {
		if played > 0 || r.table.State().IsComplete() {
			if _, err := r.table.StartHand(ctx); err != nil {
				if errors.Is(err, ErrGameOver) {
					return played, nil
				}
				return played, err
			}
		}
		if _, err := r.PlayHand(ctx); err != nil {
			return played, err
		}
		played++
	}
	return played, nil
}
