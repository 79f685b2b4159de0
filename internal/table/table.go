// Package table runs games: it serializes submissions per game, carries
// stacks from hand to hand and drives automated players.
package table

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/options"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/poker"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrGameOver       = errors.New("game is over")
	ErrHandInProgress = errors.New("hand in progress")
)

// HistoryWriter records finished hands.
type HistoryWriter interface {
	WriteHand(gameID string, s game.GameState) error
}

// Config describes a game.
type Config struct {
	ID         string
	SmallBlind int
	BigBlind   int
	Seats      []game.Seat
	Dealer     int   // seat holding the button for the first hand
	Seed       int64 // zero picks a time based seed

	Profile  options.Profile
	Settings options.Settings
}

// Result is the outcome of a submission.
type Result struct {
	Snapshot  game.Snapshot    `json:"state"`
	Duplicate bool             `json:"duplicate"`
	Showdown  *game.HandResult `json:"showdown,omitempty"`
}

// Table owns one game. All methods are safe for concurrent use; submissions
// are applied one at a time in arrival order.
type Table struct {
	id      string
	cfg     Config
	logger  zerolog.Logger
	history HistoryWriter
	advisor Advisor
	decks   func(handNumber int) *poker.Deck

	mu      sync.Mutex
	rng     *rand.Rand
	roster  []game.Seat // stacks between hands, in seat order
	button  int         // roster index of the dealer
	state   game.GameState
	subs    map[int]chan game.Snapshot
	nextSub int
	closed  bool
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the table logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithHistory records every finished hand with w.
func WithHistory(w HistoryWriter) Option {
	return func(t *Table) {
		t.history = w
	}
}

// WithDeckSource stacks the deck of each hand for which fn returns a
// deck. Other hands are shuffled from the table seed.
func WithDeckSource(fn func(handNumber int) *poker.Deck) Option {
	return func(t *Table) {
		t.decks = fn
	}
}

// New creates a table and deals its first hand.
func New(cfg Config, opts ...Option) (*Table, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: game id is required", game.ErrInvalidHand)
	}
	if cfg.Seed == 0 {
		cfg.Seed = randutil.TimeSeed()
	}
	if cfg.Profile.StyleTag == "" {
		cfg.Profile = options.Balanced
	}

	t := &Table{
		id:      cfg.ID,
		cfg:     cfg,
		logger:  zerolog.Nop(),
		rng:     randutil.New(cfg.Seed),
		roster:  slices.Clone(cfg.Seats),
		button:  cfg.Dealer,
		subs:    make(map[int]chan game.Snapshot),
		advisor: Advisor{Profile: cfg.Profile, Settings: cfg.Settings, Seed: cfg.Seed},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("component", "table").Str("game_id", cfg.ID).Logger()

	if err := t.deal(1); err != nil {
		return nil, err
	}
	return t, nil
}

// ID returns the game id.
func (t *Table) ID() string {
	return t.id
}

// Config returns the configuration the table was created with.
func (t *Table) Config() Config {
	return t.cfg
}

// State returns the current hand. The value shares no mutable data with
// the table; it must not be modified.
func (t *Table) State() game.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns the current hand as seen by viewer. An empty viewer gets
// the public view.
func (t *Table) Snapshot(viewer string) game.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return game.SnapshotFor(t.state, viewer)
}

// Submit applies req to the current hand. req must carry the hand number and
// sequence number it was decided from. A rejected request returns the
// submitter's view of the unchanged hand along with a
// *game.RejectionError. A replay of an applied request succeeds with
// Duplicate set and changes nothing.
func (t *Table) Submit(ctx context.Context, req game.ActionRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next, outcome, err := t.state, game.Outcome{}, game.RequireKey(req)
	if err == nil {
		next, outcome, err = game.ApplyWithOutcome(t.state, req)
	}
	if err != nil {
		t.logger.Info().Err(err).
			Int("hand", t.state.HandNumber).
			Str("actor", req.Actor).
			Stringer("action", req.Action).
			Int("seq", req.Seq).
			Msg("action rejected")
		return Result{Snapshot: game.SnapshotFor(t.state, req.Actor)}, err
	}
	if outcome.Duplicate {
		t.logger.Debug().Int("hand", t.state.HandNumber).Int("seq", outcome.Entry.Seq).Str("actor", req.Actor).
			Msg("duplicate submission ignored")
		return Result{Snapshot: game.SnapshotFor(t.state, req.Actor), Duplicate: true}, nil
	}

	t.state = next
	t.logger.Debug().
		Int("hand", next.HandNumber).
		Int("seq", outcome.Entry.Seq).
		Str("actor", outcome.Entry.Actor).
		Stringer("action", outcome.Entry.Action).
		Int("chips", outcome.Entry.Chips).
		Stringer("phase", next.Phase).
		Msg("action applied")

	res := Result{}
	if t.state.IsComplete() {
		t.finishHand()
		res.Showdown = t.state.Result
	}
	t.broadcast()
	res.Snapshot = game.SnapshotFor(t.state, req.Actor)
	return res, nil
}

// StartHand deals the next hand: the button moves to the next seat with
// chips and busted players sit out.
func (t *Table) StartHand(ctx context.Context) (game.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.closed, t.state.Phase == game.GameOver:
		return game.Snapshot{}, ErrGameOver
	case !t.state.IsComplete():
		return game.Snapshot{}, fmt.Errorf("%w: hand %d is %s", ErrHandInProgress, t.state.HandNumber, t.state.Phase)
	}

	t.button = t.nextButton()
	if err := t.deal(t.state.HandNumber + 1); err != nil {
		return game.Snapshot{}, err
	}
	t.broadcast()
	return game.SnapshotFor(t.state, ""), nil
}

// Advise returns the bounded options menu for the current actor.
func (t *Table) Advise(ctx context.Context) (Advice, error) {
	t.mu.Lock()
	actor, ok := t.state.Actor()
	snap := game.SnapshotFor(t.state, actor.Name)
	t.mu.Unlock()

	if !ok {
		return Advice{}, ErrNoActor
	}
	return t.advisor.Advise(ctx, snap)
}

// Subscribe returns a channel receiving the public view after every change,
// starting with the current one. Slow readers miss intermediate views but
// always get the latest. cancel closes the channel.
func (t *Table) Subscribe() (<-chan game.Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan game.Snapshot, 8)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- game.SnapshotFor(t.state, "")

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if sub, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(sub)
		}
	}
}

// Close ends every subscription. Later hands cannot be started.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

// deal starts hand number n with every roster seat that has chips.
func (t *Table) deal(n int) error {
	var seats []game.Seat
	dealer := -1
	for i, seat := range t.roster {
		if seat.Stack <= 0 {
			continue
		}
		if i == t.button {
			dealer = len(seats)
		}
		seats = append(seats, seat)
	}
	if dealer < 0 {
		return fmt.Errorf("%w: dealer seat %d has no chips", game.ErrInvalidHand, t.button)
	}

	opts := []game.HandOption{game.WithHandNumber(n)}
	if t.decks != nil {
		if deck := t.decks(n); deck != nil {
			opts = append(opts, game.WithDeck(deck))
		}
	}
	s, err := game.NewHand(t.rng, seats, dealer, t.cfg.SmallBlind, t.cfg.BigBlind, opts...)
	if err != nil {
		return err
	}
	t.state = s
	t.logger.Info().Int("hand", n).Str("dealer", seats[dealer].Name).Int("players", len(seats)).Msg("hand started")

	if s.IsComplete() {
		t.finishHand()
	}
	return nil
}

// finishHand carries stacks back to the roster, records the hand and ends
// the game when fewer than two players have chips.
func (t *Table) finishHand() {
	s := t.state
	for _, p := range s.Players {
		for i := range t.roster {
			if t.roster[i].Name == p.Name {
				t.roster[i].Stack = p.Stack
			}
		}
	}

	t.logger.Info().
		Int("hand", s.HandNumber).
		Strs("winners", s.Result.Winners).
		Str("hand_name", s.Result.HandName).
		Bool("uncontested", s.Result.Uncontested).
		Msg("hand complete")

	if t.history != nil {
		if err := t.history.WriteHand(t.id, s); err != nil {
			t.logger.Error().Err(err).Int("hand", s.HandNumber).Msg("failed to record hand history")
		}
	}

	if t.playersWithChips() < 2 {
		t.state = game.Conclude(s)
		t.logger.Info().Int("hands", s.HandNumber).Msg("game over")
	}
}

func (t *Table) nextButton() int {
	n := len(t.roster)
	for i := 1; i <= n; i++ {
		idx := (t.button + i) % n
		if t.roster[idx].Stack > 0 {
			return idx
		}
	}
	return t.button
}

func (t *Table) playersWithChips() int {
	count := 0
	for _, seat := range t.roster {
		if seat.Stack > 0 {
			count++
		}
	}
	return count
}

// Stacks returns every player's chips between hands, busted players
// included, in seat order.
func (t *Table) Stacks() []game.Seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.roster)
}

// broadcast sends the public view to every subscriber, replacing the
// oldest queued view when a subscriber is full.
func (t *Table) broadcast() {
	if len(t.subs) == 0 {
		return
	}
	snap := game.SnapshotFor(t.state, "")
	for _, ch := range t.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
