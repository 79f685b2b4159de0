// Package game implements the No-Limit Texas Hold'em state machine for a
// single hand.
//
// The central type is GameState, an immutable value. NewHand posts blinds and
// deals; Apply validates one ActionRequest and returns the next state without
// touching its input, so callers can keep old states, share them between
// goroutines and retry freely.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	s, err := game.NewHand(rng, []game.Seat{{"alice", 1000}, {"bob", 1000}}, 0, 10, 20)
//	s, err = game.Apply(s, game.ActionRequest{Actor: "alice", Action: game.Raise, Amount: 60})
//	if s.IsComplete() {
//	    fmt.Println(s.Result.Winners)
//	}
//
// Rejected requests return the input state and a *RejectionError whose
// Reason says why. Requests carrying HandNumber and Seq are idempotent:
// replaying an applied request is a no-op reported through Outcome.
//
// # Architecture
//
// GameState delegates to:
//   - BettingRound: highest bet, minimum raise and who still owes action
//   - PotManager: per-seat contributions and the main/side pot split
//   - poker.Deck and poker.Evaluate: dealing and hand ranking
//
// Snapshot and SnapshotFor render the JSON view consumed by clients, with
// other players' hole cards hidden until showdown.
package game
