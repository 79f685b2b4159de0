package game

import (
	"errors"
	"fmt"
)

// RejectReason is the machine-readable cause of a rejected action.
type RejectReason string

const (
	ReasonWrongTurn         RejectReason = "wrong-turn"
	ReasonUnknownActor      RejectReason = "unknown-actor"
	ReasonIllegalAction     RejectReason = "illegal-action"
	ReasonIllegalAmount     RejectReason = "illegal-amount"
	ReasonBelowMinRaise     RejectReason = "below-min-raise"
	ReasonInsufficientStack RejectReason = "insufficient-stack"
	ReasonHandComplete      RejectReason = "hand-complete"
	ReasonStaleHand         RejectReason = "stale-hand"
	ReasonOutOfSequence     RejectReason = "out-of-sequence"
)

// RejectionError is returned when an action request is not applied. The
// state passed to Apply is left untouched.
type RejectionError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("action rejected (%s): %s", e.Reason, e.Message)
}

func reject(reason RejectReason, format string, args ...any) error {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, or "" if err is not a
// rejection.
func ReasonOf(err error) RejectReason {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

// IsRejection reports whether err is an action rejection.
func IsRejection(err error) bool {
	return ReasonOf(err) != ""
}
