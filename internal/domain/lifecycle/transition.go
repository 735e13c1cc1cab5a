// Package lifecycle holds the booking state machine. Every status change a
// booking can go through is listed in transitions; nothing else in the
// module decides whether a move is legal.
package lifecycle

import (
	"expert-marketplace/internal/apperr"
	"expert-marketplace/internal/data/entity"
)

// SideEffect is the extra write a transition requires besides the status.
type SideEffect uint8

const (
	NoSideEffect SideEffect = iota
	IncrementJobsTaken
)

func (e SideEffect) String() string {
	switch e {
	case IncrementJobsTaken:
		return "increment_jobs_taken"
	default:
		return "none"
	}
}

var transitions = map[entity.BookingStatus]map[entity.BookingStatus]SideEffect{
	entity.BookingStatusPending: {
		entity.BookingStatusAccepted: NoSideEffect,
		entity.BookingStatusCanceled: NoSideEffect,
	},
	entity.BookingStatusAccepted: {
		entity.BookingStatusFinished: IncrementJobsTaken,
		entity.BookingStatusCanceled: NoSideEffect,
	},
	entity.BookingStatusFinished: {},
	entity.BookingStatusCanceled: {},
}

// Transition decides whether current may move to next.
func Transition(current, next entity.BookingStatus) (SideEffect, error) {
	allowed, ok := transitions[current]
	if !ok || !next.Valid() {
		return NoSideEffect, apperr.InvalidTransition("Invalid status transition from %s to %s.", current, next)
	}
	if IsTerminal(current) {
		return NoSideEffect, apperr.InvalidTransition("Cannot change status from %s to %s: %s is terminal.", current, next, current)
	}

	effect, ok := allowed[next]
	if !ok {
		return NoSideEffect, apperr.InvalidTransition("Invalid status transition from %s to %s.", current, next)
	}
	return effect, nil
}

// Apply moves b to next and returns the side effect the caller must persist.
// b is left untouched when the transition is rejected.
func Apply(b *entity.Booking, next entity.BookingStatus) (SideEffect, error) {
	effect, err := Transition(b.Status, next)
	if err != nil {
		return NoSideEffect, err
	}
	b.Status = next
	return effect, nil
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s entity.BookingStatus) bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// IsActive reports whether s blocks a second booking between the same pair.
func IsActive(s entity.BookingStatus) bool {
	return s == entity.BookingStatusPending || s == entity.BookingStatusAccepted
}

// ActiveStatuses lists the statuses IsActive accepts.
func ActiveStatuses() []entity.BookingStatus {
	var out []entity.BookingStatus
	for _, s := range entity.BookingStatuses() {
		if IsActive(s) {
			out = append(out, s)
		}
	}
	return out
}

// CanCancel guards the client-side cancellation, which deletes the booking.
func CanCancel(b *entity.Booking) error {
	if b.Status != entity.BookingStatusPending {
		return apperr.Validation("You can only cancel bookings with Pending status. Current status: %s", b.Status)
	}
	return nil
}
