package commission

import "fmt"

// Status enum - commission lifecycle state
type Status string

const (
	StatusOnHold    Status = "on_hold"
	StatusPending   Status = "pending"
	StatusClosed    Status = "closed"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// transitions holds the only legal forward moves. Recalculation is not a
// transition: it deletes and recreates records instead.
var transitions = map[Status][]Status{
	StatusOnHold:    {StatusCancelled},
	StatusPending:   {StatusClosed, StatusCancelled},
	StatusClosed:    {StatusPaid},
	StatusPaid:      {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition returns the target status or ErrInvalidTransition.
func (s Status) Transition(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}
	return target, nil
}

// Deletable reports whether recalculation may delete and recreate a record in
// this status. Closed and paid records are immutable; cancelled records are
// retained for audit continuity unless superseded at generation time.
func (s Status) Deletable() bool {
	return s == StatusPending || s == StatusOnHold
}

// Terminal reports whether no further deletion or amount change is possible.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusPaid
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}
