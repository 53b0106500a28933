package status

import (
	"database/sql/driver"
	"errors"
)

// Status is the fulfillment state of an order. Orders move forward through
// pending -> preparing -> ready -> delivered; cancelled is reachable from any
// non-terminal state. Delivered and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

// next holds the legal transitions out of each state.
var next = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return len(next[s]) == 0
}

// CanTransitionTo reports whether s -> to is a legal transition.
func (s Status) CanTransitionTo(to Status) bool {
	for _, n := range next[s] {
		if n == to {
			return true
		}
	}

	return false
}

// NextStatuses returns the legal transitions out of s, in display order.
func (s Status) NextStatuses() []Status {
	out := make([]Status, len(next[s]))
	copy(out, next[s])

	return out
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
