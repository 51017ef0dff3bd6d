package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned for status values outside the lifecycle.
var ErrInvalidStatus = errors.New("invalid budget status")

// Status is the budget lifecycle state.
type Status string

const (
	StatusPending  Status = "pendiente"
	StatusAccepted Status = "aceptado"
	StatusRejected Status = "rechazado"
)

// Statuses lists the lifecycle states in display order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected}

// allowedTransitions is the single place transition rules live. Every state
// currently reaches every other one.
var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusPending, StatusRejected},
	StatusRejected: {StatusPending, StatusAccepted},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Label is the English display name.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	}
	return string(s)
}

// ParseStatus accepts wire values and English labels.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if s == string(st) || s == st.Label() {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransition reports whether from may move to to. Staying put is allowed.
func CanTransition(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
