package panel

import (
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/keypad"
)

// Keypad is the state machine surface the panel drives. *keypad.Machine
// implements it.
type Keypad interface {
	Digit(d string) (keypad.Snapshot, error)
	Operator(op calculator.Operator) (keypad.Snapshot, error)
	Equals() (keypad.Snapshot, error)
	Clear() (keypad.Snapshot, error)
	Snapshot() keypad.Snapshot
	Subscribe(buffer int) (<-chan keypad.Snapshot, func())
}

// RejectedResponse is returned when a key is refused; it carries the
// unchanged state so the client can re-render.
type RejectedResponse struct {
	Error string          `json:"error"`
	Code  string          `json:"code"`
	State keypad.Snapshot `json:"state"`
}
