package keypad

import "go-chi-calculator/internal/calculator"

// Event is a user action: DigitEntered, OperatorEntered, EqualsPressed or
// ClearPressed.
type Event interface {
	Name() string
	isEvent()
}

// DigitEntered carries one key from 0-9 or ".".
type DigitEntered struct {
	Digit string
}

type OperatorEntered struct {
	Op calculator.Operator
}

type EqualsPressed struct{}

type ClearPressed struct{}

func (DigitEntered) Name() string    { return "digit" }
func (OperatorEntered) Name() string { return "operator" }
func (EqualsPressed) Name() string   { return "equals" }
func (ClearPressed) Name() string    { return "clear" }

func (DigitEntered) isEvent()    {}
func (OperatorEntered) isEvent() {}
func (EqualsPressed) isEvent()   {}
func (ClearPressed) isEvent()    {}

// ValidDigit reports whether d is a keypad digit key.
func ValidDigit(d string) bool {
	if len(d) != 1 {
		return false
	}
	return d[0] == '.' || (d[0] >= '0' && d[0] <= '9')
}

// Request is a calculation issued by a transition into Evaluating.
type Request struct {
	Generation uint64
	Op         calculator.Operator
	Left       float64
	Right      float64
}
