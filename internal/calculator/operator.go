package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Operator is one of the four arithmetic operations the service performs.
// Its value is the symbol shown on the keypad.
type Operator string

const (
	Add      Operator = "+"
	Subtract Operator = "-"
	Multiply Operator = "*"
	Divide   Operator = "/"
)

// Operators lists every supported operator in keypad order.
var Operators = []Operator{Add, Subtract, Multiply, Divide}

var operatorNames = map[Operator]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNonFinite       = errors.New("non-finite value")
)

// Error codes returned in JSON error bodies alongside the message.
const (
	CodeInvalidBody     = "invalid_body"
	CodeUnknownOperator = "unknown_operator"
	CodeDivisionByZero  = "division_by_zero"
	CodeNonFinite       = "non_finite"
)

// ParseOperator accepts either the symbol ("+") or the name ("add").
func ParseOperator(s string) (Operator, error) {
	for _, op := range Operators {
		if s == string(op) || s == operatorNames[op] {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Name returns the operation name used in routes, metrics and logs.
func (o Operator) Name() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "unknown"
}

func (o Operator) Valid() bool {
	_, ok := operatorNames[o]
	return ok
}

func (o Operator) String() string { return string(o) }

// Apply computes a op b. Operands and the result must be finite.
func Apply(op Operator, a, b float64) (float64, error) {
	if !finite(a) || !finite(b) {
		return 0, fmt.Errorf("%w: a=%g b=%g", ErrNonFinite, a, b)
	}

	var result float64
	switch op {
	case Add:
		result = a + b
	case Subtract:
		result = a - b
	case Multiply:
		result = a * b
	case Divide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivisionByZero, a, b)
		}
		result = a / b
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, string(op))
	}

	if !finite(result) {
		return 0, fmt.Errorf("%w: %g %s %g overflows", ErrNonFinite, a, op, b)
	}
	return result, nil
}

// ErrorCode maps an Apply error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return CodeDivisionByZero
	case errors.Is(err, ErrNonFinite):
		return CodeNonFinite
	case errors.Is(err, ErrUnknownOperator):
		return CodeUnknownOperator
	default:
		return CodeInvalidBody
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
