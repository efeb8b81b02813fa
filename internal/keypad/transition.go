package keypad

import (
	"errors"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/remote"
)

// Transition applies ev to s. When the event starts an evaluation the new
// Evaluating state and its Request are both tagged with generation.
// Transition is pure; issuing the request is the caller's job.
func Transition(s State, ev Event, generation uint64) (State, *Request) {
	if s == nil {
		s = Initial()
	}
	if _, ok := ev.(ClearPressed); ok {
		return Initial(), nil
	}

	switch st := s.(type) {
	case Idle:
		switch e := ev.(type) {
		case DigitEntered:
			return Idle{Text: appendDigit(st.Display(), e.Digit)}, nil
		case OperatorEntered:
			return AwaitingOperand{
				Text: InitialDisplay,
				Op:   e.Op,
				Left: ParseNumber(st.Display()),
			}, nil
		}

	case AwaitingOperand:
		switch e := ev.(type) {
		case DigitEntered:
			text := st.Display()
			if st.Fresh {
				text = InitialDisplay
			}
			return AwaitingOperand{Text: appendDigit(text, e.Digit), Op: st.Op, Left: st.Left}, nil
		case OperatorEntered:
			// Eager chaining: evaluate what is pending, continue with e.Op.
			return evaluate(st, e.Op, generation)
		case EqualsPressed:
			return evaluate(st, "", generation)
		}

	case Evaluating:
		// Only Clear gets through while a calculation is outstanding.
	}

	return s, nil
}

func evaluate(st AwaitingOperand, next calculator.Operator, generation uint64) (State, *Request) {
	req := Request{
		Generation: generation,
		Op:         st.Op,
		Left:       st.Left,
		Right:      ParseNumber(st.Display()),
	}
	return Evaluating{
		Text:       st.Display(),
		Generation: generation,
		Op:         req.Op,
		Left:       req.Left,
		Right:      req.Right,
		Next:       next,
	}, &req
}

// appendDigit replaces a lone "0" and otherwise concatenates. Repeated
// decimal points and long inputs are kept as typed.
func appendDigit(text, digit string) string {
	if text == InitialDisplay {
		return digit
	}
	return text + digit
}

// Outcome is the result of one Calculator call.
type Outcome struct {
	Value float64
	Err   error
}

// OutcomeKind classifies an Outcome for logs and metrics.
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeComputeError   OutcomeKind = "compute_error"
	OutcomeTransportError OutcomeKind = "transport_error"
)

func (o Outcome) Kind() OutcomeKind {
	if o.Err == nil {
		return OutcomeSuccess
	}
	var computeErr *remote.ComputeError
	if errors.As(o.Err, &computeErr) {
		return OutcomeComputeError
	}
	return OutcomeTransportError
}

// Resolve folds the outcome of the request tagged generation into s. It
// reports false, leaving s untouched, when s is not evaluating that
// generation: the result is stale because Clear ran since it was issued.
//
// Success shows the formatted value; any failure shows ErrorDisplay. The
// operator and stored operand are dropped either way, except that a
// successful chained evaluation continues with its Next operator and the
// result as the new left operand.
func Resolve(s State, generation uint64, out Outcome) (State, bool) {
	st, ok := s.(Evaluating)
	if !ok || st.Generation != generation {
		return s, false
	}

	if out.Err != nil {
		return Idle{Text: ErrorDisplay}, true
	}

	text := FormatNumber(out.Value)
	if st.Next != "" {
		return AwaitingOperand{Text: text, Op: st.Next, Left: out.Value, Fresh: true}, true
	}
	return Idle{Text: text}, true
}
