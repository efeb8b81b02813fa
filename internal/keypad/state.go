// Package keypad is the calculator's interaction state machine. Keystrokes
// assemble operands locally; arithmetic is delegated to a Calculator and its
// asynchronous outcome is folded back into the display.
package keypad

import (
	"go-chi-calculator/internal/calculator"
)

const (
	// InitialDisplay is shown after start-up and after Clear.
	InitialDisplay = "0"
	// ErrorDisplay replaces the display after any failed evaluation.
	ErrorDisplay = "Error"
)

// Phase names the variant of a State.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingOperand Phase = "awaiting_operand"
	PhaseEvaluating      Phase = "evaluating"
)

// State is one of Idle, AwaitingOperand or Evaluating. The stored operand and
// the pending operator only exist on the variants where they are meaningful,
// so one can never be present without the other.
type State interface {
	Phase() Phase
	Display() string
	isState()
}

// Idle has no pending operator.
type Idle struct {
	Text string
}

// AwaitingOperand holds the left operand and operator while the right
// operand is typed into Text.
type AwaitingOperand struct {
	Text string
	Op   calculator.Operator
	Left float64
	// Fresh marks Text as an intermediate chained result rather than typed
	// input; the next digit starts a new operand.
	Fresh bool
}

// Evaluating has exactly one outstanding calculation tagged with Generation.
type Evaluating struct {
	Text       string
	Generation uint64
	Op         calculator.Operator
	Left       float64
	Right      float64
	// Next is the operator pressed to trigger an eager chained evaluation,
	// or empty for a plain equals.
	Next calculator.Operator
}

func (Idle) Phase() Phase            { return PhaseIdle }
func (AwaitingOperand) Phase() Phase { return PhaseAwaitingOperand }
func (Evaluating) Phase() Phase      { return PhaseEvaluating }

func (s Idle) Display() string            { return displayOrDefault(s.Text) }
func (s AwaitingOperand) Display() string { return displayOrDefault(s.Text) }
func (s Evaluating) Display() string      { return displayOrDefault(s.Text) }

func (Idle) isState()            {}
func (AwaitingOperand) isState() {}
func (Evaluating) isState()      {}

// Initial is the state of a new or cleared machine.
func Initial() State {
	return Idle{Text: InitialDisplay}
}

func displayOrDefault(text string) string {
	if text == "" {
		return InitialDisplay
	}
	return text
}

// Snapshot is the observable view of the machine handed to presentation.
type Snapshot struct {
	Display    string `json:"display"`
	Phase      Phase  `json:"phase"`
	Pending    string `json:"pending,omitempty"`
	Stored     string `json:"stored,omitempty"` // formatted like Display
	InFlight   bool   `json:"in_flight"`
	Generation uint64 `json:"generation"`
}

// SnapshotOf flattens s for presentation.
func SnapshotOf(s State, generation uint64) Snapshot {
	if s == nil {
		s = Initial()
	}
	snap := Snapshot{
		Display:    s.Display(),
		Phase:      s.Phase(),
		Generation: generation,
	}
	switch st := s.(type) {
	case AwaitingOperand:
		snap.Pending = st.Op.String()
		snap.Stored = FormatNumber(st.Left)
	case Evaluating:
		snap.Pending = st.Op.String()
		snap.Stored = FormatNumber(st.Left)
		snap.InFlight = true
	}
	return snap
}
