package keypad

import (
	"errors"
	"math"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digits(s State, keys ...string) State {
	for _, k := range keys {
		s, _ = Transition(s, DigitEntered{Digit: k}, 0)
	}
	return s
}

func TestDigitEntryReplacesLeadingZeroOnce(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{keys: []string{"5"}, want: "5"},
		{keys: []string{"0", "5"}, want: "5"},
		{keys: []string{"0", "0", "7"}, want: "7"},
		{keys: []string{"1", "0", "0"}, want: "100"},
		{keys: []string{"1", "2", "3", "4"}, want: "1234"},
		{keys: []string{".", "5"}, want: ".5"},
		{keys: []string{"1", ".", ".", "2"}, want: "1..2"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			s := digits(Initial(), tc.keys...)
			assert.Equal(t, PhaseIdle, s.Phase())
			assert.Equal(t, tc.want, s.Display())
		})
	}
}

func TestOperatorFromIdleCapturesOperand(t *testing.T) {
	s := digits(Initial(), "1", "2", ".", "5")

	s, req := Transition(s, OperatorEntered{Op: calculator.Multiply}, 1)

	assert.Nil(t, req)
	require.IsType(t, AwaitingOperand{}, s)
	st := s.(AwaitingOperand)
	assert.Equal(t, calculator.Multiply, st.Op)
	assert.Equal(t, 12.5, st.Left)
	assert.Equal(t, "0", st.Display())
}

func TestEqualsWithoutPendingOperatorIsNoop(t *testing.T) {
	s := digits(Initial(), "4", "2")

	next, req := Transition(s, EqualsPressed{}, 1)

	assert.Nil(t, req)
	assert.Equal(t, s, next)
	assert.Equal(t, "42", next.Display())
}

func TestEqualsIssuesRequestWithGeneration(t *testing.T) {
	s := digits(Initial(), "5")
	s, _ = Transition(s, OperatorEntered{Op: calculator.Add}, 0)
	s = digits(s, "3")

	s, req := Transition(s, EqualsPressed{}, 7)

	require.NotNil(t, req)
	assert.Equal(t, Request{Generation: 7, Op: calculator.Add, Left: 5, Right: 3}, *req)
	require.IsType(t, Evaluating{}, s)
	assert.Equal(t, uint64(7), s.(Evaluating).Generation)
	assert.Equal(t, calculator.Operator(""), s.(Evaluating).Next)
	assert.Equal(t, "3", s.Display())
}

func TestSecondOperatorEvaluatesEagerly(t *testing.T) {
	s := digits(Initial(), "5")
	s, _ = Transition(s, OperatorEntered{Op: calculator.Add}, 0)
	s = digits(s, "3")

	s, req := Transition(s, OperatorEntered{Op: calculator.Multiply}, 1)

	require.NotNil(t, req)
	assert.Equal(t, Request{Generation: 1, Op: calculator.Add, Left: 5, Right: 3}, *req)
	assert.Equal(t, calculator.Multiply, s.(Evaluating).Next)
}

func TestEvaluatingIgnoresAllButClear(t *testing.T) {
	busy := Evaluating{Text: "3", Generation: 2, Op: calculator.Add, Left: 5, Right: 3}

	for _, ev := range []Event{
		DigitEntered{Digit: "9"},
		OperatorEntered{Op: calculator.Subtract},
		EqualsPressed{},
	} {
		t.Run(ev.Name(), func(t *testing.T) {
			next, req := Transition(busy, ev, 3)
			assert.Nil(t, req)
			assert.Equal(t, State(busy), next)
		})
	}

	next, req := Transition(busy, ClearPressed{}, 3)
	assert.Nil(t, req)
	assert.Equal(t, Initial(), next)
}

func TestClearFromAnyStateRestoresDefaults(t *testing.T) {
	states := []State{
		Idle{Text: "123"},
		Idle{Text: ErrorDisplay},
		AwaitingOperand{Text: "4", Op: calculator.Divide, Left: 9},
		Evaluating{Text: "4", Generation: 1, Op: calculator.Divide, Left: 9, Right: 4},
	}

	for _, s := range states {
		t.Run(string(s.Phase()), func(t *testing.T) {
			next, _ := Transition(s, ClearPressed{}, 5)
			snap := SnapshotOf(next, 5)
			assert.Equal(t, "0", snap.Display)
			assert.Equal(t, PhaseIdle, snap.Phase)
			assert.Empty(t, snap.Pending)
			assert.Empty(t, snap.Stored)
			assert.False(t, snap.InFlight)
		})
	}
}

func TestResolve(t *testing.T) {
	evaluating := Evaluating{Text: "3", Generation: 4, Op: calculator.Add, Left: 5, Right: 3}

	t.Run("success", func(t *testing.T) {
		next, ok := Resolve(evaluating, 4, Outcome{Value: 8})
		require.True(t, ok)
		assert.Equal(t, State(Idle{Text: "8"}), next)
	})

	t.Run("compute error", func(t *testing.T) {
		next, ok := Resolve(evaluating, 4, Outcome{Err: &remote.ComputeError{Code: calculator.CodeDivisionByZero}})
		require.True(t, ok)
		assert.Equal(t, State(Idle{Text: ErrorDisplay}), next)
	})

	t.Run("transport error", func(t *testing.T) {
		next, ok := Resolve(evaluating, 4, Outcome{Err: &remote.TransportError{Op: "post", Err: errConnectionRefused}})
		require.True(t, ok)
		assert.Equal(t, State(Idle{Text: ErrorDisplay}), next)
	})

	t.Run("chained success continues", func(t *testing.T) {
		chained := evaluating
		chained.Next = calculator.Multiply
		next, ok := Resolve(chained, 4, Outcome{Value: 8})
		require.True(t, ok)
		assert.Equal(t, State(AwaitingOperand{Text: "8", Op: calculator.Multiply, Left: 8, Fresh: true}), next)
	})

	t.Run("chained failure drops operator", func(t *testing.T) {
		chained := evaluating
		chained.Next = calculator.Multiply
		next, ok := Resolve(chained, 4, Outcome{Err: errConnectionRefused})
		require.True(t, ok)
		assert.Equal(t, State(Idle{Text: ErrorDisplay}), next)
	})

	t.Run("stale generation", func(t *testing.T) {
		next, ok := Resolve(evaluating, 3, Outcome{Value: 99})
		assert.False(t, ok)
		assert.Equal(t, State(evaluating), next)
	})

	t.Run("not evaluating", func(t *testing.T) {
		next, ok := Resolve(Initial(), 4, Outcome{Value: 99})
		assert.False(t, ok)
		assert.Equal(t, Initial(), next)
	})
}

func TestFreshChainedResultIsReplacedByFirstDigit(t *testing.T) {
	s := State(AwaitingOperand{Text: "8", Op: calculator.Multiply, Left: 8, Fresh: true})

	s = digits(s, "2")
	assert.Equal(t, "2", s.Display())

	s = digits(s, "5")
	assert.Equal(t, "25", s.Display())
}

func TestEqualsAfterChainedResultReusesShownValue(t *testing.T) {
	s := digits(Initial(), "5")
	s, _ = Transition(s, OperatorEntered{Op: calculator.Add}, 0)
	s = digits(s, "3")
	s, _ = Transition(s, OperatorEntered{Op: calculator.Multiply}, 1)
	s, ok := Resolve(s, 1, Outcome{Value: 8})
	require.True(t, ok)

	s, req := Transition(s, EqualsPressed{}, 2)

	require.NotNil(t, req)
	assert.Equal(t, Request{Generation: 2, Op: calculator.Multiply, Left: 8, Right: 8}, *req)
	assert.Equal(t, "8", s.Display())
}

func TestEqualsWithoutSecondOperandUsesZero(t *testing.T) {
	s := digits(Initial(), "5")
	s, _ = Transition(s, OperatorEntered{Op: calculator.Add}, 0)

	_, req := Transition(s, EqualsPressed{}, 1)

	require.NotNil(t, req)
	assert.Equal(t, Request{Generation: 1, Op: calculator.Add, Left: 5, Right: 0}, *req)
}

func TestErrorDisplayIsConsumedAsNaN(t *testing.T) {
	s := digits(Idle{Text: ErrorDisplay}, "5")
	assert.Equal(t, "Error5", s.Display())

	s, _ = Transition(s, OperatorEntered{Op: calculator.Add}, 0)
	assert.True(t, math.IsNaN(s.(AwaitingOperand).Left))
}

func TestOutcomeKind(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome{Value: 1}.Kind())
	assert.Equal(t, OutcomeComputeError, Outcome{Err: &remote.ComputeError{}}.Kind())
	assert.Equal(t, OutcomeTransportError, Outcome{Err: &remote.TransportError{Err: errConnectionRefused}}.Kind())
	assert.Equal(t, OutcomeTransportError, Outcome{Err: errors.New("panic in handler")}.Kind())
}
