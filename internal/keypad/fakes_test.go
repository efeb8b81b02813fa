package keypad

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/remote"
)

type recordedCall struct {
	Op   calculator.Operator
	A, B float64
}

// localCalculator answers immediately with calculator.Apply, reporting
// domain failures the way the remote client does.
type localCalculator struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (c *localCalculator) Calculate(_ context.Context, op calculator.Operator, a, b float64) (float64, error) {
	c.mu.Lock()
	c.calls = append(c.calls, recordedCall{Op: op, A: a, B: b})
	c.mu.Unlock()

	v, err := calculator.Apply(op, a, b)
	if err != nil {
		return 0, &remote.ComputeError{Code: calculator.ErrorCode(err), Message: err.Error()}
	}
	return v, nil
}

func (c *localCalculator) Calls() []recordedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]recordedCall(nil), c.calls...)
}

// pendingCall is one call to a gatedCalculator waiting for its outcome.
type pendingCall struct {
	recordedCall
	ctx   context.Context
	reply chan Outcome
}

// gatedCalculator blocks every call until the test replies, giving tests
// full control over latency and outcome.
type gatedCalculator struct {
	calls chan *pendingCall
	// ignoreCancel keeps a call blocked after its context is cancelled,
	// like a service that never notices the client went away.
	ignoreCancel bool

	released    chan struct{}
	releaseOnce sync.Once
}

func newGatedCalculator() *gatedCalculator {
	return &gatedCalculator{
		calls:    make(chan *pendingCall, 8),
		released: make(chan struct{}),
	}
}

// release fails every call still waiting for a reply, including those that
// ignore cancellation.
func (g *gatedCalculator) release() {
	g.releaseOnce.Do(func() { close(g.released) })
}

func (g *gatedCalculator) Calculate(ctx context.Context, op calculator.Operator, a, b float64) (float64, error) {
	call := &pendingCall{
		recordedCall: recordedCall{Op: op, A: a, B: b},
		ctx:          ctx,
		reply:        make(chan Outcome, 1),
	}
	g.calls <- call

	if g.ignoreCancel {
		select {
		case out := <-call.reply:
			return out.Value, out.Err
		case <-g.released:
			return 0, &remote.TransportError{Op: "post", Err: errConnectionRefused}
		}
	}

	select {
	case out := <-call.reply:
		return out.Value, out.Err
	case <-g.released:
		return 0, &remote.TransportError{Op: "post", Err: errConnectionRefused}
	case <-ctx.Done():
		return 0, &remote.TransportError{Op: "post", Err: ctx.Err()}
	}
}

// newGatedMachine wires a Machine to g and closes it when the test ends,
// releasing g first so a failing test cannot leave Close waiting on a call.
func newGatedMachine(t *testing.T, g *gatedCalculator, opts ...Option) *Machine {
	t.Helper()
	m := New(g, opts...)
	t.Cleanup(func() {
		g.release()
		m.Close()
	})
	return m
}

var errConnectionRefused = errors.New("connection refused")
