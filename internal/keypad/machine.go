package keypad

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/remote"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("keypad")

var (
	ErrBusy            = errors.New("evaluation in flight")
	ErrInvalidDigit    = errors.New("invalid digit")
	ErrInvalidOperator = errors.New("invalid operator")
	ErrClosed          = errors.New("keypad closed")
)

// Calculator performs one remote calculation. *remote.Client implements it.
type Calculator interface {
	Calculate(ctx context.Context, op calculator.Operator, a, b float64) (float64, error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger; the default is observability.Logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithRequestTimeout bounds each calculation. Zero, the default, waits for
// the Calculator indefinitely; Clear still works meanwhile.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Machine) {
		m.timeout = d
	}
}

// Machine runs the state machine for one keypad session. Events are applied
// one at a time; a calculation runs on its own goroutine and its outcome is
// applied through Resolve when it completes.
type Machine struct {
	calc    Calculator
	logger  *zap.Logger
	timeout time.Duration

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc // outstanding calculation, if any
	subs       map[int]chan Snapshot
	nextSub    int
	closed     bool

	wg sync.WaitGroup
}

func New(calc Calculator, opts ...Option) *Machine {
	m := &Machine{
		calc:  calc,
		state: Initial(),
		subs:  make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = observability.Logger
	}
	return m
}

// Digit enters d, one of 0-9 or ".".
func (m *Machine) Digit(d string) (Snapshot, error) {
	if !ValidDigit(d) {
		return m.Snapshot(), fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}
	return m.dispatch(DigitEntered{Digit: d})
}

// Operator selects op, evaluating any pending operation first.
func (m *Machine) Operator(op calculator.Operator) (Snapshot, error) {
	if !op.Valid() {
		return m.Snapshot(), fmt.Errorf("%w: %q", ErrInvalidOperator, string(op))
	}
	return m.dispatch(OperatorEntered{Op: op})
}

// Equals evaluates the pending operation. Without one it changes nothing.
func (m *Machine) Equals() (Snapshot, error) {
	return m.dispatch(EqualsPressed{})
}

// Clear resets the machine. An outstanding calculation is cancelled and its
// outcome, whenever it arrives, is discarded.
func (m *Machine) Clear() (Snapshot, error) {
	return m.dispatch(ClearPressed{})
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SnapshotOf(m.state, m.generation)
}

// Subscribe returns a channel that receives a Snapshot after every change.
// Slow readers only miss intermediate snapshots, never the latest one. The
// returned func unsubscribes and closes the channel.
func (m *Machine) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until no calculation goroutine is running.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Close cancels any outstanding calculation, waits for it, and closes all
// subscriptions. Further events return ErrClosed.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

func (m *Machine) dispatch(ev Event) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return SnapshotOf(m.state, m.generation), ErrClosed
	}

	_, isClear := ev.(ClearPressed)
	if _, busy := m.state.(Evaluating); busy && !isClear {
		rejectedCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", ev.Name())))
		m.logger.Debug("key ignored while evaluating",
			zap.String("event", ev.Name()),
			zap.Uint64("generation", m.generation),
		)
		return SnapshotOf(m.state, m.generation), ErrBusy
	}

	if isClear {
		m.generation++
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
	}

	next, req := Transition(m.state, ev, m.generation+1)
	if req != nil {
		m.generation = req.Generation
		m.start(*req)
	}
	m.state = next

	snap := SnapshotOf(m.state, m.generation)
	m.publishLocked(snap)
	return snap, nil
}

// start launches the calculation for req. Callers hold m.mu.
func (m *Machine) start(req Request) {
	ctx, cancel := context.WithCancel(context.Background())
	if m.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, m.timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}
	m.cancel = cancel

	// The request ID follows the call to the service's logs.
	ctx = observability.ContextWithRequestID(ctx, observability.NewRequestID())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.run(ctx, req)
	}()
}

func (m *Machine) run(ctx context.Context, req Request) {
	ctx, span := tracer.Start(ctx, "keypad.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operator", req.Op.String()),
			attribute.Float64("calculator.operand.a", req.Left),
			attribute.Float64("calculator.operand.b", req.Right),
			attribute.Int64("keypad.generation", int64(req.Generation)),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	start := time.Now()
	value, err := m.calc.Calculate(ctx, req.Op, req.Left, req.Right)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	out := Outcome{Value: value, Err: err}

	m.mu.Lock()
	next, applied := Resolve(m.state, req.Generation, out)
	current := m.generation
	if applied {
		m.state = next
		m.cancel = nil
		m.publishLocked(SnapshotOf(m.state, m.generation))
	}
	m.mu.Unlock()

	m.report(ctx, span, req, out, applied, current, elapsed)
}

// report logs and records one resolution. Computation errors and transport
// failures show the same display but are logged apart so "bad math" can be
// told from "service unavailable".
func (m *Machine) report(ctx context.Context, span trace.Span, req Request, out Outcome, applied bool, current uint64, elapsed float64) {
	logger := observability.WithTrace(m.logger, ctx).With(
		zap.String("operator", req.Op.String()),
		zap.Float64("a", req.Left),
		zap.Float64("b", req.Right),
		zap.Uint64("generation", req.Generation),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	outcome := string(out.Kind())
	if !applied {
		outcome = "stale"
	}
	evaluationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	evaluationDuration.Record(ctx, elapsed, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(attribute.String("keypad.outcome", outcome))

	if !applied {
		span.AddEvent("result.discarded")
		logger.Info("discarding stale evaluation result",
			zap.Bool("stale", true),
			zap.Uint64("current_generation", current),
			zap.String("outcome", string(out.Kind())),
		)
		return
	}

	switch out.Kind() {
	case OutcomeSuccess:
		span.SetStatus(codes.Ok, "")
		logger.Info("evaluation resolved", zap.Float64("result", out.Value))

	case OutcomeComputeError:
		var computeErr *remote.ComputeError
		errors.As(out.Err, &computeErr)
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, "compute error")
		logger.Warn("evaluation failed",
			zap.String("error_kind", "compute"),
			zap.String("code", computeErr.Code),
			zap.Error(out.Err),
		)

	case OutcomeTransportError:
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, "transport error")
		logger.Error("evaluation failed",
			zap.String("error_kind", "transport"),
			zap.Error(out.Err),
		)
	}
}

// publishLocked hands snap to every subscriber without blocking. A full
// channel drops its oldest snapshot. Callers hold m.mu.
func (m *Machine) publishLocked(snap Snapshot) {
	for _, ch := range m.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
