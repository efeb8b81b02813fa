// Package panel is the thin HTTP presentation layer over the keypad state
// machine: one endpoint per key plus state and change-stream reads.
package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultHeartbeat = 15 * time.Second

type Panel struct {
	keypad    Keypad
	heartbeat time.Duration
}

// Option configures a Panel.
type Option func(*Panel)

// WithHeartbeat sets the interval of SSE keep-alive comments.
func WithHeartbeat(d time.Duration) Option {
	return func(p *Panel) {
		if d > 0 {
			p.heartbeat = d
		}
	}
}

func New(k Keypad, opts ...Option) *Panel {
	p := &Panel{keypad: k, heartbeat: defaultHeartbeat}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State handles GET /keypad/state.
func (p *Panel) State(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, p.keypad.Snapshot())
}

// Digit handles POST /keypad/digit/{digit}.
func (p *Panel) Digit(w http.ResponseWriter, r *http.Request) {
	snap, err := p.keypad.Digit(chi.URLParam(r, "digit"))
	p.respond(w, r, "digit", snap, err)
}

// Operator handles POST /keypad/operator/{op}. The operator may be a name
// ("divide") or an escaped symbol ("%2F").
func (p *Panel) Operator(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "op"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid_operator", err.Error())
		return
	}
	op, err := calculator.ParseOperator(raw)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid_operator", err.Error())
		return
	}
	snap, err := p.keypad.Operator(op)
	p.respond(w, r, "operator", snap, err)
}

// Equals handles POST /keypad/equals.
func (p *Panel) Equals(w http.ResponseWriter, r *http.Request) {
	snap, err := p.keypad.Equals()
	p.respond(w, r, "equals", snap, err)
}

// Clear handles POST /keypad/clear.
func (p *Panel) Clear(w http.ResponseWriter, r *http.Request) {
	snap, err := p.keypad.Clear()
	p.respond(w, r, "clear", snap, err)
}

// respond writes the state after a key press: 202 when the key issued a
// calculation, 200 otherwise, 409 when refused during an evaluation.
func (p *Panel) respond(w http.ResponseWriter, r *http.Request, key string, snap keypad.Snapshot, err error) {
	switch {
	case err == nil && snap.InFlight:
		handlers.WriteJSON(w, http.StatusAccepted, snap)
	case err == nil:
		handlers.WriteJSON(w, http.StatusOK, snap)
	case errors.Is(err, keypad.ErrBusy):
		handlers.WriteJSON(w, http.StatusConflict, RejectedResponse{
			Error: err.Error(),
			Code:  "request_in_flight",
			State: snap,
		})
	case errors.Is(err, keypad.ErrInvalidDigit):
		handlers.WriteError(w, http.StatusBadRequest, "invalid_digit", err.Error())
	case errors.Is(err, keypad.ErrInvalidOperator):
		handlers.WriteError(w, http.StatusBadRequest, "invalid_operator", err.Error())
	default:
		observability.LoggerWithTrace(r.Context()).Error("keypad unavailable",
			zap.String("key", key),
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		handlers.WriteError(w, http.StatusServiceUnavailable, "keypad_unavailable", err.Error())
	}
}

// Events handles GET /keypad/events: a server-sent event stream with the
// current state first and then every change.
func (p *Panel) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.WriteError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}

	updates, unsubscribe := p.keypad.Subscribe(16)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeState(w, p.keypad.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(p.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeState(w, snap); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeState(w http.ResponseWriter, snap keypad.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return err
}
