// Package remote is the HTTP client for the calculation service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
)

const maxResponseBytes = 1 << 16

// Client calls POST {BaseURL}/calculator/calculate.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// NewClient returns a client for the service at baseURL. Outbound calls are
// traced and carry the caller's request ID.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: observability.NewTransport(nil),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate returns a op b as computed by the service. Domain failures are
// *ComputeError, everything else is *TransportError.
func (c *Client) Calculate(ctx context.Context, op calculator.Operator, a, b float64) (float64, error) {
	// JSON has no encoding for NaN or ±Inf, and the service would reject
	// them anyway.
	if !finite(a) || !finite(b) {
		return 0, &ComputeError{
			Code:    calculator.CodeNonFinite,
			Message: fmt.Sprintf("operands must be finite: a=%g b=%g", a, b),
		}
	}

	payload, err := json.Marshal(calculator.CalculateRequest{Op: op.String(), A: a, B: b})
	if err != nil {
		return 0, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calculator/calculate", bytes.NewReader(payload))
	if err != nil {
		return 0, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &TransportError{Op: "read", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var out calculator.CalcResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return 0, &TransportError{Op: "decode", Err: err}
		}
		return out.Result, nil

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		var out observability.ErrorBody
		if err := json.Unmarshal(body, &out); err != nil || out.Error == "" {
			return 0, &TransportError{Op: "decode", Err: fmt.Errorf("unexpected %d body: %q", resp.StatusCode, truncate(body))}
		}
		return 0, &ComputeError{Code: out.Code, Message: out.Error, Status: resp.StatusCode}

	default:
		return 0, &TransportError{Op: "post", Err: fmt.Errorf("unexpected status %d: %q", resp.StatusCode, truncate(body))}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
