package observability

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewTransport wraps base for outbound calls: the request ID from the
// request context (or a fresh one) is forwarded in X-Request-ID, and
// otelhttp adds a client span plus trace context headers.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(requestIDTransport{next: base})
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(r)
	}

	id := RequestIDFromContext(r.Context())
	if id == "" {
		id = NewRequestID()
	}

	// RoundTrippers must not mutate the caller's request.
	r = r.Clone(r.Context())
	r.Header.Set(RequestIDHeader, id)
	return t.next.RoundTrip(r)
}
