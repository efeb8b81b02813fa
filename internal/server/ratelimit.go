package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"go-chi-calculator/internal/handlers"
)

// WithRateLimit limits domain routes to requests per window per client IP
// using httprate's sliding window counter. A non-positive limit disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(o *options) {
		if requests <= 0 || window <= 0 {
			o.rateLimit = nil
			return
		}
		o.rateLimit = httprate.Limit(
			requests,
			window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				handlers.WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests")
			}),
		)
	}
}
