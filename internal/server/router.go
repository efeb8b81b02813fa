package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

type options struct {
	routes    []func(chi.Router)
	rateLimit func(http.Handler) http.Handler
}

// Option configures NewRouter.
type Option func(*options)

// WithRoutes mounts a domain's endpoints, e.g. calculator.RegisterRoutes.
func WithRoutes(register func(chi.Router)) Option {
	return func(o *options) {
		o.routes = append(o.routes, register)
	}
}

// NewRouter builds the shared middleware chain, the health and metrics
// endpoints, and the domain routes. Rate limiting, when configured, only
// applies to domain routes.
func NewRouter(opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	r.Group(func(r chi.Router) {
		if o.rateLimit != nil {
			r.Use(o.rateLimit)
		}
		for _, register := range o.routes {
			register(r)
		}
	})

	return r
}
