package keypad

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	evaluationCounter  metric.Int64Counter     = noop.Int64Counter{}
	evaluationDuration metric.Float64Histogram = noop.Float64Histogram{}
	rejectedCounter    metric.Int64Counter     = noop.Int64Counter{}
)

// InitMetrics registers the keypad's OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("keypad")

	var err error

	evaluationCounter, err = meter.Int64Counter("keypad.evaluations.total",
		metric.WithDescription("Remote evaluations by outcome (success, compute_error, transport_error, stale)"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation counter: %w", err)
	}

	evaluationDuration, err = meter.Float64Histogram("keypad.evaluation.duration",
		metric.WithDescription("Round trip of remote evaluations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation histogram: %w", err)
	}

	rejectedCounter, err = meter.Int64Counter("keypad.events.rejected.total",
		metric.WithDescription("Key events rejected while an evaluation was in flight"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating rejected counter: %w", err)
	}

	return nil
}
