package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

// initObservability starts logging, tracing and metrics for the keypad and
// returns a func that flushes and stops them in reverse order.
func initObservability(ctx context.Context) (func(context.Context) error, error) {
	observability.SetDefaultServiceName("calculator-keypad")

	if err := observability.InitLogger(); err != nil {
		return nil, err
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		observability.SyncLogger()
		return errors.Join(errs...)
	}

	if observability.LogExportEnabled() {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if err := keypad.InitMetrics(); err != nil {
		shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
