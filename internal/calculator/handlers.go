package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Calculate handles POST /calculator/calculate, the single
// calculate(op, a, b) capability the keypad depends on.
func Calculate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startOperationSpan(r, "calculate")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", CodeInvalidBody, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, err := ParseOperator(req.Op)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", CodeUnknownOperator, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	evaluate(ctx, span, logger, w, op, req.A, req.B)
}

// OperationHandler returns the handler for POST /calculator/<name>, where the
// operator is fixed by the route and the body only carries the operands.
func OperationHandler(op Operator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startOperationSpan(r, op.Name())
		defer span.End()
		logger := observability.LoggerWithTrace(ctx)

		var req CalcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, op.Name(), CodeInvalidBody, "invalid request body", err, http.StatusBadRequest, w)
			return
		}

		evaluate(ctx, span, logger, w, op, req.A, req.B)
	}
}

func startOperationSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return tracer.Start(r.Context(), fmt.Sprintf("calculator.%s", name),
		trace.WithAttributes(
			attribute.String("calculator.operation", name),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
}

// evaluate runs Apply and reports the outcome on the span, the metric
// instruments, the log and the response. Domain failures (division by zero,
// overflow) are 422 so clients can tell them apart from malformed requests.
func evaluate(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, op Operator, a, b float64) {
	opName := op.Name()
	requestID := observability.RequestIDFromContext(ctx)

	span.SetAttributes(
		attribute.String("calculator.operator", op.String()),
		attribute.Float64("calculator.operand.a", a),
		attribute.Float64("calculator.operand.b", b),
	)

	start := time.Now()
	result, err := Apply(op, a, b)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, ErrorCode(err), err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", a),
		zap.Float64("b", b),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	resp := CalcResponse{
		Operation: opName,
		Op:        op.String(),
		A:         a,
		B:         b,
		Result:    result,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
