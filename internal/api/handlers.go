package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Mask13/IS601-Midterm/internal/engine"
	"github.com/Mask13/IS601-Midterm/internal/handlers"
	"github.com/Mask13/IS601-Midterm/internal/observability"
	"github.com/Mask13/IS601-Midterm/internal/operations"
	"github.com/Mask13/IS601-Midterm/internal/validator"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// statusFor maps the engine's error taxonomy to HTTP statuses: malformed
// operands and unknown operations are client errors, strategy precondition
// violations are unprocessable, anything else (fatal persistence paths) is a
// server error.
func statusFor(err error) int {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, operations.ErrUnknownOperation) {
		return http.StatusNotFound
	}
	var opErr *engine.OperationError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Cause, operations.ErrDivisionByZero),
			errors.Is(opErr.Cause, operations.ErrOperandType),
			errors.Is(opErr.Cause, operations.ErrOperandValue):
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// Calculate handles POST /calculator/{operation}: resolves the named
// strategy, performs the calculation through the engine, and returns the
// exact decimal result.
func (a *API) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	opName := chi.URLParam(r, "operation")

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	op, err := a.registry.Get(opName)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "unknown operation", err, http.StatusNotFound, w)
		return
	}

	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operand.a", string(req.A)),
		attribute.String("calculator.operand.b", string(req.B)),
	)

	start := time.Now()
	a.mu.Lock()
	a.calc.SetOperation(op)
	result, err := a.calc.PerformOperation(string(req.A), string(req.B))
	historySize := len(a.calc.History())
	a.mu.Unlock()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	historyGauge.Record(ctx, int64(historySize))

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", result.String()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", result.String()))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.String("a", string(req.A)),
		zap.String("b", string(req.B)),
		zap.String("result", result.String()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, calcResponse{
		Operation: opName,
		A:         string(req.A),
		B:         string(req.B),
		Result:    result.String(),
	})
}

// Operations handles GET /calculator/operations.
func (a *API) Operations(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, operationsResponse{
		Operations: a.registry.Names(),
	})
}

// History handles GET /calculator/history.
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	recs := a.calc.History()
	a.mu.Unlock()

	payload := make([]recordPayload, 0, len(recs))
	for _, rec := range recs {
		payload = append(payload, newRecordPayload(rec))
	}
	handlers.WriteJSON(w, http.StatusOK, historyResponse{History: payload})
}

// Undo handles POST /calculator/undo.
func (a *API) Undo(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	performed := a.calc.Undo()
	historySize := len(a.calc.History())
	a.mu.Unlock()

	historyGauge.Record(r.Context(), int64(historySize))
	handlers.WriteJSON(w, http.StatusOK, stackResponse{Performed: performed})
}

// Redo handles POST /calculator/redo.
func (a *API) Redo(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	performed := a.calc.Redo()
	historySize := len(a.calc.History())
	a.mu.Unlock()

	historyGauge.Record(r.Context(), int64(historySize))
	handlers.WriteJSON(w, http.StatusOK, stackResponse{Performed: performed})
}

// ClearHistory handles POST /calculator/history/clear. The optional persist
// query parameter overrides the configured default.
func (a *API) ClearHistory(w http.ResponseWriter, r *http.Request) {
	var persist []bool
	if raw := r.URL.Query().Get("persist"); raw != "" {
		p, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid persist value: %q", raw))
			return
		}
		persist = append(persist, p)
	}

	a.mu.Lock()
	err := a.calc.ClearHistory(persist...)
	a.mu.Unlock()

	if err != nil {
		a.recordHistoryError(w, r, "clear", err)
		return
	}
	historyGauge.Record(r.Context(), 0)
	w.WriteHeader(http.StatusNoContent)
}

// SaveHistory handles POST /calculator/history/save.
func (a *API) SaveHistory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	err := a.calc.SaveHistory()
	a.mu.Unlock()

	if err != nil {
		a.recordHistoryError(w, r, "save", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadHistory handles POST /calculator/history/load.
func (a *API) LoadHistory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	err := a.calc.LoadHistory()
	historySize := len(a.calc.History())
	a.mu.Unlock()

	if err != nil {
		a.recordHistoryError(w, r, "load", err)
		return
	}
	historyGauge.Record(r.Context(), int64(historySize))
	w.WriteHeader(http.StatusNoContent)
}

// HistoryLive handles GET /calculator/history/live: upgrades to a websocket
// and streams each new calculation record as JSON.
func (a *API) HistoryLive(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerWithTrace(r.Context())
	a.feed.serve(w, r, logger)
}

func (a *API) recordHistoryError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)
	observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
}
