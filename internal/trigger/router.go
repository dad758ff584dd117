// Package trigger exposes the HTTP endpoint that starts executions. A GET on
// the root path starts exactly one execution and acknowledges it with
// {"done": true} without waiting for the outcome.
package trigger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/metrics"
)

// Response headers identifying the started execution.
const (
	HeaderExecutionID = "X-Execution-Id"
	HeaderRunID       = "X-Run-Id"
)

// Option configures the router.
type Option func(*handler)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *handler) { h.logger = l }
}

// WithRateLimiter rejects requests with 429 once limiter is exhausted.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(h *handler) { h.limiter = l }
}

// WithMetrics records request counts and serves GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *handler) { h.metrics = m }
}

// WithDefaultInput sets the input used when the request has no overrides.
func WithDefaultInput(in domain.ExecutionInput) Option {
	return func(h *handler) { h.defaults = in }
}

// WithTracer sets the tracer for the per-request span.
func WithTracer(t trace.Tracer) Option {
	return func(h *handler) { h.tracer = t }
}

type handler struct {
	starter  Starter
	logger   *slog.Logger
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	defaults domain.ExecutionInput
	tracer   trace.Tracer
}

type errorBody struct {
	Error string `json:"error"`
}

// NewRouter returns the trigger routes:
//
//	GET /         start one execution
//	GET /healthz  liveness
//	GET /metrics  Prometheus metrics, when WithMetrics is set
func NewRouter(starter Starter, opts ...Option) http.Handler {
	h := &handler{
		starter:  starter,
		logger:   slog.Default(),
		defaults: domain.DefaultExecutionInput(),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/", h.trigger)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	return r
}

func (h *handler) trigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := h.tracer.Start(r.Context(), "trigger.start_execution")
	defer span.End()

	respond := func(code int, body any) {
		writeJSON(w, code, body)
		h.metrics.TriggerRequest(code, time.Since(start))
		span.SetAttributes(attribute.Int("http.status_code", code))
	}

	if h.limiter != nil && !h.limiter.Allow() {
		respond(http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
		return
	}

	in, err := decodeInput(h.defaults, r)
	if err != nil {
		span.SetStatus(codes.Error, "invalid input")
		respond(http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	span.SetAttributes(
		attribute.Int("numflow.max_number", in.MaxNumber),
		attribute.String("numflow.number_to_check", in.NumberToCheck),
	)

	ref, err := h.starter.StartExecution(ctx, in)
	h.metrics.ExecutionStarted(err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start failed")
		h.logger.ErrorContext(ctx, "start execution failed", "error", err)
		respond(http.StatusBadGateway, errorBody{Error: "failed to start execution"})
		return
	}

	span.SetAttributes(attribute.String("numflow.workflow_id", ref.WorkflowID))
	h.logger.InfoContext(ctx, "execution started",
		"workflow_id", ref.WorkflowID,
		"run_id", ref.RunID,
		"max_number", in.MaxNumber,
		"number_to_check", in.NumberToCheck)

	w.Header().Set(HeaderExecutionID, ref.WorkflowID)
	w.Header().Set(HeaderRunID, ref.RunID)
	respond(http.StatusOK, domain.Ack())
}

// decodeInput overlays the maxNumber and numberToCheck query parameters on
// defaults. Other parameters are ignored.
func decodeInput(defaults domain.ExecutionInput, r *http.Request) (domain.ExecutionInput, error) {
	in := defaults
	q := r.URL.Query()

	overrides := map[string]any{}
	for _, key := range []string{"maxNumber", "numberToCheck"} {
		if q.Has(key) {
			overrides[key] = q.Get(key)
		}
	}
	if len(overrides) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &in,
		})
		if err != nil {
			return in, err
		}
		if err := dec.Decode(overrides); err != nil {
			return in, err
		}
	}

	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
