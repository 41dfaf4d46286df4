// Package resilient wraps a TodoRepository with a circuit breaker, an
// optional rate limiter, OpenTelemetry spans, and operation metrics.
//
// Each call is processed in this order:
//
//	OTEL Span → Circuit Breaker → Rate Limiter → inner repository
//
// Construction:
//
//	repo := resilient.New(inner, "redis", &cfg.Store, metrics, logger)
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/platform/config"
	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Operation names used for spans and metric labels.
const (
	opCreate = "create"
	opGet    = "get"
	opList   = "list"
	opUpdate = "update"
	opDelete = "delete"
)

// Compile-time interface checks.
var (
	_ ports.TodoRepository = (*Store)(nil)
	_ ports.HealthChecker  = (*Store)(nil)
)

// Store decorates a TodoRepository. It satisfies ports.HealthChecker by
// combining the breaker state with the inner repository's own check.
type Store struct {
	inner   ports.TodoRepository
	system  string
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter // nil when rate limiting is disabled
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New wraps inner. The system names the engine in spans, metrics, and
// health reports (e.g., "redis"). If metrics is nil, metric recording is
// skipped; if logger is nil, breaker transitions are discarded.
func New(inner ports.TodoRepository, system string, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "store-" + system,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Store{
		inner:   inner,
		system:  system,
		breaker: cb,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// isSuccessful reports whether err leaves the breaker's failure count alone.
// Storage conditions describe the data, not the engine's health, and a
// canceled caller says nothing about the engine either.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, ports.ErrRecordNotFound) ||
		errors.Is(err, ports.ErrRecordExists) ||
		errors.Is(err, ports.ErrConcurrentUpdate) ||
		errors.Is(err, ports.ErrMalformedRecord) ||
		errors.Is(err, context.Canceled)
}

// Create delegates to the inner repository.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.do(ctx, opCreate, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Create(ctx, t)
		return err
	})
	return out, err
}

// Get delegates to the inner repository.
func (s *Store) Get(ctx context.Context, id string) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.do(ctx, opGet, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Get(ctx, id)
		return err
	})
	return out, err
}

// List delegates to the inner repository.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	var out []todo.Todo
	err := s.do(ctx, opList, func(ctx context.Context) error {
		var err error
		out, err = s.inner.List(ctx, filter)
		return err
	})
	return out, err
}

// Update delegates to the inner repository.
func (s *Store) Update(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.do(ctx, opUpdate, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Update(ctx, id, t)
		return err
	})
	return out, err
}

// Delete delegates to the inner repository.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.do(ctx, opDelete, func(ctx context.Context) error {
		return s.inner.Delete(ctx, id)
	})
}

// Name returns the health check identifier (e.g., "store-redis").
func (s *Store) Name() string {
	return "store-" + s.system
}

// HealthCheck reports the breaker state and, while the breaker is closed,
// the inner repository's own health check when it has one.
//
// State mapping:
//   - "closed": delegates to the inner check, or returns nil.
//   - "half-open": returns an error indicating degraded state.
//   - "open": returns an error indicating failure.
func (s *Store) HealthCheck(ctx context.Context) error {
	state := s.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		if hc, ok := s.inner.(ports.HealthChecker); ok {
			return hc.HealthCheck(ctx)
		}
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", s.Name())
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", s.Name())
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", s.Name(), state)
	}
}

// do runs fn inside a span, the breaker, and the rate limiter. Breaker
// rejections are reported as domain.ErrUnavailable.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()

	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		if err := s.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, fn(ctx)
	})

	result := resultOf(err)
	if result == "circuit_open" {
		err = fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, s.Name(), err)
	}

	s.finishSpan(span, err)
	s.recordMetrics(ctx, op, start, result)

	return err
}

// waitForRateLimit blocks until the rate limiter allows the call or the
// context is canceled. Returns nil immediately when rate limiting is disabled.
func (s *Store) waitForRateLimit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *Store) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("store")

	return tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.system),
			attribute.String("db.operation", op),
		),
	)
}

// finishSpan records the outcome on the span. Storage conditions are not
// span errors.
func (s *Store) finishSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	if !isSuccessful(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics records store operation duration and count metrics.
// Safe to call with nil metrics.
func (s *Store) recordMetrics(ctx context.Context, op string, start time.Time, result string) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreSystem.String(s.system),
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrResult.String(result),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, ports.ErrRecordNotFound):
		return "not_found"
	case isSuccessful(err):
		return "rejected"
	default:
		return "error"
	}
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
