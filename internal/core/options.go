package core

import (
	"context"
	"time"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Logger is the structured logging surface used by the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies timestamps for applied scenarios and audit entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

func utcNow() time.Time { return time.Now().UTC() }

// AuditStatus is the outcome recorded on an audit entry.
type AuditStatus string

// Audit outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one service operation.
type AuditEntry struct {
	Operation string
	SessionID string
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives an entry for every service operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes operation outcomes and latency.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan is ended once per traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type serviceOptions struct {
	logger  Logger
	clock   Clock
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	schema  domain.Schema
	config  metrics.Config
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		clock:   ClockFunc(utcNow),
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		schema:  domain.DefaultSchema(),
		config:  metrics.DefaultConfig(),
	}
}

// Option configures a Service.
type Option func(*serviceOptions)

// WithLogger sets the service logger. Nil keeps the no-op logger.
func WithLogger(logger Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.audit = recorder
		}
	}
}

// WithMetricsRecorder sets the operation metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) Option {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithSchema replaces the default field schema. Plugins extend whichever schema is set.
func WithSchema(schema domain.Schema) Option {
	return func(o *serviceOptions) {
		if schema != nil {
			o.schema = schema.Clone()
		}
	}
}

// WithMetricsConfig replaces the derived metric configuration used by new sessions.
func WithMetricsConfig(cfg metrics.Config) Option {
	return func(o *serviceOptions) {
		o.config = cfg.Clone()
	}
}
