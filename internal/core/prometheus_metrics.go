package core

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports operation counters and latency histograms.
type PrometheusMetricsRecorder struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the whatif collectors on reg.
// A nil reg uses the default registerer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "whatif_operations_total",
		Help: "Total service operations by operation and result",
	}, []string{"operation", "result"})
	dur := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whatif_operation_duration_seconds",
		Help:    "Service operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"operation"})

	var err error
	if ops, err = registerOrReuse(reg, ops); err != nil {
		return nil, err
	}
	if dur, err = registerOrReuse(reg, dur); err != nil {
		return nil, err
	}
	return &PrometheusMetricsRecorder{Operations: ops, Duration: dur}, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	result := string(AuditStatusSuccess)
	if !success {
		result = string(AuditStatusError)
	}
	r.Operations.WithLabelValues(operation, result).Inc()
	r.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

