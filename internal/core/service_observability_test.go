package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	entries []logEntry
}

func (c *captureLogger) Debug(msg string, args ...any) { c.add("debug", msg, args) }
func (c *captureLogger) Info(msg string, args ...any)  { c.add("info", msg, args) }
func (c *captureLogger) Warn(msg string, args ...any)  { c.add("warn", msg, args) }
func (c *captureLogger) Error(msg string, args ...any) { c.add("error", msg, args) }

func (c *captureLogger) add(level, msg string, args []any) {
	c.entries = append(c.entries, logEntry{level: level, msg: msg, args: args})
}

func (c *captureLogger) has(level, msg string) bool {
	for _, e := range c.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func TestServiceObservabilityHooks(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	rec := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	logger := &captureLogger{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(
		WithAuditRecorder(audit),
		WithMetricsRecorder(rec),
		WithTracer(tracer),
		WithLogger(logger),
		WithClock(ClockFunc(func() time.Time { return fixed })),
		WithMetricsConfig(testConfig()),
	)

	h, err := svc.CreateStore(ctx, seedEntities())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	good := scenario(t, "bump", domain.FromPeriod(1), domain.Add("income", 5))
	applied, err := svc.ApplyScenario(ctx, h, good)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied.AppliedAt.Equal(fixed) {
		t.Fatalf("expected injected clock, got %v", applied.AppliedAt)
	}
	bad := scenario(t, "ghost", domain.ByID(domain.KindMember, "nobody"), domain.Add(domain.FieldValue, 1))
	if _, err := svc.ApplyScenario(ctx, h, bad); err == nil {
		t.Fatalf("expected no target error")
	}

	if !audit.has("apply_scenario", AuditStatusSuccess, func(e AuditEntry) bool {
		return e.SessionID == h.ID() && e.EntityID == "bump" && e.Timestamp.Equal(fixed)
	}) {
		t.Fatalf("missing successful apply audit: %+v", audit.entries)
	}
	if !audit.has("apply_scenario", AuditStatusError, func(e AuditEntry) bool {
		return strings.Contains(e.Error, "ghost")
	}) {
		t.Fatalf("missing failed apply audit: %+v", audit.entries)
	}
	if !audit.has("create_store", AuditStatusSuccess, nil) {
		t.Fatalf("missing create_store audit")
	}
	if !rec.has("apply_scenario", true) || !rec.has("apply_scenario", false) {
		t.Fatalf("metrics not recorded: %+v", rec.calls)
	}
	if len(tracer.started) != len(tracer.ended) {
		t.Fatalf("unbalanced spans: %v vs %d", tracer.started, len(tracer.ended))
	}
	var failed bool
	for _, span := range tracer.ended {
		var nt *domain.NoTargetError
		if span.op == "apply_scenario" && errors.As(span.err, &nt) {
			failed = true
		}
	}
	if !failed {
		t.Fatalf("expected failed apply span")
	}
	if !logger.has("error", "whatif operation failed") || !logger.has("info", "scenario applied") {
		t.Fatalf("missing log entries: %+v", logger.entries)
	}
}

func TestServiceNilSession(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	svc := NewService(WithAuditRecorder(audit))
	sc := scenario(t, "x", domain.FromPeriod(1), domain.Add("income", 1))

	if _, err := svc.PreviewScenario(ctx, nil, sc); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if _, err := svc.ApplyScenario(ctx, nil, sc); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if _, err := svc.GetDerivedMetrics(ctx, nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if _, err := svc.ExportTable(ctx, nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if svc.Undo(ctx, nil) || svc.Redo(ctx, nil) {
		t.Fatalf("undo/redo on nil session must be false")
	}
	svc.Reset(ctx, nil)
	if !audit.has("reset", AuditStatusSuccess, nil) {
		t.Fatalf("reset should still be audited")
	}
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "whatif_service_metrics_") {
		t.Fatalf("unexpected name %s", rec.Name())
	}
	rec.Observe(context.Background(), "apply_scenario", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "apply_scenario", false, 5*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	stats := rec.Snapshot().Operations["apply_scenario"]
	if stats.Success != 1 || stats.Error != 1 || stats.SlowestMS != 5 || stats.TotalMS != 7 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.LastOutcome != string(AuditStatusError) {
		t.Fatalf("unexpected last outcome %s", stats.LastOutcome)
	}
	if len(rec.Snapshot().Operations) != 1 {
		t.Fatalf("empty operation must be ignored")
	}
	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), "apply_scenario") {
		t.Fatalf("recorder not published via expvar")
	}
}

func TestJSONTraceTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{start, start.Add(3 * time.Millisecond)}
	tracer.now = func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	_, span := tracer.Start(context.Background(), "export_table")
	span.End(errors.New("disk full"))
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("End must be idempotent, got %d entries", len(entries))
	}
	if entries[0].Status != string(AuditStatusError) || entries[0].DurationMS != 3 || entries[0].Error != "disk full" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode trace line: %v", err)
	}
	if decoded.Operation != "export_table" {
		t.Fatalf("unexpected trace line %s", buf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	svc := NewService(WithMetricsRecorder(rec))
	ctx := context.Background()
	h, err := svc.CreateStore(ctx, seedEntities())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	svc.Undo(ctx, h)
	svc.Undo(ctx, h)

	if got := testutil.ToFloat64(rec.Operations.WithLabelValues("undo", "success")); got != 2 {
		t.Fatalf("expected 2 undo observations, got %v", got)
	}
	if got := testutil.ToFloat64(rec.Operations.WithLabelValues("create_store", "success")); got != 1 {
		t.Fatalf("expected 1 create_store observation, got %v", got)
	}

	again, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if again.Operations != rec.Operations {
		t.Fatalf("expected existing collector to be reused")
	}
}
