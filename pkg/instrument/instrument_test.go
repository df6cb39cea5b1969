package instrument

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/hostlog"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

// recordingSpan captures what the container writes to its span.
type recordingSpan struct {
	noop.Span

	mu     sync.Mutex
	name   string
	attrs  map[attribute.Key]attribute.Value
	errs   []error
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	s.status = code
	s.mu.Unlock()
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &recordingSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	cfg := trace.NewSpanStartConfig(opts...)
	span.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
	names  []string
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.names = append(p.names, name)
	return p.tracer
}

func newProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

type harness struct {
	reg *prometheus.Registry
	m   *Metrics
	doc *dom.Document
	rec *hostlog.Recorder
	tp  *recordingProvider
	c   *Container
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{reg: prometheus.NewRegistry(), doc: dom.New("body"), tp: newProvider()}
	h.m = NewMetrics(WithRegistry(h.reg))
	h.rec = hostlog.New(Host(h.doc, h.m))
	inner := vdom.NewContainer(h.rec, h.doc.Root(), vdom.WithLogger(quiet))
	h.c = Wrap(inner, WithMetrics(h.m), WithTracerProvider(h.tp), WithTracerName("test"))
	return h
}

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.ObserveRender(vdom.Stats{Mode: vdom.ModeMount}, 0, nil)
	m.ObserveHostOp(vdom.OpCreateElement)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"app_ui_renders_total",
		"app_ui_render_duration_seconds",
		"app_ui_host_ops_total",
		"app_ui_nodes_moved_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered; have %v", want, names)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRender(vdom.Stats{}, 0, errors.New("boom"))
	m.ObserveHostOp(vdom.OpSetText)
}

func TestRenderMetrics(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.c.Render(ctx, vdom.Div(vdom.ID("app"), "hello")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := h.c.Render(ctx, vdom.Div(vdom.ID("app"), "bye")); err != nil {
		t.Fatalf("patch: %v", err)
	}

	if got := metricCounterValue(t, h.m.rendersTotal.WithLabelValues("mount")); got != 1 {
		t.Errorf("renders_total{mode=mount} = %v, want 1", got)
	}
	if got := metricCounterValue(t, h.m.rendersTotal.WithLabelValues("patch")); got != 1 {
		t.Errorf("renders_total{mode=patch} = %v, want 1", got)
	}
	if got := metricHistogramCount(t, h.m.renderDuration); got != 2 {
		t.Errorf("render_duration_seconds count = %d, want 2", got)
	}

	tests := []struct {
		op   vdom.OpCode
		want float64
	}{
		{vdom.OpCreateElement, 1},
		{vdom.OpCreateText, 1},
		{vdom.OpAppendChild, 2},
		{vdom.OpSetAttribute, 1},
		{vdom.OpSetText, 1},
		{vdom.OpRemoveChild, 0},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := metricCounterValue(t, h.m.hostOps.WithLabelValues(tt.op.String()))
			if got != tt.want {
				t.Errorf("host_ops_total{op=%s} = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestRenderSpan(t *testing.T) {
	h := newHarness(t)
	if err := h.c.Render(context.Background(), vdom.Ul(
		vdom.Li(vdom.Key("a"), "A"),
		vdom.Li(vdom.Key("b"), "B"),
	)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(h.tp.names) != 1 || h.tp.names[0] != "test" {
		t.Errorf("tracer names = %v, want [test]", h.tp.names)
	}
	spans := h.tp.tracer.spans
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.name != SpanName {
		t.Errorf("span name = %q, want %q", span.name, SpanName)
	}
	if !span.ended {
		t.Error("span not ended")
	}
	if span.status != codes.Ok {
		t.Errorf("span status = %v, want Ok", span.status)
	}

	checks := map[attribute.Key]string{
		"reconcile.state":    "unmounted",
		"reconcile.strategy": "lis",
		"reconcile.mode":     "mount",
	}
	for k, want := range checks {
		if got := span.attrs[k].AsString(); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if got := span.attrs["reconcile.created"].AsInt64(); got != 5 {
		t.Errorf("reconcile.created = %d, want 5", got)
	}
}

func TestRenderFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if err := h.c.Render(ctx, vdom.P("one")); err != nil {
		t.Fatalf("mount: %v", err)
	}

	boom := errors.New("boom")
	h.rec.FailOn(vdom.OpSetText, boom)
	err := h.c.Render(ctx, vdom.P("two"))
	if !errors.Is(err, boom) {
		t.Fatalf("Render error = %v, want wrapping boom", err)
	}

	span := h.tp.tracer.spans[1]
	if span.status != codes.Error {
		t.Errorf("span status = %v, want Error", span.status)
	}
	if len(span.errs) != 1 {
		t.Errorf("recorded %d errors, want 1", len(span.errs))
	}
	if got := span.attrs["reconcile.error_code"].AsString(); got != "E103" {
		t.Errorf("reconcile.error_code = %q, want E103", got)
	}
	if got := metricCounterValue(t, h.m.renderErrors.WithLabelValues("E103")); got != 1 {
		t.Errorf("render_errors_total{code=E103} = %v, want 1", got)
	}
	// The failed SetText never reached the document.
	if got := metricCounterValue(t, h.m.hostOps.WithLabelValues(vdom.OpSetText.String())); got != 0 {
		t.Errorf("host_ops_total{op=SetText} = %v, want 0", got)
	}
	if h.c.Unwrap().State() != vdom.StateFailed {
		t.Errorf("State() = %s, want failed", h.c.Unwrap().State())
	}
}

func TestUncodedErrorLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	m.ObserveRender(vdom.Stats{Mode: vdom.ModePatch, Moved: 3}, 0, errors.New("plain"))

	if got := metricCounterValue(t, m.renderErrors.WithLabelValues("unknown")); got != 1 {
		t.Errorf("render_errors_total{code=unknown} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.nodesMoved); got != 3 {
		t.Errorf("nodes_moved_total = %v, want 3", got)
	}
}
