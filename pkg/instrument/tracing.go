package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Default tracer name.
const defaultTracerName = "reconcile"

// SpanName is the name of the span recorded around each render.
const SpanName = "reconcile.render"

// Option configures a traced Container.
type Option func(*Container)

// WithMetrics records every render in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithTracerProvider sets the tracer provider.
// Default: the global provider from otel.GetTracerProvider().
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Container) {
		c.provider = tp
	}
}

// WithTracerName sets the tracer name (default: "reconcile").
func WithTracerName(name string) Option {
	return func(c *Container) {
		c.tracerName = name
	}
}

// Container wraps a vdom.Container with a span and metrics per render.
// Like the container it wraps, it is not safe for concurrent use.
type Container struct {
	inner      *vdom.Container
	metrics    *Metrics
	provider   trace.TracerProvider
	tracerName string
	tracer     trace.Tracer
}

// Wrap instruments c.
func Wrap(c *vdom.Container, opts ...Option) *Container {
	tc := &Container{inner: c, tracerName: defaultTracerName}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.provider == nil {
		tc.provider = otel.GetTracerProvider()
	}
	tc.tracer = tc.provider.Tracer(tc.tracerName)
	return tc
}

// Unwrap returns the instrumented container.
func (c *Container) Unwrap() *vdom.Container {
	return c.inner
}

// Render renders next inside a span. The span carries the render's stats
// and, on failure, the error and its code.
func (c *Container) Render(ctx context.Context, next *vdom.VNode) error {
	_, span := c.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("reconcile.state", c.inner.State().String()),
			attribute.String("reconcile.strategy", c.inner.Options().Strategy.String()),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.inner.Render(next)
	elapsed := time.Since(start)

	stats := c.inner.Stats()
	span.SetAttributes(
		attribute.String("reconcile.mode", stats.Mode.String()),
		attribute.Int("reconcile.created", stats.Created),
		attribute.Int("reconcile.patched", stats.Patched),
		attribute.Int("reconcile.replaced", stats.Replaced),
		attribute.Int("reconcile.removed", stats.Removed),
		attribute.Int("reconcile.moved", stats.Moved),
		attribute.Int("reconcile.host_ops", stats.HostOps),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errors.Code(err); code != "" {
			span.SetAttributes(attribute.String("reconcile.error_code", code))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	c.metrics.ObserveRender(stats, elapsed, err)
	return err
}
