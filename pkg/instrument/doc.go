// Package instrument adds Prometheus metrics and OpenTelemetry tracing to
// the reconciler.
//
// Metrics collected:
//   - reconcile_renders_total: renders by mode
//   - reconcile_render_duration_seconds: render latency
//   - reconcile_render_errors_total: failed renders by error code
//   - reconcile_host_ops_total: host mutations by operation
//   - reconcile_nodes_moved_total: host nodes repositioned by keyed diffs
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := instrument.NewMetrics(instrument.WithRegistry(reg))
//	host := instrument.Host(doc, m)
//	c := instrument.Wrap(vdom.NewContainer(host, doc.Root()), instrument.WithMetrics(m))
//	err := c.Render(ctx, tree)
package instrument
