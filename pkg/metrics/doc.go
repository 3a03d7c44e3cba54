// Package metrics provides Prometheus-compatible metrics collection for the router.
//
// This package implements the Prometheus text exposition format (version 0.0.4)
// on the standard library. Counters, gauges and histograms are safe for use
// from many goroutines.
//
// # Router Metrics
//
// NewRouterMetrics registers the metrics the dispatcher records:
//
//   - routed_requests_total: finished connections (labels: method, status)
//   - routed_request_duration_seconds: accept-to-close latency (labels: method)
//   - routed_match_misses_total: requests without a matching route
//   - routed_active_connections: connections being served
//   - routed_errors_total: per-connection failures (labels: type)
//
// # Usage
//
//	reg := metrics.NewRegistry()
//	rm := metrics.NewRouterMetrics(reg)
//	r := router.New(state, router.WithMetrics(rm))
//
//	// expose the registry on the router itself
//	r.Get("/metrics", func(ctx context.Context, _ *wire.Request, _ State) (wire.Response, error) {
//	    return wire.Text(reg.Text()), nil
//	})
//
// Custom metrics can also be created:
//
//	counter := reg.NewCounter("my_counter", "Description of counter", "label1")
//	vec, _ := counter.WithLabels("value1")
//	_ = vec.Inc()
package metrics
