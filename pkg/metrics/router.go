package metrics

import "time"

// RouterMetrics is the set of metrics the router records.
// A nil *RouterMetrics records nothing, so callers never need to check.
//
// # Label Conventions
//
//   - method: GET, POST, PUT, DELETE, or "unparsed" when the request never parsed
//   - status: the numeric status written (200, 404, 413, 500) or "none" when nothing was written
//   - type (errors): parse, too_large, handler, panic, middleware, io
type RouterMetrics struct {
	// RequestsTotal counts finished connections. Labels: method, status
	RequestsTotal *Counter

	// RequestDuration tracks time from accept to close. Labels: method
	RequestDuration *Histogram

	// MatchMissesTotal counts parsed requests that matched no route.
	MatchMissesTotal *Counter

	// ActiveConnections is the number of connections being served.
	ActiveConnections *Gauge

	// ErrorsTotal counts per-connection failures. Labels: type
	ErrorsTotal *Counter
}

// Error type label values.
const (
	ErrorParse      = "parse"
	ErrorTooLarge   = "too_large"
	ErrorHandler    = "handler"
	ErrorPanic      = "panic"
	ErrorMiddleware = "middleware"
	ErrorIO         = "io"
)

// NewRouterMetrics registers the router metrics on reg.
func NewRouterMetrics(reg *Registry) *RouterMetrics {
	return &RouterMetrics{
		RequestsTotal: reg.NewCounter(
			"routed_requests_total",
			"Total number of handled connections",
			"method", "status",
		),
		RequestDuration: reg.NewHistogram(
			"routed_request_duration_seconds",
			"Time from accept to close in seconds",
			DefaultBuckets,
			"method",
		),
		MatchMissesTotal: reg.NewCounter(
			"routed_match_misses_total",
			"Number of requests that did not match any route",
		),
		ActiveConnections: reg.NewGauge(
			"routed_active_connections",
			"Number of connections currently being served",
		),
		ErrorsTotal: reg.NewCounter(
			"routed_errors_total",
			"Total number of per-connection errors by type",
			"type",
		),
	}
}

// ObserveRequest records one finished connection.
func (m *RouterMetrics) ObserveRequest(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if vec, err := m.RequestsTotal.WithLabels(method, status); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.RequestDuration.WithLabels(method); err == nil {
		vec.Observe(elapsed.Seconds())
	}
}

// MatchMiss records a request without a matching route.
func (m *RouterMetrics) MatchMiss() {
	if m == nil {
		return
	}
	_ = m.MatchMissesTotal.Inc()
}

// ConnectionOpened increments the active connection gauge.
func (m *RouterMetrics) ConnectionOpened() {
	if m == nil {
		return
	}
	_ = m.ActiveConnections.Add(1)
}

// ConnectionClosed decrements the active connection gauge.
func (m *RouterMetrics) ConnectionClosed() {
	if m == nil {
		return
	}
	_ = m.ActiveConnections.Add(-1)
}

// Error records a per-connection failure of the given type.
func (m *RouterMetrics) Error(kind string) {
	if m == nil {
		return
	}
	if vec, err := m.ErrorsTotal.WithLabels(kind); err == nil {
		_ = vec.Inc()
	}
}
