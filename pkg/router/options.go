package router

import (
	"log/slog"
	"time"

	"github.com/getmockd/routed/internal/ratelimit"
	"github.com/getmockd/routed/pkg/metrics"
	"github.com/getmockd/routed/pkg/wire"
)

type options struct {
	log             *slog.Logger
	metrics         *metrics.RouterMetrics
	maxConnections  int
	maxRequestBytes int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	acceptLimiter   *ratelimit.Bucket
}

// Option configures a Router.
type Option func(*options)

// WithLogger sets the operational logger. A nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records connection metrics into m.
func WithMetrics(m *metrics.RouterMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMaxConnections caps the number of connections served at once.
// Further connections wait in the listener backlog. 0 means unlimited.
func WithMaxConnections(n int) Option {
	return func(o *options) {
		o.maxConnections = max(n, 0)
	}
}

// WithMaxRequestBytes bounds the size of one request.
// 0 selects wire.DefaultMaxRequestBytes.
func WithMaxRequestBytes(n int) Option {
	return func(o *options) {
		o.maxRequestBytes = n
	}
}

// WithReadTimeout bounds the time a connection may take to send its request.
// 0 disables the deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.readTimeout = d
	}
}

// WithWriteTimeout bounds the time spent writing the response.
// 0 disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// WithAcceptRate limits how many connections are accepted per second.
// A rate of 0 or less disables the limit.
func WithAcceptRate(rate float64, burst int) Option {
	return func(o *options) {
		if rate <= 0 {
			o.acceptLimiter = nil
			return
		}
		o.acceptLimiter = ratelimit.NewBucket(rate, burst)
	}
}

func defaultOptions() options {
	return options{maxRequestBytes: wire.DefaultMaxRequestBytes}
}
