package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/getmockd/routed/pkg/config"
	"github.com/getmockd/routed/pkg/logging"
	"github.com/getmockd/routed/pkg/metrics"
	"github.com/getmockd/routed/pkg/mockroute"
	"github.com/getmockd/routed/pkg/router"
	"github.com/getmockd/routed/pkg/wire"
)

// server is a router built from configuration, ready to run.
type server struct {
	router   *router.Router[mockroute.State]
	state    mockroute.State
	routes   []mockroute.Route
	registry *metrics.Registry
}

// newLogger creates the operational logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, func() error, error) {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Level),
		Format: logging.ParseFormat(cfg.Format),
		Output: w,
		File:   cfg.File,
	})
}

// routerOptions translates cfg into router options.
func routerOptions(cfg *config.ServerConfig, log *slog.Logger, m *metrics.RouterMetrics) []router.Option {
	return []router.Option{
		router.WithLogger(log),
		router.WithMetrics(m),
		router.WithMaxConnections(cfg.MaxConnections),
		router.WithMaxRequestBytes(cfg.MaxRequestBytes),
		router.WithReadTimeout(cfg.ReadTimeoutDuration()),
		router.WithWriteTimeout(cfg.WriteTimeoutDuration()),
		router.WithAcceptRate(cfg.AcceptRate, cfg.AcceptBurst),
	}
}

// buildServer registers the declared routes, then the metrics route when
// configured, and a debug request log middleware.
func buildServer(cfg *config.ServerConfig, log *slog.Logger) (*server, error) {
	reg := metrics.NewRegistry()
	state := mockroute.NewState()
	r := router.New(state, routerOptions(cfg, log, metrics.NewRouterMetrics(reg))...)

	routes, err := mockroute.Register(r, cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	if cfg.MetricsPath != "" {
		r.Get(cfg.MetricsPath, metricsHandler(reg))
	}

	r.Use(requestLogger(log))

	return &server{router: r, state: state, routes: routes, registry: reg}, nil
}

func metricsHandler(reg *metrics.Registry) router.HandlerFunc[mockroute.State] {
	return func(context.Context, *wire.Request, mockroute.State) (wire.Response, error) {
		return wire.Text(reg.Text()), nil
	}
}

func requestLogger(log *slog.Logger) router.MiddlewareFunc[mockroute.State] {
	return func(ctx context.Context, req *wire.Request, _ mockroute.State) error {
		log.DebugContext(ctx, "request", "id", req.Identifier(), "body_bytes", len(req.Body()))
		return nil
	}
}
