package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/routed/pkg/config"
)

// serveFlags holds the serve command flags. Flags left at their zero value
// and not set on the command line do not override the configuration file.
type serveFlags struct {
	configFile      string
	addr            string
	maxConnections  int
	readTimeout     int
	writeTimeout    int
	maxRequestBytes int
	acceptRate      float64
	acceptBurst     int
	logLevel        string
	logFormat       string
	logFile         string
	metricsPath     string
	printConfig     bool
}

func newServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the route server (foreground)",
		Long: `Start the route server and serve until interrupted.

Settings come from the configuration file, when given, and are overridden by
any flag set explicitly on the command line.`,
		Example: `  # Serve the routes in routed.yaml
  routed serve --config routed.yaml

  # Override the listen address and expose metrics
  routed serve --config routed.yaml --addr 0.0.0.0:8080 --metrics-path /metrics

  # Limit concurrency and accept rate
  routed serve --config routed.yaml --max-connections 128 --accept-rate 500

  # Show the effective configuration without serving
  routed serve --config routed.yaml --addr :8080 --print-config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(&f, cmd.Flags())
			if err != nil {
				return err
			}

			if f.printConfig {
				return printConfig(cmd.OutOrStdout(), cfg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd)
		},
	}

	bindServeFlags(cmd.Flags(), &f)
	return cmd
}

func bindServeFlags(fl *pflag.FlagSet, f *serveFlags) {
	fl.StringVarP(&f.configFile, "config", "c", "", "Path to configuration file (YAML or JSON)")
	fl.StringVarP(&f.addr, "addr", "a", config.DefaultAddress, "Listen address (host:port)")
	fl.IntVar(&f.maxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	fl.IntVar(&f.readTimeout, "read-timeout", 0, "Read timeout in seconds (0 = none)")
	fl.IntVar(&f.writeTimeout, "write-timeout", 0, "Write timeout in seconds (0 = none)")
	fl.IntVar(&f.maxRequestBytes, "max-request-bytes", 0, "Maximum request size in bytes (0 = default)")
	fl.Float64Var(&f.acceptRate, "accept-rate", 0, "Maximum accepted connections per second (0 = unlimited)")
	fl.IntVar(&f.acceptBurst, "accept-burst", 0, "Connections accepted without waiting for the rate limit")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fl.StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")
	fl.StringVar(&f.logFile, "log-file", "", "Also write JSON logs to this file")
	fl.StringVar(&f.metricsPath, "metrics-path", "", "Serve metrics at GET <path>")
	fl.BoolVar(&f.printConfig, "print-config", false, "Print the effective configuration as YAML and exit")
}

// resolveConfig loads the configuration file, if any, and applies the
// explicitly set flags on top.
func resolveConfig(f *serveFlags, flags *pflag.FlagSet) (*config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if f.configFile != "" {
		loaded, err := config.LoadFromFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"addr", func() { cfg.Address = f.addr }},
		{"max-connections", func() { cfg.MaxConnections = f.maxConnections }},
		{"read-timeout", func() { cfg.ReadTimeout = f.readTimeout }},
		{"write-timeout", func() { cfg.WriteTimeout = f.writeTimeout }},
		{"max-request-bytes", func() { cfg.MaxRequestBytes = f.maxRequestBytes }},
		{"accept-rate", func() { cfg.AcceptRate = f.acceptRate }},
		{"accept-burst", func() { cfg.AcceptBurst = f.acceptBurst }},
		{"log-level", func() { cfg.Log.Level = f.logLevel }},
		{"log-format", func() { cfg.Log.Format = f.logFormat }},
		{"log-file", func() { cfg.Log.File = f.logFile }},
		{"metrics-path", func() { cfg.MetricsPath = f.metricsPath }},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			o.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printConfig writes cfg as a standalone YAML file. Included routes are
// already merged into Routes, so the include patterns are dropped.
func printConfig(w io.Writer, cfg *config.ServerConfig) error {
	effective := *cfg
	effective.Include = nil
	data, err := config.ToYAML(&effective)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func runServe(ctx context.Context, cfg *config.ServerConfig, cmd *cobra.Command) error {
	log, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	srv, err := buildServer(cfg, log)
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-srv.router.Ready():
			fmt.Fprintf(cmd.OutOrStdout(), "routed listening on %s (%d routes)\n", srv.router.Addr(), len(srv.router.Routes()))
		case <-ctx.Done():
		}
	}()

	if err := srv.router.Run(ctx, cfg.Address); err != nil {
		return err
	}
	log.Info("shutdown complete", "hits", srv.state.Hits.Snapshot())
	return nil
}
