package config

import "time"

// DefaultAddress is the listen address used when none is configured.
const DefaultAddress = "127.0.0.1:6795"

// ServerConfig is the file-based configuration of a route server.
type ServerConfig struct {
	// Address is the TCP listen address (host:port)
	Address string `json:"address" yaml:"address"`
	// MaxConnections caps concurrently served connections (0 = unlimited)
	MaxConnections int `json:"maxConnections,omitempty" yaml:"maxConnections,omitempty"`
	// ReadTimeout is the request read timeout in seconds (0 = none)
	ReadTimeout int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// WriteTimeout is the response write timeout in seconds (0 = none)
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	// MaxRequestBytes bounds the size of one request (0 = default)
	MaxRequestBytes int `json:"maxRequestBytes,omitempty" yaml:"maxRequestBytes,omitempty"`
	// AcceptRate limits accepted connections per second (0 = unlimited)
	AcceptRate float64 `json:"acceptRate,omitempty" yaml:"acceptRate,omitempty"`
	// AcceptBurst is the number of connections accepted without waiting
	AcceptBurst int `json:"acceptBurst,omitempty" yaml:"acceptBurst,omitempty"`

	Log LogConfig `json:"log" yaml:"log"`

	// MetricsPath, when set, registers GET <MetricsPath> serving the metrics text format
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// Include lists glob patterns of route files, relative to the config file.
	// "**" matches across directories.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`

	// Routes are declared inline, in registration order.
	// Routes from Include files are appended after them.
	Routes []RouteConfig `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is text or json
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// File additionally writes JSON logs to this path
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// RouteConfig declares a route whose response is defined in configuration.
// Exactly one of Text, JSON or Expr must be set.
type RouteConfig struct {
	// Name is an optional label shown in route listings
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`

	// Text is returned verbatim
	Text *string `json:"text,omitempty" yaml:"text,omitempty"`
	// JSON is serialized and returned
	JSON any `json:"json,omitempty" yaml:"json,omitempty"`
	// Expr is evaluated per request; its result becomes the content
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`

	// Source is the file the route was loaded from
	Source string `json:"-" yaml:"-"`
}

// BodyKind names which response field the route uses.
func (r RouteConfig) BodyKind() string {
	switch {
	case r.Text != nil:
		return "text"
	case r.JSON != nil:
		return "json"
	case r.Expr != "":
		return "expr"
	default:
		return ""
	}
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         DefaultAddress,
		MaxRequestBytes: 64 << 10,
		ReadTimeout:     30,
		WriteTimeout:    30,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}
