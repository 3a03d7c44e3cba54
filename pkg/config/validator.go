package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/routed/pkg/logging"
	"github.com/getmockd/routed/pkg/wire"
)

// validLogLevels are the level names logging.ParseLevel understands.
var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// validLogFormats are the allowed log output formats.
var validLogFormats = map[logging.Format]bool{
	logging.FormatText: true,
	logging.FormatJSON: true,
}

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks if the ServerConfig is valid and returns the first problem found.
func (c *ServerConfig) Validate() error {
	if c == nil {
		return &ValidationError{Field: "config", Message: "config is nil"}
	}

	if strings.TrimSpace(c.Address) == "" {
		return &ValidationError{Field: "address", Message: "address is required"}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"maxConnections", float64(c.MaxConnections)},
		{"readTimeout", float64(c.ReadTimeout)},
		{"writeTimeout", float64(c.WriteTimeout)},
		{"maxRequestBytes", float64(c.MaxRequestBytes)},
		{"acceptRate", c.AcceptRate},
		{"acceptBurst", float64(c.AcceptBurst)},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			return &ValidationError{Field: n.field, Message: "must not be negative"}
		}
	}

	if c.Log.Level != "" && !validLogLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if c.Log.Format != "" && !validLogFormats[logging.Format(strings.ToLower(c.Log.Format))] {
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}

	if c.MetricsPath != "" {
		if err := validatePath(c.MetricsPath); err != nil {
			return &ValidationError{Field: "metricsPath", Message: err.Error()}
		}
	}

	for i := range c.Routes {
		if err := c.Routes[i].Validate(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}

	return nil
}

// Validate checks the method, the path and that exactly one body kind is set.
func (r *RouteConfig) Validate() error {
	if _, err := wire.ParseMethod(r.Method); err != nil {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unsupported method %q", r.Method)}
	}
	if err := validatePath(r.Path); err != nil {
		return &ValidationError{Field: "path", Message: err.Error()}
	}

	set := 0
	if r.Text != nil {
		set++
	}
	if r.JSON != nil {
		set++
	}
	if r.Expr != "" {
		set++
	}
	if set != 1 {
		return &ValidationError{Field: "body", Message: "exactly one of text, json or expr must be set"}
	}
	return nil
}

// validatePath rejects paths that can never appear in a request line.
func validatePath(path string) error {
	switch {
	case path == "":
		return fmt.Errorf("path is required")
	case strings.ContainsAny(path, " \r\n"):
		return fmt.Errorf("path %q must not contain whitespace", path)
	}
	return nil
}
