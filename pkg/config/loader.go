package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// LoadFromFile reads a ServerConfig from a JSON or YAML file.
// The format is auto-detected from the extension (.yaml, .yml for YAML, otherwise JSON).
// Unset fields keep the values of DefaultServerConfig. Include patterns are
// resolved relative to the file's directory and their routes appended.
// The result is validated.
func LoadFromFile(path string) (*ServerConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var cfg *ServerConfig
	if isYAML(path) {
		cfg, err = ParseYAML(data)
	} else {
		cfg, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i := range cfg.Routes {
		cfg.Routes[i].Source = path
	}

	included, err := LoadIncludes(cfg.Include, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Routes = append(cfg.Routes, included...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// ParseJSON parses JSON bytes over the defaults. Environment variables are
// expanded first. The result is not validated.
func ParseJSON(data []byte) (*ServerConfig, error) {
	expanded := []byte(ExpandEnvVars(string(data)))
	if !json.Valid(expanded) {
		return nil, ErrInvalidJSON
	}

	cfg := DefaultServerConfig()
	dec := json.NewDecoder(bytes.NewReader(expanded))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return cfg, nil
}

// ParseYAML parses YAML bytes over the defaults. Environment variables are
// expanded first. The result is not validated.
func ParseYAML(data []byte) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	dec := yaml.NewDecoder(strings.NewReader(ExpandEnvVars(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return cfg, nil
}

// ToYAML marshals a ServerConfig to YAML bytes.
func ToYAML(cfg *ServerConfig) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
