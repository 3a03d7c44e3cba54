package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// RouteFile is the mapping form of an included route file.
type RouteFile struct {
	Routes []RouteConfig `yaml:"routes"`
}

// LoadIncludes expands each pattern relative to baseDir and loads the routes
// of every matching file. Patterns are processed in order and the matches of
// one pattern in lexical order. A pattern that matches nothing is not an error.
func LoadIncludes(patterns []string, baseDir string) ([]RouteConfig, error) {
	var result []RouteConfig

	for i, pattern := range patterns {
		matches, err := expandGlob(ResolvePath(baseDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("include[%d] (%s): expanding glob pattern: %w", i, pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			routes, err := LoadRouteFile(match)
			if err != nil {
				relPath, relErr := filepath.Rel(baseDir, match)
				if relErr != nil {
					relPath = match
				}
				return nil, fmt.Errorf("include[%d] (%s): loading %s: %w", i, pattern, relPath, err)
			}
			result = append(result, routes...)
		}
	}

	return result, nil
}

// LoadRouteFile loads the routes declared in a single YAML or JSON file. The
// file holds either a bare list of routes or a mapping with a "routes" key.
// Unknown fields are rejected as in the main configuration.
func LoadRouteFile(path string) ([]RouteConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	expanded := ExpandEnvVars(string(data))

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(expanded), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	var content RouteFile
	var target any = &content
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.SequenceNode {
		target = &content.Routes
	}

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	for i := range content.Routes {
		content.Routes[i].Source = path
	}
	return content.Routes, nil
}

// expandGlob uses doublestar for "**" and filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

// ResolvePath resolves targetPath against basePath unless it is absolute.
// A leading "~/" expands to the home directory.
func ResolvePath(basePath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	if strings.HasPrefix(targetPath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, targetPath[2:])
		}
	}
	return filepath.Join(basePath, targetPath)
}
