package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FlagPaths maps CLI flag names to config paths.
var FlagPaths = map[string]string{
	"root":           "streams.root",
	"include":        "streams.include",
	"exclude":        "streams.exclude",
	"validate-paths": "streams.validate_paths",
	"concurrency":    "streams.concurrency",
	"watch-debounce": "streams.watch_debounce",
	"format":         "output.format",
	"log-level":      "log.level",
	"log-json":       "log.json",
	"log-source":     "log.source",
}

type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider creates a source from flag values keyed by flag name.
// Unknown flags are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (c *cliProvider) Load() (map[string]any, error) {
	config := make(map[string]any)
	for key, value := range c.flags {
		path, ok := FlagPaths[key]
		if !ok {
			continue
		}
		if err := setNested(config, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", key, err)
		}
	}
	return config, nil
}

func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

// setNested sets a value in a nested map structure using dot notation.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

type yamlProvider struct {
	fs   afero.Fs
	path string
}

// NewYAMLProvider reads a YAML config file. A missing file yields no values.
func NewYAMLProvider(fs afero.Fs, path string) Source {
	return &yamlProvider{fs: fs, path: path}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := afero.ReadFile(y.fs, y.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", y.path, err)
	}
	return filterNilValues(config), nil
}

// filterNilValues drops nil values so they cannot clear lower layers.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nested); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}
