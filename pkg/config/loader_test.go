package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
	err        error
}

func (m *mockSource) Load() (map[string]any, error) {
	return m.data, m.err
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewService().Load(t.Context())
		require.NoError(t, err)
		def := Default()
		assert.Equal(t, def.Streams.Root, cfg.Streams.Root)
		assert.Equal(t, def.Streams.Include, cfg.Streams.Include)
		assert.Empty(t, cfg.Streams.Exclude)
		assert.Equal(t, def.Streams.WatchDebounce, cfg.Streams.WatchDebounce)
		assert.Equal(t, FormatTable, cfg.Output.Format)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		service := NewService()
		yamlSource := &mockSource{
			sourceType: SourceYAML,
			data: map[string]any{
				"streams": map[string]any{"root": "/from/yaml", "concurrency": 2},
				"output":  map[string]any{"format": "yaml"},
			},
		}
		cliSource := &mockSource{
			sourceType: SourceCLI,
			data:       map[string]any{"streams": map[string]any{"root": "/from/cli"}},
		}
		t.Setenv("XSP_STREAMS_ROOT", "/from/env")
		t.Setenv("XSP_OUTPUT_FORMAT", "json")

		// CLI is listed first but still wins over env.
		cfg, err := service.Load(t.Context(), cliSource, yamlSource)
		require.NoError(t, err)
		assert.Equal(t, "/from/cli", cfg.Streams.Root)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.Equal(t, 2, cfg.Streams.Concurrency)
		assert.Equal(t, "info", cfg.Log.Level)

		assert.Equal(t, SourceCLI, service.GetSource("streams.root"))
		assert.Equal(t, SourceEnv, service.GetSource("output.format"))
		assert.Equal(t, SourceYAML, service.GetSource("streams.concurrency"))
		assert.Equal(t, SourceDefault, service.GetSource("log.level"))
	})

	t.Run("Should decode env lists and durations", func(t *testing.T) {
		t.Setenv("XSP_STREAMS_INCLUDE", "a/*.xml,b/**/streams.*")
		t.Setenv("XSP_STREAMS_WATCH_DEBOUNCE", "1s")
		t.Setenv("XSP_STREAMS_VALIDATE_PATHS", "true")
		cfg, err := NewService().Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{"a/*.xml", "b/**/streams.*"}, cfg.Streams.Include)
		assert.Equal(t, time.Second, cfg.Streams.WatchDebounce)
		assert.True(t, cfg.Streams.ValidatePaths)
	})

	t.Run("Should ignore unrelated environment variables", func(t *testing.T) {
		t.Setenv("XSP_UNKNOWN", "x")
		t.Setenv("STREAMS_ROOT", "/not/prefixed")
		cfg, err := NewService().Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Streams.Root)
	})

	t.Run("Should reload from scratch on every call", func(t *testing.T) {
		service := NewService()
		_, err := service.Load(t.Context(), &mockSource{
			sourceType: SourceYAML,
			data:       map[string]any{"log": map[string]any{"level": "debug"}},
		})
		require.NoError(t, err)
		cfg, err := service.Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Should read a YAML file source", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "xsp.yaml", []byte(`
streams:
  include:
    - "runs/**/streams.*"
  exclude: ["runs/old/**"]
  watch_debounce: 50ms
log:
  level: warn
  json: true
`), 0o644))
		cfg, err := NewService().Load(t.Context(), NewYAMLProvider(fs, "xsp.yaml"))
		require.NoError(t, err)
		assert.Equal(t, []string{"runs/**/streams.*"}, cfg.Streams.Include)
		assert.Equal(t, []string{"runs/old/**"}, cfg.Streams.Exclude)
		assert.Equal(t, 50*time.Millisecond, cfg.Streams.WatchDebounce)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.True(t, cfg.Log.JSON)
	})
}

func TestLoader_Errors(t *testing.T) {
	t.Run("Should reject an unknown output format", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{"format": "xml"}))
		assert.ErrorContains(t, err, "validation failed")
	})

	t.Run("Should reject a malformed glob", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{"include": []string{"runs/[x"}}))
		assert.ErrorContains(t, err, "glob")
	})

	t.Run("Should reject a negative debounce", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{"watch-debounce": "-1s"}))
		assert.ErrorContains(t, err, "watch_debounce")
	})

	t.Run("Should reject an empty include list", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{"include": []string{}}))
		assert.ErrorContains(t, err, "streams.include")
	})

	t.Run("Should surface source errors", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), &mockSource{sourceType: SourceYAML, err: assert.AnError})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Should reject a nil config", func(t *testing.T) {
		assert.Error(t, NewService().Validate(nil))
	})
}
