package config

import "time"

// Config is the complete configuration of the xml-stream-parser CLI.
type Config struct {
	Streams StreamsConfig `koanf:"streams" validate:"required"`
	Output  OutputConfig  `koanf:"output"`
	Log     LogConfig     `koanf:"log"`
}

// StreamsConfig controls which stream documents are read and how they are
// resolved.
type StreamsConfig struct {
	Root          string        `koanf:"root"           env:"XSP_STREAMS_ROOT"           validate:"required"`
	Include       []string      `koanf:"include"        env:"XSP_STREAMS_INCLUDE"        validate:"dive,required,glob"`
	Exclude       []string      `koanf:"exclude"        env:"XSP_STREAMS_EXCLUDE"        validate:"dive,required,glob"`
	ValidatePaths bool          `koanf:"validate_paths" env:"XSP_STREAMS_VALIDATE_PATHS"`
	Concurrency   int           `koanf:"concurrency"    env:"XSP_STREAMS_CONCURRENCY"    validate:"min=0,max=1024"`
	WatchDebounce time.Duration `koanf:"watch_debounce" env:"XSP_STREAMS_WATCH_DEBOUNCE"`
}

// OutputConfig selects how resolved streams are printed.
type OutputConfig struct {
	Format string `koanf:"format" env:"XSP_OUTPUT_FORMAT" validate:"oneof=table json yaml"`
}

type LogConfig struct {
	Level  string `koanf:"level"  env:"XSP_LOG_LEVEL"  validate:"oneof=debug info warn error disabled"`
	JSON   bool   `koanf:"json"   env:"XSP_LOG_JSON"`
	Source bool   `koanf:"source" env:"XSP_LOG_SOURCE"`
}

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Streams: StreamsConfig{
			Root:          ".",
			Include:       []string{"**/streams.*"},
			Exclude:       []string{},
			ValidatePaths: false,
			Concurrency:   0,
			WatchDebounce: 200 * time.Millisecond,
		},
		Output: OutputConfig{
			Format: FormatTable,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
