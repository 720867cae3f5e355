package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amstokely/xml-stream-parser/pkg/config"
	"github.com/amstokely/xml-stream-parser/pkg/logger"
)

// SetupGlobalConfig loads the configuration for cmd, initializes the logger
// and stores both in the command context. Positional args replace the
// configured include patterns.
func SetupGlobalConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.ContextWithLogger(ctx, logger.GetDefault())
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}

// loadConfig merges the YAML file, environment and changed flags of cmd.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, config.Service, error) {
	if err := loadEnvFile(cmd); err != nil {
		return nil, nil, err
	}
	var sources []config.Source
	if path := configPath(cmd); path != "" {
		sources = append(sources, config.NewYAMLProvider(afero.NewOsFs(), path))
	}
	sources = append(sources, config.NewCLIProvider(changedFlags(cmd, args)))
	service := config.NewService()
	cfg, err := service.Load(cmd.Context(), sources...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, service, nil
}

// loadEnvFile exports the variables of the --env-file into the process
// environment. Variables that are already set are kept and a missing file is
// ignored.
func loadEnvFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("env-file")
	if err != nil || path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func configPath(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return ""
	}
	return path
}

// changedFlags collects the flags the user set explicitly, keyed by flag name.
func changedFlags(cmd *cobra.Command, args []string) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := config.FlagPaths[f.Name]; !ok {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			flags[f.Name] = sv.GetSlice()
			return
		}
		flags[f.Name] = f.Value.String()
	})
	if len(args) > 0 && cmd.Annotations[annotationPatternArgs] == "true" {
		flags["include"] = args
	}
	return flags
}

// annotationPatternArgs marks commands whose positional args are include patterns.
const annotationPatternArgs = "pattern-args"

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration diagnostics",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	var showSources bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return formatConfigOutput(cmd, cfg, service, showSources)
		},
	}
	cmd.Flags().StringP("format", "f", config.FormatTable, "Output format (json, yaml, table)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

// formatConfigOutput prints the flattened configuration in the configured format.
func formatConfigOutput(cmd *cobra.Command, cfg *config.Config, service config.Service, showSources bool) error {
	flat := flattenConfig(cfg)
	sources := make(map[string]config.SourceType, len(flat))
	for key := range flat {
		sources[key] = service.GetSource(key)
	}
	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case config.FormatJSON, config.FormatYAML:
		doc := map[string]any{"config": flat}
		if showSources {
			doc["sources"] = sources
		}
		return encode(out, cfg.Output.Format, doc)
	default:
		keys := config.SortedKeys()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if showSources {
			fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
		} else {
			fmt.Fprintln(w, "KEY\tVALUE")
		}
		for _, key := range keys {
			if showSources {
				fmt.Fprintf(w, "%s\t%s\t%s\n", key, flat[key], sources[key])
			} else {
				fmt.Fprintf(w, "%s\t%s\n", key, flat[key])
			}
		}
		return w.Flush()
	}
}

// flattenConfig renders every config value as text keyed by its config path.
func flattenConfig(cfg *config.Config) map[string]string {
	s := cfg.Streams
	return map[string]string{
		"streams.root":           s.Root,
		"streams.include":        strings.Join(s.Include, ","),
		"streams.exclude":        strings.Join(s.Exclude, ","),
		"streams.validate_paths": fmt.Sprint(s.ValidatePaths),
		"streams.concurrency":    fmt.Sprint(s.Concurrency),
		"streams.watch_debounce": s.WatchDebounce.String(),
		"output.format":          cfg.Output.Format,
		"log.level":              cfg.Log.Level,
		"log.json":               fmt.Sprint(cfg.Log.JSON),
		"log.source":             fmt.Sprint(cfg.Log.Source),
	}
}
