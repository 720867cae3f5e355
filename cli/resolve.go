package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/romdo/go-debounce"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/amstokely/xml-stream-parser/engine/catalog"
	"github.com/amstokely/xml-stream-parser/engine/fsys"
	"github.com/amstokely/xml-stream-parser/pkg/config"
	"github.com/amstokely/xml-stream-parser/pkg/logger"
)

// ResolveCmd returns the resolve command
func ResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [patterns...]",
		Short: "Resolve every stream in the matching documents",
		Long: `Resolve every stream declared in the documents matching the given doublestar
patterns (relative to --root) and print the result. Without patterns the
configured include patterns are used.`,
		Annotations: map[string]string{annotationPatternArgs: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, err := cmd.Flags().GetBool("watch")
			if err != nil {
				return fmt.Errorf("failed to get watch flag: %w", err)
			}
			if watch {
				return watchAndResolve(cmd, args)
			}
			return runResolve(cmd.Context(), cmd.OutOrStdout())
		},
	}
	addStreamFlags(cmd)
	cmd.Flags().StringP("format", "f", config.FormatTable, "Output format (table, json, yaml)")
	cmd.Flags().Bool("validate-paths", false, "Create and check output directories of writable streams")
	cmd.Flags().Bool("watch", false, "Re-resolve whenever a matching document appears, changes or disappears, or the config file changes")
	cmd.Flags().Duration("watch-debounce", 200*time.Millisecond, "Quiet period before re-resolving in watch mode")
	return cmd
}

// addStreamFlags registers the discovery flags shared by resolve and check.
func addStreamFlags(cmd *cobra.Command) {
	cmd.Flags().String("root", ".", "Directory that patterns are relative to")
	cmd.Flags().StringSlice("exclude", nil, "Doublestar patterns to skip")
	cmd.Flags().Int("concurrency", 0, "Maximum concurrent stream resolutions per document (0 = GOMAXPROCS)")
}

// newLoader builds a catalog loader for the configured root.
func newLoader(cfg *config.Config, validatePaths bool) (*catalog.Loader, string, error) {
	root, err := filepath.Abs(cfg.Streams.Root)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve root %q: %w", cfg.Streams.Root, err)
	}
	docs := afero.NewBasePathFs(afero.NewOsFs(), root)
	l := catalog.New(docs, fsys.NewOS(), catalog.Options{
		Include:       cfg.Streams.Include,
		Exclude:       cfg.Streams.Exclude,
		ValidatePaths: validatePaths,
		Concurrency:   cfg.Streams.Concurrency,
	})
	return l, root, nil
}

// resolveState is what one resolution runs with. Watch mode replaces it as a
// whole when the config file changes.
type resolveState struct {
	cfg    *config.Config
	loader *catalog.Loader
	root   string
}

func newResolveState(cfg *config.Config) (*resolveState, error) {
	l, root, err := newLoader(cfg, cfg.Streams.ValidatePaths)
	if err != nil {
		return nil, err
	}
	return &resolveState{cfg: cfg, loader: l, root: root}, nil
}

func (s *resolveState) resolve(ctx context.Context, out io.Writer) error {
	results, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	return writeResults(out, s.cfg.Output.Format, results)
}

func runResolve(ctx context.Context, out io.Writer) error {
	state, err := newResolveState(config.FromContext(ctx))
	if err != nil {
		return err
	}
	return state.resolve(ctx, out)
}

// watchAndResolve resolves once, then again whenever a document under the
// root that matches the include patterns is created, changed or removed, or
// the --config file changes, until the command context is cancelled. A
// config change reloads every setting except the debounce window. Failed
// reloads are logged and watching continues.
func watchAndResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.FromContext(ctx)
	initial, err := newResolveState(config.FromContext(ctx))
	if err != nil {
		return err
	}
	if err := initial.resolve(ctx, out); err != nil {
		return err
	}

	w, err := config.NewWatcher(ctx)
	if err != nil {
		return err
	}
	defer w.Close()

	var state atomic.Pointer[resolveState]
	state.Store(initial)
	watchRoot := func(root string) error {
		return w.WatchTree(root, func(rel string) bool {
			current := state.Load()
			return current.root == root && current.loader.Matches(rel)
		})
	}
	if err := watchRoot(initial.root); err != nil {
		return err
	}
	configFile := configPath(cmd)
	if configFile != "" {
		if configFile, err = filepath.Abs(configFile); err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		if err := w.Watch(configFile); err != nil {
			return err
		}
	}

	var configChanged atomic.Bool
	var mu sync.Mutex
	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		current := state.Load()
		if configChanged.Swap(false) {
			cfg, _, err := loadConfig(cmd, args)
			if err != nil {
				log.Error("Failed to reload configuration", "error", err)
				return
			}
			next, err := newResolveState(cfg)
			if err != nil {
				log.Error("Failed to reload configuration", "error", err)
				return
			}
			state.Store(next)
			if next.root != current.root {
				if err := watchRoot(next.root); err != nil {
					log.Warn("Failed to watch new root", "root", next.root, "error", err)
				}
			}
			log.Info("Configuration reloaded", "file", configFile)
			current = next
		}
		if err := current.resolve(ctx, out); err != nil {
			log.Error("Failed to resolve streams", "error", err)
		}
	}
	trigger := reload
	if wait := initial.cfg.Streams.WatchDebounce; wait > 0 {
		debounced, cancel := debounce.NewWithMaxWait(wait, 5*wait, reload)
		defer cancel()
		trigger = debounced
	}
	w.OnChange(func(path string) {
		if path == configFile {
			configChanged.Store(true)
		}
		log.Debug("File changed", "path", path)
		trigger()
	})

	log.Info("Watching stream documents", "root", initial.root)
	<-ctx.Done()
	return nil
}
