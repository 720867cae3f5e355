// Package catalog discovers stream documents, resolves every stream they
// declare and optionally validates their output directories.
package catalog

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/amstokely/xml-stream-parser/engine/stream"
	"github.com/amstokely/xml-stream-parser/pkg/logger"
	"github.com/amstokely/xml-stream-parser/pkg/xmlnode"
)

// Options controls discovery and resolution.
type Options struct {
	Include       []string
	Exclude       []string
	ValidatePaths bool
	// Concurrency bounds per-document stream resolution; 0 means GOMAXPROCS.
	Concurrency int
}

// Result holds the resolved streams of one document in catalog order.
type Result struct {
	Document string            `json:"document" yaml:"document"`
	Streams  []stream.Resolved `json:"streams"  yaml:"streams"`
}

// Loader resolves stream documents read from docs. Output directories are
// checked against outputs, which is usually the host filesystem.
type Loader struct {
	docs       afero.Fs
	outputs    stream.FileSystem
	opts       Options
	discoverer *Discoverer
}

func New(docs afero.Fs, outputs stream.FileSystem, opts Options) *Loader {
	return &Loader{
		docs:       docs,
		outputs:    outputs,
		opts:       opts,
		discoverer: NewDiscoverer(docs),
	}
}

// Discover returns the documents Load would read.
func (l *Loader) Discover() ([]string, error) {
	return l.discoverer.Discover(l.opts.Include, l.opts.Exclude)
}

// Matches reports whether file, relative to the document root, is a document
// Discover would return if it existed.
func (l *Loader) Matches(file string) bool {
	return l.discoverer.Match(file, l.opts.Include, l.opts.Exclude)
}

// Load resolves every discovered document. The first failing document stops
// the load and its error is returned wrapped with the document path.
func (l *Loader) Load(ctx context.Context) ([]Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	files, err := l.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover stream documents: %w", err)
	}
	log.Debug("Discovered stream documents", "count", len(files))
	results := make([]Result, 0, len(files))
	total := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := l.LoadDocument(ctx, file)
		if err != nil {
			return nil, err
		}
		total += len(res.Streams)
		results = append(results, res)
	}
	log.Info("Resolved streams",
		"documents", len(results),
		"streams", total,
		"duration", time.Since(start))
	return results, nil
}

// LoadDocument reads, parses and resolves a single document.
func (l *Loader) LoadDocument(ctx context.Context, file string) (Result, error) {
	data, err := afero.ReadFile(l.docs, file)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read document %q: %w", file, err)
	}
	doc, err := xmlnode.ParseBytes(data, file)
	if err != nil {
		return Result{}, err
	}
	ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With("document", file))
	streams, err := ResolveAll(ctx, stream.NewCatalog(doc.Root()), l.opts.Concurrency)
	if err != nil {
		return Result{}, fmt.Errorf("document %q: %w", file, err)
	}
	if l.opts.ValidatePaths {
		for _, r := range streams {
			if err := stream.ValidateOutputPath(l.outputs, r); err != nil {
				return Result{}, fmt.Errorf("document %q: %w", file, err)
			}
		}
	}
	return Result{Document: file, Streams: streams}, nil
}

// ResolveAll resolves every record of the catalog with at most limit
// concurrent resolutions. Results keep catalog order, and on failure the
// error of the earliest failing record is returned whatever the limit. The
// catalog must not change while ResolveAll runs.
func ResolveAll(ctx context.Context, catalog *stream.Catalog, limit int) ([]stream.Resolved, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	records := catalog.Records()
	out := make([]stream.Resolved, len(records))
	errs := make([]error, len(records))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, record := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := stream.Load(record, catalog)
			if err != nil {
				errs[i] = err
				return nil
			}
			log.Debug("Resolved stream",
				"stream", r.StreamID,
				"input_interval", record.Attribute(stream.AttrInputInterval),
				"output_interval", record.Attribute(stream.AttrOutputInterval),
				"filename_interval", r.FilenameInterval)
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
