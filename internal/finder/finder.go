// Package finder searches directory trees for Mach-O files carrying a given
// build identifier.
package finder

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitsuhiko/machfind/internal/config"
	"github.com/mitsuhiko/machfind/internal/errors"
	"github.com/mitsuhiko/machfind/internal/macho"
	"github.com/mitsuhiko/machfind/internal/safe"
)

// Options configures a Finder.
type Options struct {
	// Workers is the number of files inspected concurrently. Zero means one
	// per CPU.
	Workers int
	// Reader is config.ReaderMmap or config.ReaderRead.
	Reader         string
	FollowSymlinks bool
	MaxFileSize    int64
	// SkipErrors continues past unreadable directories.
	SkipErrors bool
	Exclude    []string
}

// OptionsFromConfig maps the search section of cfg to Options.
func OptionsFromConfig(cfg config.SearchConfig) Options {
	return Options{
		Workers:        cfg.Workers,
		Reader:         cfg.Reader,
		FollowSymlinks: cfg.FollowSymlinks,
		MaxFileSize:    cfg.MaxFileSize,
		SkipErrors:     cfg.OnError == config.OnErrorSkip,
		Exclude:        cfg.Exclude,
	}
}

// Match is a file containing the searched identifier.
type Match struct {
	Path string `json:"path" header:"PATH"`
	Size int64  `json:"size" header:"SIZE"`
}

// Finder walks trees and inspects the files it finds.
type Finder struct {
	opts   Options
	load   loader
	logger zerolog.Logger
}

// New creates a Finder.
func New(opts Options, logger zerolog.Logger) (*Finder, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	load, err := newLoader(opts.Reader, safe.ReadOptions{
		MaxSize:       opts.MaxFileSize,
		AllowSymlinks: opts.FollowSymlinks,
	})
	if err != nil {
		return nil, errors.New(errors.KindConfig, err, "invalid search options")
	}
	return &Finder{
		opts:   opts,
		load:   load,
		logger: logger,
	}, nil
}

// Find returns every file below root whose identifiers include target,
// sorted by path. Files that cannot be read or parsed are not matches.
// Unreadable directories fail the search unless SkipErrors is set; an
// unreadable root always does.
func (f *Finder) Find(ctx context.Context, root string, target uuid.UUID) ([]Match, error) {
	start := time.Now()
	f.logger.Debug().
		Str("root", root).
		Stringer("target", target).
		Int("workers", f.opts.Workers).
		Str("reader", f.opts.Reader).
		Msg("Starting search")

	var (
		mu      sync.Mutex
		matches []Match
		scanned atomic.Int64
		failed  atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Workers)

	walkOpts := WalkOptions{
		FollowSymlinks: f.opts.FollowSymlinks,
		MaxFileSize:    f.opts.MaxFileSize,
		SkipErrors:     f.opts.SkipErrors,
		Exclude:        f.opts.Exclude,
	}
	walkErr := Walk(gctx, root, walkOpts, f.logger, func(c Candidate) error {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			scanned.Add(1)
			ok, err := f.check(gctx, c.Path, target)
			if err != nil {
				failed.Add(1)
				f.logger.Debug().Err(err).Str("path", c.Path).Msg("Skipping unreadable file")
				return nil
			}
			if ok {
				f.logger.Debug().Str("path", c.Path).Msg("Found match")
				mu.Lock()
				matches = append(matches, Match{Path: c.Path, Size: c.Size})
				mu.Unlock()
			}
			return nil
		})
		return nil
	})
	waitErr := g.Wait()

	if walkErr != nil {
		return nil, errors.New(errors.KindTraversal, walkErr, "failed to search %s", root)
	}
	if waitErr != nil {
		return nil, errors.New(errors.KindTraversal, waitErr, "failed to search %s", root)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })

	f.logger.Info().
		Str("root", root).
		Int64("scanned", scanned.Load()).
		Int64("unreadable", failed.Load()).
		Int("matches", len(matches)).
		Dur("elapsed", time.Since(start)).
		Msg("Search complete")

	return matches, nil
}

// Inspect parses a single file and reports its images and identifiers.
func (f *Finder) Inspect(ctx context.Context, path string) (*macho.Report, error) {
	buf, err := f.load(ctx, path)
	if err != nil {
		return nil, err
	}
	defer errors.DeferClose(f.logger, buf, "failed to release file buffer")

	return macho.Inspect(buf.Bytes()), nil
}

func (f *Finder) check(ctx context.Context, path string, target uuid.UUID) (bool, error) {
	report, err := f.Inspect(ctx, path)
	if err != nil {
		return false, err
	}
	for _, d := range report.Diagnostics {
		f.logger.Debug().Err(d).Str("path", path).Msg("Malformed container")
	}
	return report.Contains(target), nil
}
