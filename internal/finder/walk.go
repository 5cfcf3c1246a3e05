package finder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Candidate is a file that may contain build identifiers.
type Candidate struct {
	Path string
	Size int64
}

// WalkOptions controls which files Walk yields.
type WalkOptions struct {
	// FollowSymlinks yields symlinks to regular files. Symlinked directories
	// are never descended into.
	FollowSymlinks bool
	// MaxFileSize skips larger files. Zero means unlimited.
	MaxFileSize int64
	// SkipErrors logs unreadable directories and continues instead of
	// failing the walk.
	SkipErrors bool
	// Exclude lists directory names that are not descended into.
	Exclude []string
}

// Walk calls emit for every regular, non-empty file below root, in lexical
// order. root itself may be a file. A root that is a symlink to a directory is
// always descended into and yielded paths keep the root as given. A non-nil
// error from emit stops the walk and is returned.
func Walk(ctx context.Context, root string, opts WalkOptions, logger zerolog.Logger, emit func(Candidate) error) error {
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}

	walkRoot := resolveRoot(root)
	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// The root itself must be readable regardless of policy.
			if d == nil || !opts.SkipErrors {
				return err
			}
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable directory")
			return nil
		}

		switch {
		case d.IsDir():
			if _, ok := exclude[d.Name()]; ok && path != walkRoot {
				logger.Debug().Str("path", path).Msg("Skipping excluded directory")
				return filepath.SkipDir
			}
			return nil

		case d.Type()&fs.ModeSymlink != 0:
			if !opts.FollowSymlinks {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				logger.Debug().Err(err).Str("path", path).Msg("Skipping broken symlink")
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			return consider(path, info, opts, logger, emit)

		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				logger.Debug().Err(err).Str("path", path).Msg("Skipping file that vanished during the walk")
				return nil
			}
			return consider(path, info, opts, logger, emit)

		default:
			// Devices, sockets and pipes.
			return nil
		}
	})
}

// resolveRoot returns the path to hand to WalkDir for root. WalkDir does not
// follow a symlinked root, but a trailing separator makes the lookup resolve
// the link while children are still joined onto the caller's spelling.
func resolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	target, err := os.Stat(root)
	if err != nil || !target.IsDir() {
		return root
	}
	return root + string(filepath.Separator)
}

func consider(path string, info fs.FileInfo, opts WalkOptions, logger zerolog.Logger, emit func(Candidate) error) error {
	size := info.Size()
	if size == 0 {
		return nil
	}
	if opts.MaxFileSize > 0 && size > opts.MaxFileSize {
		logger.Debug().Str("path", path).Int64("size", size).Msg("Skipping file above size limit")
		return nil
	}
	return emit(Candidate{Path: path, Size: size})
}
