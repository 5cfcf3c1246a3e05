// Package safe provides file access with validation for untrusted trees.
package safe

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadOptions configures the behavior of ReadFile.
type ReadOptions struct {
	// MaxSize is the maximum allowed file size in bytes. Zero means unlimited.
	MaxSize int64
	// AllowSymlinks allows reading through a symlink. Default is false.
	AllowSymlinks bool
}

// Stat returns file info for path after the same validations ReadFile
// performs: symlinks are rejected unless allowed, only regular files are
// accepted and the size limit is enforced.
func Stat(path string, opts *ReadOptions) (os.FileInfo, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	cleanPath := filepath.Clean(path)

	// Check file info without following symlinks.
	info, err := os.Lstat(cleanPath)
	if err != nil {
		return nil, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !opts.AllowSymlinks {
			return nil, fmt.Errorf("file %q is a symlink", path)
		}
		if info, err = os.Stat(cleanPath); err != nil {
			return nil, err
		}
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path %q is not a regular file", path)
	}

	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return nil, fmt.Errorf("file %q exceeds maximum allowed size of %d bytes", path, opts.MaxSize)
	}

	return info, nil
}

// ReadFile reads a whole file after validating it with Stat.
func ReadFile(path string, opts *ReadOptions) ([]byte, error) {
	if _, err := Stat(path, opts); err != nil {
		return nil, err
	}
	// #nosec G304 - the path was validated above.
	return os.ReadFile(filepath.Clean(path))
}
