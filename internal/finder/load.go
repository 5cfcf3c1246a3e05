package finder

import (
	"context"
	"fmt"

	"github.com/mitsuhiko/machfind/internal/config"
	"github.com/mitsuhiko/machfind/internal/mmap"
	"github.com/mitsuhiko/machfind/internal/retry"
	"github.com/mitsuhiko/machfind/internal/safe"
)

// buffer is the contents of one candidate file. Bytes must not be used after
// Close.
type buffer interface {
	Bytes() []byte
	Close() error
}

type byteBuffer []byte

func (b byteBuffer) Bytes() []byte { return b }
func (byteBuffer) Close() error { return nil }

// loader acquires the bytes of a candidate.
type loader func(ctx context.Context, path string) (buffer, error)

// newLoader returns the loader for a reader strategy. Opens that fail because
// the process is out of descriptors or address space are retried.
func newLoader(reader string, opts safe.ReadOptions) (loader, error) {
	var open func(path string) (buffer, error)
	switch reader {
	case config.ReaderMmap, "":
		open = func(path string) (buffer, error) {
			if _, err := safe.Stat(path, &opts); err != nil {
				return nil, err
			}
			m, err := mmap.Open(path)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	case config.ReaderRead:
		open = func(path string) (buffer, error) {
			data, err := safe.ReadFile(path, &opts)
			if err != nil {
				return nil, err
			}
			return byteBuffer(data), nil
		}
	default:
		return nil, fmt.Errorf("unknown reader %q", reader)
	}

	return func(ctx context.Context, path string) (buffer, error) {
		return retry.Value(ctx, retry.FileOpen, func() (buffer, error) {
			return open(path)
		}, retry.ResourceExhausted)
	}, nil
}
