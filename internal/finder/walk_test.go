package finder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsuhiko/machfind/internal/testutil"
)

func collect(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	var got []string
	err := Walk(context.Background(), root, opts, testutil.NewTestLoggerWithOutput(t), func(c Candidate) error {
		rel, err := filepath.Rel(root, c.Path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string][]byte{
		"z":              []byte("z"),
		"empty":          {},
		"a/one":          []byte("1"),
		"a/.git/HEAD":    []byte("ref"),
		"a/big":          []byte("0123456789"),
		"b/c/d/deep.bin": []byte("deep"),
	})

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "all non-empty files in lexical order",
			want: []string{"a/.git/HEAD", "a/big", "a/one", "b/c/d/deep.bin", "z"},
		},
		{
			name: "size limit",
			opts: WalkOptions{MaxFileSize: 4},
			want: []string{"a/.git/HEAD", "a/one", "b/c/d/deep.bin", "z"},
		},
		{
			name: "excluded directory",
			opts: WalkOptions{Exclude: []string{".git", "c"}},
			want: []string{"a/big", "a/one", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, root, tt.opts))
		})
	}
}

func TestWalk_ExcludedRootIsStillWalked(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "build")
	testutil.WriteTree(t, root, map[string][]byte{"x": []byte("x")})

	assert.Equal(t, []string{"x"}, collect(t, root, WalkOptions{Exclude: []string{"build"}}))
}

func TestWalk_SymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	parent := t.TempDir()
	target := filepath.Join(parent, "real")
	testutil.WriteTree(t, target, map[string][]byte{
		"z":        []byte("z"),
		"a/one":    []byte("1"),
		"a/.git/x": []byte("x"),
	})
	link := filepath.Join(parent, "link")
	require.NoError(t, os.Symlink(target, link))

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{name: "without following", want: []string{"a/.git/x", "a/one", "z"}},
		{name: "following", opts: WalkOptions{FollowSymlinks: true}, want: []string{"a/.git/x", "a/one", "z"}},
		{name: "excluded name", opts: WalkOptions{Exclude: []string{".git", "link"}}, want: []string{"a/one", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, link, tt.opts))

			err := Walk(context.Background(), link, tt.opts, testutil.NewTestLogger(t), func(c Candidate) error {
				assert.True(t, strings.HasPrefix(c.Path, link+string(filepath.Separator)), c.Path)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestWalk_EmitErrorStops(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string][]byte{"a": []byte("a"), "b": []byte("b")})

	stop := assert.AnError
	calls := 0
	err := Walk(context.Background(), root, WalkOptions{}, testutil.NewTestLogger(t), func(Candidate) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
