package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	root := &fs.PathError{Op: "open", Path: "/private", Err: fs.ErrPermission}
	err := New(KindTraversal, fmt.Errorf("walk /private: %w", root), "failed to search %s", "/")

	assert.Equal(t, []string{
		"failed to search /",
		"walk /private: open /private: permission denied",
	}, Chain(err))

	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestChain_NestedErrors(t *testing.T) {
	inner := New(KindConfig, errors.New("yaml: line 3"), "failed to parse config")
	outer := New(KindConfig, inner, "failed to load config")

	assert.Equal(t, []string{
		"failed to load config",
		"failed to parse config",
		"yaml: line 3",
	}, Chain(outer))
}

func TestChain_Nil(t *testing.T) {
	assert.Empty(t, Chain(nil))
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("run: %w", New(KindInvalidTarget, nil, "invalid UUID"))

	assert.Equal(t, KindInvalidTarget, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.True(t, errors.Is(err, &Error{Kind: KindInvalidTarget}))
	assert.False(t, errors.Is(err, &Error{Kind: KindTraversal}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "traversal failure", KindTraversal.String())
	assert.Equal(t, "error", Kind(99).String())
}
