package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files below root. Keys are slash-separated relative paths;
// parent directories are created as needed.
func WriteTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, data := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}
