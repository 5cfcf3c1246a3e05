package safe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFile(t *testing.T) {
	t.Run("reads regular file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "binary")
		content := []byte{0xcf, 0xfa, 0xed, 0xfe}

		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFile(path, nil)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("got %x, want %x", got, content)
		}
	})

	t.Run("rejects symlink by default", func(t *testing.T) {
		tmpDir := t.TempDir()
		target := filepath.Join(tmpDir, "target")
		link := filepath.Join(tmpDir, "link")

		if err := os.WriteFile(target, []byte("test"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		if _, err := ReadFile(link, nil); err == nil {
			t.Error("expected error for symlink")
		}

		got, err := ReadFile(link, &ReadOptions{AllowSymlinks: true})
		if err != nil {
			t.Fatalf("ReadFile with AllowSymlinks failed: %v", err)
		}
		if string(got) != "test" {
			t.Errorf("got %q, want %q", got, "test")
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		if _, err := ReadFile(t.TempDir(), nil); err == nil {
			t.Error("expected error for directory")
		}
	})

	t.Run("enforces size limit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big")
		if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadFile(path, &ReadOptions{MaxSize: 99}); err == nil {
			t.Error("expected error for oversized file")
		}
		if _, err := ReadFile(path, &ReadOptions{MaxSize: 100}); err != nil {
			t.Errorf("unexpected error at exact limit: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "nope"), nil)
		if !os.IsNotExist(err) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := Stat(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 5 {
		t.Errorf("size = %d, want 5", info.Size())
	}
}
