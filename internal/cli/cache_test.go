package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "shapegrid")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, "shapegrid") || !strings.HasPrefix(dir, base) {
		t.Errorf("cacheDir() = %q, want %s/shapegrid", dir, base)
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	for _, name := range []string{"ab/one", "cd/two", "three"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir() error: %v", err)
	}
	if n != 3 {
		t.Errorf("clearCacheDir() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}

	if n, err := clearCacheDir(filepath.Join(t.TempDir(), "missing")); err != nil || n != 0 {
		t.Errorf("clearCacheDir(missing) = %d, %v, want 0, nil", n, err)
	}
}
