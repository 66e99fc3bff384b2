package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"SVG, png,,pdf", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "grids/waves.json", "grids/waves"},
		{"", "", "shapegrid"},
		{"", "-", "shapegrid"},
		{"", "https://example.com/?s=abc", "shapegrid"},
		{"out.svg", "waves.json", "out"},
		{"out.png", "", "out"},
		{"out.v2", "", "out.v2"},
		{"render", "", "render"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("snap.svg", "waves.json", []string{"svg"})
	if got["svg"] != "snap.svg" {
		t.Errorf("single format path = %q, want snap.svg", got["svg"])
	}

	got = outputPaths("", "waves.json", []string{"svg", "png"})
	want := map[string]string{"svg": "waves.svg", "png": "waves.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputPaths() = %v, want %v", got, want)
	}
}

func TestReadSettings(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	s, err := c.readSettings("")
	if err != nil {
		t.Fatalf("readSettings(\"\") error: %v", err)
	}
	if !reflect.DeepEqual(s, settings.Default()) {
		t.Error("empty ref did not return defaults")
	}

	want := settings.Default().WithSeed(42)
	want.Rows = 3
	path := filepath.Join(t.TempDir(), "grid.toml")
	if err := settings.Save(path, want); err != nil {
		t.Fatal(err)
	}
	if s, err = c.readSettings(path); err != nil || s.Rows != 3 {
		t.Errorf("readSettings(file) = %d rows, %v", s.Rows, err)
	}

	link, err := project.ShareURL("https://grids.example.com/", want)
	if err != nil {
		t.Fatal(err)
	}
	if s, err = c.readSettings(link); err != nil || s.Rows != 3 {
		t.Errorf("readSettings(link) = %d rows, %v", s.Rows, err)
	}

	if _, err := c.readSettings(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: error = %v, want NOT_FOUND", err)
	}
}

func TestIsShareRef(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/?s=abc": true,
		"http://localhost:8080/":     true,
		"waves.json":                 false,
		"-":                          false,
		"/tmp/https.json":            false,
	}
	for in, want := range tests {
		if got := isShareRef(in); got != want {
			t.Errorf("isShareRef(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewStoreSelectsBackend(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.Config.Store.Backend = BackendMemory
	store, err := c.newStore(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*project.MemoryStore); !ok {
		t.Errorf("memory backend: got %T", store)
	}

	c.Config.Store = StoreConfig{Backend: BackendFile, Dir: filepath.Join(t.TempDir(), "p")}
	store, err = c.newStore(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	fs, ok := store.(*project.FileStore)
	if !ok {
		t.Fatalf("file backend: got %T", store)
	}
	if _, err := os.Stat(fs.Path()); err != nil {
		t.Errorf("store dir not created: %v", err)
	}
}
