package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// testEnv runs commands against a private config, project store and cache.
type testEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	config := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[store]\nbackend = \"file\"\ndir = %q\n\n[cache]\nenabled = false\n", filepath.Join(dir, "projects"))
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{t: t, dir: dir, config: config}
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *testEnv) path(name string) string { return filepath.Join(e.dir, name) }

func parseSettings(t *testing.T, data string) settings.Settings {
	t.Helper()
	s, err := settings.Parse([]byte(data), settings.FormatJSON, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v\n%s", err, data)
	}
	return s
}

func TestGenerateToStdout(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("generate", "--rows", "4", "--cols", "5", "--seed", "7", "--shape", "quad", "--curvature", "0.5")

	s := parseSettings(t, out)
	if s.Rows != 4 || s.Cols != 5 {
		t.Errorf("size = %dx%d, want 4x5", s.Rows, s.Cols)
	}
	if seed, ok := s.Seed(); !ok || seed != 7 {
		t.Errorf("Seed() = %d, %v, want 7, true", seed, ok)
	}
	if s.Shape.String() != "quad" {
		t.Errorf("Shape = %v, want quad", s.Shape)
	}
	if s.Curvature != 0.5 {
		t.Errorf("Curvature = %v, want 0.5", s.Curvature)
	}
}

func TestGenerateAlwaysHasSeed(t *testing.T) {
	e := newTestEnv(t)
	s := parseSettings(t, e.mustRun("generate"))
	if _, ok := s.Seed(); !ok {
		t.Error("generated settings have no seed")
	}
}

func TestGenerateToTOMLFile(t *testing.T) {
	e := newTestEnv(t)
	path := e.path("grid.toml")
	e.mustRun("generate", "--cols", "9", "--seed", "1", "-o", path)

	s, err := settings.Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Cols != 9 {
		t.Errorf("Cols = %d, want 9", s.Cols)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad shape", []string{"--shape", "hexagon"}},
		{"bad axis", []string{"--axis", "z"}},
		{"curvature", []string{"--curvature", "2"}},
		{"rows", []string{"--rows", "0"}},
		{"missing base", []string{"--from", "/does/not/exist.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			if _, err := e.run(append([]string{"generate"}, tt.args...)...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderFiles(t *testing.T) {
	e := newTestEnv(t)
	input := e.path("grid.json")
	e.mustRun("generate", "--rows", "3", "--cols", "4", "--seed", "5", "-o", input)

	base := e.path("out/snap")
	e.mustRun("render", input, "-f", "json,svg,dot", "-o", base)

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg starts with %q", svg[:min(len(svg), 20)])
	}
	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var snap struct {
		Meshes int `json:"meshes"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Meshes != 3*4*2 {
		t.Errorf("meshes = %d, want %d", snap.Meshes, 3*4*2)
	}
	if _, err := os.Stat(base + ".dot"); err != nil {
		t.Errorf("dot output missing: %v", err)
	}
}

func TestRenderToStdout(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("render", "-f", "dot", "-o", "-")
	if !strings.Contains(out, "layout=neato;") {
		t.Errorf("stdout is not DOT:\n%s", out)
	}

	if _, err := e.run("render", "-f", "json,svg", "-o", "-"); err == nil {
		t.Error("multiple formats to stdout: expected error")
	}
	if _, err := e.run("render", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: error = %v, want INVALID_FORMAT", err)
	}
}

func TestProjectLifecycle(t *testing.T) {
	e := newTestEnv(t)
	input := e.path("grid.json")
	e.mustRun("generate", "--rows", "6", "--seed", "11", "-o", input)

	e.mustRun("project", "save", "waves", input)

	var listed []*project.Project
	if err := json.Unmarshal([]byte(e.mustRun("project", "list", "--json")), &listed); err != nil {
		t.Fatalf("list --json: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "waves" {
		t.Fatalf("list = %+v, want one project named waves", listed)
	}

	// Saving under the same name updates in place.
	e.mustRun("generate", "--rows", "8", "--seed", "11", "-o", input)
	e.mustRun("project", "save", "waves", input)
	listed = nil
	if err := json.Unmarshal([]byte(e.mustRun("project", "list", "--json")), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Settings.Rows != 8 {
		t.Fatalf("after update: %+v", listed)
	}

	loaded := parseSettings(t, e.mustRun("project", "load", listed[0].ID))
	if loaded.Rows != 8 {
		t.Errorf("load by id: Rows = %d, want 8", loaded.Rows)
	}

	link := strings.TrimSpace(e.mustRun("project", "share", "waves", "--base-url", "https://grids.example.com/"))
	if !strings.HasPrefix(link, "https://grids.example.com/?s=") {
		t.Errorf("share link = %q", link)
	}
	decoded := parseSettings(t, e.mustRun("share", "decode", link))
	if decoded.Rows != 8 {
		t.Errorf("decoded Rows = %d, want 8", decoded.Rows)
	}
	if seed, _ := decoded.Seed(); seed != 11 {
		t.Errorf("decoded seed = %d, want 11", seed)
	}

	e.mustRun("project", "pull", link, "--name", "copy")
	copied := parseSettings(t, e.mustRun("project", "load", "copy"))
	if copied.Rows != 8 {
		t.Errorf("pulled Rows = %d, want 8", copied.Rows)
	}

	e.mustRun("project", "delete", "waves")
	if _, err := e.run("project", "load", "waves"); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("load after delete: error = %v, want PROJECT_NOT_FOUND", err)
	}
	e.mustRun("project", "delete", "copy")
	if got := strings.TrimSpace(e.mustRun("project", "list", "--json")); got != "[]" {
		t.Errorf("list after deletes = %s, want []", got)
	}
}

func TestShareEncodeToken(t *testing.T) {
	e := newTestEnv(t)
	input := e.path("grid.json")
	e.mustRun("generate", "--cols", "12", "--seed", "3", "-o", input)

	token := strings.TrimSpace(e.mustRun("share", "encode", input, "--token"))
	s := parseSettings(t, e.mustRun("share", "decode", token))
	if s.Cols != 12 {
		t.Errorf("Cols = %d, want 12", s.Cols)
	}

	if _, err := e.run("share", "decode", "%%%"); !errors.Is(err, errors.ErrCodeInvalidShareToken) {
		t.Errorf("bad token: error = %v, want INVALID_SHARE_TOKEN", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	e := newTestEnv(t)
	got := strings.TrimSpace(e.mustRun("cache", "path"))
	if want := filepath.Join(e.dir, "cache", "shapegrid"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestUnknownConfigKeyFails(t *testing.T) {
	e := newTestEnv(t)
	if err := os.WriteFile(e.config, []byte("[stor]\nbackend = \"file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run("project", "list"); !errors.Is(err, errors.ErrCodeUnknownField) {
		t.Errorf("error = %v, want UNKNOWN_FIELD", err)
	}
}
