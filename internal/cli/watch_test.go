package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func newTestWatcher(t *testing.T, s settings.Settings) *settingsWatcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.json")
	if err := settings.Save(path, s); err != nil {
		t.Fatal(err)
	}
	r := pipeline.New(scene.New(), pipeline.Options{})
	t.Cleanup(r.Close)
	return &settingsWatcher{
		path:   path,
		runner: r,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func TestSettingsWatcherReload(t *testing.T) {
	ctx := context.Background()
	s := settings.Default().WithSeed(3)
	w := newTestWatcher(t, s)

	change, err := w.reload(ctx)
	if err != nil {
		t.Fatalf("first reload: %v", err)
	}
	if change != settings.Structural {
		t.Errorf("first reload change = %v, want structural", change)
	}

	tests := []struct {
		name string
		edit func(*settings.Settings)
		want settings.Change
	}{
		{"pose", func(s *settings.Settings) { s.Curvature = 0.7 }, settings.Pose},
		{"color", func(s *settings.Settings) { s.Group2Fill = "#000000" }, settings.Color},
		{"structural", func(s *settings.Settings) { s.Rows = 4 }, settings.Structural},
		{"unchanged", func(*settings.Settings) {}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.edit(&s)
			if err := settings.Save(w.path, s); err != nil {
				t.Fatal(err)
			}
			got, err := w.reload(ctx)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if got != tt.want {
				t.Errorf("change = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettingsWatcherKeepsPreviousOnError(t *testing.T) {
	ctx := context.Background()
	s := settings.Default().WithSeed(3)
	w := newTestWatcher(t, s)
	if _, err := w.reload(ctx); err != nil {
		t.Fatal(err)
	}

	bad := s
	bad.Curvature = 5
	// Save does not validate; Load does.
	if err := settings.Save(w.path, bad); err != nil {
		t.Fatal(err)
	}
	if _, err := w.reload(ctx); err == nil {
		t.Fatal("reload of invalid settings: expected error")
	}
	if got := w.runner.Settings().Curvature; got != s.Curvature {
		t.Errorf("Curvature = %v, want previous %v", got, s.Curvature)
	}
}

func TestSettingsWatcherLoop(t *testing.T) {
	s := settings.Default().WithSeed(3)
	w := newTestWatcher(t, s)
	if _, err := w.reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	applied := make(chan settings.Settings, 4)
	w.onChange = func(_ context.Context, s settings.Settings) error {
		applied <- s
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx, events, errs, 10*time.Millisecond) }()

	s.Cols = 7
	if err := settings.Save(w.path, s); err != nil {
		t.Fatal(err)
	}
	// Unrelated files are ignored; a burst on the target reloads once.
	events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(w.path), "other.json"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: w.path, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: w.path, Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: w.path, Op: fsnotify.Write}

	select {
	case got := <-applied:
		if got.Cols != 7 {
			t.Errorf("applied Cols = %d, want 7", got.Cols)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("loop() error = %v", err)
	}
	if n := len(applied); n != 0 {
		t.Errorf("%d extra reloads", n)
	}
}
