package cli

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func newTestRunner(t *testing.T, rows, cols int) *pipeline.Runner {
	t.Helper()
	s := settings.Default().WithSeed(1)
	s.Rows, s.Cols = rows, cols
	r := pipeline.New(scene.New(), pipeline.Options{})
	if err := r.Load(context.Background(), s); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGridModelView(t *testing.T) {
	r := newTestRunner(t, 3, 4)
	m := NewGridModel(context.Background(), r, 30)

	view := m.View()
	glyphs := strings.Count(view, glyphDisc) + strings.Count(view, glyphQuad)
	if glyphs != 12 {
		t.Errorf("view has %d glyphs, want 12", glyphs)
	}
	for _, want := range []string{"3×4", "stopped", "space start/stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGridModelClipsToWindow(t *testing.T) {
	r := newTestRunner(t, 10, 10)
	next, _ := NewGridModel(context.Background(), r, 30).Update(tea.WindowSizeMsg{Width: 8, Height: 7})
	view := next.(GridModel).View()
	glyphs := strings.Count(view, glyphDisc) + strings.Count(view, glyphQuad)
	if glyphs != 4*3 {
		t.Errorf("view has %d glyphs, want 12", glyphs)
	}
}

func TestGridModelToggleAndAdvance(t *testing.T) {
	r := newTestRunner(t, 2, 2)
	var m tea.Model = NewGridModel(context.Background(), r, 30)

	m, _ = m.Update(key(" "))
	if !r.Animating() {
		t.Fatal("space did not start the animation")
	}
	if !strings.Contains(m.View(), "spinning") {
		t.Error("status does not show spinning")
	}

	m, cmd := m.Update(frameMsg(time.Now().Add(10 * time.Second)))
	if cmd == nil {
		t.Error("frame did not schedule the next frame")
	}
	if r.Animating() {
		t.Error("sweep still running after its duration")
	}
	if got := r.Settings().RotationY; math.Abs(got-2*math.Pi) > 1e-9 {
		t.Errorf("RotationY = %v, want 2π", got)
	}
	if m.(GridModel).frames != 1 {
		t.Errorf("frames = %d, want 1", m.(GridModel).frames)
	}
}

func TestGridModelReseed(t *testing.T) {
	r := newTestRunner(t, 2, 2)
	m := NewGridModel(context.Background(), r, 30)
	before, _ := r.Settings().Seed()

	// A random seed can repeat; a few tries rule that out.
	changed := false
	for i := 0; i < 5 && !changed; i++ {
		m.Update(key("r"))
		after, _ := r.Settings().Seed()
		changed = after != before
	}
	if !changed {
		t.Error("r did not change the seed")
	}
}

func TestGridModelQuit(t *testing.T) {
	r := newTestRunner(t, 2, 2)
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = key(k)
		}
		_, cmd := NewGridModel(context.Background(), r, 30).Update(msg)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", k)
		}
	}
}

func TestColumnShift(t *testing.T) {
	tests := []struct {
		rotY float64
		cols int
		want int
	}{
		{0, 10, 0},
		{math.Pi, 10, 5},
		{math.Pi / 2, 8, 2},
		{2 * math.Pi, 10, 0},
		{-math.Pi / 2, 8, 6},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := columnShift(tt.rotY, tt.cols); got != tt.want {
			t.Errorf("columnShift(%v, %d) = %d, want %d", tt.rotY, tt.cols, got, tt.want)
		}
	}
}

func TestRunSweeps(t *testing.T) {
	r := newTestRunner(t, 2, 3)
	ticks := make(chan time.Time, 20)
	start := time.Now()
	for i := 1; i <= 20; i++ {
		ticks <- start.Add(time.Duration(i) * time.Second)
	}

	if err := runSweeps(context.Background(), r, ticks, 2); err != nil {
		t.Fatalf("runSweeps() error: %v", err)
	}
	if r.Animating() {
		t.Error("still animating")
	}
	if got := r.Settings().RotationY; math.Abs(got-4*math.Pi) > 1e-9 {
		t.Errorf("RotationY = %v, want 4π", got)
	}
}

func TestRunSweepsCancel(t *testing.T) {
	r := newTestRunner(t, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runSweeps(ctx, r, make(chan time.Time), 1)
	if err != context.Canceled {
		t.Errorf("runSweeps() error = %v, want context.Canceled", err)
	}
	if r.Animating() {
		t.Error("sweep left running after cancel")
	}
}
