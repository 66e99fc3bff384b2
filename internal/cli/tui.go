package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
)

// Grid view styles
var (
	gridDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	gridStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	gridActiveStyle = StyleSuccess.Bold(true)
)

// Glyphs for the two shape kinds.
const (
	glyphDisc = "●"
	glyphQuad = "■"
)

// =============================================================================
// GridModel - Live grid animation
// =============================================================================

// frameMsg carries the time of one animation frame.
type frameMsg time.Time

// GridModel is the bubbletea model for the animate command. It advances the
// runner once per frame and draws every unit as a colored glyph, with the
// columns scrolled by the current Y rotation.
type GridModel struct {
	ctx      context.Context
	runner   *pipeline.Runner
	interval time.Duration

	// MaxCols and MaxRows clip the view to the terminal.
	MaxCols int
	MaxRows int

	frames uint64
	err    error
}

// NewGridModel creates a model driving r at fps frames per second.
func NewGridModel(ctx context.Context, r *pipeline.Runner, fps int) GridModel {
	if fps <= 0 {
		fps = pipeline.DefaultFPS
	}
	return GridModel{
		ctx:      ctx,
		runner:   r,
		interval: time.Second / time.Duration(fps),
		MaxCols:  80,
		MaxRows:  40,
	}
}

func (m GridModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m GridModel) Init() tea.Cmd {
	return m.tick()
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.runner.Advance(time.Time(msg))
		m.frames++
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "enter":
			m.runner.ToggleAnimation(m.ctx)
		case "r":
			s := m.runner.Settings().WithSeed(palette.RandomSeed())
			if _, err := m.runner.Apply(m.ctx, s); err != nil {
				m.err = err
			}
		}
	case tea.WindowSizeMsg:
		// Each unit takes two cells; keep room for the status lines.
		m.MaxCols = max(msg.Width/2, 1)
		m.MaxRows = max(msg.Height-4, 1)
	}
	return m, nil
}

func (m GridModel) View() string {
	var b strings.Builder

	s := m.runner.Settings()
	pal, err := s.Palette()
	if err != nil {
		return styleIconError.Render(err.Error())
	}
	styles := groupStyles(pal)

	cols := s.Cols
	shift := columnShift(s.RotationY, cols)
	units := m.runner.Units()

	for row := 0; row < min(s.Rows, m.MaxRows); row++ {
		for i := 0; i < min(cols, m.MaxCols); i++ {
			col := (i + shift) % cols
			u := units[row*cols+col]
			glyph := glyphDisc
			if u.Shape == grid.Quad {
				glyph = glyphQuad
			}
			b.WriteString(styles[u.Group].Render(glyph))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.status())
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(styleIconError.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	b.WriteString(gridDimStyle.Render("space start/stop  r reseed  q quit"))
	return b.String()
}

func (m GridModel) status() string {
	s := m.runner.Settings()
	seed, _ := s.Seed()
	state := gridStatusStyle.Render("stopped")
	if m.runner.Animating() {
		state = gridActiveStyle.Render("spinning")
	}
	parts := []string{
		fmt.Sprintf("%d×%d", s.Rows, s.Cols),
		fmt.Sprintf("rotY %5.1f°", s.RotationY*180/math.Pi),
		fmt.Sprintf("next morph: %s", m.runner.Dominant()),
		fmt.Sprintf("seed %d", seed),
	}
	return state + gridDimStyle.Render(" · ") + gridStatusStyle.Render(strings.Join(parts, " · "))
}

// groupStyles returns one foreground style per color group.
func groupStyles(p palette.Palette) [palette.GroupCount]lipgloss.Style {
	var out [palette.GroupCount]lipgloss.Style
	for i, g := range p {
		out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(g.Fill.Hex()))
	}
	return out
}

// columnShift maps a Y rotation to the number of columns the view scrolls.
func columnShift(rotY float64, cols int) int {
	if cols <= 0 {
		return 0
	}
	turns := rotY / (2 * math.Pi)
	turns -= math.Floor(turns)
	return int(math.Round(turns*float64(cols))) % cols
}
