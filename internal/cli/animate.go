package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
)

// animateOpts holds the command-line flags for the animate command.
type animateOpts struct {
	fps    int
	speed  float64
	noTUI  bool
	sweeps int
}

// animateCommand creates the animate command.
func (c *CLI) animateCommand() *cobra.Command {
	var opts animateOpts

	cmd := &cobra.Command{
		Use:   "animate [settings]",
		Short: "Spin and morph a grid in the terminal",
		Long: `Animate loads a settings record and spins the grid one full turn about Y per
sweep, morphing discs into quads and back as the rotation passes the quarter
turns. Press space to start or stop, r to reseed the colors, q to quit.

With --no-tui the sweeps run headless and progress is logged.`,
		Example: `  shapegrid animate waves.json
  shapegrid animate --no-tui --sweeps 3 -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runAnimate(cmd.Context(), input, cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second (default from config)")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "animation speed override")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "run headless without the terminal view")
	cmd.Flags().IntVar(&opts.sweeps, "sweeps", 1, "number of sweeps to run headless")

	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, input string, cmd *cobra.Command, opts animateOpts) error {
	s, err := c.readSettings(input)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("speed") {
		s.AnimationSpeed = opts.speed
	}
	fps := opts.fps
	if fps <= 0 {
		fps = c.Config.Animation.FPS
	}

	r := pipeline.New(scene.New(), c.runnerOptions())
	defer r.Close()
	if err := r.Load(ctx, s); err != nil {
		return err
	}

	if opts.noTUI {
		ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
		defer ticker.Stop()
		prog := newProgress(c.Logger)
		if err := runSweeps(ctx, r, ticker.C, opts.sweeps); err != nil {
			return err
		}
		prog.done("Animation finished")
		return nil
	}

	r.ToggleAnimation(ctx)
	p := tea.NewProgram(NewGridModel(ctx, r, fps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// runSweeps runs n complete sweeps, advancing r on every tick. Cancelling
// ctx stops the running sweep where it is.
func runSweeps(ctx context.Context, r *pipeline.Runner, ticks <-chan time.Time, n int) error {
	for i := 0; i < n; i++ {
		if !r.ToggleAnimation(ctx) {
			return nil
		}
		for r.Animating() {
			select {
			case <-ctx.Done():
				r.ToggleAnimation(ctx)
				return ctx.Err()
			case now := <-ticks:
				r.Advance(now)
			}
		}
	}
	return nil
}
