package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // json, svg, png, pdf, dot
	engine     string   // native or graphviz
	scale      float64  // PNG scale
	background string   // SVG background color
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [settings]",
		Short: "Render settings to static snapshots",
		Long: `Render draws the grid described by a settings file (or share URL, or - for
stdin) at its current pose. Snapshots are cached by settings hash and options.`,
		Example: `  shapegrid render waves.json
  shapegrid render waves.json -f svg,png --scale 3 --background "#101018"
  shapegrid render "https://example.com/?s=eyJyb3dzIjo0fQ" -o shared.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", pipeline.EngineNative, "drawing engine: native, graphviz")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color (default transparent)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached snapshots")

	return cmd
}

// runRender loads the settings, renders every format and writes the files.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, opts renderOpts) error {
	if opts.output == stdio && len(opts.formats) != 1 {
		return fmt.Errorf("writing to stdout needs exactly one format, got %d", len(opts.formats))
	}

	s, err := c.readSettings(input)
	if err != nil {
		return err
	}
	sn, closeCache, err := c.newSnapshotter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, fmt.Sprintf("Rendering %dx%d grid...", s.Rows, s.Cols))
	if opts.output != stdio {
		spin.Start()
	}
	snap, err := sn.Render(ctx, s, pipeline.SnapshotOptions{
		Formats:    opts.formats,
		Engine:     opts.engine,
		Scale:      opts.scale,
		Background: opts.background,
		Refresh:    opts.refresh,
	})
	if err != nil {
		if spin.Cancelled() {
			return ctx.Err()
		}
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	if opts.output == stdio {
		_, err := stdout.Write(snap.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, f := range opts.formats {
		if err := writeFile(paths[f], snap.Artifacts[f]); err != nil {
			return err
		}
		c.Logger.Debug("wrote snapshot", "format", f, "path", paths[f], "bytes", len(snap.Artifacts[f]))
	}
	prog.done(fmt.Sprintf("Rendered %d snapshot(s)", len(opts.formats)))

	printSuccess("Rendered %s", snapshotLabel(snap))
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	seed, _ := snap.Settings.Seed()
	units := grid.Generate(snap.Settings.GridConfig())
	palette.Assign(units, snap.Settings.Frequencies(), seed)
	printGridStats(snap.Settings.Rows, snap.Settings.Cols, palette.Counts(units), len(snap.CacheHits) == len(opts.formats))
	return nil
}

// outputPaths maps each format to its file. A single format with an
// explicit output writes exactly there; otherwise files are base.format.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func snapshotLabel(snap *pipeline.Snapshot) string {
	label := fmt.Sprintf("%d units", snap.Units)
	if n := len(snap.CacheHits); n > 0 {
		hits := slices.Clone(snap.CacheHits)
		slices.Sort(hits)
		label += fmt.Sprintf(" (cached: %v)", hits)
	}
	return label
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
