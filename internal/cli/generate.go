package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/settings"
	"github.com/matzehuels/shapegrid/pkg/transform"
)

// generateOpts holds the flags of the generate command. Zero values leave
// the base settings untouched; see applyTo.
type generateOpts struct {
	from      string
	output    string
	format    string
	rows      int
	cols      int
	shape     string
	axis      string
	curvature float64
	radius    float64
	scaling   bool
	seed      int64
	speed     float64
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a settings file",
		Long: `Generate writes a complete settings record, starting from the defaults (or
--from) and applying the given flags. A color seed is always included so the
record renders the same colors everywhere.`,
		Example: `  shapegrid generate --rows 20 --cols 30 --curvature 0.6 -o waves.json
  shapegrid generate --from waves.json --shape quad --format toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.readSettings(opts.from)
			if err != nil {
				return err
			}
			s, err := opts.applyTo(cmd, base)
			if err != nil {
				return err
			}
			s.EnsureSeed(c.Logger)
			if err := settings.Validate(s); err != nil {
				return err
			}
			return c.writeSettings(cmd, s, opts.output, opts.format)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "base settings file or share URL (default: built-in defaults)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", stdio, "output file, - for stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "json or toml (default: from output extension, else json)")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "number of rows")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "number of columns")
	cmd.Flags().StringVar(&opts.shape, "shape", "", "initial shape: disc or quad")
	cmd.Flags().StringVar(&opts.axis, "axis", "", "wrap axis: y or x")
	cmd.Flags().Float64Var(&opts.curvature, "curvature", 0, "wrap curvature in [0, 1]")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "wrap radius")
	cmd.Flags().BoolVar(&opts.scaling, "width-scaling", false, "scale quad widths across columns")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "color seed (default: random)")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "animation speed")

	return cmd
}

// applyTo overrides fields of s for every flag the user set.
func (o generateOpts) applyTo(cmd *cobra.Command, s settings.Settings) (settings.Settings, error) {
	set := cmd.Flags().Changed
	if set("rows") {
		s.Rows = o.rows
	}
	if set("cols") {
		s.Cols = o.cols
	}
	if set("shape") {
		shape, err := grid.ParseShape(o.shape)
		if err != nil {
			return s, err
		}
		s.Shape = shape
	}
	if set("axis") {
		axis, err := transform.ParseAxis(o.axis)
		if err != nil {
			return s, err
		}
		s.WrapAxis = axis
	}
	if set("curvature") {
		s.Curvature = o.curvature
	}
	if set("radius") {
		s.Radius = o.radius
	}
	if set("width-scaling") {
		s.WidthScaling = o.scaling
	}
	if set("seed") {
		s = s.WithSeed(o.seed)
	}
	if set("speed") {
		s.AnimationSpeed = o.speed
	}
	return s, nil
}

// writeSettings encodes s to path ("-" for the command's stdout). The
// format comes from the flag, then the path extension, then JSON.
func (c *CLI) writeSettings(cmd *cobra.Command, s settings.Settings, path, format string) error {
	f := settings.Format(format)
	if f == "" {
		f = settings.FormatJSON
		if path != stdio {
			if fromPath, err := settings.FormatFromPath(path); err == nil {
				f = fromPath
			}
		}
	}
	data, err := settings.Encode(s, f)
	if err != nil {
		return err
	}

	if path == stdio {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	seed, _ := s.Seed()
	units := grid.Generate(s.GridConfig())
	palette.Assign(units, s.Frequencies(), seed)
	printSuccess("Wrote settings")
	printFile(path)
	printGridStats(s.Rows, s.Cols, palette.Counts(units), false)
	printPalette(s)
	return nil
}
