package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 150 * time.Millisecond

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	render   renderOpts
	formats  string
	debounce time.Duration
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{
		render:   renderOpts{scale: pipeline.DefaultScale},
		debounce: defaultDebounce,
	}

	cmd := &cobra.Command{
		Use:   "watch <settings>",
		Short: "Apply a settings file whenever it changes",
		Long: `Watch loads a settings file and re-applies it every time it is saved,
logging which parts changed (structure, pose, groups, colors). With -o the
snapshot is re-rendered after each change. Invalid edits are logged and the
previous settings stay in effect.`,
		Example: `  shapegrid watch waves.json -o preview.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.render.formats = parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(opts.render.formats); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.render.output, "output", "o", "", "re-render to this file after each change")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s) when rendering (comma-separated)")
	cmd.Flags().StringVar(&opts.render.background, "background", "", "SVG background color")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", opts.debounce, "quiet period before reloading")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path string, opts watchOpts) error {
	r := pipeline.New(scene.New(), c.runnerOptions())
	defer r.Close()

	w := &settingsWatcher{path: path, runner: r, logger: c.Logger}
	if opts.render.output != "" {
		ro := opts.render
		w.onChange = func(ctx context.Context, s settings.Settings) error {
			return c.renderWatched(ctx, s, ro)
		}
	}
	if _, err := w.reload(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	// Watch the directory: editors often replace the file on save.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	printInfo("Watching %s (Ctrl+C to stop)", path)
	return w.loop(ctx, fsw.Events, fsw.Errors, opts.debounce)
}

// renderWatched writes snapshots of s without the spinner and summary.
func (c *CLI) renderWatched(ctx context.Context, s settings.Settings, opts renderOpts) error {
	sn, closeCache, err := c.newSnapshotter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()
	snap, err := sn.Render(ctx, s, pipeline.SnapshotOptions{
		Formats:    opts.formats,
		Background: opts.background,
		Scale:      opts.scale,
	})
	if err != nil {
		return err
	}
	paths := outputPaths(opts.output, "", opts.formats)
	for _, f := range opts.formats {
		if err := writeFile(paths[f], snap.Artifacts[f]); err != nil {
			return err
		}
		c.Logger.Info("rendered", "path", paths[f])
	}
	return nil
}

// =============================================================================
// settingsWatcher
// =============================================================================

// settingsWatcher reloads one settings file into a runner.
type settingsWatcher struct {
	path     string
	runner   *pipeline.Runner
	logger   *log.Logger
	onChange func(context.Context, settings.Settings) error

	loaded bool
}

// reload reads the file and applies it. The first call loads; later calls
// apply and report what changed.
func (w *settingsWatcher) reload(ctx context.Context) (settings.Change, error) {
	s, err := settings.Load(w.path, w.logger)
	if err != nil {
		return 0, err
	}
	var change settings.Change
	if !w.loaded {
		if err := w.runner.Load(ctx, s); err != nil {
			return 0, err
		}
		w.loaded = true
		change = settings.Structural
		w.logger.Info("loaded settings", "path", w.path, "rows", s.Rows, "cols", s.Cols)
	} else {
		change, err = w.runner.Apply(ctx, s)
		if err != nil {
			return 0, err
		}
		if change == 0 {
			w.logger.Debug("settings unchanged", "path", w.path)
			return 0, nil
		}
		w.logger.Info("settings changed", "path", w.path, "change", change)
	}
	// Flush the debounced color refresh.
	w.runner.Advance(time.Now())

	if w.onChange != nil {
		if err := w.onChange(ctx, w.runner.Settings()); err != nil {
			return change, err
		}
	}
	return change, nil
}

// loop reloads after every burst of events on the watched file until ctx
// ends. Reload errors are logged; the previous settings stay applied.
func (w *settingsWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration) error {
	target := filepath.Clean(w.path)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file event", "op", ev.Op, "path", ev.Name)
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-timer.C:
			if _, err := w.reload(ctx); err != nil {
				w.logger.Error("reload failed, keeping previous settings", "err", err)
			}
		}
	}
}
