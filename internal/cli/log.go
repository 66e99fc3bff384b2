// Package cli implements the shapegrid command-line interface.
//
// Commands operate on settings records, the flat JSON or TOML documents
// that fully describe a grid. The CLI is built using cobra and logs with
// charmbracelet/log; status output is styled with lipgloss.
//
// # Commands
//
//   - generate: write a settings file from flags
//   - render: draw settings to JSON, SVG, PNG, PDF or DOT snapshots
//   - animate: spin and morph a grid in the terminal
//   - watch: re-render whenever a settings file changes
//   - project: save, load, list, delete, share and pull projects
//   - share: encode and decode share links
//   - serve: run the HTTP API
//   - cache: manage the snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered 3 snapshots (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
