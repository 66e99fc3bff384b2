package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/cache"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/render"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
	"github.com/matzehuels/shapegrid/pkg/render/sink"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// SnapshotOptions select snapshot outputs.
type SnapshotOptions struct {
	Formats []string
	Engine  string
	// Scale is the PNG rasterization scale.
	Scale float64
	// Background is an SVG background color; empty means transparent.
	Background string
	// Refresh skips cache reads.
	Refresh bool
}

// ValidateAndSetDefaults fills zero fields and checks the rest.
func (o *SnapshotOptions) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if err := errors.ValidateFormat(o.Engine, ValidEngines...); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return nil
}

// Snapshot is the result of one snapshot render.
type Snapshot struct {
	// Settings is the rendered record, with its seed filled in.
	Settings settings.Settings
	// SettingsHash identifies Settings in cache keys.
	SettingsHash string
	// Artifacts maps format to bytes.
	Artifacts map[string][]byte
	// Units is the number of rendered units.
	Units int
	// CacheHits lists formats served from cache.
	CacheHits []string
}

// Snapshotter renders settings records to static images.
type Snapshotter struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewSnapshotter creates a snapshotter. A nil cache disables caching and a
// nil keyer selects cache.DefaultKeyer.
func NewSnapshotter(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Snapshotter {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Snapshotter{Cache: c, Keyer: keyer, Logger: logger}
}

// HashSettings returns the content hash of a settings record.
func HashSettings(s settings.Settings) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Render draws s in every requested format. Artifacts come from the cache
// when possible; the scene is only built when at least one format misses.
func (sn *Snapshotter) Render(ctx context.Context, s settings.Settings, opts SnapshotOptions) (*Snapshot, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := settings.Validate(s); err != nil {
		return nil, err
	}
	s = s.Clone()
	s.EnsureSeed(sn.Logger)

	hash, err := HashSettings(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash settings")
	}
	out := &Snapshot{
		Settings:     s,
		SettingsHash: hash,
		Artifacts:    make(map[string][]byte, len(opts.Formats)),
		Units:        s.Rows * s.Cols,
	}

	var missing []string
	for _, f := range opts.Formats {
		if !opts.Refresh {
			if data, hit, err := sn.Cache.Get(ctx, sn.key(hash, f, opts)); err == nil && hit {
				out.Artifacts[f] = data
				out.CacheHits = append(out.CacheHits, f)
				continue
			}
		}
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return out, nil
	}

	sc := scene.New()
	r := New(sc, Options{Logger: sn.Logger})
	defer r.Close()
	if err := r.Load(ctx, s); err != nil {
		return nil, err
	}

	for _, f := range missing {
		start := time.Now()
		data, err := sn.renderFormat(ctx, sc, f, opts)
		observability.Pipeline().OnSnapshot(ctx, f, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out.Artifacts[f] = data
		if err := sn.Cache.Set(ctx, sn.key(hash, f, opts), data, cache.TTLSnapshot); err != nil {
			sn.Logger.Warn("cache write failed", "format", f, "err", err)
		}
		sn.Logger.Debug("rendered snapshot", "format", f, "bytes", len(data), "duration", time.Since(start))
	}
	return out, nil
}

func (sn *Snapshotter) key(hash, format string, opts SnapshotOptions) string {
	k := cache.SnapshotKeyOpts{Format: format, Engine: opts.Engine}
	if format == FormatPNG {
		k.Scale = opts.Scale
	}
	if format == FormatSVG || format == FormatPNG || format == FormatPDF {
		k.Background = opts.Background
	}
	return sn.Keyer.SnapshotKey(hash, k)
}

func (sn *Snapshotter) renderFormat(ctx context.Context, sc *scene.Scene, format string, opts SnapshotOptions) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(sc)
	case FormatDOT:
		return []byte(sink.ToDOT(sc)), nil
	case FormatSVG:
		return sn.renderSVG(ctx, sc, opts)
	case FormatPNG:
		if opts.Engine == EngineGraphviz {
			return sink.RenderDOT(ctx, sink.ToDOT(sc), sink.FormatPNG)
		}
		svg, err := sn.renderSVG(ctx, sc, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		svg, err := sn.renderSVG(ctx, sc, opts)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q", format)
}

func (sn *Snapshotter) renderSVG(ctx context.Context, sc *scene.Scene, opts SnapshotOptions) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		return sink.RenderDOT(ctx, sink.ToDOT(sc), sink.FormatSVG)
	}
	var svgOpts []sink.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return sink.RenderSVG(sc, svgOpts...), nil
}
