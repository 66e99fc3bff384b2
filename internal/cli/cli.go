package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/cache"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shapegrid"

	// stdio names standard input or output in file arguments.
	stdio = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded from the config file before any command runs.
	Config Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Factories
// =============================================================================

// newStore opens the project store selected by the config.
func (c *CLI) newStore(ctx context.Context) (project.Store, error) {
	sc := c.Config.Store
	c.Logger.Debug("opening project store", "backend", sc.Backend)
	switch sc.Backend {
	case BackendMemory:
		return project.NewMemoryStore(), nil
	case BackendRedis:
		return project.NewRedisStore(ctx, project.RedisOptions{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
		})
	case BackendMongo:
		return project.NewMongoStore(ctx, project.MongoOptions{
			URI:      sc.MongoURI,
			Database: sc.MongoDatabase,
		})
	}
	return project.NewFileStore(sc.Dir)
}

// newSnapshotter builds a snapshotter backed by the configured cache.
func (c *CLI) newSnapshotter(ctx context.Context, noCache bool) (*pipeline.Snapshotter, func(), error) {
	sc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewSnapshotter(sc, nil, c.Logger), func() { sc.Close() }, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.Redis; addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: addr})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect cache redis %s", addr)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "snapshots"))
}

// runnerOptions applies the [animation] config to pipeline options.
func (c *CLI) runnerOptions() pipeline.Options {
	return pipeline.Options{
		BaseDuration: c.Config.Animation.BaseDuration,
		Logger:       c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/shapegrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Settings Input
// =============================================================================

// readSettings resolves a settings argument: empty means defaults, "-"
// reads JSON from stdin, an http(s) URL is decoded as a share link, and
// anything else is a settings file.
func (c *CLI) readSettings(ref string) (settings.Settings, error) {
	switch {
	case ref == "":
		return settings.Default(), nil
	case ref == stdio:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		s, err := settings.Parse(data, settings.FormatJSON, c.Logger)
		if err != nil {
			return settings.Settings{}, err
		}
		return s, settings.Validate(s)
	case isShareRef(ref):
		return project.ParseShareURL(ref, c.Logger)
	}
	return settings.Load(ref, c.Logger)
}

// isShareRef reports whether ref is a share URL rather than a file path.
func isShareRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the output path prefix from the output flag and the
// input argument. Known format extensions are stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == stdio || isShareRef(input) {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range pipeline.ValidFormats {
		if ext == f {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}
