package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shapegrid/pkg/animate"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/project"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var validBackends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo}

// Config is the CLI config file.
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[animation]
//	base_duration = "6s"
//	fps = 30
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Cache     CacheConfig     `toml:"cache"`
	Animation AnimationConfig `toml:"animation"`
	Server    ServerConfig    `toml:"server"`
}

// StoreConfig selects and configures the project store.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig configures the snapshot cache. Redis, when set, replaces the
// file cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Redis   string `toml:"redis"`
}

// AnimationConfig tunes interactive animation.
type AnimationConfig struct {
	BaseDuration time.Duration `toml:"base_duration"`
	FPS          int           `toml:"fps"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	PublicURL string `toml:"public_url"`
}

// DefaultConfig returns the config used when no file exists.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend:       BackendFile,
			MongoDatabase: project.DefaultMongoDatabase,
		},
		Cache: CacheConfig{Enabled: true},
		Animation: AnimationConfig{
			BaseDuration: animate.DefaultBaseDuration,
			FPS:          pipeline.DefaultFPS,
		},
		Server: ServerConfig{Addr: "localhost:8080", PublicURL: "http://localhost:8080"},
	}
}

// configPath returns $XDG_CONFIG_HOME/shapegrid/config.toml.
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields DefaultConfig; a missing
// explicit file is an error. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeUnknownField, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks the config values.
func (c Config) Validate() error {
	if !slices.Contains(validBackends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be one of %s, got %q",
			strings.Join(validBackends, ", "), c.Store.Backend)
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.redis_addr is required for the redis backend")
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	if c.Animation.BaseDuration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.base_duration must be positive")
	}
	if c.Animation.FPS < 1 || c.Animation.FPS > 240 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.fps must be in [1, 240], got %d", c.Animation.FPS)
	}
	if c.Server.PublicURL != "" {
		if err := errors.ValidateURL(c.Server.PublicURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.public_url")
		}
	}
	return nil
}
