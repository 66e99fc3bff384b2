package httputil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

const shareKeyType = "share"

// errStale marks an entry that is dropped silently: expired, or written for
// a different token.
var errStale = stderrors.New("stale share entry")

// ShareCache keeps server-resolved share tokens on disk, one JSON file per
// token. A token always resolves to the same record, so the TTL only bounds
// how long an unused entry survives.
//
// Entries are validated on every read. An entry that no longer decodes into
// a valid [settings.Settings] is removed and reported as a miss together
// with the INVALID_SETTINGS error.
type ShareCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type shareEntry struct {
	Token    string          `json:"token"`
	SavedAt  time.Time       `json:"savedAt"`
	Settings json.RawMessage `json:"settings"`
}

// NewShareCache creates the cache directory if needed. A ttl of 0 keeps
// entries until they are deleted.
func NewShareCache(dir string, ttl time.Duration) (*ShareCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "shapegrid", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ShareCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *ShareCache) Dir() string { return c.dir }

// Get returns the record cached for token.
func (c *ShareCache) Get(ctx context.Context, token string) (settings.Settings, bool, error) {
	hooks := observability.Cache()
	data, err := os.ReadFile(c.path(token))
	if os.IsNotExist(err) {
		hooks.OnCacheMiss(ctx, shareKeyType)
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, err
	}

	s, err := c.decode(token, data)
	if err != nil {
		_ = c.Delete(token)
		hooks.OnCacheMiss(ctx, shareKeyType)
		if stderrors.Is(err, errStale) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, err
	}
	hooks.OnCacheHit(ctx, shareKeyType)
	return s, true, nil
}

func (c *ShareCache) decode(token string, data []byte) (settings.Settings, error) {
	var e shareEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode cached share %q", token)
	}
	if e.Token != token {
		return settings.Settings{}, errStale
	}
	if c.ttl > 0 && c.now().Sub(e.SavedAt) > c.ttl {
		return settings.Settings{}, errStale
	}
	s, err := settings.Parse(e.Settings, settings.FormatJSON, nil)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := settings.Validate(s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// Put validates s and stores it under token.
func (c *ShareCache) Put(ctx context.Context, token string, s settings.Settings) error {
	if token == "" {
		return errors.New(errors.ErrCodeInvalidShareToken, "empty share token")
	}
	if err := settings.Validate(s); err != nil {
		return err
	}
	raw, err := settings.Encode(s, settings.FormatJSON)
	if err != nil {
		return err
	}
	data, err := json.Marshal(shareEntry{Token: token, SavedAt: c.now().UTC(), Settings: raw})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode cached share")
	}

	path := c.path(token)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	observability.Cache().OnCacheSet(ctx, shareKeyType, len(data))
	return nil
}

// Delete drops the entry for token. Deleting a missing entry is not an
// error.
func (c *ShareCache) Delete(token string) error {
	if err := os.Remove(c.path(token)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *ShareCache) path(token string) string {
	h := sha256.Sum256([]byte(token))
	return filepath.Join(c.dir, "share-"+hex.EncodeToString(h[:16])+".json")
}
