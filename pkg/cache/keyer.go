package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey identifies a rendered snapshot of the settings with the
	// given hash.
	SnapshotKey(settingsHash string, opts SnapshotKeyOpts) string

	// ShareKey identifies a decoded share token.
	ShareKey(token string) string
}

// SnapshotKeyOpts are the render options that change snapshot bytes.
type SnapshotKeyOpts struct {
	Format     string  `json:"format"`
	Engine     string  `json:"engine,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer is the unscoped Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey returns "snapshot:<sha256>".
func (DefaultKeyer) SnapshotKey(settingsHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", settingsHash, opts)
}

// ShareKey returns "share:<sha256>".
func (DefaultKeyer) ShareKey(token string) string {
	return fmt.Sprintf("share:%s", Hash([]byte(token)))
}
