package httputil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func newShareCache(t *testing.T, ttl time.Duration) *ShareCache {
	t.Helper()
	c, err := NewShareCache(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewShareCache: %v", err)
	}
	return c
}

func sharedRecord() settings.Settings {
	s := settings.Default().WithSeed(42)
	s.Rows, s.Cols = 3, 5
	s.Curvature = 0.4
	return s
}

func TestShareCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, time.Hour)
	want := sharedRecord()

	if err := c.Put(ctx, "tok-a", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(ctx, "tok-a")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if d := settings.Diff(want, got); d != 0 {
		t.Errorf("cached record differs: %v", d)
	}
	if seed, _ := got.Seed(); seed != 42 {
		t.Errorf("seed = %d, want 42", seed)
	}
}

func TestShareCacheMiss(t *testing.T) {
	c := newShareCache(t, time.Hour)
	_, ok, err := c.Get(context.Background(), "unknown")
	if ok || err != nil {
		t.Errorf("Get(unknown) = %v, %v; want miss", ok, err)
	}
}

func TestShareCacheTokensAreSeparate(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, time.Hour)
	a, b := sharedRecord(), sharedRecord()
	b.Rows = 7
	if err := c.Put(ctx, "a", a); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, "b", b); err != nil {
		t.Fatal(err)
	}
	got, _, _ := c.Get(ctx, "a")
	if got.Rows != 3 {
		t.Errorf("Get(a).Rows = %d, want 3", got.Rows)
	}
	got, _, _ = c.Get(ctx, "b")
	if got.Rows != 7 {
		t.Errorf("Get(b).Rows = %d, want 7", got.Rows)
	}
}

func TestShareCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, "tok", sharedRecord()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, ok, err := c.Get(ctx, "tok"); ok || err != nil {
		t.Errorf("Get(expired) = %v, %v; want silent miss", ok, err)
	}
	if _, err := os.Stat(c.path("tok")); !os.IsNotExist(err) {
		t.Errorf("expired entry still on disk: %v", err)
	}
}

func TestShareCacheRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, 0)

	bad := sharedRecord()
	bad.Rows = 0
	if err := c.Put(ctx, "tok", bad); !errors.Is(err, errors.ErrCodeInvalidSettings) {
		t.Errorf("Put(invalid) = %v, want %s", err, errors.ErrCodeInvalidSettings)
	}
	if err := c.Put(ctx, "", sharedRecord()); !errors.Is(err, errors.ErrCodeInvalidShareToken) {
		t.Errorf("Put(empty token) = %v, want %s", err, errors.ErrCodeInvalidShareToken)
	}
}

func TestShareCacheValidatesOnRead(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, 0)
	doc := `{"token":"tok","savedAt":"2025-06-01T12:00:00Z","settings":{"rows":4294967296,"cols":4294967296}}`
	if err := os.WriteFile(c.path("tok"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := c.Get(ctx, "tok")
	if ok || !errors.Is(err, errors.ErrCodeInvalidSettings) {
		t.Errorf("Get(tampered) = %v, %v; want miss with %s", ok, err, errors.ErrCodeInvalidSettings)
	}
	if _, err := os.Stat(c.path("tok")); !os.IsNotExist(err) {
		t.Errorf("invalid entry still on disk: %v", err)
	}
}

func TestShareCacheIgnoresForeignEntry(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, 0)
	if err := c.Put(ctx, "other", sharedRecord()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(c.path("other"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("tok"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "tok"); ok || err != nil {
		t.Errorf("Get(foreign) = %v, %v; want silent miss", ok, err)
	}
}

func TestShareCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := newShareCache(t, 0)
	if err := c.Put(ctx, "tok", sharedRecord()); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete("tok"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
	if _, ok, _ := c.Get(ctx, "tok"); ok {
		t.Error("Get after Delete = hit")
	}
}
