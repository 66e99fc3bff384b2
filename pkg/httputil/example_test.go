package httputil_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/shapegrid/pkg/httputil"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func ExampleShareCache() {
	dir := filepath.Join(os.TempDir(), "shapegrid-example-shares")
	defer os.RemoveAll(dir)

	cache, err := httputil.NewShareCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ctx := context.Background()
	s := settings.Default()
	s.Rows = 4
	if err := cache.Put(ctx, "eyJyb3dzIjo0fQ", s); err != nil {
		fmt.Println("Error:", err)
		return
	}

	got, ok, err := cache.Get(ctx, "eyJyb3dzIjo0fQ")
	fmt.Println("Found:", ok, err)
	fmt.Println("Rows:", got.Rows)
	// Output:
	// Found: true <nil>
	// Rows: 4
}

func ExampleBackoff() {
	attempts := 0
	b := httputil.Backoff{Attempts: 3, Delay: time.Millisecond}
	err := b.Do(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &httputil.RetryableError{Err: fmt.Errorf("HTTP 503")}
		}
		return nil
	})
	fmt.Println("Attempts:", attempts)
	fmt.Println("Error:", err)
	// Output:
	// Attempts: 2
	// Error: <nil>
}
