package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Lookup when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Lookup is like c.Get but reports a miss as ErrCacheMiss.
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}
