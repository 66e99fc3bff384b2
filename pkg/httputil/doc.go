// Package httputil holds the transport helpers shared by the shapegrid API
// client and the Redis-backed stores.
//
// # Share cache
//
// [ShareCache] remembers which settings record a share token resolved to on
// a server, so `shapegrid project pull` works offline for links it has seen.
// Entries live under ~/.cache/shapegrid/http/ and are re-validated on every
// read:
//
//	shares, err := httputil.NewShareCache("", 24*time.Hour)
//	s, ok, err := shares.Get(ctx, token)
//	if !ok {
//	    s = resolve(token)
//	    shares.Put(ctx, token, s)
//	}
//
// # Retry
//
// [Backoff] re-runs an operation while it fails with a [RetryableError].
// [APIBackoff] and [RedisBackoff] are the policies the client and the
// Redis stores use. [CheckResponse] marks 5xx and 429 responses retryable
// and carries the server's Retry-After wait:
//
//	err := httputil.APIBackoff.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return httputil.CheckResponse(resp)
//	})
//
// `shapegrid cache clear` empties the share cache along with the snapshot
// cache.
package httputil
