// Package cache provides the time-bounded feed cache and its Redis and in-process backends.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store is a keyed, time-bounded cache. A key holds any number of variants
// (for example the page numbers of one feed). The TTL of a key starts when
// the key is first written after being absent, and all its variants expire
// together. Reads after expiry miss and leave other keys untouched.
type Store interface {
	Get(ctx context.Context, key, variant string) ([]byte, bool, error)
	Set(ctx context.Context, key, variant string, value []byte, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Name() string
}

// Clock returns the current time. Stores that track expiry themselves take one
// so tests can move time forward.
type Clock func() time.Time

// SystemClock is the wall clock.
var SystemClock Clock = time.Now

// GetJSON reads key/variant and unmarshals into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, s Store, key, variant string, dest any) (bool, error) {
	raw, found, err := s.Get(ctx, key, variant)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key/variant with ttl.
func SetJSON(ctx context.Context, s Store, key, variant string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, variant, b, ttl)
}
