// Package kv defines the value model and contract errors of the typed
// key-value store.
package kv

import (
	"errors"
	"time"
)

// Sentinel TTL results returned by TTL and SetTTL.
const (
	// TTLNoExpiry is reported for a live key without an expiry, and by SetTTL
	// when an existing expiry was overwritten.
	TTLNoExpiry int64 = -1
	// TTLMissing is reported for absent or expired keys.
	TTLMissing int64 = -2
	// TTLAssigned is reported by SetTTL when a key receives its first expiry.
	TTLAssigned int64 = 0
)

var (
	ErrWrongType  = errors.New("wrong type")
	ErrNotFound   = errors.New("key not found")
	ErrOutOfRange = errors.New("index out of range")
	ErrOverflow   = errors.New("increment would overflow")
	ErrInvalidTTL = errors.New("ttl must be positive")
	ErrBadPattern = errors.New("invalid key pattern")
)

// Entry is a point-in-time copy of a live key and its metadata.
type Entry struct {
	Key       string     `json:"key"`
	Value     Value      `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Clock supplies the current instant for expiry arithmetic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }
