// Package stores contains the in-memory typed key-value store.
package stores

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/memkv/internal/core/kv"
	"github.com/rs/zerolog"
)

type entry struct {
	value     kv.Value
	expiresAt *time.Time
}

// KVStore holds typed values with optional absolute expiry. Expiry is lazy:
// an entry past its deadline is invisible to every operation and is purged
// when touched.
type KVStore struct {
	mu     sync.Mutex
	data   map[string]*entry
	clock  kv.Clock
	purge  bool
	logger zerolog.Logger
}

// Option configures a KVStore.
type Option func(*KVStore)

// WithClock sets the time source used for expiry.
func WithClock(c kv.Clock) Option {
	return func(s *KVStore) { s.clock = c }
}

// WithPurgeOnAccess controls whether expired entries are deleted from memory
// when an operation observes them. They are invisible either way.
func WithPurgeOnAccess(purge bool) Option {
	return func(s *KVStore) { s.purge = purge }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *KVStore) { s.logger = l }
}

// NewKVStore creates an empty store.
func NewKVStore(opts ...Option) *KVStore {
	s := &KVStore{
		data:   make(map[string]*entry),
		clock:  kv.SystemClock{},
		purge:  true,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert stores v under key, replacing any previous value and expiry. A
// positive ttl sets an expiry of now+ttl; zero means no expiry.
// replaced reports whether a live entry existed.
func (s *KVStore) Insert(key string, v kv.Value, ttl time.Duration) (replaced bool, err error) {
	if ttl < 0 {
		return false, fmt.Errorf("insert %q: %w", key, kv.ErrInvalidTTL)
	}
	if v.IsNil() {
		return false, fmt.Errorf("insert %q: %w", key, kv.ErrWrongType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	_, replaced = s.lookup(key, now)

	e := &entry{value: v.Clone()}
	if ttl > 0 {
		e.expiresAt = deadline(now, ttl)
	}
	s.data[key] = e

	return replaced, nil
}

// Fetch returns the value stored under key. ok is false when the key is
// absent or expired.
func (s *KVStore) Fetch(key string) (v kv.Value, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.clock.Now())
	if !ok {
		return kv.Value{}, false
	}
	return e.value.Clone(), true
}

// TypeOf returns the kind of the value under key, KindNil when absent.
func (s *KVStore) TypeOf(key string) kv.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.clock.Now())
	if !ok {
		return kv.KindNil
	}
	return e.value.Kind()
}

// Delete removes key and reports whether a live entry existed.
func (s *KVStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.lookup(key, s.clock.Now())
	if ok {
		delete(s.data, key)
	}
	return ok
}

// Increment adds one to the integer under key and returns the result. An
// absent key is created as Integer(1) without expiry. Existing expiry is kept.
func (s *KVStore) Increment(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.clock.Now())
	if !ok {
		s.data[key] = &entry{value: kv.Integer(1)}
		return 1, nil
	}

	if e.value.Kind() != kv.KindInteger {
		return 0, fmt.Errorf("incr %q: %s: %w", key, e.value.Kind(), kv.ErrWrongType)
	}

	n := e.value.Int()
	if n == math.MaxInt64 {
		return 0, fmt.Errorf("incr %q: %w", key, kv.ErrOverflow)
	}

	e.value = kv.Integer(n + 1)
	return n + 1, nil
}

// ListPush prepends item to the list under key and returns the new length.
// An absent key is created as a single-item list without expiry.
func (s *KVStore) ListPush(key, item string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.clock.Now())
	if !ok {
		s.data[key] = &entry{value: kv.List(item)}
		return 1, nil
	}

	if e.value.Kind() != kv.KindList {
		return 0, fmt.Errorf("lpush %q: %s: %w", key, e.value.Kind(), kv.ErrWrongType)
	}

	items := slices.Insert(e.value.Items(), 0, item)
	e.value = kv.List(items...)
	return len(items), nil
}

// ListRange returns the items from start to stop inclusive. start > stop
// yields an empty slice; stop beyond the last index is ErrOutOfRange.
func (s *KVStore) ListRange(key string, start, stop int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key, s.clock.Now())
	if !ok {
		return nil, fmt.Errorf("lrange %q: %w", key, kv.ErrNotFound)
	}

	if e.value.Kind() != kv.KindList {
		return nil, fmt.Errorf("lrange %q: %s not subscriptable: %w", key, e.value.Kind(), kv.ErrWrongType)
	}

	items := e.value.Items()
	if start < 0 || stop < 0 {
		return nil, fmt.Errorf("lrange %q: negative index: %w", key, kv.ErrOutOfRange)
	}
	if start > stop {
		return []string{}, nil
	}
	if stop >= len(items) {
		return nil, fmt.Errorf("lrange %q: stop %d with length %d: %w", key, stop, len(items), kv.ErrOutOfRange)
	}

	return items[start : stop+1], nil
}

// TTL returns the remaining lifetime of key in whole seconds, TTLNoExpiry when
// the key has no expiry, or TTLMissing when the key is absent or expired.
func (s *KVStore) TTL(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	e, ok := s.lookup(key, now)
	switch {
	case !ok:
		return kv.TTLMissing
	case e.expiresAt == nil:
		return kv.TTLNoExpiry
	default:
		return remaining(now, *e.expiresAt)
	}
}

// SetTTL sets the expiry of key to now+ttl. It returns TTLMissing when the key
// is absent, TTLAssigned when the key had no expiry and TTLNoExpiry when an
// existing expiry was replaced.
func (s *KVStore) SetTTL(key string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("expire %q: %w", key, kv.ErrInvalidTTL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	e, ok := s.lookup(key, now)
	if !ok {
		return kv.TTLMissing, nil
	}

	code := kv.TTLAssigned
	if e.expiresAt != nil {
		code = kv.TTLNoExpiry
	}
	e.expiresAt = deadline(now, ttl)

	return code, nil
}

// Snapshot returns copies of all live entries sorted by key.
func (s *KVStore) Snapshot() []kv.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	entries := make([]kv.Entry, 0, len(s.data))
	for _, key := range s.liveKeys(now) {
		e := s.data[key]
		out := kv.Entry{Key: key, Value: e.value.Clone()}
		if e.expiresAt != nil {
			t := *e.expiresAt
			out.ExpiresAt = &t
		}
		entries = append(entries, out)
	}

	return entries
}

// Keys returns the sorted live keys matching a doublestar glob pattern.
func (s *KVStore) Keys(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("keys %q: %w", pattern, kv.ErrBadPattern)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []string{}
	for _, key := range s.liveKeys(s.clock.Now()) {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("keys %q: %w", pattern, kv.ErrBadPattern)
		}
		if ok {
			matched = append(matched, key)
		}
	}

	return matched, nil
}

// Len returns the number of live entries.
func (s *KVStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.liveKeys(s.clock.Now()))
}

// lookup returns the live entry for key. Expired entries are reported as
// missing and purged when purging is enabled. Callers must hold mu.
func (s *KVStore) lookup(key string, now time.Time) (*entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}

	if expired(e, now) {
		if s.purge {
			delete(s.data, key)
			s.logger.Debug().Str("key", key).Msg("purged expired key")
		}
		return nil, false
	}

	return e, true
}

// liveKeys returns the sorted keys of unexpired entries. Callers must hold mu.
func (s *KVStore) liveKeys(now time.Time) []string {
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if _, ok := s.lookup(key, now); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func expired(e *entry, now time.Time) bool {
	return e.expiresAt != nil && !now.Before(*e.expiresAt)
}

func deadline(now time.Time, ttl time.Duration) *time.Time {
	t := now.Add(ttl)
	return &t
}

func remaining(now, expiresAt time.Time) int64 {
	left := expiresAt.Sub(now).Round(time.Second)
	if left < 0 {
		return 0
	}
	return int64(left / time.Second)
}
