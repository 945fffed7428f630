// Package keyspace holds the shared, mutex-guarded key/value map every
// connection handler reads from and writes to.
package keyspace

import (
	"sync"
	"time"
)

// StoredValue is the record held against a key: a textual value and an
// optional absolute deadline. A nil Deadline means the entry lives
// until overwritten.
type StoredValue struct {
	Value    string
	Deadline *time.Time
}

// Expired reports whether v should be treated as absent at instant now.
func (v StoredValue) Expired(now time.Time) bool {
	return v.Deadline != nil && now.After(*v.Deadline)
}

// Keyspace is a mapping from textual key to StoredValue, shared across
// every connection handler. Every read or write acquires the guard for
// the minimum necessary critical section; expiration comparisons
// happen after the lock is released.
type Keyspace struct {
	mu   sync.RWMutex
	data map[string]StoredValue
}

// New returns an empty Keyspace.
func New() *Keyspace {
	return &Keyspace{data: make(map[string]StoredValue)}
}

// Set inserts or overwrites key. ttl, if non-nil, is converted to an
// absolute deadline relative to now.
func (k *Keyspace) Set(key, value string, ttl *time.Duration) {
	entry := StoredValue{Value: value}
	if ttl != nil {
		deadline := time.Now().Add(*ttl)
		entry.Deadline = &deadline
	}

	k.mu.Lock()
	k.data[key] = entry
	k.mu.Unlock()
}

// Get looks up key, cloning the stored value under lock and performing
// the expiration comparison after releasing it, so a slow caller never
// holds the keyspace lock.
func (k *Keyspace) Get(key string) (string, bool) {
	k.mu.RLock()
	entry, ok := k.data[key]
	k.mu.RUnlock()

	if !ok || entry.Expired(time.Now()) {
		return "", false
	}
	return entry.Value, true
}
