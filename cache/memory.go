package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process Cache used for local development and tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (m *Memory) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && m.expired(e) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// ScanKeys matches like Redis SCAN MATCH for the "prefix*" patterns the
// registry uses: '*' spans any run of characters, including '/'. Other patterns
// fall back to path.Match.
func (m *Memory) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	match := prefixMatcher(pattern)
	if match == nil {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		match = func(k string) bool {
			ok, _ := path.Match(pattern, k)
			return ok
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keys := []string{}
	for k, e := range m.entries {
		if m.expired(e) {
			continue
		}
		if match(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// prefixMatcher returns nil unless pattern is a literal prefix followed by a
// single trailing '*'.
func prefixMatcher(pattern string) func(string) bool {
	if !strings.HasSuffix(pattern, "*") {
		return nil
	}
	prefix := strings.TrimSuffix(pattern, "*")
	if strings.ContainsAny(prefix, `*?[\`) {
		return nil
	}
	return func(k string) bool { return strings.HasPrefix(k, prefix) }
}

func (m *Memory) FlushAll(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// TTL returns the remaining lifetime of key, or 0 when it is absent or has
// no expiry.
func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || e.expiresAt.IsZero() || m.expired(e) {
		return 0
	}
	return e.expiresAt.Sub(m.now())
}
