// Package cache is the shared TTL key-value port used by the cart and
// session components, with a Redis adapter and an in-memory adapter.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys with a per-key TTL.
// A zero TTL means the key does not expire.
type Cache interface {
	// Get decodes the value at key into dest. It reports false when the key is
	// absent or expired.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// ScanKeys returns every live key matching a glob pattern such as "session:*".
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	FlushAll(ctx context.Context) error
}

const (
	CartPrefix         = "cart:"
	SessionPrefix      = "session:"
	UserSessionsPrefix = "user-sessions:"

	// SettingPrefix and SettingTTL are reserved for the settings service that
	// shares this keyspace. Nothing here reads or writes settings, but FlushAll
	// and the admin scans see those keys.
	SettingPrefix = "setting:"
	SettingTTL    = time.Hour

	CartTTL = 7 * 24 * time.Hour
)

func CartKey(userID string) string         { return CartPrefix + userID }
func SessionKey(sessionID string) string   { return SessionPrefix + sessionID }
func UserSessionsKey(userID string) string { return UserSessionsPrefix + userID }

// SettingKey is reserved for the settings service, see SettingPrefix.
func SettingKey(key string) string { return SettingPrefix + key }
