// Package session is the session directory: one cache entry per live session
// plus a per-user list of session ids for enumeration and bulk invalidation.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/cache"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

// Registry reads and writes sessions through the cache port. Like the cart,
// list updates are read-modify-write without any concurrency guard.
type Registry struct {
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewRegistry(c cache.Cache, ttl time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		cache: c,
		ttl:   ttl,
		log:   log.WithComponent("session"),
		now:   time.Now,
	}
}

func (r *Registry) TTL() time.Duration { return r.ttl }

// CreateSession stores the session under its id. Registering the id in the
// owner's session list is a separate step, see AddUserSession.
func (r *Registry) CreateSession(ctx context.Context, s models.Session) (*models.Session, error) {
	if s.SessionID == "" {
		return nil, &models.ValidationError{Field: "session_id", Message: "session id is required"}
	}
	if s.UserID == "" {
		return nil, &models.ValidationError{Field: "user_id", Message: "user id is required"}
	}

	now := r.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.LastActiveAt = now

	if err := r.cache.Set(ctx, cache.SessionKey(s.SessionID), s, r.ttl); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &s, nil
}

// AddUserSession appends sessionID to the user's list if it is not already
// there and refreshes the list TTL.
func (r *Registry) AddUserSession(ctx context.Context, userID, sessionID string) error {
	ids, err := r.userSessionIDs(ctx, userID)
	if err != nil {
		return err
	}
	if !contains(ids, sessionID) {
		ids = append(ids, sessionID)
	}
	return r.saveUserSessionIDs(ctx, userID, ids)
}

// GetSession returns nil when the session is absent or expired.
func (r *Registry) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var s models.Session
	found, err := r.cache.Get(ctx, cache.SessionKey(sessionID), &s)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// UpdateActivity slides the expiry of a live session and of its owner's
// session list forward. It reports false when the session is absent and never
// creates one.
func (r *Registry) UpdateActivity(ctx context.Context, sessionID string) (bool, error) {
	s, err := r.GetSession(ctx, sessionID)
	if err != nil || s == nil {
		return false, err
	}

	s.LastActiveAt = r.now()
	if err := r.cache.Set(ctx, cache.SessionKey(sessionID), s, r.ttl); err != nil {
		return true, fmt.Errorf("update activity for session %s: %w", sessionID, err)
	}
	if err := r.AddUserSession(ctx, s.UserID, sessionID); err != nil {
		return true, fmt.Errorf("update activity for session %s: %w", sessionID, err)
	}
	return true, nil
}

// ExtendSession re-persists the session and its list membership with a fresh
// TTL.
func (r *Registry) ExtendSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &models.NotFoundError{Entity: "session", ID: sessionID}
	}

	s.LastActiveAt = r.now()
	if err := r.cache.Set(ctx, cache.SessionKey(sessionID), s, r.ttl); err != nil {
		return nil, fmt.Errorf("extend session %s: %w", sessionID, err)
	}
	if err := r.AddUserSession(ctx, s.UserID, sessionID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) HasActiveSessions(ctx context.Context, userID string) (bool, error) {
	sessions, err := r.ListUserSessions(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(sessions) > 0, nil
}

// ListUserSessions resolves every id in the user's list, skipping ids whose
// session has expired. Stale ids are left for the cleanup sweep.
func (r *Registry) ListUserSessions(ctx context.Context, userID string) ([]models.Session, error) {
	ids, err := r.userSessionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

// InvalidateSession deletes the session and drops it from its owner's list.
// Invalidating an unknown session is a no-op.
func (r *Registry) InvalidateSession(ctx context.Context, sessionID string) error {
	s, err := r.GetSession(ctx, sessionID)
	if err != nil || s == nil {
		return err
	}

	if err := r.cache.Del(ctx, cache.SessionKey(sessionID)); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	ids, err := r.userSessionIDs(ctx, s.UserID)
	if err != nil {
		return err
	}
	return r.saveUserSessionIDs(ctx, s.UserID, remove(ids, sessionID))
}

// InvalidateAllUserSessions deletes every session of the user and the list
// itself, returning how many session ids were listed.
func (r *Registry) InvalidateAllUserSessions(ctx context.Context, userID string) (int, error) {
	ids, err := r.userSessionIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, cache.SessionKey(id))
	}
	keys = append(keys, cache.UserSessionsKey(userID))

	if err := r.cache.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("invalidate sessions for user %s: %w", userID, err)
	}
	return len(ids), nil
}

// CountOnline scans the whole session keyspace. Meant for admin views only.
// Scan failures degrade to zero.
func (r *Registry) CountOnline(ctx context.Context) int {
	keys, err := r.cache.ScanKeys(ctx, cache.SessionPrefix+"*")
	if err != nil {
		r.log.Error("Failed to scan session keys", "error", err)
		return 0
	}
	return len(keys)
}

// ListOnline returns every live session. Scan or read failures degrade to a
// partial or empty list.
func (r *Registry) ListOnline(ctx context.Context) []models.Session {
	keys, err := r.cache.ScanKeys(ctx, cache.SessionPrefix+"*")
	if err != nil {
		r.log.Error("Failed to scan session keys", "error", err)
		return []models.Session{}
	}

	sessions := make([]models.Session, 0, len(keys))
	for _, key := range keys {
		s, err := r.GetSession(ctx, strings.TrimPrefix(key, cache.SessionPrefix))
		if err != nil {
			r.log.Warn("Skipping unreadable session", "key", key, "error", err)
			continue
		}
		if s != nil {
			sessions = append(sessions, *s)
		}
	}
	return sessions
}

// CleanupExpiredSessions prunes session ids that no longer have a session
// entry from every user's list. It first checks scanned session keys that
// vanished before they could be read and removes them by reverse lookup,
// then walks every list for ids whose entry is gone. Failures are logged and
// skipped. It returns the number of ids pruned.
func (r *Registry) CleanupExpiredSessions(ctx context.Context) int {
	pruned := 0

	keys, err := r.cache.ScanKeys(ctx, cache.SessionPrefix+"*")
	if err != nil {
		r.log.Error("Cleanup: failed to scan session keys", "error", err)
	}
	for _, key := range keys {
		id := strings.TrimPrefix(key, cache.SessionPrefix)
		s, err := r.GetSession(ctx, id)
		if err != nil {
			r.log.Warn("Cleanup: skipping unreadable session", "key", key, "error", err)
			continue
		}
		if s == nil {
			pruned += r.removeFromAllLists(ctx, id)
		}
	}

	listKeys, err := r.cache.ScanKeys(ctx, cache.UserSessionsPrefix+"*")
	if err != nil {
		r.log.Error("Cleanup: failed to scan user session lists", "error", err)
		return pruned
	}
	for _, listKey := range listKeys {
		userID := strings.TrimPrefix(listKey, cache.UserSessionsPrefix)
		n, err := r.pruneUserSessions(ctx, userID)
		if err != nil {
			r.log.Warn("Cleanup: failed to prune user sessions", "user_id", userID, "error", err)
			continue
		}
		pruned += n
	}

	if pruned > 0 {
		r.log.Info("Pruned expired sessions", "pruned", pruned)
	}
	return pruned
}

// FlushAll empties the whole cache, carts included. Emergency use only.
func (r *Registry) FlushAll(ctx context.Context) error {
	if err := r.cache.FlushAll(ctx); err != nil {
		return fmt.Errorf("flush sessions: %w", err)
	}
	r.log.Warn("Flushed all sessions")
	return nil
}

func (r *Registry) removeFromAllLists(ctx context.Context, sessionID string) int {
	listKeys, err := r.cache.ScanKeys(ctx, cache.UserSessionsPrefix+"*")
	if err != nil {
		r.log.Error("Cleanup: failed to scan user session lists", "error", err)
		return 0
	}

	removed := 0
	for _, listKey := range listKeys {
		userID := strings.TrimPrefix(listKey, cache.UserSessionsPrefix)
		ids, err := r.userSessionIDs(ctx, userID)
		if err != nil || !contains(ids, sessionID) {
			continue
		}
		if err := r.saveUserSessionIDs(ctx, userID, remove(ids, sessionID)); err != nil {
			r.log.Warn("Cleanup: failed to update user sessions", "user_id", userID, "error", err)
			continue
		}
		removed++
	}
	return removed
}

func (r *Registry) pruneUserSessions(ctx context.Context, userID string) (int, error) {
	ids, err := r.userSessionIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetSession(ctx, id)
		if err != nil {
			return 0, err
		}
		if s != nil {
			live = append(live, id)
		}
	}
	if len(live) == len(ids) {
		return 0, nil
	}
	if err := r.saveUserSessionIDs(ctx, userID, live); err != nil {
		return 0, err
	}
	return len(ids) - len(live), nil
}

func (r *Registry) userSessionIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if _, err := r.cache.Get(ctx, cache.UserSessionsKey(userID), &ids); err != nil {
		return nil, fmt.Errorf("load sessions for user %s: %w", userID, err)
	}
	return ids, nil
}

// saveUserSessionIDs writes the list with a fresh TTL, or deletes it when
// empty.
func (r *Registry) saveUserSessionIDs(ctx context.Context, userID string, ids []string) error {
	key := cache.UserSessionsKey(userID)
	if len(ids) == 0 {
		if err := r.cache.Del(ctx, key); err != nil {
			return fmt.Errorf("delete sessions for user %s: %w", userID, err)
		}
		return nil
	}
	if err := r.cache.Set(ctx, key, ids, r.ttl); err != nil {
		return fmt.Errorf("save sessions for user %s: %w", userID, err)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
