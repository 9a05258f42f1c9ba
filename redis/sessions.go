package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/meinhoongagan/permit-desk/auth"
)

const (
	sessionPrefix     = "permit:session:"
	userSessionPrefix = "permit:user-sessions:"
)

// Sessions stores login sessions in Redis with the token TTL as expiry, so
// they survive restarts and are shared between instances.
type Sessions struct {
	store kv
}

var _ auth.SessionStore = (*Sessions)(nil)

func NewSessions(client goredis.Cmdable) *Sessions {
	return &Sessions{store: clientKV{client: client}}
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

// userSessionsKey indexes a user's session ids for RevokeUser. Ids whose
// session key already expired are harmless to delete again.
func userSessionsKey(userID int64) string {
	return userSessionPrefix + strconv.FormatInt(userID, 10)
}

func (s *Sessions) Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if err := s.store.Set(ctx, sessionKey(sessionID), strconv.FormatInt(userID, 10), ttl); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	index := userSessionsKey(userID)
	if err := s.store.SAdd(ctx, index, sessionID); err != nil {
		return fmt.Errorf("indexing session: %w", err)
	}
	if err := s.store.Expire(ctx, index, ttl); err != nil {
		return fmt.Errorf("indexing session: %w", err)
	}
	return nil
}

func (s *Sessions) Lookup(ctx context.Context, sessionID string) (int64, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return 0, false, nil
	}
	raw, err := s.store.Get(ctx, sessionKey(sessionID))
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return userID, true, nil
}

func (s *Sessions) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.store.Del(ctx, sessionKey(sessionID)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

func (s *Sessions) RevokeUser(ctx context.Context, userID int64) error {
	index := userSessionsKey(userID)
	sids, err := s.store.SMembers(ctx, index)
	if err != nil {
		return fmt.Errorf("listing sessions of user %d: %w", userID, err)
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, sessionKey(sid))
	}
	keys = append(keys, index)
	if err := s.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("revoking sessions of user %d: %w", userID, err)
	}
	return nil
}
