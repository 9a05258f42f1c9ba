package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Lock is a best-effort mutual exclusion for scheduled jobs running on
// several instances. It is a SETNX with a TTL; Release only deletes the key
// while this Lock still owns it.
type Lock struct {
	store kv
	key   string
	ttl   time.Duration
	owner string
}

func NewLock(client goredis.Cmdable, key string, ttl time.Duration) *Lock {
	return &Lock{store: clientKV{client: client}, key: key, ttl: ttl}
}

func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", l.key, err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

func (l *Lock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	defer func() { l.owner = "" }()

	value, err := l.store.Get(ctx, l.key)
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("deleting lock: %w", err)
	}
	return nil
}
