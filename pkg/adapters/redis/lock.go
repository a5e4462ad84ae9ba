package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockHeld is returned by Acquire when another run owns the
	// namespace.
	ErrLockHeld = errors.New("progress namespace is locked by another run")
	// ErrLockLost is returned by Refresh and Release when the lock expired
	// or was taken over since Acquire.
	ErrLockLost = errors.New("run lock lost")
)

// Lua scripts compare the stored token first, so a lock that expired and was
// reacquired by another run is never released or refreshed from here.
const (
	releaseScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end`
	refreshScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end`
)

// RunLock guards one progress namespace against concurrent runs. Progress
// saves are whole-table replacements, so two engines sharing a namespace
// would silently drop each other's strands; exactly one run may hold the
// lock at a time.
//
// The lock carries a TTL so a crashed run cannot wedge the namespace
// forever. Long-lived runs call Refresh periodically, typically from the
// same loop that saves progress.
type RunLock struct {
	client *backend.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewRunLock creates a lock for the namespace identified by prefix, matching
// the store's WithPrefix value. An empty prefix uses the store's default.
func NewRunLock(client *backend.Client, prefix string) *RunLock {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RunLock{client: client, key: prefix + "run-lock"}
}

// Acquire takes the lock for ttl, failing fast with ErrLockHeld when another
// run owns it. The token stored under the key is random, so only this
// RunLock can release or refresh what it acquired.
func (l *RunLock) Acquire(ctx context.Context, ttl time.Duration) error {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	l.ttl = ttl
	l.token = token
	return nil
}

// Refresh extends the lock by the Acquire ttl. ErrLockLost means the lock
// expired or changed hands; the caller should stop touching the namespace.
func (l *RunLock) Refresh(ctx context.Context) error {
	if l.token == "" {
		return ErrLockLost
	}
	res, err := l.client.Eval(ctx, refreshScript, []string{l.key}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("refresh run lock: %w", err)
	}
	if res == 0 {
		return ErrLockLost
	}
	return nil
}

// Release gives the lock up. Releasing a lock that already expired reports
// ErrLockLost, which callers shutting down may ignore.
func (l *RunLock) Release(ctx context.Context) error {
	if l.token == "" {
		return ErrLockLost
	}
	token := l.token
	l.token = ""
	res, err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Int64()
	if err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	if res == 0 {
		return ErrLockLost
	}
	return nil
}
