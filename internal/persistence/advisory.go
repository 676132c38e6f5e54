package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Lock namespace for workload admission, so ticket locks cannot collide
// with other advisory users of the same database.
const workloadLockClass = 4201

// AdvisoryLocks serializes critical sections on a Postgres advisory lock.
type AdvisoryLocks struct {
	pool *pgxpool.Pool
}

// NewAdvisoryLocks builds the lock helper. Returns nil when no pool is
// available, which callers treat as locking disabled.
func NewAdvisoryLocks(pool *pgxpool.Pool) *AdvisoryLocks {
	if pool == nil {
		return nil
	}
	return &AdvisoryLocks{pool: pool}
}

// WithLock runs fn while holding the session advisory lock for key. The lock
// is taken on a dedicated connection so the unlock pairs with the acquire.
func (l *AdvisoryLocks) WithLock(ctx context.Context, key int64, fn func(context.Context) error) error {
	if l == nil || l.pool == nil {
		return errors.New("advisory locks not configured")
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1::int, $2::int)`, workloadLockClass, key); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.Exec(ctx, `SELECT pg_advisory_unlock($1::int, $2::int)`, workloadLockClass, key)
	}()

	return fn(ctx)
}
