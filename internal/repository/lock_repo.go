package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// LockRepository handles the per-user delist run locks. One row per user,
// reused across runs and never deleted.
type LockRepository struct {
	db *sqlx.DB
}

// NewLockRepository creates a new LockRepository.
func NewLockRepository(db *sqlx.DB) *LockRepository {
	return &LockRepository{db: db}
}

// Get returns the user's lock row, or nil if none exists yet.
func (r *LockRepository) Get(ctx context.Context, userID int) (*models.DelistLock, error) {
	const q = `SELECT * FROM delist_locks WHERE user_id = $1`

	var lock models.DelistLock
	if err := r.db.GetContext(ctx, &lock, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("locks.get", err)
	}
	return &lock, nil
}

// TryUpsert attempts to claim the lock by upserting the user's row. The
// conflict arm only fires while the existing lock is expired, which narrows
// the window between the caller's read and this write. Returns true if the
// row was written (lock claimed).
func (r *LockRepository) TryUpsert(ctx context.Context, userID int, until time.Time, token string) (bool, error) {
	const q = `
        INSERT INTO delist_locks (user_id, locked_until, token, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE
        SET locked_until = excluded.locked_until,
            token        = excluded.token,
            updated_at   = excluded.updated_at
        WHERE delist_locks.locked_until <= $4`

	res, err := r.db.ExecContext(ctx, q, userID, until, token, time.Now())
	if err != nil {
		return false, storageErr("locks.upsert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("locks.upsert", err)
	}
	return n > 0, nil
}

// Release sets locked_until to now, releasing the lock early instead of
// waiting out the full duration. A no-op if the user has no lock row.
func (r *LockRepository) Release(ctx context.Context, userID int) error {
	const q = `UPDATE delist_locks SET locked_until = $1, updated_at = $1 WHERE user_id = $2`
	_, err := r.db.ExecContext(ctx, q, time.Now(), userID)
	return storageErr("locks.release", err)
}
