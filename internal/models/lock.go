package models

import "time"

// DelistLock is the per-user mutual-exclusion row for scheduled delist runs.
// One row per user, reused across runs: acquire pushes locked_until into the
// future, release pulls it back to now. The lock is held while locked_until
// is in the future.
type DelistLock struct {
	UserID      int       `db:"user_id" json:"-"`
	LockedUntil time.Time `db:"locked_until" json:"lockedUntil"`
	Token       string    `db:"token" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Held reports whether the lock is held at the given instant.
func (l *DelistLock) Held(now time.Time) bool {
	return l.LockedUntil.After(now)
}
