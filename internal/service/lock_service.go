package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// LockStore is the slice of lock storage the lock service needs.
type LockStore interface {
	Get(ctx context.Context, userID int) (*models.DelistLock, error)
	TryUpsert(ctx context.Context, userID int, until time.Time, token string) (bool, error)
	Release(ctx context.Context, userID int) error
}

// LockService gates scheduled delist runs so at most one pass is in flight
// per user. The lock duration doubles as a soft timeout: a crashed run stops
// blocking its user once the window elapses.
//
// Acquisition is read-then-upsert; the upsert itself is guarded against a
// still-held row, which narrows but does not fully close the race window.
// An occasional double run is acceptable because delist dispatch is
// idempotent.
type LockService struct {
	locks    LockStore
	duration time.Duration
}

// NewLockService creates a LockService with the given lock duration.
func NewLockService(locks LockStore, duration time.Duration) *LockService {
	if duration <= 0 {
		duration = 10 * time.Minute
	}
	return &LockService{locks: locks, duration: duration}
}

// Acquire attempts to claim the user's run lock. Any storage error is
// treated as "not acquired": skipping a cycle is cheaper than risking an
// unguarded concurrent run.
func (s *LockService) Acquire(ctx context.Context, userID int) bool {
	now := time.Now()

	lock, err := s.locks.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Lock read failed, skipping run")
		return false
	}
	if lock != nil && lock.Held(now) {
		log.Debug().
			Int("user_id", userID).
			Time("locked_until", lock.LockedUntil).
			Msg("Delist run already in flight")
		return false
	}

	ok, err := s.locks.TryUpsert(ctx, userID, now.Add(s.duration), uuid.New().String())
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Lock acquire failed, skipping run")
		return false
	}
	return ok
}

// Release drops the user's lock by pulling locked_until back to now. Called
// unconditionally at end of run; releasing a lock this run never acquired is
// harmless.
func (s *LockService) Release(ctx context.Context, userID int) {
	if err := s.locks.Release(ctx, userID); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Lock release failed; lock will expire on its own")
	}
}
