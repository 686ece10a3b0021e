package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
)

func lockdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE delist_locks (
	  user_id      INTEGER PRIMARY KEY,
	  locked_until TIMESTAMP NOT NULL,
	  token        TEXT NOT NULL,
	  updated_at   TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestLockService_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	locks := service.NewLockService(repository.NewLockRepository(lockdb(t)), 10*time.Minute)

	if !locks.Acquire(ctx, 1) {
		t.Fatal("first acquire should succeed")
	}
	if locks.Acquire(ctx, 1) {
		t.Fatal("second acquire while held should fail")
	}

	// Another user is not blocked.
	if !locks.Acquire(ctx, 2) {
		t.Fatal("acquire for a different user should succeed")
	}

	locks.Release(ctx, 1)
	if !locks.Acquire(ctx, 1) {
		t.Fatal("acquire after release should succeed")
	}
}

func TestLockService_ExpiredLockIsReclaimable(t *testing.T) {
	ctx := context.Background()
	db := lockdb(t)
	repo := repository.NewLockRepository(db)

	// A short-lived lock that has already expired by the time we re-acquire.
	short := service.NewLockService(repo, time.Millisecond)
	if !short.Acquire(ctx, 7) {
		t.Fatal("first acquire should succeed")
	}
	time.Sleep(5 * time.Millisecond)

	locks := service.NewLockService(repo, 10*time.Minute)
	if !locks.Acquire(ctx, 7) {
		t.Fatal("expired lock should be reclaimable")
	}
	if locks.Acquire(ctx, 7) {
		t.Fatal("freshly reclaimed lock should block")
	}
}
