package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/KickLedger/kickledger_api/internal/models"
)

func memdb(t *testing.T, schema string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

const delistLogSchema = `
CREATE TABLE delist_logs (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id       INTEGER NOT NULL,
  sold_on       TEXT NOT NULL DEFAULT '',
  delisted_from TEXT,
  item_name     TEXT NOT NULL DEFAULT '',
  sku           TEXT NOT NULL DEFAULT '',
  size          TEXT NOT NULL DEFAULT '',
  order_id      TEXT NOT NULL DEFAULT '',
  listing_id    TEXT,
  link_id       INTEGER,
  status        TEXT NOT NULL,
  error_message TEXT,
  created_at    TIMESTAMP NOT NULL
);`

func appendEntry(t *testing.T, repo *DelistLogRepository, userID int, status models.DelistStatus) *models.DelistLogEntry {
	t.Helper()
	entry := &models.DelistLogEntry{
		UserID:  userID,
		SoldOn:  models.MarketplaceEbay,
		SKU:     "DH6927-111",
		Size:    "10",
		OrderID: "ord-1",
		Status:  status,
	}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	return entry
}

func TestDelistLogRepository_AppendAndQuery(t *testing.T) {
	repo := NewDelistLogRepository(memdb(t, delistLogSchema))
	ctx := context.Background()

	first := appendEntry(t, repo, 1, models.DelistStatusSuccess)
	second := appendEntry(t, repo, 1, models.DelistStatusFailed)
	appendEntry(t, repo, 2, models.DelistStatusSuccess) // other user, must not appear

	if first.ID == 0 || second.ID == 0 {
		t.Fatal("append should backfill the generated id")
	}

	entries, err := repo.Query(ctx, 1, nil, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].ID != second.ID {
		t.Errorf("entries[0].ID = %d, want %d", entries[0].ID, second.ID)
	}

	failed := models.DelistStatusFailed
	entries, err = repo.Query(ctx, 1, &failed, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Status != models.DelistStatusFailed {
		t.Fatalf("status filter returned %+v", entries)
	}
}

func TestDelistLogRepository_CountByStatus(t *testing.T) {
	repo := NewDelistLogRepository(memdb(t, delistLogSchema))

	appendEntry(t, repo, 1, models.DelistStatusSuccess)
	appendEntry(t, repo, 1, models.DelistStatusSuccess)
	appendEntry(t, repo, 1, models.DelistStatusNotFound)
	appendEntry(t, repo, 2, models.DelistStatusFailed)

	counts, err := repo.CountByStatus(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Success != 2 || counts.NotFound != 1 || counts.Failed != 0 || counts.Skipped != 0 {
		t.Errorf("counts = %+v", counts)
	}
}
