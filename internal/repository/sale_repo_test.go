package repository

import (
	"context"
	"testing"

	"github.com/KickLedger/kickledger_api/internal/models"
)

const saleSchema = `
CREATE TABLE sales (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id     INTEGER NOT NULL,
  order_id    TEXT NOT NULL,
  item_name   TEXT NOT NULL DEFAULT '',
  sku         TEXT NOT NULL DEFAULT '',
  size        TEXT NOT NULL DEFAULT '',
  platform    TEXT NOT NULL DEFAULT '',
  marketplace TEXT NOT NULL DEFAULT '',
  sale_price  REAL,
  fees        REAL,
  payout      REAL,
  cost_basis  REAL,
  profit      REAL,
  sold_at     TIMESTAMP,
  processed   BOOLEAN NOT NULL DEFAULT FALSE,
  created_at  TIMESTAMP NOT NULL,
  updated_at  TIMESTAMP NOT NULL,
  UNIQUE (user_id, marketplace, order_id)
);`

func stockxOrder(orderID string) *models.Sale {
	payout := 180.0
	return &models.Sale{
		UserID:      1,
		OrderID:     orderID,
		ItemName:    "Dunk Low Panda",
		SKU:         "DH6927-111",
		Size:        "10",
		Marketplace: models.MarketplaceStockX,
		Payout:      &payout,
	}
}

func TestSaleRepository_UpsertFromOrderIsIdempotent(t *testing.T) {
	repo := NewSaleRepository(memdb(t, saleSchema))
	ctx := context.Background()

	isNew, err := repo.UpsertFromOrder(ctx, stockxOrder("ord-1"))
	if err != nil {
		t.Fatal(err)
	}
	if !isNew {
		t.Fatal("first upsert should report a new row")
	}

	// Re-syncing the same order must not create a duplicate or reset state.
	isNew, err = repo.UpsertFromOrder(ctx, stockxOrder("ord-1"))
	if err != nil {
		t.Fatal(err)
	}
	if isNew {
		t.Fatal("second upsert of the same order should be a no-op")
	}

	sales, err := repo.ListUnprocessed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 {
		t.Fatalf("got %d sales, want 1", len(sales))
	}
}

func TestSaleRepository_MarkProcessed(t *testing.T) {
	repo := NewSaleRepository(memdb(t, saleSchema))
	ctx := context.Background()

	if _, err := repo.UpsertFromOrder(ctx, stockxOrder("ord-1")); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.UpsertFromOrder(ctx, stockxOrder("ord-2")); err != nil {
		t.Fatal(err)
	}

	sales, err := repo.ListUnprocessed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 2 {
		t.Fatalf("got %d unprocessed sales, want 2", len(sales))
	}
	// Oldest first, so the pipeline drains in arrival order.
	if sales[0].OrderID != "ord-1" {
		t.Errorf("sales[0].OrderID = %s, want ord-1", sales[0].OrderID)
	}

	if err := repo.MarkProcessed(ctx, sales[0].ID); err != nil {
		t.Fatal(err)
	}
	sales, err = repo.ListUnprocessed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].OrderID != "ord-2" {
		t.Fatalf("after mark processed got %+v", sales)
	}

	users, err := repo.ListUserIDsWithUnprocessed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0] != 1 {
		t.Errorf("users with unprocessed = %v, want [1]", users)
	}
}
