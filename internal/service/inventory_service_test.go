package service_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
)

func inventorydb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE inventory_items (
	  id             INTEGER PRIMARY KEY AUTOINCREMENT,
	  user_id        INTEGER NOT NULL,
	  item_name      TEXT NOT NULL DEFAULT '',
	  sku            TEXT NOT NULL,
	  size           TEXT NOT NULL,
	  cost_basis     REAL NOT NULL,
	  purchased_at   TIMESTAMP,
	  purchase_place TEXT,
	  status         TEXT NOT NULL DEFAULT 'in_stock',
	  sale_id        INTEGER,
	  created_at     TIMESTAMP NOT NULL,
	  updated_at     TIMESTAMP NOT NULL
	);
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
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func addItem(t *testing.T, repo *repository.InventoryRepository, sku, size string, cost float64) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{UserID: 1, SKU: sku, Size: size, CostBasis: cost}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestAssignCostBasis_ConsumesOldestMatch(t *testing.T) {
	ctx := context.Background()
	db := inventorydb(t)
	invRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	svc := service.NewInventoryService(invRepo, saleRepo)

	first := addItem(t, invRepo, "DH-6927-111", "10 US", 120)
	addItem(t, invRepo, "DH-6927-111", "10 US", 140)
	addItem(t, invRepo, "CW2288-111", "9", 80)

	payout := 180.0
	sale := &models.Sale{
		UserID:      1,
		OrderID:     "ord-1",
		SKU:         "DH6927-111",
		Size:        "W 10",
		Marketplace: models.MarketplaceStockX,
		Payout:      &payout,
	}
	if _, err := saleRepo.UpsertFromOrder(ctx, sale); err != nil {
		t.Fatal(err)
	}
	sales, err := saleRepo.ListUnprocessed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	sale = &sales[0]

	if err := svc.AssignCostBasis(ctx, sale); err != nil {
		t.Fatal(err)
	}

	// The oldest of the two matching items is consumed.
	left, err := invRepo.ListInStock(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 {
		t.Fatalf("%d items left in stock, want 2", len(left))
	}
	for _, item := range left {
		if item.ID == first.ID {
			t.Error("oldest matching item should have been consumed")
		}
	}

	sales, err = saleRepo.ListByUser(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := sales[0]
	if got.CostBasis == nil || *got.CostBasis != 120 {
		t.Fatalf("cost basis = %v, want 120", got.CostBasis)
	}
	if got.Profit == nil || *got.Profit != 60 {
		t.Fatalf("profit = %v, want 60", got.Profit)
	}
}

func TestAssignCostBasis_NoMatchIsNoop(t *testing.T) {
	ctx := context.Background()
	db := inventorydb(t)
	invRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	svc := service.NewInventoryService(invRepo, saleRepo)

	addItem(t, invRepo, "CW2288-111", "9", 80)

	sale := &models.Sale{ID: 1, UserID: 1, SKU: "DH6927-111", Size: "10"}
	if err := svc.AssignCostBasis(ctx, sale); err != nil {
		t.Fatal(err)
	}

	left, err := invRepo.ListInStock(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 {
		t.Errorf("%d items left, want 1 untouched", len(left))
	}
}
