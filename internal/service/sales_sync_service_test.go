package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
	"github.com/KickLedger/kickledger_api/pkg/ebay"
	"github.com/KickLedger/kickledger_api/pkg/stockx"
)

const stockxOrdersBody = `{
  "orders": [{
    "orderNumber": "SX-1001",
    "listingId": "L123",
    "status": "COMPLETED",
    "createdAt": "2026-08-20T10:00:00Z",
    "product": {"productName": "Dunk Low Panda", "styleId": "DH6927-111"},
    "variant": {"variantValue": "10"},
    "payout": {"totalPayout": 180, "salePrice": 200}
  }],
  "hasNextPage": false
}`

const ebayOrdersBody = `{
  "total": 1,
  "orders": [{
    "orderId": "11-22222",
    "creationDate": "2026-08-21T12:00:00Z",
    "lineItems": [{
      "lineItemId": "li1",
      "sku": "DH6927-111:10",
      "title": "Nike Dunk Low Panda Size 10",
      "total": {"value": "190.00"}
    }],
    "paymentSummary": {"totalDueSeller": {"value": "165.30", "currency": "USD"}}
  }]
}`

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncUser_PullsBothMarketplaces(t *testing.T) {
	ctx := context.Background()
	db := inventorydb(t)
	saleRepo := repository.NewSaleRepository(db)
	invRepo := repository.NewInventoryRepository(db)

	svc := service.NewSalesSyncService(
		saleRepo,
		&fakeTokens{token: "tok-1"},
		stockx.NewClient(stockx.Config{BaseURL: jsonServer(t, stockxOrdersBody).URL}),
		ebay.NewClient(ebay.Config{BaseURL: jsonServer(t, ebayOrdersBody).URL}),
		service.NewInventoryService(invRepo, saleRepo),
	)

	result, err := svc.SyncUser(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("sync errors: %v", result.Errors)
	}
	if result.NewSales != 2 {
		t.Fatalf("NewSales = %d, want 2", result.NewSales)
	}

	sales, err := saleRepo.ListUnprocessed(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 2 {
		t.Fatalf("got %d sales, want 2", len(sales))
	}

	bySKU := map[models.Marketplace]models.Sale{}
	for _, s := range sales {
		bySKU[s.Marketplace] = s
	}
	sx := bySKU[models.MarketplaceStockX]
	if sx.OrderID != "SX-1001" || sx.SKU != "DH6927-111" || sx.Size != "10" {
		t.Errorf("stockx sale = %+v", sx)
	}
	if sx.Payout == nil || *sx.Payout != 180 || sx.Fees == nil || *sx.Fees != 20 {
		t.Errorf("stockx amounts wrong: payout=%v fees=%v", sx.Payout, sx.Fees)
	}

	eb := bySKU[models.MarketplaceEbay]
	if eb.OrderID != "11-22222-li1" || eb.SKU != "DH6927-111" || eb.Size != "10" {
		t.Errorf("ebay sale = %+v", eb)
	}
	if eb.Payout == nil || *eb.Payout != 165.30 {
		t.Errorf("ebay payout = %v", eb.Payout)
	}

	// A second sync of the same window creates nothing new.
	result, err = svc.SyncUser(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.NewSales != 0 {
		t.Errorf("resync NewSales = %d, want 0", result.NewSales)
	}
}

func TestSyncUser_SkipsUnconnectedMarketplaces(t *testing.T) {
	db := inventorydb(t)
	saleRepo := repository.NewSaleRepository(db)
	invRepo := repository.NewInventoryRepository(db)

	svc := service.NewSalesSyncService(
		saleRepo,
		&fakeTokens{err: utils.ErrNoCredential},
		stockx.NewClient(stockx.Config{}),
		ebay.NewClient(ebay.Config{}),
		service.NewInventoryService(invRepo, saleRepo),
	)

	result, err := svc.SyncUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.NewSales != 0 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want clean no-op", result)
	}
}
