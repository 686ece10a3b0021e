package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/utils"
	"github.com/KickLedger/kickledger_api/pkg/ebay"
	"github.com/KickLedger/kickledger_api/pkg/stockx"
)

// syncWindow is how far back each sync looks for orders. Re-seen orders are
// deduplicated by the sales upsert.
const syncWindow = 30 * 24 * time.Hour

// SalesSyncService pulls recent orders from both marketplaces into the sales
// table. New sales land with processed=false, which is what feeds the delist
// pipeline; re-syncing an order is a no-op.
type SalesSyncService struct {
	sales     *repository.SaleRepository
	tokens    TokenProvider
	stockx    *stockx.Client
	ebay      *ebay.Client
	inventory *InventoryService
}

// NewSalesSyncService creates a new SalesSyncService.
func NewSalesSyncService(
	sales *repository.SaleRepository,
	tokens TokenProvider,
	stockxClient *stockx.Client,
	ebayClient *ebay.Client,
	inventory *InventoryService,
) *SalesSyncService {
	return &SalesSyncService{
		sales:     sales,
		tokens:    tokens,
		stockx:    stockxClient,
		ebay:      ebayClient,
		inventory: inventory,
	}
}

// SyncResult summarizes one user's sync pass.
type SyncResult struct {
	UserID   int      `json:"userId"`
	NewSales int      `json:"newSales"`
	Errors   []string `json:"errors,omitempty"`
}

// SyncUser pulls orders for one user from every marketplace they have
// connected. A marketplace the user never connected is silently skipped; a
// marketplace that fails is reported in the result without failing the rest.
func (s *SalesSyncService) SyncUser(ctx context.Context, userID int) (*SyncResult, error) {
	result := &SyncResult{UserID: userID}
	since := time.Now().Add(-syncWindow)

	for _, mk := range []models.Marketplace{models.MarketplaceStockX, models.MarketplaceEbay} {
		n, err := s.syncMarketplace(ctx, userID, mk, since)
		if err != nil {
			if errors.Is(err, utils.ErrNoCredential) {
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", mk, err))
			continue
		}
		result.NewSales += n
	}
	return result, nil
}

func (s *SalesSyncService) syncMarketplace(ctx context.Context, userID int, mk models.Marketplace, since time.Time) (int, error) {
	token, err := s.tokens.GetValidToken(ctx, userID, mk)
	if err != nil {
		return 0, err
	}

	var sales []models.Sale
	switch mk {
	case models.MarketplaceStockX:
		orders, err := s.stockx.GetOrders(ctx, token, since)
		if err != nil {
			return 0, err
		}
		for i := range orders {
			sales = append(sales, stockxSale(userID, &orders[i]))
		}
	case models.MarketplaceEbay:
		orders, err := s.ebay.GetOrders(ctx, token, since)
		if err != nil {
			return 0, err
		}
		for i := range orders {
			sales = append(sales, ebaySales(userID, &orders[i])...)
		}
	}

	created := 0
	for i := range sales {
		isNew, err := s.sales.UpsertFromOrder(ctx, &sales[i])
		if err != nil {
			log.Error().Err(err).Str("order_id", sales[i].OrderID).Msg("Sale upsert failed")
			continue
		}
		if !isNew {
			continue
		}
		created++
		// Best effort: consume matching inventory and record profit.
		if err := s.inventory.AssignCostBasis(ctx, &sales[i]); err != nil {
			log.Warn().Err(err).Str("order_id", sales[i].OrderID).Msg("Cost basis assignment failed")
		}
	}

	if created > 0 {
		log.Info().Int("user_id", userID).Str("marketplace", mk.String()).Int("new_sales", created).Msg("Sales synced")
	}
	return created, nil
}

// stockxSale maps a StockX order to a sale row.
func stockxSale(userID int, o *stockx.Order) models.Sale {
	sale := models.Sale{
		UserID:      userID,
		OrderID:     o.OrderNumber,
		ItemName:    o.Product.ProductName,
		SKU:         o.Product.StyleID,
		Size:        o.Variant.VariantValue,
		Platform:    models.MarketplaceStockX.String(),
		Marketplace: models.MarketplaceStockX,
	}
	if o.Payout.SalePrice > 0 {
		price := o.Payout.SalePrice
		payout := o.Payout.TotalPayout
		fees := price - payout
		sale.SalePrice = &price
		sale.Payout = &payout
		sale.Fees = &fees
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		sale.SoldAt = &t
	}
	return sale
}

// ebaySales maps an eBay order to sale rows, one per line item. Sellers
// encode style and size in the custom SKU as "STYLE:SIZE"; a SKU without the
// separator is taken as style only.
func ebaySales(userID int, o *ebay.Order) []models.Sale {
	var out []models.Sale
	for i := range o.LineItems {
		li := &o.LineItems[i]

		sku, size := li.SKU, ""
		if base, sz, ok := strings.Cut(li.SKU, ":"); ok {
			sku, size = base, sz
		}

		sale := models.Sale{
			UserID:      userID,
			OrderID:     o.OrderID + "-" + li.LineItemID,
			ItemName:    li.Title,
			SKU:         sku,
			Size:        size,
			Platform:    models.MarketplaceEbay.String(),
			Marketplace: models.MarketplaceEbay,
		}
		if v, err := strconv.ParseFloat(li.Total.Value, 64); err == nil && v > 0 {
			sale.SalePrice = &v
		}
		if payout, err := strconv.ParseFloat(o.PaymentSummary.TotalDueSeller.Value, 64); err == nil && payout > 0 && len(o.LineItems) == 1 {
			sale.Payout = &payout
			if sale.SalePrice != nil {
				fees := *sale.SalePrice - payout
				sale.Fees = &fees
			}
		}
		if t, err := time.Parse(time.RFC3339, o.CreationDate); err == nil {
			sale.SoldAt = &t
		}
		out = append(out, sale)
	}
	return out
}
