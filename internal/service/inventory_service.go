package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/match"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
)

// InventoryService ties purchased inventory to synced sales: when a sale
// lands, the oldest matching in-stock item is consumed and the sale's profit
// is computed against its cost basis.
type InventoryService struct {
	inventory *repository.InventoryRepository
	sales     *repository.SaleRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventory *repository.InventoryRepository, sales *repository.SaleRepository) *InventoryService {
	return &InventoryService{inventory: inventory, sales: sales}
}

// AssignCostBasis finds the oldest in-stock item matching the sale's
// normalized SKU/size, marks it sold, and records cost basis and profit on
// the sale. No matching item is not an error; plenty of sales predate their
// inventory entry.
func (s *InventoryService) AssignCostBasis(ctx context.Context, sale *models.Sale) error {
	items, err := s.inventory.ListInStock(ctx, sale.UserID)
	if err != nil {
		return err
	}

	wantSKU := match.NormalizeSKU(sale.SKU)
	wantSize := match.NormalizeSize(sale.Size)

	for i := range items {
		item := &items[i]
		if match.NormalizeSKU(item.SKU) != wantSKU || match.NormalizeSize(item.Size) != wantSize {
			continue
		}

		if err := s.inventory.MarkSold(ctx, item.ID, sale.ID); err != nil {
			return err
		}

		profit := -item.CostBasis
		switch {
		case sale.Payout != nil:
			profit += *sale.Payout
		case sale.SalePrice != nil:
			profit += *sale.SalePrice
			if sale.Fees != nil {
				profit -= *sale.Fees
			}
		}
		if err := s.sales.SetProfit(ctx, sale.ID, item.CostBasis, profit); err != nil {
			return err
		}

		log.Debug().
			Int("sale_id", sale.ID).
			Int("item_id", item.ID).
			Float64("cost_basis", item.CostBasis).
			Float64("profit", profit).
			Msg("Cost basis assigned")
		return nil
	}
	return nil
}
