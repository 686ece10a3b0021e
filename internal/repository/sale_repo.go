package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// SaleRepository handles data access for synced marketplace sales.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// UpsertFromOrder inserts a sale observed during sync, or leaves the existing
// row untouched if the order was already seen. Returns true if a new row was
// created. The processed flag is owned by the delist pipeline and is never
// reset by a re-sync.
func (r *SaleRepository) UpsertFromOrder(ctx context.Context, sale *models.Sale) (bool, error) {
	const q = `
        INSERT INTO sales (
            user_id, order_id, item_name, sku, size, platform, marketplace,
            sale_price, fees, payout, sold_at, processed, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,false,$12,$12)
        ON CONFLICT (user_id, marketplace, order_id) DO NOTHING`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, q,
		sale.UserID, sale.OrderID, sale.ItemName, sale.SKU, sale.Size, sale.Platform,
		sale.Marketplace, sale.SalePrice, sale.Fees, sale.Payout, sale.SoldAt, now,
	)
	if err != nil {
		return false, storageErr("sales.upsert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("sales.upsert", err)
	}
	return n > 0, nil
}

// ListUnprocessed returns a user's unprocessed sales in creation order, so
// the delist pipeline handles them oldest-first.
func (r *SaleRepository) ListUnprocessed(ctx context.Context, userID int) ([]models.Sale, error) {
	const q = `
        SELECT * FROM sales
        WHERE user_id = $1 AND processed = false
        ORDER BY created_at ASC, id ASC`

	var sales []models.Sale
	if err := r.db.SelectContext(ctx, &sales, q, userID); err != nil {
		return nil, storageErr("sales.list_unprocessed", err)
	}
	return sales, nil
}

// MarkProcessed flips a sale's processed flag. Called exactly once per sale,
// after a delist attempt of any outcome.
func (r *SaleRepository) MarkProcessed(ctx context.Context, saleID int) error {
	const q = `UPDATE sales SET processed = true, updated_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, q, time.Now(), saleID)
	return storageErr("sales.mark_processed", err)
}

// SetProfit records the cost basis and computed profit on a sale.
func (r *SaleRepository) SetProfit(ctx context.Context, saleID int, costBasis, profit float64) error {
	const q = `UPDATE sales SET cost_basis = $1, profit = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, q, costBasis, profit, time.Now(), saleID)
	return storageErr("sales.set_profit", err)
}

// ListByUser returns a user's sales newest-first, up to limit.
func (r *SaleRepository) ListByUser(ctx context.Context, userID, limit int) ([]models.Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
        SELECT * FROM sales
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	var sales []models.Sale
	if err := r.db.SelectContext(ctx, &sales, q, userID, limit); err != nil {
		return nil, storageErr("sales.list", err)
	}
	return sales, nil
}

// ListUserIDsWithUnprocessed returns the ids of users that currently have at
// least one unprocessed sale. Drives the scheduled delist worker.
func (r *SaleRepository) ListUserIDsWithUnprocessed(ctx context.Context) ([]int, error) {
	const q = `SELECT DISTINCT user_id FROM sales WHERE processed = false ORDER BY user_id`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, q); err != nil {
		return nil, storageErr("sales.list_pending_users", err)
	}
	return ids, nil
}
