package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// InventoryRepository handles data access for cost-basis inventory items.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create inserts a new in-stock inventory item.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	const q = `
        INSERT INTO inventory_items (
            user_id, item_name, sku, size, cost_basis, purchased_at,
            purchase_place, status, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
        RETURNING id`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, q,
		item.UserID, item.ItemName, item.SKU, item.Size, item.CostBasis,
		item.PurchasedAt, item.PurchasePlace, models.InventoryStatusInStock, now,
	).Scan(&item.ID)
	if err != nil {
		return storageErr("inventory.create", err)
	}
	item.Status = models.InventoryStatusInStock
	item.CreatedAt = now
	return nil
}

// ListByUser returns a user's inventory newest-first, up to limit.
func (r *InventoryRepository) ListByUser(ctx context.Context, userID, limit int) ([]models.InventoryItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
        SELECT * FROM inventory_items
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, q, userID, limit); err != nil {
		return nil, storageErr("inventory.list", err)
	}
	return items, nil
}

// ListInStock returns a user's unsold items in purchase order, oldest first,
// so cost-basis assignment consumes inventory FIFO.
func (r *InventoryRepository) ListInStock(ctx context.Context, userID int) ([]models.InventoryItem, error) {
	const q = `
        SELECT * FROM inventory_items
        WHERE user_id = $1 AND status = $2
        ORDER BY created_at ASC, id ASC`

	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, q, userID, models.InventoryStatusInStock); err != nil {
		return nil, storageErr("inventory.list_in_stock", err)
	}
	return items, nil
}

// GetByID returns one item owned by the given user.
func (r *InventoryRepository) GetByID(ctx context.Context, userID, itemID int) (*models.InventoryItem, error) {
	const q = `SELECT * FROM inventory_items WHERE id = $1 AND user_id = $2`

	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, q, itemID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrItemNotFound
		}
		return nil, storageErr("inventory.get", err)
	}
	return &item, nil
}

// MarkSold consumes an item against a sale. The status guard keeps an item
// from being consumed twice.
func (r *InventoryRepository) MarkSold(ctx context.Context, itemID, saleID int) error {
	const q = `
        UPDATE inventory_items
        SET status = $1, sale_id = $2, updated_at = $3
        WHERE id = $4 AND status = $5`

	_, err := r.db.ExecContext(ctx, q, models.InventoryStatusSold, saleID, time.Now(), itemID, models.InventoryStatusInStock)
	return storageErr("inventory.mark_sold", err)
}

// Delete removes an inventory item that was entered by mistake.
func (r *InventoryRepository) Delete(ctx context.Context, userID, itemID int) error {
	const q = `DELETE FROM inventory_items WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, itemID, userID)
	return storageErr("inventory.delete", err)
}
