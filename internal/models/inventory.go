package models

import "time"

type InventoryStatus string

const (
	InventoryStatusInStock InventoryStatus = "in_stock"
	InventoryStatusSold    InventoryStatus = "sold"
)

// InventoryItem tracks one purchased item and its cost basis. When a sale
// syncs for a matching SKU/size the item is consumed and the sale's profit
// is computed as payout minus cost basis.
type InventoryItem struct {
	ID            int             `db:"id" json:"id"`
	UserID        int             `db:"user_id" json:"-"`
	ItemName      string          `db:"item_name" json:"itemName"`
	SKU           string          `db:"sku" json:"sku"`
	Size          string          `db:"size" json:"size"`
	CostBasis     float64         `db:"cost_basis" json:"costBasis"`
	PurchasedAt   *time.Time      `db:"purchased_at" json:"purchasedAt,omitempty"`
	PurchasePlace *string         `db:"purchase_place" json:"purchasePlace,omitempty"`
	Status        InventoryStatus `db:"status" json:"status"`
	SaleID        *int            `db:"sale_id" json:"saleId,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"-"`
}
