package models

import "time"

// Sale is one confirmed transaction on a marketplace, written by the sales
// sync and consumed by the delist pipeline. The pipeline mutates a sale
// exactly once: processed flips false -> true after a delist attempt of any
// outcome. Sales are never deleted.
type Sale struct {
	ID          int         `db:"id" json:"id"`
	UserID      int         `db:"user_id" json:"-"`
	OrderID     string      `db:"order_id" json:"orderId"`
	ItemName    string      `db:"item_name" json:"itemName"`
	SKU         string      `db:"sku" json:"sku"`
	Size        string      `db:"size" json:"size"`
	Platform    string      `db:"platform" json:"platform"`
	Marketplace Marketplace `db:"marketplace" json:"marketplace"`
	SalePrice   *float64    `db:"sale_price" json:"salePrice,omitempty"`
	Fees        *float64    `db:"fees" json:"fees,omitempty"`
	Payout      *float64    `db:"payout" json:"payout,omitempty"`
	CostBasis   *float64    `db:"cost_basis" json:"costBasis,omitempty"`
	Profit      *float64    `db:"profit" json:"profit,omitempty"`
	SoldAt      *time.Time  `db:"sold_at" json:"soldAt,omitempty"`
	Processed   bool        `db:"processed" json:"processed"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"-"`
}
