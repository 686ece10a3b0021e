package models

import "time"

type DelistStatus string

const (
	DelistStatusSuccess  DelistStatus = "success"
	DelistStatusFailed   DelistStatus = "failed"
	DelistStatusSkipped  DelistStatus = "skipped"
	DelistStatusNotFound DelistStatus = "not_found"
)

// DelistLogEntry is the immutable audit record of one delist attempt.
// Entries are written once and never updated or deleted.
type DelistLogEntry struct {
	ID               int          `db:"id" json:"id"`
	UserID           int          `db:"user_id" json:"-"`
	SoldOn           Marketplace  `db:"sold_on" json:"soldOn"`
	DelistedFrom     *Marketplace `db:"delisted_from" json:"delistedFrom,omitempty"`
	ItemName         string       `db:"item_name" json:"itemName"`
	SKU              string       `db:"sku" json:"sku"`
	Size             string       `db:"size" json:"size"`
	OrderID          string       `db:"order_id" json:"orderId"`
	ListingID        *string      `db:"listing_id" json:"listingId,omitempty"`
	LinkID           *int         `db:"link_id" json:"linkId,omitempty"`
	Status           DelistStatus `db:"status" json:"status"`
	ErrorMessage     *string      `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
}

// DelistStatusCounts aggregates log entries per outcome for the history view.
type DelistStatusCounts struct {
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
	NotFound int `json:"notFound"`
}
