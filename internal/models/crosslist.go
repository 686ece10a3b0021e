package models

import "time"

type LinkStatus string

const (
	LinkStatusActive LinkStatus = "active"
	LinkStatusSold   LinkStatus = "sold"
)

// CrossListLink records one physical item listed on both marketplaces at
// once. Among a user's active links no two may share the same normalized
// (SKU, size); the matcher refuses to pick between duplicates. A link
// transitions active -> sold exactly once, on a confirmed delist, and never
// transitions back.
type CrossListLink struct {
	ID              int          `db:"id" json:"id"`
	UserID          int          `db:"user_id" json:"-"`
	SKU             string       `db:"sku" json:"sku"`
	Size            string       `db:"size" json:"size"`
	ItemName        string       `db:"item_name" json:"itemName"`
	StockXListingID *string      `db:"stockx_listing_id" json:"stockxListingId,omitempty"`
	EbayOfferID     *string      `db:"ebay_offer_id" json:"ebayOfferId,omitempty"`
	Status          LinkStatus   `db:"status" json:"status"`
	SoldOn          *Marketplace `db:"sold_on" json:"soldOn,omitempty"`
	SoldAt          *time.Time   `db:"sold_at" json:"soldAt,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at" json:"-"`
}

// ListingIDFor returns the listing identifier this link holds on the given
// marketplace, or nil if the item was never listed there.
func (l *CrossListLink) ListingIDFor(m Marketplace) *string {
	switch m {
	case MarketplaceStockX:
		return l.StockXListingID
	case MarketplaceEbay:
		return l.EbayOfferID
	}
	return nil
}
