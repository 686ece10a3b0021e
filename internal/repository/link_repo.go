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

// LinkRepository handles data access for cross-listing links.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new cross-listing link in active status.
func (r *LinkRepository) Create(ctx context.Context, link *models.CrossListLink) error {
	const q = `
        INSERT INTO cross_list_links (
            user_id, sku, size, item_name, stockx_listing_id, ebay_offer_id,
            status, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
        RETURNING id`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, q,
		link.UserID, link.SKU, link.Size, link.ItemName,
		link.StockXListingID, link.EbayOfferID, models.LinkStatusActive, now,
	).Scan(&link.ID)
	if err != nil {
		return storageErr("links.create", err)
	}
	link.Status = models.LinkStatusActive
	link.CreatedAt = now
	return nil
}

// ListActive returns all of a user's active links. The matcher filters these
// by normalized SKU/size in memory.
func (r *LinkRepository) ListActive(ctx context.Context, userID int) ([]models.CrossListLink, error) {
	const q = `
        SELECT * FROM cross_list_links
        WHERE user_id = $1 AND status = $2
        ORDER BY created_at ASC, id ASC`

	var links []models.CrossListLink
	if err := r.db.SelectContext(ctx, &links, q, userID, models.LinkStatusActive); err != nil {
		return nil, storageErr("links.list_active", err)
	}
	return links, nil
}

// ListByUser returns all of a user's links newest-first, up to limit.
func (r *LinkRepository) ListByUser(ctx context.Context, userID, limit int) ([]models.CrossListLink, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
        SELECT * FROM cross_list_links
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	var links []models.CrossListLink
	if err := r.db.SelectContext(ctx, &links, q, userID, limit); err != nil {
		return nil, storageErr("links.list", err)
	}
	return links, nil
}

// GetByID returns one link owned by the given user.
func (r *LinkRepository) GetByID(ctx context.Context, userID, linkID int) (*models.CrossListLink, error) {
	const q = `SELECT * FROM cross_list_links WHERE id = $1 AND user_id = $2`

	var link models.CrossListLink
	if err := r.db.GetContext(ctx, &link, q, linkID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrLinkNotFound
		}
		return nil, storageErr("links.get", err)
	}
	return &link, nil
}

// MarkSold transitions a link from active to sold, stamping the marketplace
// it sold on. The status guard makes the transition one-way: a link already
// sold is left untouched.
func (r *LinkRepository) MarkSold(ctx context.Context, linkID int, soldOn models.Marketplace) error {
	const q = `
        UPDATE cross_list_links
        SET status = $1, sold_on = $2, sold_at = $3, updated_at = $3
        WHERE id = $4 AND status = $5`

	_, err := r.db.ExecContext(ctx, q, models.LinkStatusSold, soldOn, time.Now(), linkID, models.LinkStatusActive)
	return storageErr("links.mark_sold", err)
}
