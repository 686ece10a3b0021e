package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// DelistLogRepository handles the append-only delist audit log.
type DelistLogRepository struct {
	db *sqlx.DB
}

// NewDelistLogRepository creates a new DelistLogRepository.
func NewDelistLogRepository(db *sqlx.DB) *DelistLogRepository {
	return &DelistLogRepository{db: db}
}

// Append writes one audit entry. Entries are never updated or deleted.
func (r *DelistLogRepository) Append(ctx context.Context, entry *models.DelistLogEntry) error {
	const q = `
        INSERT INTO delist_logs (
            user_id, sold_on, delisted_from, item_name, sku, size, order_id,
            listing_id, link_id, status, error_message, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, q,
		entry.UserID, entry.SoldOn, entry.DelistedFrom, entry.ItemName, entry.SKU,
		entry.Size, entry.OrderID, entry.ListingID, entry.LinkID, entry.Status,
		entry.ErrorMessage, now,
	).Scan(&entry.ID)
	if err != nil {
		return storageErr("delist_logs.append", err)
	}
	entry.CreatedAt = now
	return nil
}

// Query returns a user's delist history newest-first, optionally filtered by
// status. Limit is capped at 200.
func (r *DelistLogRepository) Query(ctx context.Context, userID int, status *models.DelistStatus, limit int) ([]models.DelistLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []models.DelistLogEntry
	var err error
	if status != nil {
		const q = `
            SELECT * FROM delist_logs
            WHERE user_id = $1 AND status = $2
            ORDER BY created_at DESC, id DESC
            LIMIT $3`
		err = r.db.SelectContext(ctx, &entries, q, userID, *status, limit)
	} else {
		const q = `
            SELECT * FROM delist_logs
            WHERE user_id = $1
            ORDER BY created_at DESC, id DESC
            LIMIT $2`
		err = r.db.SelectContext(ctx, &entries, q, userID, limit)
	}
	if err != nil {
		return nil, storageErr("delist_logs.query", err)
	}
	return entries, nil
}

// CountByStatus aggregates a user's log entries per outcome.
func (r *DelistLogRepository) CountByStatus(ctx context.Context, userID int) (*models.DelistStatusCounts, error) {
	const q = `SELECT status, COUNT(*) AS n FROM delist_logs WHERE user_id = $1 GROUP BY status`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, storageErr("delist_logs.count", err)
	}
	defer rows.Close()

	counts := &models.DelistStatusCounts{}
	for rows.Next() {
		var status models.DelistStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storageErr("delist_logs.count", err)
		}
		switch status {
		case models.DelistStatusSuccess:
			counts.Success = n
		case models.DelistStatusFailed:
			counts.Failed = n
		case models.DelistStatusSkipped:
			counts.Skipped = n
		case models.DelistStatusNotFound:
			counts.NotFound = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("delist_logs.count", err)
	}
	return counts, nil
}
