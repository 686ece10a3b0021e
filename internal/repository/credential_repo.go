package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// CredentialRepository handles stored marketplace refresh tokens.
type CredentialRepository struct {
	db *sqlx.DB
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db *sqlx.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Upsert stores or replaces a user's refresh token for one marketplace.
func (r *CredentialRepository) Upsert(ctx context.Context, cred *models.MarketplaceCredential) error {
	const q = `
        INSERT INTO marketplace_credentials (user_id, marketplace, refresh_token, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$4)
        ON CONFLICT (user_id, marketplace) DO UPDATE
        SET refresh_token = excluded.refresh_token,
            updated_at    = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, q, cred.UserID, cred.Marketplace, cred.RefreshToken, time.Now())
	return storageErr("credentials.upsert", err)
}

// Get returns a user's credential for one marketplace, or (nil, nil) if the
// user never connected that marketplace.
func (r *CredentialRepository) Get(ctx context.Context, userID int, marketplace models.Marketplace) (*models.MarketplaceCredential, error) {
	const q = `SELECT * FROM marketplace_credentials WHERE user_id = $1 AND marketplace = $2`

	var cred models.MarketplaceCredential
	if err := r.db.GetContext(ctx, &cred, q, userID, marketplace); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("credentials.get", err)
	}
	return &cred, nil
}

// ListAll returns every stored credential, used by the sales sync worker to
// enumerate connected accounts.
func (r *CredentialRepository) ListAll(ctx context.Context) ([]models.MarketplaceCredential, error) {
	const q = `SELECT * FROM marketplace_credentials ORDER BY user_id, marketplace`

	var creds []models.MarketplaceCredential
	if err := r.db.SelectContext(ctx, &creds, q); err != nil {
		return nil, storageErr("credentials.list", err)
	}
	return creds, nil
}
