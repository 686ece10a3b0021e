package models

import "time"

// User is a dashboard account owning sales, inventory, and listings.
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// MarketplaceCredential stores a user's OAuth refresh token for one
// marketplace. Access tokens are short-lived and cached in Redis; only the
// refresh token is persisted.
type MarketplaceCredential struct {
	ID           int         `db:"id" json:"id"`
	UserID       int         `db:"user_id" json:"-"`
	Marketplace  Marketplace `db:"marketplace" json:"marketplace"`
	RefreshToken string      `db:"refresh_token" json:"-"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"-"`
}
