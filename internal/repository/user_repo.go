package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// UserRepository handles data access for dashboard accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
        INSERT INTO users (email, password_hash, name, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$5)
        RETURNING id`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, q,
		user.Email, user.PasswordHash, user.Name, user.IsActive, now,
	).Scan(&user.ID)
	if err != nil {
		return storageErr("users.create", err)
	}
	user.CreatedAt = now
	return nil
}

// GetByEmail returns the user with the given email, or (nil, nil) if absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var user models.User
	if err := r.db.GetContext(ctx, &user, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("users.get_by_email", err)
	}
	return &user, nil
}

// GetByID returns the user with the given id, or (nil, nil) if absent.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1`

	var user models.User
	if err := r.db.GetContext(ctx, &user, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("users.get", err)
	}
	return &user, nil
}
