package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/catait/catait-api/internal/database"
)

var (
	ErrNotFound = errors.New("user not found")
)

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByResetToken retrieves the user holding the given reset token,
// provided the token has not expired. Exact string match on the
// token; expiry is strictly greater than now, checked at read time.
// An unknown, cleared, or expired token is uniformly ErrNotFound.
func (r *Repository) GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("reset_token = ?", token).
		Where("reset_token_expiry > ?", now).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// SetResetToken stores a reset token and its expiry on the user row
func (r *Repository) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("reset_token = ?", token).
		Set("reset_token_expiry = ?", expiry).
		Set("updated_at = NOW()").
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePasswordAndClearToken updates the password hash and clears
// the reset token in a single statement, so a consumed token cannot
// validate again.
func (r *Repository) UpdatePasswordAndClearToken(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("reset_token = ?", nil).
		Set("reset_token_expiry = ?", nil).
		Set("updated_at = NOW()").
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	u := &User{
		ID:               dbu.ID,
		Username:         dbu.Username,
		Email:            dbu.Email,
		PasswordHash:     dbu.PasswordHash,
		ResetToken:       dbu.ResetToken,
		ResetTokenExpiry: dbu.ResetTokenExpiry,
		IsActive:         dbu.IsActive,
		UpdatedAt:        dbu.UpdatedAt,
	}

	if dbu.Phone != nil {
		u.Phone = *dbu.Phone
	}
	if dbu.Avatar != nil {
		u.Avatar = *dbu.Avatar
	}

	return u
}
