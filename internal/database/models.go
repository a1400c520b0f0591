package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the bun model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               int64      `bun:"id,pk,autoincrement"`
	Username         string     `bun:"username"`
	Email            string     `bun:"email"`
	Phone            *string    `bun:"phone"`
	PasswordHash     string     `bun:"password_hash"`
	Avatar           *string    `bun:"avatar"`
	ResetToken       *string    `bun:"reset_token"`
	ResetTokenExpiry *time.Time `bun:"reset_token_expiry"`
	IsActive         bool       `bun:"is_active"`
	UpdatedAt        time.Time  `bun:"updated_at"`
}

// FeatureCard is the bun model for the feature_cards table.
// workflow_id and api_token are nullable: a card may be listed in the
// catalog before its workflow linkage is configured.
type FeatureCard struct {
	bun.BaseModel `bun:"table:feature_cards,alias:fc"`

	ID              int64   `bun:"id,pk,autoincrement"`
	Name            string  `bun:"name"`
	Description     string  `bun:"description"`
	Icon            string  `bun:"icon"`
	BackgroundColor string  `bun:"background_color"`
	SortOrder       int     `bun:"sort_order"`
	Enabled         bool    `bun:"enabled"`
	WorkflowID      *string `bun:"workflow_id"`
	APIToken        *string `bun:"api_token"`
}
