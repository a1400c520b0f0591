package user

import (
	"time"
)

type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	PasswordHash     string     `json:"-"` // Never expose password hash in JSON
	Avatar           string     `json:"avatar,omitempty"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	IsActive         bool       `json:"is_active"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Summary is the sanitized projection returned by reset-token
// validation. Credentials and token fields never appear here.
type Summary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Summary builds the sanitized projection for a user
func (u *User) Summary() *Summary {
	return &Summary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}
