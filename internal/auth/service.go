package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/catait/catait-api/internal/logging"
	"github.com/catait/catait-api/internal/user"
)

var (
	ErrTokenRequired     = errors.New("reset token is required")
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
)

// UserStore defines the persistence surface the service needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error)
	SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	UpdatePasswordAndClearToken(ctx context.Context, userID int64, passwordHash string) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// Service handles the password-reset flow
type Service struct {
	userStore     UserStore
	emailService  EmailService
	logger        *logging.Logger
	resetTokenTTL time.Duration
	now           func() time.Time
}

func NewService(userStore UserStore, emailService EmailService, logger *logging.Logger, resetTokenTTL time.Duration) *Service {
	return &Service{
		userStore:     userStore,
		emailService:  emailService,
		logger:        logger,
		resetTokenTTL: resetTokenTTL,
		now:           time.Now,
	}
}

// ValidateResetToken resolves a reset token to its sanitized user
// projection. Unknown, cleared, and expired tokens all surface as
// ErrResetTokenInvalid; the distinction is deliberately not
// observable to callers. The token is NOT cleared by validation:
// a still-valid token validates repeatedly until reset or expiry.
func (s *Service) ValidateResetToken(ctx context.Context, token string) (*user.Summary, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	u, err := s.userStore.GetByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, err
	}

	return u.Summary(), nil
}

// RequestPasswordReset issues a reset token and mails the reset link.
// Always returns nil for unknown accounts to prevent email
// enumeration; store failures on the lookup are swallowed the same
// way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	existingUser, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		s.logger.Warn("failed to get user for password reset", "error", err)
		return nil
	}

	token := uuid.NewString()
	expiry := s.now().Add(s.resetTokenTTL)

	if err := s.userStore.SetResetToken(ctx, existingUser.ID, token, expiry); err != nil {
		s.logger.Warn("failed to store password reset token", "error", err)
		return nil
	}

	// Send asynchronously so SMTP latency never blocks the response
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendPasswordResetEmail(sendCtx, existingUser.Email, token); err != nil {
			s.logger.Warn("failed to send password reset email", "error", err)
		}
	}()

	return nil
}

// ResetPassword consumes a reset token: the new password hash is
// written and the token cleared in one statement, so the token cannot
// validate again afterwards.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrTokenRequired
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	u, err := s.userStore.GetByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userStore.UpdatePasswordAndClearToken(ctx, u.ID, passwordHash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", u.ID)

	return nil
}
