package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catait/catait-api/internal/logging"
	"github.com/catait/catait-api/internal/user"
)

type fakeUserStore struct {
	byEmail map[string]*user.User
	byToken map[string]*user.User

	lookups int

	setTokenUserID int64
	setToken       string
	setExpiry      time.Time
	setTokenErr    error

	updatedUserID int64
	updatedHash   string
	updateErr     error
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	f.lookups++
	u, ok := f.byToken[token]
	if !ok {
		return nil, user.ErrNotFound
	}
	if u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(now) {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	f.setTokenUserID = userID
	f.setToken = token
	f.setExpiry = expiry
	return nil
}

func (f *fakeUserStore) UpdatePasswordAndClearToken(ctx context.Context, userID int64, passwordHash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedUserID = userID
	f.updatedHash = passwordHash
	return nil
}

type fakeEmailService struct {
	sent chan string
}

func (f *fakeEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	if f.sent != nil {
		f.sent <- token
	}
	return nil
}

func newTestService(store *fakeUserStore, emails *fakeEmailService) *Service {
	return NewService(store, emails, logging.NewLogger(true), time.Hour)
}

func validUser(token string, expiry time.Time) *user.User {
	return &user.User{
		ID:               1,
		Username:         "alice",
		Email:            "alice@example.com",
		Phone:            "555-0100",
		PasswordHash:     "$argon2id$secret",
		ResetToken:       &token,
		ResetTokenExpiry: &expiry,
		IsActive:         true,
	}
}

func TestValidateResetToken_EmptyToken(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store, &fakeEmailService{})

	_, err := svc.ValidateResetToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenRequired)
	assert.Equal(t, 0, store.lookups, "empty token must not reach the store")
}

func TestValidateResetToken_UnknownToken(t *testing.T) {
	store := &fakeUserStore{byToken: map[string]*user.User{}}
	svc := newTestService(store, &fakeEmailService{})

	_, err := svc.ValidateResetToken(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestValidateResetToken_ExpiredToken(t *testing.T) {
	// Stored an hour in the past: same outcome as an unknown token.
	u := validUser("abc", time.Now().Add(-time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	svc := newTestService(store, &fakeEmailService{})

	_, err := svc.ValidateResetToken(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestValidateResetToken_Success(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	svc := newTestService(store, &fakeEmailService{})

	summary, err := svc.ValidateResetToken(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.ID)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, "alice@example.com", summary.Email)
	assert.Equal(t, "555-0100", summary.Phone)
}

func TestValidateResetToken_DoesNotConsumeToken(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	svc := newTestService(store, &fakeEmailService{})

	first, err := svc.ValidateResetToken(context.Background(), "abc")
	require.NoError(t, err)
	second, err := svc.ValidateResetToken(context.Background(), "abc")
	require.NoError(t, err)

	// Validation is read-only: a still-valid token validates repeatedly
	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.lookups)
}

func TestRequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*user.User{}}
	svc := newTestService(store, &fakeEmailService{})

	// Unknown accounts must not be distinguishable
	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, store.setToken)
}

func TestRequestPasswordReset_IssuesTokenAndSendsEmail(t *testing.T) {
	u := validUser("", time.Time{})
	store := &fakeUserStore{byEmail: map[string]*user.User{"alice@example.com": u}}
	emails := &fakeEmailService{sent: make(chan string, 1)}
	svc := newTestService(store, emails)

	before := time.Now()
	err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.NotEmpty(t, store.setToken)
	assert.Equal(t, int64(1), store.setTokenUserID)
	assert.True(t, store.setExpiry.After(before.Add(59*time.Minute)), "expiry should be ~1h out")

	select {
	case mailedToken := <-emails.sent:
		assert.Equal(t, store.setToken, mailedToken, "mailed token must match the stored one")
	case <-time.After(2 * time.Second):
		t.Fatal("reset email was not sent")
	}
}

func TestResetPassword_Validation(t *testing.T) {
	store := &fakeUserStore{byToken: map[string]*user.User{}}
	svc := newTestService(store, &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "", "newpassword")
	assert.ErrorIs(t, err, ErrTokenRequired)

	err = svc.ResetPassword(context.Background(), "abc", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	err = svc.ResetPassword(context.Background(), "abc", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	err = svc.ResetPassword(context.Background(), "ghost", "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPassword_Success(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	svc := newTestService(store, &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "abc", "brand-new-password")
	require.NoError(t, err)

	assert.Equal(t, int64(1), store.updatedUserID)
	assert.True(t, strings.HasPrefix(store.updatedHash, "$argon2id$"), "hash: %s", store.updatedHash)
	assert.True(t, verifyPassword(store.updatedHash, "brand-new-password"))
}

func TestResetPassword_StoreFailurePropagates(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	updateErr := errors.New("deadlock")
	store := &fakeUserStore{
		byToken:   map[string]*user.User{"abc": u},
		updateErr: updateErr,
	}
	svc := newTestService(store, &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "abc", "brand-new-password")
	assert.ErrorIs(t, err, updateErr)
}
