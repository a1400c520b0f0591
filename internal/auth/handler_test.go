package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catait/catait-api/internal/ratelimit"
	"github.com/catait/catait-api/internal/user"
)

// unreachableLimiter returns a limiter whose Redis is down, to check
// the fail-open behavior of the forgot-password endpoint.
func unreachableLimiter() *ratelimit.Limiter {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return ratelimit.NewLimiter(client)
}

func newTestHandlerRouter(store *fakeUserStore, emails *fakeEmailService) *chi.Mux {
	svc := newTestService(store, emails)
	handler := NewHandler(svc, unreachableLimiter(), true)

	r := chi.NewRouter()
	r.Post("/auth/validate-reset-token", handler.ValidateResetToken)
	r.Post("/auth/forgot-password", handler.ForgotPassword)
	r.Post("/auth/reset-password", handler.ResetPassword)
	return r
}

func postJSON(t *testing.T, router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateResetTokenHandler_MissingToken(t *testing.T) {
	router := newTestHandlerRouter(&fakeUserStore{}, &fakeEmailService{})

	rec := postJSON(t, router, "/auth/validate-reset-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/auth/validate-reset-token", `{"token":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateResetTokenHandler_InvalidOrExpired(t *testing.T) {
	// Unknown and expired tokens produce identical responses
	expired := validUser("expired", time.Now().Add(-time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"expired": expired}}
	router := newTestHandlerRouter(store, &fakeEmailService{})

	unknownRec := postJSON(t, router, "/auth/validate-reset-token", `{"token":"ghost"}`)
	expiredRec := postJSON(t, router, "/auth/validate-reset-token", `{"token":"expired"}`)

	assert.Equal(t, http.StatusNotFound, unknownRec.Code)
	assert.Equal(t, http.StatusNotFound, expiredRec.Code)
	assert.Equal(t, unknownRec.Body.String(), expiredRec.Body.String())
}

func TestValidateResetTokenHandler_Success(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	router := newTestHandlerRouter(store, &fakeEmailService{})

	rec := postJSON(t, router, "/auth/validate-reset-token", `{"token":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		User    json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	// The projection is exactly {id, username, email, phone}
	var fields map[string]any
	require.NoError(t, json.Unmarshal(body.User, &fields))
	assert.Len(t, fields, 4)
	assert.Equal(t, "alice", fields["username"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "abc", "token must not echo back")
}

func TestValidateResetTokenHandler_BadBody(t *testing.T) {
	router := newTestHandlerRouter(&fakeUserStore{}, &fakeEmailService{})

	rec := postJSON(t, router, "/auth/validate-reset-token", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPasswordHandler_AlwaysSucceeds(t *testing.T) {
	// Redis is unreachable: the limiter fails open and the generic
	// response still goes out, for both known and unknown accounts.
	u := validUser("", time.Time{})
	store := &fakeUserStore{
		byEmail: map[string]*user.User{"alice@example.com": u},
		byToken: map[string]*user.User{},
	}
	router := newTestHandlerRouter(store, &fakeEmailService{})

	knownRec := postJSON(t, router, "/auth/forgot-password", `{"email":"alice@example.com"}`)
	unknownRec := postJSON(t, router, "/auth/forgot-password", `{"email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusOK, knownRec.Code)
	assert.Equal(t, http.StatusOK, unknownRec.Code)
	assert.Equal(t, knownRec.Body.String(), unknownRec.Body.String())
}

func TestForgotPasswordHandler_MissingEmail(t *testing.T) {
	router := newTestHandlerRouter(&fakeUserStore{}, &fakeEmailService{})

	rec := postJSON(t, router, "/auth/forgot-password", `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordHandler(t *testing.T) {
	u := validUser("abc", time.Now().Add(time.Hour))
	store := &fakeUserStore{byToken: map[string]*user.User{"abc": u}}
	router := newTestHandlerRouter(store, &fakeEmailService{})

	rec := postJSON(t, router, "/auth/reset-password", `{"token":"ghost","newPassword":"longenough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/auth/reset-password", `{"token":"abc","newPassword":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/auth/reset-password", `{"token":"abc","newPassword":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), store.updatedUserID)
}
