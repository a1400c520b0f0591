package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/catait/catait-api/internal/httputil"
	"github.com/catait/catait-api/internal/logging"
	"github.com/catait/catait-api/internal/ratelimit"
)

// Handler contains HTTP handlers for the password-reset endpoints
type Handler struct {
	service       *Service
	rateLimiter   *ratelimit.Limiter
	isDevelopment bool
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, isDevelopment bool) *Handler {
	return &Handler{
		service:       service,
		rateLimiter:   rateLimiter,
		isDevelopment: isDevelopment,
	}
}

// ValidateTokenRequest represents the token validation request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the password reset confirmation
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ValidateResetToken handles reset-token validation
// @Summary      Validate a password reset token
// @Description  Resolves a reset token to the sanitized account projection. Does not consume the token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ValidateTokenRequest true "Reset token"
// @Success      200 {object} httputil.SuccessResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing token"
// @Failure      404 {object} httputil.ErrorResponse "Token invalid or expired"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /auth/validate-reset-token [post]
func (h *Handler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ValidateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid validate-reset-token request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	summary, err := h.service.ValidateResetToken(r.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, ErrTokenRequired) {
			logger.Warn("token validation failed: token missing")
			httputil.RespondErrorWithCode(w, "reset token required", httputil.CodeTokenRequired, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrResetTokenInvalid) {
			// Uniform outcome for unknown and expired tokens
			logger.Warn("token validation failed: invalid or expired")
			httputil.RespondErrorWithCode(w, "invalid or expired reset token", httputil.CodeInvalidResetToken, http.StatusNotFound)
			return
		}
		logger.Error("token validation failed: store error", "error", err.Error())
		h.respondStoreError(w, err)
		return
	}

	logger.Info("reset token validated", "user_id", summary.ID)

	httputil.RespondUser(w, summary)
}

// ForgotPassword handles password reset requests
// @Summary      Request password reset
// @Description  Issues a reset token and emails a reset link. Always returns success to prevent email enumeration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		logger.Warn("forgot password failed: email missing")
		httputil.RespondErrorWithCode(w, "email is required", httputil.CodeEmailRequired, http.StatusBadRequest)
		return
	}

	ip := getClientIP(r)

	// Check IP rate limit
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip)
	if err != nil {
		// Continue despite limiter errors to avoid blocking legitimate requests
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return
	}

	// Check email cooldown
	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
	} else if onCooldown {
		logger.Warn("email on cooldown", "email", req.Email)
		httputil.RespondErrorWithCode(w, "please wait before requesting another reset", httputil.CodeCooldownActive, http.StatusTooManyRequests)
		return
	}

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}
	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	// Always succeeds towards the caller (prevent email enumeration)
	_ = h.service.RequestPasswordReset(r.Context(), req.Email)

	httputil.RespondJSON(w, map[string]string{
		"message": "If an account exists with that email, a password reset link has been sent.",
	}, http.StatusOK)
}

// ResetPassword handles password reset with token
// @Summary      Reset password
// @Description  Consumes a valid reset token and updates the account password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid request, token, or password"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	err := h.service.ResetPassword(r.Context(), strings.TrimSpace(req.Token), req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrTokenRequired) || errors.Is(err, ErrResetTokenInvalid) {
			logger.Warn("password reset failed: invalid or expired token")
			httputil.RespondErrorWithCode(w, "invalid or expired reset token", httputil.CodeInvalidResetToken, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrPasswordRequired) {
			logger.Warn("password reset failed: password missing")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrPasswordTooShort) {
			logger.Warn("password reset failed: password too short")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
			return
		}
		logger.Error("password reset failed: internal error", "error", err.Error())
		h.respondStoreError(w, err)
		return
	}

	logger.Info("password reset successfully")

	httputil.RespondJSON(w, map[string]string{
		"message": "Password reset successfully. You can now login with your new password.",
	}, http.StatusOK)
}

// respondStoreError hides internal error detail unless running in dev mode
func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	message := "internal server error"
	if h.isDevelopment {
		message = err.Error()
	}
	httputil.RespondErrorWithCode(w, message, httputil.CodeInternalError, http.StatusInternalServerError)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For first (behind proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr format is "IP:port", keep just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
