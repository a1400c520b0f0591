package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Error codes returned in the machine-readable "code" field
const (
	CodeInvalidCardID      = "INVALID_CARD_ID"
	CodeCardNotFound       = "CARD_NOT_FOUND"
	CodeWorkflowIncomplete = "WORKFLOW_CONFIG_INCOMPLETE"
	CodeTokenRequired      = "RESET_TOKEN_REQUIRED"
	CodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse wraps payloads in the envelope the frontend expects
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	User    any  `json:"user,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondData sends a 200 success envelope with a data payload
func RespondData(w http.ResponseWriter, data any) {
	RespondJSON(w, SuccessResponse{Success: true, Data: data}, http.StatusOK)
}

// RespondUser sends a 200 success envelope with a user payload
func RespondUser(w http.ResponseWriter, user any) {
	RespondJSON(w, SuccessResponse{Success: true, User: user}, http.StatusOK)
}

// RespondError sends a JSON error response with the given message and status code.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondErrorDetails sends an error response with a structured details object,
// used for diagnostics like the workflow-configuration check.
func RespondErrorDetails(w http.ResponseWriter, message string, code string, details any, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code, Details: details}, statusCode)
}
