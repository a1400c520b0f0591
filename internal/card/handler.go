package card

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/catait/catait-api/internal/httputil"
	"github.com/catait/catait-api/internal/logging"
)

// CardService defines the business surface the handler needs
type CardService interface {
	GetCard(ctx context.Context, id int64) (*Detail, error)
	ListCards(ctx context.Context) ([]*Summary, error)
}

// Handler contains HTTP handlers for the card catalog
type Handler struct {
	service       CardService
	isDevelopment bool
}

func NewHandler(service CardService, isDevelopment bool) *Handler {
	return &Handler{
		service:       service,
		isDevelopment: isDevelopment,
	}
}

// WorkflowConfigDetails is the details payload for incomplete cards
type WorkflowConfigDetails struct {
	HasWorkflowID bool `json:"hasWorkflowId"`
	HasAPIToken   bool `json:"hasApiToken"`
}

// GetCard handles card detail lookup
// @Summary      Get a feature card
// @Description  Returns the workflow projection for an enabled, fully configured card
// @Tags         cards
// @Produce      json
// @Param        cardId path int true "Card ID"
// @Success      200 {object} httputil.SuccessResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid ID or incomplete workflow configuration"
// @Failure      404 {object} httputil.ErrorResponse "Card absent or disabled"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /cards/{cardId} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// Malformed IDs fail before any store access
	rawID := chi.URLParam(r, "cardId")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("card lookup failed: invalid card id", "card_id", rawID)
		httputil.RespondErrorWithCode(w, "invalid card id", httputil.CodeInvalidCardID, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"card_id": id})

	detail, err := h.service.GetCard(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Warn("card lookup failed: not found or disabled")
			httputil.RespondErrorWithCode(w, "card not found", httputil.CodeCardNotFound, http.StatusNotFound)
			return
		}
		if wce, ok := AsWorkflowConfigError(err); ok {
			logger.Warn("card lookup failed: workflow configuration incomplete",
				"has_workflow_id", wce.HasWorkflowID,
				"has_api_token", wce.HasAPIToken,
			)
			httputil.RespondErrorDetails(w, "workflow configuration incomplete", httputil.CodeWorkflowIncomplete,
				WorkflowConfigDetails{
					HasWorkflowID: wce.HasWorkflowID,
					HasAPIToken:   wce.HasAPIToken,
				}, http.StatusBadRequest)
			return
		}
		logger.Error("card lookup failed: store error", "error", err.Error())
		h.respondStoreError(w, err)
		return
	}

	logger.Info("card resolved", "workflow_id", detail.WorkflowID)

	httputil.RespondData(w, detail)
}

// ListCards handles catalog listing
// @Summary      List feature cards
// @Description  Returns all enabled cards ordered by sort order, without workflow credentials
// @Tags         cards
// @Produce      json
// @Success      200 {object} httputil.SuccessResponse
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	summaries, err := h.service.ListCards(r.Context())
	if err != nil {
		logger.Error("card listing failed: store error", "error", err.Error())
		h.respondStoreError(w, err)
		return
	}

	httputil.RespondData(w, summaries)
}

// respondStoreError hides internal error detail unless running in dev mode
func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	message := "internal server error"
	if h.isDevelopment {
		message = err.Error()
	}
	httputil.RespondErrorWithCode(w, message, httputil.CodeInternalError, http.StatusInternalServerError)
}
