package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/middleware"
	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/service"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

// HistoryHandler serves conversation history to the dashboard.
type HistoryHandler struct {
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(conversations *service.ConversationService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{conversations: conversations, logger: log}
}

// History handles POST /api/v1/conversations/history
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.HistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An authenticated tenant always scopes the read.
	tenantID := req.UserID
	if authTenant := middleware.GetTenantID(ctx); authTenant != "" {
		tenantID = authTenant
	}

	records, err := h.conversations.History(ctx, model.HistoryQuery{
		ConversationID: req.ConversationID,
		TenantID:       tenantID,
		Limit:          req.Limit,
	})
	if errors.Is(err, service.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to read conversation history",
			zap.String("conversation_id", req.ConversationID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, &model.ErrorResponse{
			Error:   "internal server error",
			Message: "failed to read conversation history",
		})
		return
	}

	writeJSON(w, http.StatusOK, &model.HistoryResponse{Messages: records})
}
