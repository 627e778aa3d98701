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

// ChatHandler is the web widget channel adapter.
type ChatHandler struct {
	chat          *service.ChatService
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService, conversations *service.ConversationService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:          chat,
		conversations: conversations,
		logger:        log,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenantID := req.Tenant()
	if err := middleware.ValidateTenantID(tenantID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ConversationID != "" {
		if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	turns := req.PreviousMessages
	if len(turns) == 0 && req.ConversationID != "" {
		turns = h.conversations.PriorTurns(ctx, tenantID, req.ConversationID)
	}

	reply, err := h.chat.Respond(ctx, &model.InboundMessage{
		Text:           req.Message,
		TenantID:       tenantID,
		ConversationID: req.ConversationID,
		VisitorID:      req.VisitorID,
		Channel:        model.ChannelWeb,
		VisitorContext: req.VisitorInfo,
		PriorTurns:     turns,
		AgencyFlag:     req.IsAgencyQuestion,
	})
	if errors.Is(err, service.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to answer chat message",
			zap.String("tenant_id", tenantID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeInternalError(w, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, &model.ChatResponse{
		Response:       reply.Response,
		ConversationID: reply.ConversationID,
		Source:         reply.Source,
	})
}
