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

// WhatsAppHandler is the WhatsApp webhook channel adapter. Each sender is
// tracked as a lead whose conversation id spans the whole chat.
type WhatsAppHandler struct {
	chat          *service.ChatService
	conversations *service.ConversationService
	defaultTenant string
	logger        *logger.Logger
}

// NewWhatsAppHandler creates a new WhatsApp handler. defaultTenant answers
// webhooks that do not name a tenant.
func NewWhatsAppHandler(
	chat *service.ChatService,
	conversations *service.ConversationService,
	defaultTenant string,
	log *logger.Logger,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		chat:          chat,
		conversations: conversations,
		defaultTenant: defaultTenant,
		logger:        log,
	}
}

// Webhook handles POST /api/v1/whatsapp/webhook
func (h *WhatsAppHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.WhatsAppWebhookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := req.Text()
	if err := middleware.ValidateMessageContent(text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	phone, err := middleware.NormalizePhone(req.Sender())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenantID := req.Tenant()
	if tenantID == "" {
		tenantID = h.defaultTenant
	}
	if err := middleware.ValidateTenantID(tenantID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead, err := h.conversations.UpsertLead(ctx, tenantID, phone, req.Name)
	if err != nil {
		h.logger.Error("failed to upsert whatsapp lead",
			zap.String("tenant_id", tenantID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeInternalError(w, "failed to process message")
		return
	}

	visitor := map[string]any{"phone": phone}
	if name := req.Name; name != "" {
		visitor["name"] = name
	} else if lead.Name != "" {
		visitor["name"] = lead.Name
	}

	reply, err := h.chat.Respond(ctx, &model.InboundMessage{
		Text:           text,
		TenantID:       tenantID,
		ConversationID: lead.ConversationID,
		VisitorID:      phone,
		Channel:        model.ChannelWhatsApp,
		VisitorContext: visitor,
		PriorTurns:     h.conversations.PriorTurns(ctx, tenantID, lead.ConversationID),
	})
	if errors.Is(err, service.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to answer whatsapp message",
			zap.String("tenant_id", tenantID),
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
		writeInternalError(w, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, &model.WhatsAppReply{
		To:             phone,
		Response:       reply.Response,
		ConversationID: reply.ConversationID,
		Source:         reply.Source,
		LeadID:         lead.ID,
	})
}
