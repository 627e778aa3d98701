package handler

import (
	"net/http"

	"github.com/capitalize-ai/realty-chat/internal/middleware"
	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/service"
)

// IntentHandler exposes the classifier for external callers.
type IntentHandler struct {
	chat *service.ChatService
}

// NewIntentHandler creates a new intent handler.
func NewIntentHandler(chat *service.ChatService) *IntentHandler {
	return &IntentHandler{chat: chat}
}

// Analyze handles POST /api/v1/intent
func (h *IntentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.IntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.chat.Classify(req.Message)

	debug := map[string]any{
		"normalized":         res.Normalized,
		"is_agency_question": h.chat.IsAgencyQuestion(req.Message),
		"previous_messages":  len(req.PreviousMessages),
	}
	if res.MatchedPattern != "" {
		debug["matched_pattern"] = res.MatchedPattern
	}

	writeJSON(w, http.StatusOK, &model.IntentResponse{
		Intent:     res.Label,
		Confidence: res.Confidence,
		Entities:   res.Entities,
		DebugInfo:  debug,
	})
}
