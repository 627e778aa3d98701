package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
	"github.com/capitalize-ai/realty-chat/pkg/metrics"
)

// ConversationService reads conversation history and manages WhatsApp leads.
type ConversationService struct {
	log    store.ConversationLog
	leads  store.Leads
	logger *logger.Logger

	newID func() string
}

// NewConversationService creates a new conversation service.
func NewConversationService(log store.ConversationLog, leads store.Leads, lg *logger.Logger) *ConversationService {
	return &ConversationService{
		log:    log,
		leads:  leads,
		logger: lg,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// History returns the records of one conversation, oldest first.
func (s *ConversationService) History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error) {
	if strings.TrimSpace(q.ConversationID) == "" {
		return nil, invalidf("conversationId is required")
	}

	records, err := s.log.History(ctx, q.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation history: %w", err)
	}
	if records == nil {
		records = []model.ConversationRecord{}
	}
	return records, nil
}

// PriorTurns loads earlier turns to give the generative service context.
// Failures are logged and yield no turns.
func (s *ConversationService) PriorTurns(ctx context.Context, tenantID, conversationID string) []model.Turn {
	records, err := s.log.History(ctx, model.HistoryQuery{
		ConversationID: conversationID,
		TenantID:       tenantID,
		Latest:         true,
	}.Normalize())
	if err != nil {
		s.logger.Warn("failed to load prior turns",
			zap.String("tenant_id", tenantID),
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil
	}
	return model.Turns(records)
}

// UpsertLead finds the lead for (tenantID, phone) or creates one with a
// fresh conversation id. The lead's conversation id is the WhatsApp session.
func (s *ConversationService) UpsertLead(ctx context.Context, tenantID, phone, name string) (*model.Lead, error) {
	lead, created, err := s.leads.UpsertLead(ctx, &model.Lead{
		ID:             s.newID(),
		TenantID:       tenantID,
		Phone:          phone,
		Name:           name,
		ConversationID: s.newID(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert lead: %w", err)
	}

	outcome := "existing"
	if created {
		outcome = "created"
		s.logger.Info("whatsapp lead created",
			zap.String("tenant_id", tenantID),
			zap.String("lead_id", lead.ID),
		)
	}
	metrics.LeadsTotal.WithLabelValues(outcome).Inc()

	return lead, nil
}
