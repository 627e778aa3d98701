// Package store defines the persistence contracts of the chat pipeline.
package store

import (
	"context"
	"errors"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ConversationLog is the append-only per-turn conversation log.
type ConversationLog interface {
	// Append writes one record. CreatedAt and ID are filled when empty.
	Append(ctx context.Context, rec *model.ConversationRecord) error

	// History returns records of one conversation in ascending CreatedAt
	// order, bounded by the query limit. With q.Latest the newest records
	// are kept.
	History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error)
}

// TrainingData holds tenant QA pairs and ingested document excerpts.
type TrainingData interface {
	// QAPairs returns candidate QA pairs containing any of the keywords.
	QAPairs(ctx context.Context, tenantID string, keywords []string) ([]QAPair, error)

	// FileExcerpts returns candidate excerpts containing any of the keywords.
	FileExcerpts(ctx context.Context, tenantID string, keywords []string) ([]FileExcerpt, error)
}

// Leads stores WhatsApp contacts by (tenant, phone).
type Leads interface {
	// UpsertLead returns the lead for (tenantID, phone), inserting candidate
	// when none exists. created reports whether candidate was inserted.
	UpsertLead(ctx context.Context, candidate *model.Lead) (lead *model.Lead, created bool, err error)
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// QAPair is one question/answer training entry.
type QAPair struct {
	ID       string
	TenantID string
	Question string
	Answer   string
}

// FileExcerpt is one chunk of an ingested document.
type FileExcerpt struct {
	ID       string
	TenantID string
	FileName string
	Content  string
}
