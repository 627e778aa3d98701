package model

import (
	"time"
)

// DefaultHistoryLimit bounds history reads when the caller gives no limit.
const DefaultHistoryLimit = 10

// MaxHistoryLimit caps caller-supplied history limits.
const MaxHistoryLimit = 100

// ConversationRecord is one persisted message/response pair.
type ConversationRecord struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	VisitorID      string    `json:"visitor_id,omitempty"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	Channel        Channel   `json:"channel"`
	Source         Source    `json:"source,omitempty"`
	Intent         string    `json:"intent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryQuery selects records of one conversation.
type HistoryQuery struct {
	ConversationID string
	// TenantID is optional; empty matches any tenant.
	TenantID string
	Limit    int
	// Latest keeps the newest Limit records instead of the oldest.
	// Results stay in ascending order either way.
	Latest bool
}

// Normalize applies the default and maximum limit.
func (q HistoryQuery) Normalize() HistoryQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	return q
}

// Turns converts records into prior turns for the generative service.
func Turns(records []ConversationRecord) []Turn {
	turns := make([]Turn, 0, len(records))
	for _, r := range records {
		turns = append(turns, Turn{Message: r.Message, Response: r.Response})
	}
	return turns
}

// Lead is a WhatsApp contact known to a tenant.
type Lead struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"user_id"`
	Phone          string    `json:"phone"`
	Name           string    `json:"name,omitempty"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
