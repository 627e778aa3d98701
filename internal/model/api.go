package model

// ChatRequest is the web widget chat payload.
type ChatRequest struct {
	Message          string         `json:"message"`
	TenantID         string         `json:"tenantId,omitempty"`
	UserID           string         `json:"userId,omitempty"`
	ConversationID   string         `json:"conversationId,omitempty"`
	VisitorID        string         `json:"visitorId,omitempty"`
	VisitorInfo      map[string]any `json:"visitorInfo,omitempty"`
	PreviousMessages []Turn         `json:"previousMessages,omitempty"`
	IsAgencyQuestion *bool          `json:"isAgencyQuestion,omitempty"`
}

// Tenant returns the tenant identifier; tenantId wins over userId.
func (r *ChatRequest) Tenant() string {
	if r.TenantID != "" {
		return r.TenantID
	}
	return r.UserID
}

// ChatResponse is the successful chat reply body.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Source         Source `json:"source"`
}

// ErrorResponse is the error body shared by all endpoints. Response carries
// a visitor-safe apology on hard failures.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
}

// WhatsAppWebhookRequest is the inbound WhatsApp webhook payload.
type WhatsAppWebhookRequest struct {
	Phone    string `json:"phone"`
	From     string `json:"from,omitempty"`
	Message  string `json:"message"`
	Body     string `json:"body,omitempty"`
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// Sender returns the phone number, accepting either phone or from.
func (r *WhatsAppWebhookRequest) Sender() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.From
}

// Text returns the message text, accepting either message or body.
func (r *WhatsAppWebhookRequest) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Body
}

// Tenant returns the tenant identifier; tenantId wins over userId.
func (r *WhatsAppWebhookRequest) Tenant() string {
	if r.TenantID != "" {
		return r.TenantID
	}
	return r.UserID
}

// WhatsAppReply is the outbound WhatsApp webhook reply.
type WhatsAppReply struct {
	To             string `json:"to"`
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Source         Source `json:"source"`
	LeadID         string `json:"leadId"`
}

// IntentRequest is the intent analysis payload.
type IntentRequest struct {
	Message          string         `json:"message"`
	UserID           string         `json:"userId"`
	ConversationID   string         `json:"conversationId,omitempty"`
	PreviousMessages []Turn         `json:"previousMessages,omitempty"`
	VisitorInfo      map[string]any `json:"visitorInfo,omitempty"`
}

// IntentResponse is the intent analysis result.
type IntentResponse struct {
	Intent     IntentLabel    `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities,omitempty"`
	DebugInfo  map[string]any `json:"debug_info,omitempty"`
}

// SearchRequest is the knowledge search payload.
type SearchRequest struct {
	Query        string `json:"query"`
	UserID       string `json:"userId"`
	IncludeQA    *bool  `json:"includeQA,omitempty"`
	IncludeFiles *bool  `json:"includeFiles,omitempty"`
}

// HistoryRequest is the conversation history payload.
type HistoryRequest struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// HistoryResponse lists conversation records in ascending time order.
type HistoryResponse struct {
	Messages []ConversationRecord `json:"messages"`
}
