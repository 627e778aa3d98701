// Package model defines data structures for the chat pipeline.
package model

// Channel is the entry point a message arrived through.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelWeb || c == ChannelWhatsApp
}

// Source tells which reply mode produced a response.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
	SourceError     Source = "error"
)

// Turn is one prior exchange in a conversation.
type Turn struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// InboundMessage is the channel-independent input to the orchestrator.
type InboundMessage struct {
	Text           string
	TenantID       string
	ConversationID string
	VisitorID      string
	Channel        Channel
	VisitorContext map[string]any
	PriorTurns     []Turn

	// AgencyFlag, when non-nil, is an upstream classification that
	// overrides keyword detection.
	AgencyFlag *bool
}

// Reply is what the orchestrator hands back to a channel adapter.
type Reply struct {
	Response       string           `json:"response"`
	ConversationID string           `json:"conversationId"`
	Source         Source           `json:"source"`
	Intent         ClassifiedIntent `json:"-"`
	Decision       Decision         `json:"-"`

	// Err holds the absorbed upstream failure behind an error reply, for
	// diagnostics only. It is never shown to the visitor.
	Err error `json:"-"`
}
