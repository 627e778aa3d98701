package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/pkg/metrics"
)

// ErrEmptyCompletion is returned when the provider answered with no text.
var ErrEmptyCompletion = errors.New("empty completion")

const systemPrompt = `You are the virtual assistant of a real-estate agency, answering visitors on the agency website and on WhatsApp.
Answer in the visitor's language, briefly and helpfully.
The JSON context below describes the conversation. When "knowledge" is present, treat it as the only verified source of facts about the agency and do not state agency facts that are not in it.`

// GenerationRequest is one chat turn handed to the generative service.
type GenerationRequest struct {
	TenantID       string
	ConversationID string
	Channel        model.Channel
	Message        string
	Intent         model.ClassifiedIntent
	PriorTurns     []model.Turn
	Knowledge      []model.KnowledgeMatch
	VisitorContext map[string]any
	AgencyQuestion bool
}

// groundingContext is the structured payload serialized into the prompt.
type groundingContext struct {
	TenantID       string                 `json:"tenant_id"`
	Channel        model.Channel          `json:"channel"`
	Intent         model.ClassifiedIntent `json:"intent"`
	AgencyQuestion bool                   `json:"agency_question"`
	Knowledge      []model.KnowledgeMatch `json:"knowledge,omitempty"`
	Visitor        map[string]any         `json:"visitor,omitempty"`
}

// Responder produces replies through an LLM client.
type Responder struct {
	client    Client
	model     string
	maxTokens int
}

// NewResponder creates a responder. A nil client makes every call fail
// with ErrNoProvider.
func NewResponder(client Client, model string, maxTokens int) *Responder {
	return &Responder{client: client, model: model, maxTokens: maxTokens}
}

// Generate asks the provider for a reply to req.
func (r *Responder) Generate(ctx context.Context, req *GenerationRequest) (*CompletionResponse, error) {
	if r.client == nil {
		return nil, ErrNoProvider
	}

	completion, err := BuildCompletion(req)
	if err != nil {
		return nil, err
	}
	completion.Model = r.model
	completion.MaxTokens = r.maxTokens

	start := time.Now()
	resp, err := r.client.Complete(ctx, completion)
	if err != nil {
		metrics.RecordLLMCall(r.modelLabel(), "error", time.Since(start).Seconds(), 0, 0)
		return nil, fmt.Errorf("%s completion failed: %w", r.client.Name(), err)
	}
	metrics.RecordLLMCall(r.modelLabel(), "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	resp.Content = strings.TrimSpace(resp.Content)
	if resp.Content == "" {
		return nil, ErrEmptyCompletion
	}
	return resp, nil
}

func (r *Responder) modelLabel() string {
	if r.model != "" {
		return r.model
	}
	return r.client.Name()
}

// BuildCompletion renders req as a completion request: the grounding
// context in the system prompt, prior turns, then the new message.
func BuildCompletion(req *GenerationRequest) (*CompletionRequest, error) {
	payload, err := json.MarshalIndent(groundingContext{
		TenantID:       req.TenantID,
		Channel:        req.Channel,
		Intent:         req.Intent,
		AgencyQuestion: req.AgencyQuestion,
		Knowledge:      req.Knowledge,
		Visitor:        req.VisitorContext,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grounding context: %w", err)
	}

	messages := make([]ChatMessage, 0, 2*len(req.PriorTurns)+1)
	for _, t := range req.PriorTurns {
		if t.Message != "" {
			messages = append(messages, ChatMessage{Role: RoleUser, Content: t.Message})
		}
		if t.Response != "" {
			messages = append(messages, ChatMessage{Role: RoleAssistant, Content: t.Response})
		}
	}
	messages = append(messages, ChatMessage{Role: RoleUser, Content: req.Message})

	return &CompletionRequest{
		System:   systemPrompt + "\n\nContext:\n" + string(payload),
		Messages: messages,
	}, nil
}
