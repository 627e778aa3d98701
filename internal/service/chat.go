package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/agency"
	"github.com/capitalize-ai/realty-chat/internal/intent"
	"github.com/capitalize-ai/realty-chat/internal/llm"
	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
	"github.com/capitalize-ai/realty-chat/pkg/metrics"
	"github.com/capitalize-ai/realty-chat/pkg/tracing"
)

// Fixed replies for the two designed non-generated modes.
const (
	FallbackReply = "I don't have that information about our agency at the moment. Please contact our office directly for the most accurate information."
	ApologyReply  = "I'm sorry, I'm having trouble answering right now. Please try again in a moment or contact our office directly."
)

// Generator is the generative answer service.
type Generator interface {
	Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error)

func (f GeneratorFunc) Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error) {
	return f(ctx, req)
}

// KnowledgeRetriever returns training data matches; it never fails.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, text, tenantID string) model.KnowledgeResult
}

// TurnRecorder persists a turn without blocking or failing the caller.
type TurnRecorder interface {
	Record(ctx context.Context, rec model.ConversationRecord)
}

// ChatService turns one inbound message into a reply. Agency questions
// are only answered by the generative service when tenant knowledge
// exists; everything else goes straight to generation.
type ChatService struct {
	classifier        *intent.Classifier
	detector          *agency.Detector
	retriever         KnowledgeRetriever
	generator         Generator
	recorder          TurnRecorder
	generationTimeout time.Duration
	logger            *logger.Logger

	newID func() string
}

// NewChatService creates a new chat service.
func NewChatService(
	classifier *intent.Classifier,
	detector *agency.Detector,
	retriever KnowledgeRetriever,
	generator Generator,
	recorder TurnRecorder,
	generationTimeout time.Duration,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		classifier:        classifier,
		detector:          detector,
		retriever:         retriever,
		generator:         generator,
		recorder:          recorder,
		generationTimeout: generationTimeout,
		logger:            log,
		newID:             func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Respond runs the pipeline for in. The only error it returns wraps
// ErrInvalidRequest; upstream failures become fallback or apology replies.
func (s *ChatService) Respond(ctx context.Context, in *model.InboundMessage) (*model.Reply, error) {
	ctx, span := tracing.Tracer().Start(ctx, "chat.Respond")
	defer span.End()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalidf("message is required")
	}
	if in.TenantID == "" {
		return nil, invalidf("tenant id is required")
	}

	channel := in.Channel
	if channel == "" {
		channel = model.ChannelWeb
	}
	if !channel.Valid() {
		return nil, invalidf("unknown channel %q", channel)
	}

	conversationID := in.ConversationID
	if conversationID == "" {
		conversationID = s.newID()
	}

	log := s.logger.WithConversation(in.TenantID, conversationID)

	classified := s.classifier.Classify(text)
	metrics.IntentsTotal.WithLabelValues(string(classified.Label)).Inc()

	isAgency := s.detector.IsAgencyQuestion(text, in.AgencyFlag)

	span.SetAttributes(
		attribute.String("chat.tenant_id", in.TenantID),
		attribute.String("chat.channel", string(channel)),
		attribute.String("chat.intent", string(classified.Label)),
		attribute.Bool("chat.agency_question", isAgency),
	)

	reply := &model.Reply{
		ConversationID: conversationID,
		Intent:         classified,
	}

	var knowledge []model.KnowledgeMatch
	if isAgency {
		res := s.retriever.Retrieve(ctx, text, in.TenantID)
		if res.Empty() {
			reply.Decision = model.Decision{
				Mode:      model.DecisionFallback,
				Reasoning: "agency question without tenant knowledge",
			}
		} else {
			knowledge = res.All()
			reply.Decision = model.Decision{
				Mode:      model.DecisionGenerate,
				Reasoning: "agency question grounded by tenant knowledge",
			}
		}
	} else {
		reply.Decision = model.Decision{
			Mode:      model.DecisionGenerate,
			Reasoning: "not an agency question",
		}
	}

	switch reply.Decision.Mode {
	case model.DecisionFallback:
		reply.Response = FallbackReply
		reply.Source = model.SourceFallback
	default:
		resp, err := s.generate(ctx, &llm.GenerationRequest{
			TenantID:       in.TenantID,
			ConversationID: conversationID,
			Channel:        channel,
			Message:        text,
			Intent:         classified,
			PriorTurns:     in.PriorTurns,
			Knowledge:      knowledge,
			VisitorContext: in.VisitorContext,
			AgencyQuestion: isAgency,
		})
		if err != nil {
			upErr := &UpstreamError{Upstream: UpstreamGeneration, Err: err}
			span.RecordError(upErr)
			span.SetStatus(codes.Error, "generation failed")
			metrics.RecordUpstreamFailure(UpstreamGeneration)
			log.Error("generative service failed, replying with apology",
				zap.String("message", text),
				zap.String("upstream", UpstreamGeneration),
				zap.Error(err),
			)
			reply.Response = ApologyReply
			reply.Source = model.SourceError
			reply.Err = upErr
		} else {
			reply.Response = resp.Content
			reply.Source = model.SourceGenerated
		}
	}

	s.recorder.Record(ctx, model.ConversationRecord{
		TenantID:       in.TenantID,
		ConversationID: conversationID,
		VisitorID:      in.VisitorID,
		Message:        text,
		Response:       reply.Response,
		Channel:        channel,
		Source:         reply.Source,
		Intent:         string(classified.Label),
	})

	metrics.RecordReply(string(channel), string(reply.Source))
	log.Info("chat turn answered",
		zap.String("intent", string(classified.Label)),
		zap.Bool("agency_question", isAgency),
		zap.String("decision", string(reply.Decision.Mode)),
		zap.String("reasoning", reply.Decision.Reasoning),
		zap.String("source", string(reply.Source)),
	)

	return reply, nil
}

func (s *ChatService) generate(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "chat.Generate")
	defer span.End()

	if s.generationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.generationTimeout)
		defer cancel()
	}

	span.SetAttributes(attribute.Int("chat.knowledge_matches", len(req.Knowledge)))
	return s.generator.Generate(ctx, req)
}

// Classify exposes the classifier for the intent analysis endpoint.
func (s *ChatService) Classify(text string) intent.Result {
	return s.classifier.Analyze(text)
}

// IsAgencyQuestion exposes the detector for the intent analysis endpoint.
func (s *ChatService) IsAgencyQuestion(text string) bool {
	return s.detector.IsAgencyQuestion(text, nil)
}
