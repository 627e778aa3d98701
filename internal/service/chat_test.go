package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/capitalize-ai/realty-chat/internal/agency"
	"github.com/capitalize-ai/realty-chat/internal/intent"
	"github.com/capitalize-ai/realty-chat/internal/llm"
	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store/memory"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

type countingGenerator struct {
	mu    sync.Mutex
	calls int
	last  *llm.GenerationRequest
	reply string
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &llm.CompletionResponse{Content: g.reply}, nil
}

type stubRetriever struct {
	calls  int
	result model.KnowledgeResult
}

func (r *stubRetriever) Retrieve(ctx context.Context, text, tenantID string) model.KnowledgeResult {
	r.calls++
	return r.result
}

type captureRecorder struct {
	records []model.ConversationRecord
}

func (c *captureRecorder) Record(ctx context.Context, rec model.ConversationRecord) {
	c.records = append(c.records, rec)
}

type fixture struct {
	svc       *ChatService
	generator *countingGenerator
	retriever *stubRetriever
	recorder  *captureRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		generator: &countingGenerator{reply: "Happy to help!"},
		retriever: &stubRetriever{},
		recorder:  &captureRecorder{},
	}
	f.svc = NewChatService(
		intent.NewClassifier(nil),
		agency.NewDetector(nil),
		f.retriever,
		f.generator,
		f.recorder,
		time.Second,
		logger.NewNop(),
	)
	return f
}

func TestRespondGreetingIsGenerated(t *testing.T) {
	f := newFixture(t)

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi there", TenantID: "t1"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if reply.Intent.Label != model.IntentGreeting || reply.Intent.Confidence != 0.8 {
		t.Fatalf("expected greeting/0.8, got %s/%v", reply.Intent.Label, reply.Intent.Confidence)
	}
	if reply.Source != model.SourceGenerated || reply.Response != "Happy to help!" {
		t.Fatalf("expected generated reply, got %+v", reply)
	}
	if f.retriever.calls != 0 {
		t.Fatalf("retrieval must be skipped for non-agency questions, got %d calls", f.retriever.calls)
	}
	if reply.ConversationID == "" {
		t.Fatal("expected a generated conversation id")
	}
}

func TestRespondAgencyWithoutKnowledgeFallsBack(t *testing.T) {
	f := newFixture(t)

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "What is your company name?", TenantID: "t1"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	want := "I don't have that information about our agency at the moment. Please contact our office directly for the most accurate information."
	if reply.Response != want {
		t.Fatalf("unexpected fallback text: %q", reply.Response)
	}
	if reply.Source != model.SourceFallback || reply.Decision.Mode != model.DecisionFallback {
		t.Fatalf("expected fallback source and decision, got %+v", reply)
	}
	if f.generator.calls != 0 {
		t.Fatalf("generative service must not be called, got %d calls", f.generator.calls)
	}
	if f.retriever.calls != 1 {
		t.Fatalf("expected one retrieval attempt, got %d", f.retriever.calls)
	}
}

func TestRespondAgencyWithKnowledgeIsGrounded(t *testing.T) {
	f := newFixture(t)
	f.retriever.result = model.KnowledgeResult{
		QAMatches: []model.KnowledgeMatch{
			{Source: model.KnowledgeQAPair, Score: 1, Content: "Q: name?\nA: Acme Realty"},
		},
		FileMatches: []model.KnowledgeMatch{
			{Source: model.KnowledgeFileExcerpt, Score: 0.5, Content: "Acme Realty, est. 1999"},
		},
	}

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "What is your company name?", TenantID: "t1"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if reply.Source != model.SourceGenerated {
		t.Fatalf("expected generated source, got %s", reply.Source)
	}
	if f.generator.calls != 1 {
		t.Fatalf("expected one generation call, got %d", f.generator.calls)
	}
	if len(f.generator.last.Knowledge) != 2 || !f.generator.last.AgencyQuestion {
		t.Fatalf("expected matches attached as context, got %+v", f.generator.last)
	}
}

func TestRespondNonAgencyIgnoresRetrieval(t *testing.T) {
	f := newFixture(t)
	f.retriever.result = model.KnowledgeResult{
		QAMatches: []model.KnowledgeMatch{{Source: model.KnowledgeQAPair, Content: "x"}},
	}

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{
		Text:       "3 bedroom house near downtown under $500k",
		TenantID:   "t1",
		PriorTurns: []model.Turn{{Message: "hello", Response: "hi!"}},
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if reply.Source != model.SourceGenerated || f.retriever.calls != 0 {
		t.Fatalf("expected generation without retrieval, source=%s calls=%d", reply.Source, f.retriever.calls)
	}
	if reply.Intent.Label != model.IntentPropertyInquiry {
		t.Fatalf("expected property_inquiry, got %s", reply.Intent.Label)
	}
	if len(f.generator.last.PriorTurns) != 1 || len(f.generator.last.Knowledge) != 0 {
		t.Fatalf("expected prior turns and no knowledge, got %+v", f.generator.last)
	}
}

func TestRespondSuppliedFlagOverridesDetection(t *testing.T) {
	f := newFixture(t)
	no := false

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{
		Text:       "What is your company name?",
		TenantID:   "t1",
		AgencyFlag: &no,
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Source != model.SourceGenerated || f.retriever.calls != 0 {
		t.Fatalf("expected supplied flag to skip agency gating, got %+v", reply)
	}
}

func TestRespondGenerationFailureApologises(t *testing.T) {
	f := newFixture(t)
	upstream := errors.New("502 bad gateway")
	f.generator.err = upstream

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi there", TenantID: "t1", ConversationID: "c1"})
	if err != nil {
		t.Fatalf("generation failures must not surface as errors: %v", err)
	}

	if reply.Source != model.SourceError || reply.Response != ApologyReply {
		t.Fatalf("expected apology reply, got %+v", reply)
	}
	var upErr *UpstreamError
	if !errors.As(reply.Err, &upErr) || upErr.Upstream != UpstreamGeneration || !errors.Is(reply.Err, upstream) {
		t.Fatalf("expected generation upstream error for diagnostics, got %v", reply.Err)
	}
	if f.generator.calls != 1 {
		t.Fatalf("generation must not be retried, got %d calls", f.generator.calls)
	}
	if len(f.recorder.records) != 1 || f.recorder.records[0].Source != model.SourceError {
		t.Fatalf("expected the failed exchange to be recorded, got %+v", f.recorder.records)
	}
}

func TestRespondGenerationTimeoutApologises(t *testing.T) {
	f := newFixture(t)
	f.svc.generationTimeout = 10 * time.Millisecond
	f.svc.generator = GeneratorFunc(func(ctx context.Context, req *llm.GenerationRequest) (*llm.CompletionResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi", TenantID: "t1"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply.Source != model.SourceError || !errors.Is(reply.Err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout to produce an error reply, got %+v", reply)
	}
}

func TestRespondInvalidRequest(t *testing.T) {
	f := newFixture(t)

	tests := []*model.InboundMessage{
		{Text: "", TenantID: "t1"},
		{Text: "   ", TenantID: "t1"},
		{Text: "hello", TenantID: ""},
		{Text: "hello", TenantID: "t1", Channel: "sms"},
	}

	for _, in := range tests {
		if _, err := f.svc.Respond(context.Background(), in); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Respond(%+v) = %v, want ErrInvalidRequest", in, err)
		}
	}
	if len(f.recorder.records) != 0 || f.generator.calls != 0 {
		t.Fatal("invalid requests must not enter further states")
	}
}

func TestRespondRecordsEveryReply(t *testing.T) {
	f := newFixture(t)

	first, _ := f.svc.Respond(context.Background(), &model.InboundMessage{
		Text: "Hi there", TenantID: "t1", VisitorID: "v1", Channel: model.ChannelWhatsApp,
	})
	second, _ := f.svc.Respond(context.Background(), &model.InboundMessage{
		Text: "Who are you?", TenantID: "t1", ConversationID: first.ConversationID,
	})

	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation id must be stable, got %q then %q", first.ConversationID, second.ConversationID)
	}
	if len(f.recorder.records) != 2 {
		t.Fatalf("expected one record per reply, got %d", len(f.recorder.records))
	}

	rec := f.recorder.records[0]
	if rec.TenantID != "t1" || rec.VisitorID != "v1" || rec.Channel != model.ChannelWhatsApp ||
		rec.Message != "Hi there" || rec.Response != first.Response || rec.Intent != string(model.IntentGreeting) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if f.recorder.records[1].Source != model.SourceFallback {
		t.Fatalf("expected fallback record, got %+v", f.recorder.records[1])
	}
}

func TestRespondGeneratesDistinctConversationIDs(t *testing.T) {
	f := newFixture(t)

	a, _ := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi", TenantID: "t1"})
	b, _ := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi", TenantID: "t1"})
	if a.ConversationID == b.ConversationID {
		t.Fatal("expected distinct conversation ids for new sessions")
	}
}

type failingLog struct{ calls int }

func (f *failingLog) Append(ctx context.Context, rec *model.ConversationRecord) error {
	f.calls++
	return errors.New("database is down")
}

func (f *failingLog) History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error) {
	return nil, errors.New("database is down")
}

func TestRespondPersistenceFailureDoesNotAlterReply(t *testing.T) {
	f := newFixture(t)
	log := &failingLog{}
	rec := NewRecorder(log, time.Second, logger.NewNop())
	f.svc.recorder = rec

	reply, err := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi there", TenantID: "t1"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if err := rec.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if reply.Source != model.SourceGenerated || reply.Response != "Happy to help!" {
		t.Fatalf("persistence failure altered the reply: %+v", reply)
	}
	if log.calls != 1 {
		t.Fatalf("expected one recording attempt, got %d", log.calls)
	}
}

func TestRespondWithMemoryStoreEndToEnd(t *testing.T) {
	s := memory.New()
	rec := NewRecorder(s, time.Second, logger.NewNop())
	f := newFixture(t)
	f.svc.recorder = rec

	reply, _ := f.svc.Respond(context.Background(), &model.InboundMessage{Text: "Hi there", TenantID: "t1"})
	if err := rec.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	records, err := s.History(context.Background(), model.HistoryQuery{ConversationID: reply.ConversationID})
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one persisted record, got %v %v", records, err)
	}
}
