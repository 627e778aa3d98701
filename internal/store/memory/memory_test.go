package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

func TestHistoryAscendingAndScoped(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	// Appended out of order on purpose.
	for _, r := range []model.ConversationRecord{
		{TenantID: "t1", ConversationID: "c1", Message: "second", Response: "r2", CreatedAt: base.Add(2 * time.Second)},
		{TenantID: "t1", ConversationID: "c1", Message: "first", Response: "r1", CreatedAt: base.Add(time.Second)},
		{TenantID: "t1", ConversationID: "c2", Message: "other", Response: "rx", CreatedAt: base},
		{TenantID: "t2", ConversationID: "c1", Message: "foreign", Response: "ry", CreatedAt: base.Add(3 * time.Second)},
	} {
		r := r
		if err := s.Append(ctx, &r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := s.History(ctx, model.HistoryQuery{ConversationID: "c1", TenantID: "t1"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(got) != 2 || got[0].Message != "first" || got[1].Message != "second" {
		t.Fatalf("unexpected history: %+v", got)
	}

	all, _ := s.History(ctx, model.HistoryQuery{ConversationID: "c1"})
	if len(all) != 3 {
		t.Fatalf("expected 3 records without tenant filter, got %d", len(all))
	}

	limited, _ := s.History(ctx, model.HistoryQuery{ConversationID: "c1", Limit: 1})
	if len(limited) != 1 || limited[0].Message != "first" {
		t.Fatalf("expected first record only, got %+v", limited)
	}
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	s := New()
	rec := &model.ConversationRecord{TenantID: "t1", ConversationID: "c1"}

	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled, got %+v", rec)
	}
}

func TestTrainingDataKeywordFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AddQAPair("t1", "What are your office hours?", "9 to 5")
	s.AddQAPair("t2", "Office hours?", "never")
	s.AddFileExcerpt("t1", "about.pdf", "Our office is on Main Street")

	qa, err := s.QAPairs(ctx, "t1", []string{"office"})
	if err != nil || len(qa) != 1 || qa[0].Answer != "9 to 5" {
		t.Fatalf("unexpected qa pairs: %+v, err=%v", qa, err)
	}

	files, err := s.FileExcerpts(ctx, "t1", []string{"MAIN"})
	if err != nil || len(files) != 1 {
		t.Fatalf("unexpected excerpts: %+v, err=%v", files, err)
	}

	none, _ := s.QAPairs(ctx, "t1", []string{"pool"})
	if len(none) != 0 {
		t.Fatalf("expected no match, got %+v", none)
	}
}

func TestUpsertLead(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, created, err := s.UpsertLead(ctx, &model.Lead{TenantID: "t1", Phone: "+15550001", ConversationID: "conv-a"})
	if err != nil || !created {
		t.Fatalf("expected lead to be created, created=%v err=%v", created, err)
	}

	second, created, err := s.UpsertLead(ctx, &model.Lead{TenantID: "t1", Phone: "+15550001", ConversationID: "conv-b"})
	if err != nil || created {
		t.Fatalf("expected existing lead, created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.ConversationID != "conv-a" {
		t.Fatalf("expected stable lead and conversation, got %+v", second)
	}

	other, created, _ := s.UpsertLead(ctx, &model.Lead{TenantID: "t2", Phone: "+15550001", ConversationID: "conv-c"})
	if !created || other.ID == first.ID {
		t.Fatal("leads must be scoped by tenant")
	}
}

func TestHistoryLatestKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 15; i++ {
		if err := s.Append(ctx, &model.ConversationRecord{
			TenantID:       "t1",
			ConversationID: "c1",
			Message:        fmt.Sprintf("m%d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	first, _ := s.History(ctx, model.HistoryQuery{ConversationID: "c1", Limit: 10})
	if len(first) != 10 || first[0].Message != "m1" || first[9].Message != "m10" {
		t.Fatalf("unexpected first page: %+v", first)
	}

	latest, _ := s.History(ctx, model.HistoryQuery{ConversationID: "c1", Limit: 10, Latest: true})
	if len(latest) != 10 || latest[0].Message != "m6" || latest[9].Message != "m15" {
		t.Fatalf("unexpected latest page: %+v", latest)
	}
}
