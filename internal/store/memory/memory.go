// Package memory is an in-process implementation of the store contracts,
// used for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
)

// Store keeps conversations, training data, and leads in memory.
type Store struct {
	mu       sync.RWMutex
	records  []model.ConversationRecord
	qa       []store.QAPair
	excerpts []store.FileExcerpt
	leads    map[string]*model.Lead

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		leads: make(map[string]*model.Lead),
		now:   time.Now,
	}
}

var (
	_ store.ConversationLog = (*Store)(nil)
	_ store.TrainingData    = (*Store)(nil)
	_ store.Leads           = (*Store)(nil)
	_ store.Pinger          = (*Store)(nil)
)

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Append stores a conversation record.
func (s *Store) Append(ctx context.Context, rec *model.ConversationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	s.mu.Lock()
	s.records = append(s.records, *rec)
	s.mu.Unlock()

	return nil
}

// History returns records of one conversation, oldest first.
func (s *Store) History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error) {
	q = q.Normalize()

	s.mu.RLock()
	var out []model.ConversationRecord
	for _, r := range s.records {
		if r.ConversationID != q.ConversationID {
			continue
		}
		if q.TenantID != "" && r.TenantID != q.TenantID {
			continue
		}
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if len(out) > q.Limit {
		if q.Latest {
			out = out[len(out)-q.Limit:]
		} else {
			out = out[:q.Limit]
		}
	}
	return out, nil
}

// AddQAPair seeds a QA training entry.
func (s *Store) AddQAPair(tenantID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qa = append(s.qa, store.QAPair{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Question: question,
		Answer:   answer,
	})
}

// AddFileExcerpt seeds an ingested document excerpt.
func (s *Store) AddFileExcerpt(tenantID, fileName, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excerpts = append(s.excerpts, store.FileExcerpt{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		FileName: fileName,
		Content:  content,
	})
}

// QAPairs returns the tenant's QA pairs containing any keyword.
func (s *Store) QAPairs(ctx context.Context, tenantID string, keywords []string) ([]store.QAPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.QAPair
	for _, p := range s.qa {
		if p.TenantID == tenantID && containsAny(p.Question+" "+p.Answer, keywords) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FileExcerpts returns the tenant's excerpts containing any keyword.
func (s *Store) FileExcerpts(ctx context.Context, tenantID string, keywords []string) ([]store.FileExcerpt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.FileExcerpt
	for _, e := range s.excerpts {
		if e.TenantID == tenantID && containsAny(e.Content, keywords) {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpsertLead finds the lead for (tenant, phone) or inserts candidate.
func (s *Store) UpsertLead(ctx context.Context, candidate *model.Lead) (*model.Lead, bool, error) {
	key := candidate.TenantID + "|" + candidate.Phone
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.leads[key]; ok {
		existing.UpdatedAt = now
		lead := *existing
		return &lead, false, nil
	}

	lead := *candidate
	if lead.ID == "" {
		lead.ID = uuid.Must(uuid.NewV7()).String()
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now
	s.leads[key] = &lead

	out := lead
	return &out, true, nil
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
