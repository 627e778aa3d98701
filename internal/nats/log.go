package nats

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
)

const (
	// StreamName is the name of the conversation log stream.
	StreamName = "CONVERSATION_LOG"

	// SubjectPrefix is the prefix for all conversation subjects.
	SubjectPrefix = "conv"
)

// ConversationLog appends conversation turns to a JetStream stream, one
// subject per conversation.
type ConversationLog struct {
	client *Client
}

var (
	_ store.ConversationLog = (*ConversationLog)(nil)
	_ store.Pinger          = (*ConversationLog)(nil)
)

// NewConversationLog creates a conversation log on client.
func NewConversationLog(client *Client) *ConversationLog {
	return &ConversationLog{client: client}
}

// EnsureStream creates the conversation log stream if it does not exist.
func (l *ConversationLog) EnsureStream(ctx context.Context) error {
	js := l.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Chat turns per tenant and conversation",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	l.client.logger.Info("created conversation log stream", zap.String("stream", StreamName))
	return nil
}

// TurnSubject returns the subject a conversation's turns are published on.
func TurnSubject(tenantID, conversationID string) string {
	return fmt.Sprintf("%s.%s.%s.turn", SubjectPrefix, subjectToken(tenantID), subjectToken(conversationID))
}

// ConversationFilter returns the filter subject for one conversation. An
// empty tenant matches any tenant.
func ConversationFilter(tenantID, conversationID string) string {
	tenant := "*"
	if tenantID != "" {
		tenant = subjectToken(tenantID)
	}
	return fmt.Sprintf("%s.%s.%s.turn", SubjectPrefix, tenant, subjectToken(conversationID))
}

// tokenEncoding is reversible and emits only subject-safe characters.
var tokenEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// subjectToken encodes s as a single subject token. Distinct ids always
// map to distinct tokens; "_" marks the empty id.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return tokenEncoding.EncodeToString([]byte(s))
}

// Append publishes one record to the conversation's subject.
func (l *ConversationLog) Append(ctx context.Context, rec *model.ConversationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := l.client.JetStream().Publish(ctx, TurnSubject(rec.TenantID, rec.ConversationID), data,
		jetstream.WithMsgID(rec.ID)); err != nil {
		return fmt.Errorf("failed to publish record: %w", err)
	}
	return nil
}

// fetchBatch caps a single pull request.
const fetchBatch = 256

// History reads q.Limit records of a conversation through an ephemeral
// consumer. The latest page reads the whole subject and keeps the tail.
func (l *ConversationLog) History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error) {
	q = q.Normalize()

	consumer, err := l.client.JetStream().CreateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		FilterSubject:     ConversationFilter(q.TenantID, q.ConversationID),
		AckPolicy:         jetstream.AckNonePolicy,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		InactiveThreshold: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read consumer info: %w", err)
	}
	want := int(info.NumPending)
	if want == 0 {
		return nil, nil
	}
	if !q.Latest && want > q.Limit {
		want = q.Limit
	}

	records := make([]model.ConversationRecord, 0, want)
	for received := 0; received < want; {
		n, err := l.fetch(consumer, min(want-received, fetchBatch), &records)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		received += n
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return pageOf(records, q), nil
}

// fetch pulls up to n messages into records and reports how many arrived.
func (l *ConversationLog) fetch(consumer jetstream.Consumer, n int, records *[]model.ConversationRecord) (int, error) {
	batch, err := consumer.Fetch(n, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch records: %w", err)
	}

	received := 0
	for msg := range batch.Messages() {
		received++
		var rec model.ConversationRecord
		if err := json.Unmarshal(msg.Data(), &rec); err != nil {
			l.client.logger.Warn("skipping malformed conversation record",
				zap.String("subject", msg.Subject()),
				zap.Error(err),
			)
			continue
		}
		*records = append(*records, rec)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
		return received, fmt.Errorf("batch error: %w", err)
	}
	return received, nil
}

// pageOf trims ascending records to the query limit.
func pageOf(records []model.ConversationRecord, q model.HistoryQuery) []model.ConversationRecord {
	if len(records) <= q.Limit {
		return records
	}
	if q.Latest {
		return records[len(records)-q.Limit:]
	}
	return records[:q.Limit]
}

// Ping checks the connection.
func (l *ConversationLog) Ping(ctx context.Context) error {
	return l.client.Ping(ctx)
}
