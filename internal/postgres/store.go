// Package postgres implements the store contracts on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

// Store is a pgx-backed implementation of the persistence contracts.
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

var (
	_ store.ConversationLog = (*Store)(nil)
	_ store.TrainingData    = (*Store)(nil)
	_ store.Leads           = (*Store)(nil)
	_ store.Pinger          = (*Store)(nil)
)

// Connect opens a pool, retrying the first ping with exponential backoff
// until maxWait elapses, then applies the schema.
func Connect(ctx context.Context, connString string, maxWait time.Duration, log *logger.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait

	ping := func() error {
		return pool.Ping(ctx)
	}
	notify := func(err error, next time.Duration) {
		log.Warn("postgres not ready, retrying",
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &Store{pool: pool, logger: log}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Info("connected to postgres",
		zap.String("host", config.ConnConfig.Host),
		zap.String("database", config.ConnConfig.Database),
	)
	return s, nil
}

// Migrate creates the tables used by the chat pipeline when missing.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"conversations", `
			CREATE TABLE IF NOT EXISTS conversations (
				id UUID PRIMARY KEY,
				user_id TEXT NOT NULL,
				conversation_id TEXT NOT NULL,
				visitor_id TEXT,
				message TEXT NOT NULL,
				response TEXT NOT NULL,
				channel VARCHAR(20) NOT NULL DEFAULT 'web',
				source VARCHAR(20),
				intent VARCHAR(50),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS conversations_conversation_idx
				ON conversations (conversation_id, created_at);
		`},
		{"training_data", `
			CREATE TABLE IF NOT EXISTS training_data (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id TEXT NOT NULL,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`},
		{"file_content", `
			CREATE TABLE IF NOT EXISTS file_content (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id TEXT NOT NULL,
				file_name TEXT NOT NULL,
				content TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`},
		{"whatsapp_leads", `
			CREATE TABLE IF NOT EXISTS whatsapp_leads (
				id UUID PRIMARY KEY,
				user_id TEXT NOT NULL,
				phone TEXT NOT NULL,
				name TEXT,
				conversation_id TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (user_id, phone)
			);
		`},
	}

	for _, st := range statements {
		if _, err := s.pool.Exec(ctx, st.sql); err != nil {
			return fmt.Errorf("create %s table: %w", st.name, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Append inserts one conversation record.
func (s *Store) Append(ctx context.Context, rec *model.ConversationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversations
			(id, user_id, conversation_id, visitor_id, message, response, channel, source, intent, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)
	`, rec.ID, rec.TenantID, rec.ConversationID, rec.VisitorID, rec.Message, rec.Response,
		string(rec.Channel), string(rec.Source), rec.Intent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// History returns records of one conversation, oldest first.
func (s *Store) History(ctx context.Context, q model.HistoryQuery) ([]model.ConversationRecord, error) {
	q = q.Normalize()

	rows, err := s.pool.Query(ctx, historySQL(q.Latest), q.ConversationID, q.TenantID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []model.ConversationRecord
	for rows.Next() {
		var (
			r               model.ConversationRecord
			channel, source string
		)
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ConversationID, &r.VisitorID, &r.Message,
			&r.Response, &channel, &source, &r.Intent, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		r.Channel = model.Channel(channel)
		r.Source = model.Source(source)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}

	if q.Latest {
		slices.Reverse(out)
	}
	return out, nil
}

// historySQL selects one conversation page. The latest page is read newest
// first and reversed by the caller.
func historySQL(latest bool) string {
	order := "ASC"
	if latest {
		order = "DESC"
	}
	return `
		SELECT id, user_id, conversation_id, COALESCE(visitor_id, ''), message, response,
			channel, COALESCE(source, ''), COALESCE(intent, ''), created_at
		FROM conversations
		WHERE conversation_id = $1 AND ($2 = '' OR user_id = $2)
		ORDER BY created_at ` + order + `
		LIMIT $3
	`
}

// QAPairs returns the tenant's QA pairs mentioning any keyword.
func (s *Store) QAPairs(ctx context.Context, tenantID string, keywords []string) ([]store.QAPair, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id, question, answer
		FROM training_data
		WHERE user_id = $1 AND (question ILIKE ANY($2) OR answer ILIKE ANY($2))
	`, tenantID, likePatterns(keywords))
	if err != nil {
		return nil, fmt.Errorf("failed to query training data: %w", err)
	}
	defer rows.Close()

	var out []store.QAPair
	for rows.Next() {
		var p store.QAPair
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Question, &p.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan training data: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FileExcerpts returns the tenant's file excerpts mentioning any keyword.
func (s *Store) FileExcerpts(ctx context.Context, tenantID string, keywords []string) ([]store.FileExcerpt, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id, file_name, content
		FROM file_content
		WHERE user_id = $1 AND content ILIKE ANY($2)
	`, tenantID, likePatterns(keywords))
	if err != nil {
		return nil, fmt.Errorf("failed to query file content: %w", err)
	}
	defer rows.Close()

	var out []store.FileExcerpt
	for rows.Next() {
		var f store.FileExcerpt
		if err := rows.Scan(&f.ID, &f.TenantID, &f.FileName, &f.Content); err != nil {
			return nil, fmt.Errorf("failed to scan file content: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpsertLead inserts candidate or returns the existing (tenant, phone) lead.
func (s *Store) UpsertLead(ctx context.Context, candidate *model.Lead) (*model.Lead, bool, error) {
	var (
		lead    model.Lead
		name    *string
		created bool
	)

	err := s.pool.QueryRow(ctx, `
		INSERT INTO whatsapp_leads (id, user_id, phone, name, conversation_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (user_id, phone)
		DO UPDATE SET updated_at = now(), name = COALESCE(whatsapp_leads.name, EXCLUDED.name)
		RETURNING id::text, user_id, phone, name, conversation_id, created_at, updated_at, (xmax = 0)
	`, candidate.ID, candidate.TenantID, candidate.Phone, candidate.Name, candidate.ConversationID).Scan(
		&lead.ID, &lead.TenantID, &lead.Phone, &name, &lead.ConversationID,
		&lead.CreatedAt, &lead.UpdatedAt, &created,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, store.ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert lead: %w", err)
	}
	if name != nil {
		lead.Name = *name
	}
	return &lead, created, nil
}

func likePatterns(keywords []string) []string {
	patterns := make([]string, 0, len(keywords))
	for _, k := range keywords {
		patterns = append(patterns, "%"+k+"%")
	}
	return patterns
}
