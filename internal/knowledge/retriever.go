package knowledge

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
	"github.com/capitalize-ai/realty-chat/pkg/metrics"
	"github.com/capitalize-ai/realty-chat/pkg/tracing"
)

// Retriever wraps a Searcher so that retrieval never fails: transport
// errors and timeouts yield an empty result. One attempt per call.
type Retriever struct {
	searcher Searcher
	timeout  time.Duration
	limit    int
	logger   *logger.Logger
}

// NewRetriever creates a retriever. A zero timeout disables the bound.
func NewRetriever(searcher Searcher, timeout time.Duration, limit int, log *logger.Logger) *Retriever {
	return &Retriever{
		searcher: searcher,
		timeout:  timeout,
		limit:    limit,
		logger:   log,
	}
}

// Retrieve returns QA and file matches for text within tenantID.
func (r *Retriever) Retrieve(ctx context.Context, text, tenantID string) model.KnowledgeResult {
	ctx, span := tracing.Tracer().Start(ctx, "knowledge.Retrieve")
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	opts := DefaultOptions()
	opts.Limit = r.limit

	res, err := r.searcher.Search(ctx, tenantID, text, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		metrics.RecordUpstreamFailure("retrieval")
		r.logger.Warn("knowledge retrieval failed, continuing without matches",
			zap.String("tenant_id", tenantID),
			zap.String("message", text),
			zap.String("upstream", "retrieval"),
			zap.Error(err),
		)
		return model.KnowledgeResult{}
	}

	metrics.KnowledgeMatches.WithLabelValues(string(model.KnowledgeQAPair)).Observe(float64(len(res.QAMatches)))
	metrics.KnowledgeMatches.WithLabelValues(string(model.KnowledgeFileExcerpt)).Observe(float64(len(res.FileMatches)))
	span.SetAttributes(
		attribute.Int("knowledge.qa_matches", len(res.QAMatches)),
		attribute.Int("knowledge.file_matches", len(res.FileMatches)),
	)

	return res
}

// Search runs a search with explicit options and surfaces errors. It backs
// the training data search endpoint.
func (r *Retriever) Search(ctx context.Context, tenantID, query string, opts Options) (model.KnowledgeResult, error) {
	if opts.Limit == 0 {
		opts.Limit = r.limit
	}
	return r.searcher.Search(ctx, tenantID, query, opts)
}
