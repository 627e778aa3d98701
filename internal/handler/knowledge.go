package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/knowledge"
	"github.com/capitalize-ai/realty-chat/internal/middleware"
	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

// KnowledgeSearcher runs a training data search and reports failures.
type KnowledgeSearcher interface {
	Search(ctx context.Context, tenantID, query string, opts knowledge.Options) (model.KnowledgeResult, error)
}

// KnowledgeHandler serves the training data search boundary.
type KnowledgeHandler struct {
	searcher KnowledgeSearcher
	logger   *logger.Logger
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(searcher KnowledgeSearcher, log *logger.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{searcher: searcher, logger: log}
}

// Search handles POST /api/v1/training-data/search
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if err := middleware.ValidateTenantID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := knowledge.Options{IncludeQA: true, IncludeFiles: true}
	if req.IncludeQA != nil {
		opts.IncludeQA = *req.IncludeQA
	}
	if req.IncludeFiles != nil {
		opts.IncludeFiles = *req.IncludeFiles
	}

	res, err := h.searcher.Search(ctx, req.UserID, req.Query, opts)
	if err != nil {
		h.logger.Error("training data search failed",
			zap.String("tenant_id", req.UserID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, &model.ErrorResponse{
			Error:   "search failed",
			Message: "failed to search training data",
		})
		return
	}

	if res.QAMatches == nil {
		res.QAMatches = []model.KnowledgeMatch{}
	}
	if res.FileMatches == nil {
		res.FileMatches = []model.KnowledgeMatch{}
	}
	writeJSON(w, http.StatusOK, res)
}
