// Package knowledge retrieves tenant training data relevant to a message.
package knowledge

import (
	"context"
	"fmt"
	"sort"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
)

// Options selects which training data sources a search covers.
type Options struct {
	IncludeQA    bool
	IncludeFiles bool
	Limit        int
}

// DefaultOptions searches both sources with a limit of five matches each.
func DefaultOptions() Options {
	return Options{IncludeQA: true, IncludeFiles: true, Limit: 5}
}

// Searcher is the external search capability over training data.
type Searcher interface {
	Search(ctx context.Context, tenantID, query string, opts Options) (model.KnowledgeResult, error)
}

// StoreSearcher ranks training data from a store by keyword overlap.
type StoreSearcher struct {
	data store.TrainingData
}

// NewStoreSearcher creates a searcher over data.
func NewStoreSearcher(data store.TrainingData) *StoreSearcher {
	return &StoreSearcher{data: data}
}

// Search returns scored QA and file matches, best first.
func (s *StoreSearcher) Search(ctx context.Context, tenantID, query string, opts Options) (model.KnowledgeResult, error) {
	res := model.KnowledgeResult{
		QAMatches:   []model.KnowledgeMatch{},
		FileMatches: []model.KnowledgeMatch{},
	}

	keywords := Keywords(query)
	if len(keywords) == 0 {
		return res, nil
	}

	if opts.IncludeQA {
		pairs, err := s.data.QAPairs(ctx, tenantID, keywords)
		if err != nil {
			return res, fmt.Errorf("failed to search qa pairs: %w", err)
		}
		for _, p := range pairs {
			score := Score(keywords, p.Question+" "+p.Answer)
			if score == 0 {
				continue
			}
			res.QAMatches = append(res.QAMatches, model.KnowledgeMatch{
				Source:   model.KnowledgeQAPair,
				Score:    score,
				Content:  "Q: " + p.Question + "\nA: " + p.Answer,
				Question: p.Question,
				Answer:   p.Answer,
			})
		}
	}

	if opts.IncludeFiles {
		excerpts, err := s.data.FileExcerpts(ctx, tenantID, keywords)
		if err != nil {
			return res, fmt.Errorf("failed to search file content: %w", err)
		}
		for _, e := range excerpts {
			score := Score(keywords, e.Content)
			if score == 0 {
				continue
			}
			res.FileMatches = append(res.FileMatches, model.KnowledgeMatch{
				Source:   model.KnowledgeFileExcerpt,
				Score:    score,
				Content:  e.Content,
				FileName: e.FileName,
			})
		}
	}

	res.QAMatches = rank(res.QAMatches, opts.Limit)
	res.FileMatches = rank(res.FileMatches, opts.Limit)
	return res, nil
}

func rank(matches []model.KnowledgeMatch, limit int) []model.KnowledgeMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
