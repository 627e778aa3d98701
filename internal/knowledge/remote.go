package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/capitalize-ai/realty-chat/internal/model"
)

// RemoteSearcher calls a separately deployed training data search endpoint.
type RemoteSearcher struct {
	url    string
	apiKey string
	client *http.Client
}

// NewRemoteSearcher creates a searcher posting to url. A nil client uses
// http.DefaultClient; timeouts come from the request context.
func NewRemoteSearcher(url, apiKey string, client *http.Client) *RemoteSearcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteSearcher{url: url, apiKey: apiKey, client: client}
}

// Search posts the query and decodes the matches.
func (s *RemoteSearcher) Search(ctx context.Context, tenantID, query string, opts Options) (model.KnowledgeResult, error) {
	var res model.KnowledgeResult

	body, err := json.Marshal(&model.SearchRequest{
		Query:        query,
		UserID:       tenantID,
		IncludeQA:    &opts.IncludeQA,
		IncludeFiles: &opts.IncludeFiles,
	})
	if err != nil {
		return res, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return res, fmt.Errorf("search returned status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("failed to decode search response: %w", err)
	}

	if opts.Limit > 0 {
		res.QAMatches = rank(res.QAMatches, opts.Limit)
		res.FileMatches = rank(res.FileMatches, opts.Limit)
	}
	return res, nil
}
