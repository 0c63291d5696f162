// Package search finds candidate restaurants for a cuisine in Elasticsearch.
package search

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	DefaultField = "categories.title"
	DefaultSize  = 50
)

type Searcher struct {
	client *elasticsearch.Client
	index  string
	field  string
	size   int
}

// New builds a Searcher over an existing client; the client is shared for the life of the process.
func New(client *elasticsearch.Client, index, field string, size int) *Searcher {
	if field == "" {
		field = DefaultField
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Searcher{client: client, index: index, field: field, size: size}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Candidate `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Candidates returns the hits whose category matches cuisine, in index order.
func (s *Searcher) Candidates(ctx context.Context, cuisine string) ([]models.Candidate, error) {
	req, err := BuildRequest(CandidateQuery{Index: s.index, Field: s.field, Term: cuisine, Size: s.size})
	if err != nil {
		return nil, apperrors.NewSearchUnavailableError(err)
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchUnavailableError(fmt.Errorf("search error: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchUnavailableError(fmt.Errorf("decode search response: %w", err))
	}

	out := make([]models.Candidate, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.ID == "" {
			continue
		}
		out = append(out, hit.Source)
	}
	return out, nil
}
