package search

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
	ErrEmptyTerm    = errors.New("search term is required")
)

// CandidateQuery describes one category lookup.
type CandidateQuery struct {
	Index string
	Field string
	Term  string
	Size  int
}

// BuildRequest builds a match query on the category field.
func BuildRequest(q CandidateQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	if q.Term == "" {
		return nil, ErrEmptyTerm
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				q.Field: q.Term,
			},
		},
		"_source": []string{"id", "categories"},
	})
	if err != nil {
		return nil, err
	}

	size := q.Size
	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}
