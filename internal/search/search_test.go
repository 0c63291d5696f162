package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake transport
// ==========================

type fakeTransport struct {
	status   int
	body     string
	err      error
	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	}
	if f.err != nil {
		return nil, f.err
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func createTestClient(t *testing.T, tr *fakeTransport) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: tr,
	})
	require.NoError(t, err)
	return client
}

const threeHits = `{
  "hits": {
    "total": {"value": 3},
    "hits": [
      {"_id": "1", "_source": {"id": "kr-1", "categories": [{"alias": "korean", "title": "Korean"}]}},
      {"_id": "2", "_source": {"id": "kr-2", "categories": [{"alias": "korean", "title": "Korean"}, {"alias": "bbq", "title": "Barbeque"}]}},
      {"_id": "3", "_source": {"id": "kr-3", "categories": [{"alias": "korean", "title": "Korean"}]}}
    ]
  }
}`

// ==========================
// Tests
// ==========================

func TestSearcher_Candidates(t *testing.T) {
	tr := &fakeTransport{status: 200, body: threeHits}
	s := New(createTestClient(t, tr), "restaurants", "", 0)

	got, err := s.Candidates(context.Background(), "korean")
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "kr-1", got[0].ID)
	assert.Equal(t, "kr-2", got[1].ID)
	assert.Equal(t, "Barbeque", got[1].Categories[1].Title)

	require.Len(t, tr.requests, 1)
	assert.Equal(t, "/restaurants/_search", tr.requests[0].URL.Path)
	assert.Equal(t, "50", tr.requests[0].URL.Query().Get("size"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(tr.bodies[0]), &body))
	match := body["query"].(map[string]interface{})["match"].(map[string]interface{})
	assert.Equal(t, "korean", match["categories.title"])
}

func TestSearcher_Candidates_CustomFieldAndSize(t *testing.T) {
	tr := &fakeTransport{status: 200, body: `{"hits":{"hits":[]}}`}
	s := New(createTestClient(t, tr), "yelp", "categories.alias", 10)

	got, err := s.Candidates(context.Background(), "chinese")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, "/yelp/_search", tr.requests[0].URL.Path)
	assert.Equal(t, "10", tr.requests[0].URL.Query().Get("size"))
	assert.Contains(t, tr.bodies[0], `"categories.alias":"chinese"`)
}

func TestSearcher_Candidates_SkipsHitsWithoutID(t *testing.T) {
	tr := &fakeTransport{status: 200, body: `{"hits":{"hits":[{"_source":{"categories":[]}},{"_source":{"id":"a"}}]}}`}
	s := New(createTestClient(t, tr), "restaurants", "", 0)

	got, err := s.Candidates(context.Background(), "coffee")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestSearcher_Candidates_Errors(t *testing.T) {
	tests := []struct {
		name string
		tr   *fakeTransport
	}{
		{name: "index missing", tr: &fakeTransport{status: 404, body: `{"error":{"type":"index_not_found_exception"},"status":404}`}},
		{name: "cluster error", tr: &fakeTransport{status: 503, body: `{"error":"unavailable"}`}},
		{name: "garbled body", tr: &fakeTransport{status: 200, body: `{"hits":`}},
		{name: "connection refused", tr: &fakeTransport{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(createTestClient(t, tt.tr), "restaurants", "", 0)

			_, err := s.Candidates(context.Background(), "korean")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSearchUnavailable)
		})
	}
}

func TestBuildRequest_Validation(t *testing.T) {
	_, err := BuildRequest(CandidateQuery{Term: "korean"})
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = BuildRequest(CandidateQuery{Index: "restaurants"})
	assert.ErrorIs(t, err, ErrEmptyTerm)
}

func TestSearcher_Index(t *testing.T) {
	tr := &fakeTransport{status: 201, body: `{"result":"created"}`}
	s := New(createTestClient(t, tr), "restaurants", "", 0)

	err := s.Index(context.Background(), &models.RestaurantRecord{
		ID:         "kr-1",
		Name:       "Jongro BBQ",
		Categories: []models.Category{{Alias: "korean", Title: "Korean"}},
	})
	require.NoError(t, err)

	require.Len(t, tr.requests, 1)
	assert.Equal(t, http.MethodPut, tr.requests[0].Method)
	assert.Equal(t, "/restaurants/_doc/kr-1", tr.requests[0].URL.Path)
	assert.JSONEq(t, `{"id":"kr-1","categories":[{"alias":"korean","title":"Korean"}]}`, tr.bodies[0])
}

func TestSearcher_Index_Errors(t *testing.T) {
	s := New(createTestClient(t, &fakeTransport{status: 400, body: `{}`}), "restaurants", "", 0)
	err := s.Index(context.Background(), &models.RestaurantRecord{ID: "kr-1"})
	assert.ErrorIs(t, err, apperrors.ErrSearchUnavailable)

	err = s.Index(context.Background(), &models.RestaurantRecord{})
	assert.Error(t, err)
}
