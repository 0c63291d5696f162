package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Index writes the searchable part of rec (id and categories) under its id.
// Only the seeding tool writes to the index.
func (s *Searcher) Index(ctx context.Context, rec *models.RestaurantRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("restaurant record has no id")
	}
	body, err := json.Marshal(models.Candidate{ID: rec.ID, Categories: rec.Categories})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchUnavailableError(fmt.Errorf("index error: %s", res.Status()))
	}
	return nil
}
