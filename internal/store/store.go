// Package store reads restaurant detail records written by the ingestion job.
package store

import (
	"context"

	"dining-concierge/internal/models"
)

// Store looks up one restaurant by id. A missing record is reported as
// errors.ErrRecordNotFound, any other failure as errors.ErrStoreUnavailable.
type Store interface {
	Get(ctx context.Context, id string) (*models.RestaurantRecord, error)
}

// Writer is used by the seeding tool only.
type Writer interface {
	Put(ctx context.Context, rec *models.RestaurantRecord) error
}
