package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/lib/pq"
)

const (
	selectRestaurant = `SELECT id, name, address, review_count, rating, zip_code, latitude, longitude
		FROM restaurants WHERE id = $1`

	upsertRestaurant = `INSERT INTO restaurants (id, name, address, review_count, rating, zip_code, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address,
			review_count = EXCLUDED.review_count, rating = EXCLUDED.rating, zip_code = EXCLUDED.zip_code,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.RestaurantRecord, error) {
	var (
		rec           models.RestaurantRecord
		address       pq.StringArray
		zip, lat, lng sql.NullString
	)
	err := s.db.QueryRowContext(ctx, selectRestaurant, id).Scan(
		&rec.ID, &rec.Name, &address, &rec.ReviewCount, &rec.Rating, &zip, &lat, &lng,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewRecordNotFoundError(id)
		}
		return nil, apperrors.NewStoreUnavailableError(fmt.Errorf("query %s: %w", id, err))
	}

	rec.Address = []string(address)
	rec.ZipCode = zip.String
	rec.Latitude = lat.String
	rec.Longitude = lng.String
	return &rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec *models.RestaurantRecord) error {
	_, err := s.db.ExecContext(ctx, upsertRestaurant,
		rec.ID, rec.Name, pq.Array(rec.Address), rec.ReviewCount, rec.Rating,
		nullable(rec.ZipCode), nullable(rec.Latitude), nullable(rec.Longitude),
	)
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
