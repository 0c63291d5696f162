package store

import (
	"testing"

	"dining-concierge/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	b, err := Open(config.StoreDriverDynamoDB, "YelpRestaurant", &MockDynamoDBService{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &DynamoDBStore{}, b)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	b, err = Open(config.StoreDriverPostgres, "", nil, db)
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, b)

	_, err = Open(config.StoreDriverPostgres, "", &MockDynamoDBService{}, nil)
	assert.Error(t, err)

	_, err = Open("mongo", "", nil, nil)
	assert.Error(t, err)
}
