package store

import (
	"database/sql"
	"fmt"

	"dining-concierge/internal/common/config"
)

// Backend is a store that can also be written to.
type Backend interface {
	Store
	Writer
}

// Open returns the backend named by driver; only the client that driver uses must be set.
func Open(driver, table string, ddb DynamoDBService, db *sql.DB) (Backend, error) {
	switch driver {
	case config.StoreDriverDynamoDB:
		if ddb == nil {
			return nil, fmt.Errorf("dynamodb driver needs a DynamoDB client")
		}
		return NewDynamoDBStore(ddb, table), nil
	case config.StoreDriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres driver needs a database handle")
		}
		return NewPostgresStore(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
