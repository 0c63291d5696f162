// cmd/tools/index-seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
	"dining-concierge/internal/search"
	"dining-concierge/internal/store"
)

type indexer interface {
	Index(ctx context.Context, rec *models.RestaurantRecord) error
}

func main() {
	fixturePath := flag.String("fixture", "configs/restaurants.fixture.json", "Path to the restaurant fixture")
	skipStore := flag.Bool("skip-store", false, "Only write the search index")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewStructured(cfg.Logging.Level, "console", "stdout")

	records, err := loadFixture(*fixturePath)
	if err != nil {
		fmt.Printf("Error loading fixture: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		fmt.Printf("Error connecting to Elasticsearch: %v\n", err)
		os.Exit(1)
	}
	esCfg := cfg.Database.Elasticsearch
	idx := search.New(es.Client, esCfg.Index, esCfg.CategoryField, esCfg.MaxCandidates)

	var writer store.Writer
	if !*skipStore {
		writer, err = openWriter(ctx, cfg)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
	}

	n, err := seed(ctx, records, idx, writer, log)
	if err != nil {
		fmt.Printf("Seeding stopped after %d records: %v\n", n, err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d restaurants into %s\n", n, esCfg.Index)
}

func loadFixture(path string) ([]models.RestaurantRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []models.RestaurantRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return records, nil
}

func openWriter(ctx context.Context, cfg *config.Config) (store.Writer, error) {
	if cfg.Store.Driver == config.StoreDriverPostgres {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		return store.Open(cfg.Store.Driver, "", nil, pg.DB)
	}
	awsCfg, err := aws.LoadConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store.Driver, cfg.Database.DynamoDB.Table, aws.NewDynamoDBClient(awsCfg, cfg.AWS.Endpoint), nil)
}

// seed writes each record to the store (when writer is set) and then to the index,
// so a search hit never points at a missing record.
func seed(ctx context.Context, records []models.RestaurantRecord, idx indexer, writer store.Writer, log logger.Logger) (int, error) {
	for i := range records {
		rec := &records[i]
		if writer != nil {
			if err := writer.Put(ctx, rec); err != nil {
				return i, fmt.Errorf("store %s: %w", rec.ID, err)
			}
		}
		if err := idx.Index(ctx, rec); err != nil {
			return i, fmt.Errorf("index %s: %w", rec.ID, err)
		}
		log.Debug("restaurant seeded", map[string]interface{}{"id": rec.ID, "name": rec.Name})
	}
	return len(records), nil
}
