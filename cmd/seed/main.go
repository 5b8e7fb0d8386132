package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/listing-locator/app/bootstrap"
	"github.com/listing-locator/app/config"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/taxonomy"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	file := flag.String("file", "", "taxonomy YAML or JSON (defaults to taxonomy.path, then the embedded dataset)")
	dryRun := flag.Bool("dry-run", false, "validate only")
	noIndex := flag.Bool("no-index", false, "skip the Meilisearch rebuild")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	path := *file
	if path == "" {
		path = cfg.Taxonomy.Path
	}
	src, err := bootstrap.LoadSource(path)
	if err != nil {
		logger.Fatal("Failed to read taxonomy source", zap.String("path", path), zap.Error(err))
	}

	// Validation needs no backend, so it runs before any connection
	checker := services.NewTaxonomyService(nil, nil, nil, logger)
	validation, err := checker.Validate(src)
	if err != nil {
		logger.Fatal("Validation failed", zap.Error(err))
	}
	if !validation.Passed {
		fmt.Fprintf(os.Stderr, "taxonomy rejected: %v\n", validation.Err)
		os.Exit(1)
	}
	fmt.Printf("taxonomy %s: %d regions, %d districts, %d wards\n",
		validation.Version, validation.Stats.Regions, validation.Stats.Districts, validation.Stats.Wards)
	if *dryRun {
		return
	}

	ctx := context.Background()
	mongoClient, mongoStore, err := bootstrap.ConnectMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if mongoStore == nil {
		logger.Fatal("mongo.uri is required to seed")
	}
	defer mongoClient.Disconnect(context.Background())

	var indexer services.Indexer
	if !*noIndex {
		index, err := bootstrap.NewIndex(cfg.Meilisearch, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Meilisearch", zap.Error(err))
		}
		if index != nil {
			indexer = index
		}
	}

	tax, err := taxonomy.Build(src)
	if err != nil {
		logger.Fatal("Failed to build taxonomy", zap.Error(err))
	}
	locations := services.NewLocationService(tax, nil, nil, logger)
	seeder := services.NewTaxonomyService(locations, mongoStore, indexer, logger)

	result, err := seeder.Seed(ctx, nil, indexer != nil)
	if err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
	fmt.Printf("stored %d units, indexed %d documents in %s\n",
		result.UnitsProcessed, result.DocumentsIndexed, result.ProcessingTime)
}
