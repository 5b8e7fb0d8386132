// Package bootstrap opens the backends the binaries share. Every backend
// except the taxonomy is optional and is skipped when its address is unset.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/listing-locator/app/config"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/auditor"
	"github.com/listing-locator/internal/geocode"
	"github.com/listing-locator/internal/search"
	"github.com/listing-locator/internal/store"
	"github.com/listing-locator/internal/taxonomy"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when a required backend has no address
var ErrNotConfigured = errors.New("backend not configured")

// NewLogger builds a production logger for server.env=production and a
// development logger otherwise
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	return zc.Build()
}

// OpenStore opens the Postgres listing store. An empty postgres.dsn falls
// back to the PG_* variables when PG_HOST is set.
func OpenStore(ctx context.Context, cfg config.PostgresCfg, logger *zap.Logger) (*store.ListingStore, error) {
	dsn := cfg.DSN
	if dsn == "" && os.Getenv("PG_HOST") != "" {
		dsn = store.DSNFromEnv()
	}
	if dsn == "" {
		return nil, fmt.Errorf("postgres.dsn: %w", ErrNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ls, err := store.Open(ctx, store.Config{
		DSN:             dsn,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to postgres", zap.String("dsn", store.RedactDSN(dsn)))
	return ls, nil
}

// ConnectMongo connects and pings MongoDB. It returns nil, nil when no URI
// is configured.
func ConnectMongo(ctx context.Context, cfg config.MongoCfg, logger *zap.Logger) (*mongo.Client, *services.MongoStore, error) {
	if cfg.URI == "" {
		return nil, nil, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return client, services.NewMongoStore(client.Database(cfg.Database), logger), nil
}

// NewCache builds the candidate cache for cache.backend. It returns nil for
// the "none" backend.
func NewCache(cfg *config.Config, logger *zap.Logger) (services.ICacheService, error) {
	switch cfg.Cache.Backend {
	case "none":
		return nil, nil
	case "memory":
		return services.NewLRUCacheService(cfg.Cache.L1Size, cfg.Cache.TTL), nil
	case "redis":
		rc, err := services.NewRedisCacheService(cfg.Redis.URL, cfg.Redis.Prefix, cfg.Cache.TTL, logger)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "hybrid":
		l2, err := services.NewRedisCacheService(cfg.Redis.URL, cfg.Redis.Prefix, cfg.Cache.TTL, logger)
		if err != nil {
			return nil, err
		}
		l1 := services.NewLRUCacheService(cfg.Cache.L1Size, cfg.Cache.TTL)
		return services.NewHybridCacheService(l1, l2, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// NewIndex connects to Meilisearch. It returns nil, nil when no URL is
// configured.
func NewIndex(cfg config.MeiliCfg, logger *zap.Logger) (*search.LocationIndex, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	return search.NewLocationIndex(search.SearchConfig{
		Host:          cfg.URL,
		APIKey:        cfg.MasterKey,
		IndexName:     cfg.IndexName,
		Timeout:       cfg.Timeout,
		MaxCandidates: cfg.MaxCandidates,
	}, logger)
}

// NewGeocoder returns nil, nil when no API key is configured
func NewGeocoder(cfg config.GeocodeCfg, logger *zap.Logger) (*geocode.Geocoder, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	return geocode.New(cfg.APIKey, cfg.Country, logger)
}

// LoadTaxonomy reads taxonomy.path, or the embedded dataset when the path
// is empty
func LoadTaxonomy(cfg config.TaxonomyCfg) (*taxonomy.Taxonomy, error) {
	if cfg.Path == "" {
		return taxonomy.Embedded()
	}
	return taxonomy.LoadFile(cfg.Path)
}

// LoadSource is LoadTaxonomy without building
func LoadSource(path string) (taxonomy.Source, error) {
	if path == "" {
		return taxonomy.EmbeddedSource()
	}
	return taxonomy.ReadSource(path)
}

// AuditOptions maps the audit section onto auditor options
func AuditOptions(cfg config.AuditCfg) auditor.Options {
	return auditor.Options{
		SuggestThreshold: cfg.SuggestionThreshold,
		MaxSuggestions:   cfg.MaxSuggestions,
		JWWeight:         cfg.JWWeight,
		LevWeight:        cfg.LevWeight,
	}
}
