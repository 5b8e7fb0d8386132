package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/bootstrap"
	"github.com/listing-locator/app/config"
	"github.com/listing-locator/app/controllers"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/taxonomy"
	"github.com/listing-locator/routes"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// 2. Logger
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting listing locator", zap.String("version", version), zap.String("env", cfg.Server.Env))
	ctx := context.Background()

	// 3. Taxonomy. A broken dataset must never serve traffic.
	tax, err := bootstrap.LoadTaxonomy(cfg.Taxonomy)
	if err != nil {
		var be *taxonomy.BuildError
		if errors.As(err, &be) {
			logger.Fatal("Taxonomy rejected", zap.String("reason", be.Reason), zap.Error(err))
		}
		logger.Fatal("Failed to load taxonomy", zap.Error(err))
	}

	// 4. Listing store
	listingStore, err := bootstrap.OpenStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to open listing store", zap.Error(err))
	}
	defer listingStore.Close()

	checks := map[string]controllers.Pinger{"postgres": listingStore.Ping}
	deps := services.StatsDeps{Counter: listingStore}

	// 5. MongoDB (taxonomy units and audit history)
	var (
		units services.UnitStore
		runs  services.AuditStore
	)
	mongoClient, mongoStore, err := bootstrap.ConnectMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if mongoStore != nil {
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}()
		units, runs = mongoStore, mongoStore
		deps.Units, deps.Audits = mongoStore, mongoStore
		checks["mongodb"] = mongoStore.Ping
	}

	// 6. Candidate cache
	cache, err := bootstrap.NewCache(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
	}

	// 7. Meilisearch typeahead, optional
	var (
		suggester services.Suggester
		indexer   services.Indexer
	)
	index, err := bootstrap.NewIndex(cfg.Meilisearch, logger)
	if err != nil {
		logger.Warn("Meilisearch unavailable, suggestions fall back to the in-memory taxonomy", zap.Error(err))
	} else if index != nil {
		suggester, indexer = index, index
		deps.Indexer = index
	}

	// 8. Geocoder, optional
	var geocoder services.Geocoder
	gc, err := bootstrap.NewGeocoder(cfg.Geocode, logger)
	if err != nil {
		logger.Warn("Geocoder disabled", zap.Error(err))
	} else if gc != nil {
		geocoder = gc
	}

	// 9. Services
	locationService := services.NewLocationService(tax, suggester, geocoder, logger)
	listingService := services.NewListingService(listingStore, cache, services.ListingServiceConfig{
		SwapTier:     cfg.Matcher.SwapTier,
		DefaultLimit: cfg.Matcher.DefaultPageSize,
		MaxLimit:     cfg.Matcher.MaxPageSize,
	}, logger)
	taxonomyService := services.NewTaxonomyService(locationService, units, indexer, logger)
	auditService := services.NewAuditService(listingStore, locationService, runs, bootstrap.AuditOptions(cfg.Audit), logger)
	statsService := services.NewStatsService(locationService, listingService, deps, logger)

	if cfg.Taxonomy.FromMongo {
		stored, err := taxonomyService.LoadFromStore(ctx)
		if err != nil {
			logger.Warn("Keeping file taxonomy, stored units unusable", zap.Error(err))
		} else {
			locationService.SetTaxonomy(stored)
			logger.Info("Taxonomy loaded from MongoDB", zap.String("taxonomy_version", stored.Version()))
		}
	}
	if cfg.Taxonomy.SeedOnStart {
		if _, err := taxonomyService.Seed(ctx, nil, true); err != nil {
			logger.Warn("Seed on start failed", zap.Error(err))
		}
	}
	logger.Info("Taxonomy ready",
		zap.String("taxonomy_version", locationService.Taxonomy().Version()),
		zap.Int("regions", locationService.Taxonomy().Stats().Regions))

	// 10. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(routes.Timeout(cfg.Server.RequestTimeout))
	routes.SetupAllRoutes(router, routes.Controllers{
		Listing:  controllers.NewListingController(listingService, logger),
		Location: controllers.NewLocationController(locationService, logger),
		Admin:    controllers.NewAdminController(auditService, taxonomyService, listingService, statsService, logger),
		Health:   controllers.NewHealthController(locationService, checks, logger),
	}, version, logger)

	// 11. Serve until SIGINT or SIGTERM
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
