package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/listing-locator/app/bootstrap"
	"github.com/listing-locator/app/config"
	"github.com/listing-locator/app/services"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	out := flag.String("out", "", "write each report to this file instead of stdout")
	interval := flag.Duration("interval", 0, "repeat the audit at this interval (overrides audit.interval)")
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

	every := cfg.Audit.Interval
	if *interval > 0 {
		every = *interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tax, err := bootstrap.LoadTaxonomy(cfg.Taxonomy)
	if err != nil {
		logger.Fatal("Failed to load taxonomy", zap.Error(err))
	}
	listingStore, err := bootstrap.OpenStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to open listing store", zap.Error(err))
	}
	defer listingStore.Close()

	var runs services.AuditStore
	mongoClient, mongoStore, err := bootstrap.ConnectMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Warn("Audit history disabled", zap.Error(err))
	} else if mongoStore != nil {
		defer mongoClient.Disconnect(context.Background())
		runs = mongoStore
	}

	locations := services.NewLocationService(tax, nil, nil, logger)
	audits := services.NewAuditService(listingStore, locations, runs, bootstrap.AuditOptions(cfg.Audit), logger)

	if every <= 0 {
		if err := runOnce(ctx, audits, services.AuditSourceCLI, *out); err != nil {
			logger.Fatal("Audit failed", zap.Error(err))
		}
		return
	}

	logger.Info("Starting audit worker", zap.Duration("interval", every))
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if err := runOnce(ctx, audits, services.AuditSourceJob, *out); err != nil {
			logger.Error("Audit failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			logger.Info("Audit worker exited")
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, audits *services.AuditService, source, out string) error {
	run, err := audits.Run(ctx, source)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
