package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/helpers/utils"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/auditor"
	"github.com/listing-locator/internal/metrics"
	"go.uber.org/zap"
)

// Audit run sources
const (
	AuditSourceAPI = "api"
	AuditSourceJob = "job"
	AuditSourceCLI = "cli"
)

// ProviderRecordPrefix marks provider locations among audited records
const ProviderRecordPrefix = "provider:"

// AuditService runs consistency audits over the whole listing population
type AuditService struct {
	store     ListingSource
	locations *LocationService
	runs      AuditStore
	auditor   *auditor.Auditor
	latest    atomic.Pointer[models.AuditRun]
	logger    *zap.Logger
}

// NewAuditService creates an AuditService. runs may be nil, in which case
// only the latest run is kept in memory.
func NewAuditService(store ListingSource, locations *LocationService, runs AuditStore, opts auditor.Options, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		store:     store,
		locations: locations,
		runs:      runs,
		auditor:   auditor.New(opts),
		logger:    logger,
	}
}

// Run audits every listing location and every provider location
func (as *AuditService) Run(ctx context.Context, source string) (*models.AuditRun, error) {
	start := time.Now()

	listings, err := as.store.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable("AuditService.Run", "listing store", err)
	}

	report := as.auditor.Audit(as.locations.Taxonomy(), AuditRecords(listings))
	run := models.NewAuditRun(utils.GenerateUUID(), source, report, time.Since(start))

	metrics.AuditRunsTotal.WithLabelValues(source).Inc()
	recordFindings(&report)

	if as.runs != nil {
		if err := as.runs.SaveRun(ctx, run); err != nil {
			as.logger.Warn("audit run not persisted", zap.String("run_id", run.RunID), zap.Error(err))
		}
	}
	as.latest.Store(run)

	as.logger.Info("audit completed",
		zap.String("run_id", run.RunID),
		zap.String("source", source),
		zap.Int("records_scanned", report.RecordsScanned),
		zap.Int("anomalies", report.AnomalyCount()),
		zap.Int64("duration_ms", run.DurationMs))
	return run, nil
}

// Latest returns the newest stored run, or the newest run of this process
func (as *AuditService) Latest(ctx context.Context) (*models.AuditRun, error) {
	if as.runs != nil {
		run, err := as.runs.LatestRun(ctx)
		if err != nil {
			as.logger.Warn("cannot read stored audit runs", zap.Error(err))
		} else if run != nil {
			return run, nil
		}
	}
	if run := as.latest.Load(); run != nil {
		return run, nil
	}
	return nil, apperrors.NewNotFound("AuditService.Latest", "no audit has run yet")
}

// AuditRecords projects listings onto audit records. Each provider location
// is added once, under its provider id.
func AuditRecords(listings []models.Listing) []models.LocationRecord {
	records := make([]models.LocationRecord, 0, len(listings))
	seen := make(map[string]bool)
	var providers []models.LocationRecord

	for i := range listings {
		l := &listings[i]
		records = append(records, l.Location())

		if l.ProviderID == "" || seen[l.ProviderID] {
			continue
		}
		seen[l.ProviderID] = true
		rec := l.ProviderLocation()
		if rec.Region == "" && rec.District == "" && rec.Area == "" {
			continue
		}
		rec.ID = ProviderRecordPrefix + l.ProviderID
		providers = append(providers, rec)
	}
	return append(records, providers...)
}

func recordFindings(r *models.AnomalyReport) {
	metrics.AuditFindings.WithLabelValues("colliding_values").Set(float64(len(r.CollidingValues)))
	metrics.AuditFindings.WithLabelValues("orphan_taxonomy_entries").Set(float64(len(r.OrphanTaxonomyEntries)))
	metrics.AuditFindings.WithLabelValues("orphan_record_values").Set(float64(len(r.OrphanRecordValues)))
	metrics.AuditFindings.WithLabelValues("unknown_sub_values").Set(float64(len(r.UnknownSubValues)))
	metrics.AuditFindings.WithLabelValues("record_anomalies").Set(float64(len(r.RecordAnomalies)))
	metrics.AuditFindings.WithLabelValues("missing_region").Set(float64(len(r.MissingRegion)))
}
