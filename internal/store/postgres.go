// Package store reads listings from the marketplace PostgreSQL database.
// It only pre-filters by region; all location matching happens in memory.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/metrics"
	"github.com/listing-locator/internal/normalizer"
)

const listingColumns = `
	s.id::text,
	COALESCE(s.provider_id::text, ''),
	s.title,
	COALESCE(s.description, ''),
	COALESCE(s.category, ''),
	COALESCE(s.price, 0)::float8,
	COALESCE(s.is_active, TRUE),
	COALESCE(s.status::text, 'active'),
	COALESCE(s.region, ''),
	COALESCE(s.district, ''),
	COALESCE(s.area, ''),
	s.created_at,
	COALESCE(p.region, ''),
	COALESCE(p.district, ''),
	COALESCE(p.area, '')`

// regionKeyExpr mirrors the normalizer in SQL: lowercase, collapse every
// whitespace run (tabs and newlines included), then trim. lower() is not a
// full Unicode case fold, so names whose fold differs from their lowercase
// form (ß, final sigma) are missed by the pre-filter.
const regionKeyExpr = `btrim(regexp_replace(lower(s.region), '\s+', ' ', 'g'))`

var (
	queryByRegion = `SELECT` + listingColumns + `
	FROM services s
	LEFT JOIN service_providers p ON p.id = s.provider_id
	WHERE ` + regionKeyExpr + ` = $1
	ORDER BY s.created_at DESC, s.id DESC`

	queryAll = `SELECT` + listingColumns + `
	FROM services s
	LEFT JOIN service_providers p ON p.id = s.provider_id
	ORDER BY s.id`

	queryCount = `SELECT COUNT(*) FROM services`
)

// Config holds pool settings
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ListingStore is the read side of the services table
type ListingStore struct {
	db *sql.DB
}

// AttachDB wraps an existing pool
func AttachDB(db *sql.DB) *ListingStore { return &ListingStore{db: db} }

// Open opens a pool and checks the connection
func Open(ctx context.Context, cfg Config) (*ListingStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 50
	}
	if maxIdle <= 0 {
		maxIdle = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	return &ListingStore{db: db}, nil
}

// Close closes the pool
func (s *ListingStore) Close() error { return s.db.Close() }

// Ping checks the connection
func (s *ListingStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// ListByRegion returns every listing filed under region, newest first.
// Inactive listings are included; filtering them is the caller's choice.
func (s *ListingStore) ListByRegion(ctx context.Context, region string) ([]models.Listing, error) {
	key := normalizer.Normalize(region)
	if key == normalizer.Absent {
		return []models.Listing{}, nil
	}
	return s.query(ctx, "by_region", queryByRegion, key)
}

// ListAll returns the whole listing population for audits
func (s *ListingStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	return s.query(ctx, "all", queryAll)
}

// Count returns the number of listings
func (s *ListingStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, queryCount).Scan(&n); err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("count", "error").Inc()
		return 0, fmt.Errorf("store: count listings: %w", err)
	}
	metrics.StoreQueriesTotal.WithLabelValues("count", "ok").Inc()
	return n, nil
}

func (s *ListingStore) query(ctx context.Context, name, q string, args ...interface{}) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("store: list %s: %w", name, err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("store: scan %s: %w", name, err)
	}
	metrics.StoreQueriesTotal.WithLabelValues(name, "ok").Inc()
	return listings, nil
}

type scanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanListings(rows scanner) ([]models.Listing, error) {
	listings := []models.Listing{}
	for rows.Next() {
		var l models.Listing
		var created sql.NullTime
		if err := rows.Scan(
			&l.ID, &l.ProviderID, &l.Title, &l.Description, &l.Category, &l.Price, &l.IsActive, &l.Status,
			&l.Region, &l.District, &l.Area, &created,
			&l.ProviderRegion, &l.ProviderDistrict, &l.ProviderArea,
		); err != nil {
			return nil, err
		}
		if created.Valid {
			l.CreatedAt = created.Time
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
