package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// SearchConfig configures the Meilisearch connection
type SearchConfig struct {
	Host          string
	APIKey        string
	IndexName     string
	Timeout       time.Duration
	MaxCandidates int
}

// LocationDocument is one taxonomy node as indexed
type LocationDocument struct {
	ID              string   `json:"id"`
	ParentID        string   `json:"parent_id,omitempty"`
	Level           int      `json:"level"`
	LevelName       string   `json:"level_name"`
	Name            string   `json:"name"`
	NormalizedName  string   `json:"normalized_name"`
	ASCIIName       string   `json:"ascii_name"`
	Code            string   `json:"code,omitempty"`
	Region          string   `json:"region"`
	RegionKey       string   `json:"region_key"`
	District        string   `json:"district,omitempty"`
	DistrictKey     string   `json:"district_key,omitempty"`
	Path            []string `json:"path"`
	Position        int      `json:"position"`
	TaxonomyVersion string   `json:"taxonomy_version"`
}

// DocumentsFromUnits converts stored units into index documents
func DocumentsFromUnits(units []models.AdminUnit) []LocationDocument {
	docs := make([]LocationDocument, 0, len(units))
	for _, u := range units {
		doc := LocationDocument{
			ID:              u.AdminID,
			ParentID:        u.ParentID,
			Level:           int(u.Level),
			LevelName:       u.Level.String(),
			Name:            u.Name,
			NormalizedName:  u.NormalizedName,
			ASCIIName:       u.ASCIIName,
			Code:            u.Code,
			Region:          u.Region(),
			Path:            u.Path,
			Position:        u.Position,
			TaxonomyVersion: u.TaxonomyVersion,
		}
		if doc.Path == nil {
			doc.Path = []string{}
		}
		doc.RegionKey = normalizer.Normalize(doc.Region)
		switch u.Level {
		case models.LevelDistrict:
			doc.District = u.Name
		case models.LevelWard:
			if len(u.Path) > 1 {
				doc.District = u.Path[1]
			}
		}
		if doc.District != "" {
			doc.DistrictKey = normalizer.Normalize(doc.District)
		}
		docs = append(docs, doc)
	}
	return docs
}

// LocationIndex serves location-name typeahead from Meilisearch
type LocationIndex struct {
	client        meilisearch.ServiceManager
	logger        *zap.Logger
	indexName     string
	maxCandidates int
}

// NewLocationIndex connects to Meilisearch and checks its health
func NewLocationIndex(config SearchConfig, logger *zap.Logger) (*LocationIndex, error) {
	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch health check: %w", err)
	}

	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 20
	}
	return &LocationIndex{
		client:        client,
		logger:        logger,
		indexName:     config.IndexName,
		maxCandidates: maxCandidates,
	}, nil
}

// Healthy reports whether Meilisearch answers
func (li *LocationIndex) Healthy() bool {
	return li.client.IsHealthy()
}

// Suggest returns indexed names close to the query, within the requested scope
func (li *LocationIndex) Suggest(req SuggestRequest) ([]LocationDocument, error) {
	if normalizer.IsAbsent(req.Query) {
		return nil, errors.New("query must not be empty")
	}
	limit := req.Limit
	if limit <= 0 || limit > li.maxCandidates {
		limit = li.maxCandidates
	}

	searchReq := &meilisearch.SearchRequest{
		Limit: int64(limit),
	}
	if filter := BuildFilter(req); filter != "" {
		searchReq.Filter = filter
	}

	result, err := li.client.Index(li.indexName).Search(req.Query, searchReq)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}
	return decodeHits(result.Hits)
}

// BuildIndexes applies searchable, filterable and typo settings
func (li *LocationIndex) BuildIndexes() error {
	index := li.client.Index(li.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "ascii_name", "normalized_name", "path"},
		FilterableAttributes: []string{"level", "region_key", "district_key", "parent_id", "taxonomy_version"},
		SortableAttributes:   []string{"level", "position"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("configure index: %w", err)
	}

	li.logger.Info("Meilisearch index configured", zap.String("index", li.indexName), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// SeedUnits replaces the indexed documents with units, in batches of 1000
func (li *LocationIndex) SeedUnits(units []models.AdminUnit) (int, error) {
	if len(units) == 0 {
		return 0, errors.New("no units to index")
	}
	index := li.client.Index(li.indexName)

	if task, err := index.DeleteAllDocuments(); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	} else {
		li.logger.Debug("Cleared location index", zap.Int64("task_uid", task.TaskUID))
	}

	documents := DocumentsFromUnits(units)
	batchSize := 1000
	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}

		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return i, fmt.Errorf("add documents %d-%d: %w", i, end, err)
		}
		li.logger.Info("Indexed location batch",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	li.logger.Info("Location index seeded", zap.Int("total_documents", len(documents)))
	return len(documents), nil
}

// DocumentCount returns the number of indexed documents
func (li *LocationIndex) DocumentCount() (int64, error) {
	stats, err := li.client.Index(li.indexName).GetStats()
	if err != nil {
		return 0, err
	}
	return stats.NumberOfDocuments, nil
}
