// Package search keeps the taxonomy in a Meilisearch index for typeahead
package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
)

// SuggestRequest is a typeahead query, optionally scoped to a level and parent
type SuggestRequest struct {
	Query    string
	Level    models.AdminLevel // 0 for any level
	Region   string
	District string
	Limit    int
}

// BuildFilter turns the scope of a request into a Meilisearch filter expression
func BuildFilter(req SuggestRequest) string {
	var parts []string
	if req.Level.IsValid() {
		parts = append(parts, fmt.Sprintf("level = %d", req.Level))
	}
	if key := normalizer.Normalize(req.Region); key != normalizer.Absent {
		parts = append(parts, fmt.Sprintf("region_key = %q", key))
	}
	if key := normalizer.Normalize(req.District); key != normalizer.Absent {
		parts = append(parts, fmt.Sprintf("district_key = %q", key))
	}
	return strings.Join(parts, " AND ")
}

// decodeHits converts raw search hits into documents. Going through JSON
// keeps this independent of the client's hit representation.
func decodeHits(hits interface{}) ([]LocationDocument, error) {
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("encode hits: %w", err)
	}
	var docs []LocationDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	return docs, nil
}
