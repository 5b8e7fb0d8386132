package auditor

import (
	"math"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
	"github.com/xrash/smetrics"
)

// Similarity blends Jaro-Winkler and Levenshtein similarity on the ASCII keys
// of two names. The result is in [0, 1].
func (a *Auditor) Similarity(x, y string) float64 {
	kx, ky := normalizer.ASCIIKey(x), normalizer.ASCIIKey(y)
	if kx == "" || ky == "" {
		return 0
	}
	if kx == ky {
		return 1
	}

	jw := smetrics.JaroWinkler(kx, ky, 0.7, 4)

	dist := levenshtein.ComputeDistance(kx, ky)
	maxLen := math.Max(float64(len(kx)), float64(len(ky)))
	lev := 1.0 - float64(dist)/maxLen

	total := a.opts.JWWeight + a.opts.LevWeight
	return (a.opts.JWWeight*jw + a.opts.LevWeight*lev) / total
}

// suggest ranks candidates by similarity to value
func (a *Auditor) suggest(value string, candidates []string) []models.Suggestion {
	if a.opts.MaxSuggestions <= 0 || len(candidates) == 0 {
		return nil
	}

	var out []models.Suggestion
	for _, c := range candidates {
		score := a.Similarity(value, c)
		if score < a.opts.SuggestThreshold {
			continue
		}
		out = append(out, models.Suggestion{Name: c, Score: math.Round(score*1000) / 1000})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > a.opts.MaxSuggestions {
		out = out[:a.opts.MaxSuggestions]
	}
	return out
}
