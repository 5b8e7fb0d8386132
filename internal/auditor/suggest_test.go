package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	a := New(DefaultOptions())

	assert.Equal(t, 1.0, a.Similarity("Mbeya", " MBEYA "))
	assert.Equal(t, 0.0, a.Similarity("", "Mbeya"))
	assert.Greater(t, a.Similarity("Mbeya Urbn", "Mbeya Urban"), a.Similarity("Mbeya Urbn", "Chunya"))
	assert.InDelta(t, a.Similarity("Arusha", "Arsha"), a.Similarity("Arsha", "Arusha"), 1e-9)
}

func TestSuggest(t *testing.T) {
	a := New(DefaultOptions())
	candidates := []string{"Mbeya", "Arusha", "Dodoma", "Mwanza"}

	got := a.suggest("Arsha", candidates)
	if assert.NotEmpty(t, got) {
		assert.Equal(t, "Arusha", got[0].Name)
	}
	assert.Empty(t, a.suggest("Qwxyz", candidates))

	a = New(Options{SuggestThreshold: 0, MaxSuggestions: 2})
	got = a.suggest("Mbeya", candidates)
	assert.Len(t, got, 2)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)

	a = New(Options{MaxSuggestions: 0})
	assert.Nil(t, a.suggest("Mbeya", candidates))
}
