package bootstrap

import (
	"context"
	"testing"

	"github.com/listing-locator/app/config"
	"github.com/listing-locator/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCache(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    interface{}
		wantErr bool
	}{
		{name: "memory", backend: "memory", want: &services.LRUCacheService{}},
		{name: "none", backend: "none", want: nil},
		{name: "unknown", backend: "memcached", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Cache: config.CacheCfg{Backend: tt.backend, L1Size: 10}}
			got, err := NewCache(cfg, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestOptionalBackendsSkipped(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	client, store, err := ConnectMongo(ctx, config.MongoCfg{}, logger)
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.Nil(t, store)

	index, err := NewIndex(config.MeiliCfg{}, logger)
	require.NoError(t, err)
	assert.Nil(t, index)

	gc, err := NewGeocoder(config.GeocodeCfg{}, logger)
	require.NoError(t, err)
	assert.Nil(t, gc)
}

func TestOpenStoreNotConfigured(t *testing.T) {
	t.Setenv("PG_HOST", "")
	_, err := OpenStore(context.Background(), config.PostgresCfg{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadTaxonomyEmbedded(t *testing.T) {
	tax, err := LoadTaxonomy(config.TaxonomyCfg{})
	require.NoError(t, err)
	assert.True(t, tax.HasRegion("Mbeya"))

	src, err := LoadSource("")
	require.NoError(t, err)
	assert.Equal(t, tax.Stats().Regions, len(src.Regions))

	_, err = LoadTaxonomy(config.TaxonomyCfg{Path: "testdata/missing.yaml"})
	assert.Error(t, err)
}

func TestAuditOptions(t *testing.T) {
	opts := AuditOptions(config.AuditCfg{JWWeight: 0.6, LevWeight: 0.4, SuggestionThreshold: 0.75, MaxSuggestions: 3})
	assert.Equal(t, 0.6, opts.JWWeight)
	assert.Equal(t, 0.4, opts.LevWeight)
	assert.Equal(t, 0.75, opts.SuggestThreshold)
	assert.Equal(t, 3, opts.MaxSuggestions)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(&config.Config{Server: config.ServerCfg{Env: env}})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
