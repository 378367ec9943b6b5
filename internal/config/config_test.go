package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BRANDS_CSV_URL", "https://example.com/brands.csv")
	t.Setenv("CATALOG_CSV_URL", "https://example.com/catalog.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/brands.csv", cfg.Sources.BrandsURL)
	assert.Equal(t, "https://example.com/catalog.csv", cfg.Sources.CatalogURL)
	assert.Equal(t, "csv", cfg.Sources.Format)
	assert.Equal(t, "/thumbs/placeholder.webp", cfg.Catalog.PlaceholderThumbnail)
	assert.Equal(t, "public", cfg.Catalog.AssetsRoot)
	assert.Equal(t, 8, cfg.Catalog.ScanWorkers)
	assert.Equal(t, "data", cfg.Output.Dir)
	assert.Equal(t, "catalog.json", cfg.Output.SnapshotFile)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BRANDS_CSV_URL", "https://example.com/alias.csv")
	t.Setenv("SOURCES_BRANDS_URL", "https://example.com/full.csv")
	t.Setenv("CATALOG_CSV_URL", "https://example.com/catalog.csv")
	t.Setenv("PLACEHOLDER_THUMBNAIL", "/thumbs/none.png")
	t.Setenv("SOURCES_FORMAT", "html")
	t.Setenv("CATALOG_SCAN_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/full.csv", cfg.Sources.BrandsURL)
	assert.Equal(t, "/thumbs/none.png", cfg.Catalog.PlaceholderThumbnail)
	assert.Equal(t, "html", cfg.Sources.Format)
	assert.Equal(t, 2, cfg.Catalog.ScanWorkers)
}

func TestLoad_MissingSources(t *testing.T) {
	t.Run("no brands url", func(t *testing.T) {
		t.Setenv("CATALOG_CSV_URL", "https://example.com/catalog.csv")

		_, err := Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingSource))
		assert.Contains(t, err.Error(), "brands_url")
	})

	t.Run("no catalog url", func(t *testing.T) {
		t.Setenv("BRANDS_CSV_URL", "https://example.com/brands.csv")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingSource)
		assert.Contains(t, err.Error(), "catalog_url")
	})
}

func TestValidate_Format(t *testing.T) {
	cfg := &Config{Sources: SourcesConfig{BrandsURL: "a", CatalogURL: "b", Format: "xlsx"}}
	assert.Error(t, cfg.Validate())

	cfg.Sources.Format = "html"
	assert.NoError(t, cfg.Validate())
}
