package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrMissingSource = errors.New("missing source URL")

// Config holds all configuration for the application
type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// SourcesConfig holds the two tabular data sources
type SourcesConfig struct {
	BrandsURL  string   `mapstructure:"brands_url"`
	CatalogURL string   `mapstructure:"catalog_url"`
	Format     string   `mapstructure:"format"`
	Timeout    int      `mapstructure:"timeout"`
	Proxies    []string `mapstructure:"proxies"`
}

// CatalogConfig holds tree enrichment and integrity scan settings
type CatalogConfig struct {
	PlaceholderThumbnail  string `mapstructure:"placeholder_thumbnail"`
	AssetsRoot            string `mapstructure:"assets_root"`
	AssetsBaseURL         string `mapstructure:"assets_base_url"`
	ScanWorkers           int    `mapstructure:"scan_workers"`
	ScanRequestsPerSecond int    `mapstructure:"scan_requests_per_second"`
}

// OutputConfig holds where run artifacts are written
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	SnapshotFile string `mapstructure:"snapshot_file"`
	ReportFile   string `mapstructure:"report_file"`
}

// DatabaseConfig holds the optional snapshot database
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds the optional run state store
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from the working directory when present, then
// applies environment overrides (sources.brands_url -> SOURCES_BRANDS_URL).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindAliases(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings a run cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sources.BrandsURL) == "" {
		return fmt.Errorf("%w: sources.brands_url (BRANDS_CSV_URL) is required", ErrMissingSource)
	}
	if strings.TrimSpace(c.Sources.CatalogURL) == "" {
		return fmt.Errorf("%w: sources.catalog_url (CATALOG_CSV_URL) is required", ErrMissingSource)
	}
	switch c.Sources.Format {
	case "csv", "html":
	default:
		return fmt.Errorf("unsupported sources.format %q (want csv or html)", c.Sources.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.brands_url", "")
	v.SetDefault("sources.catalog_url", "")
	v.SetDefault("sources.format", "csv")
	v.SetDefault("sources.timeout", 30)
	v.SetDefault("sources.proxies", []string{})

	v.SetDefault("catalog.placeholder_thumbnail", "/thumbs/placeholder.webp")
	v.SetDefault("catalog.assets_root", "public")
	v.SetDefault("catalog.assets_base_url", "")
	v.SetDefault("catalog.scan_workers", 8)
	v.SetDefault("catalog.scan_requests_per_second", 20)

	v.SetDefault("output.dir", "data")
	v.SetDefault("output.snapshot_file", "catalog.json")
	v.SetDefault("output.report_file", "health-report.json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindAliases maps the short environment names used by the site build.
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("sources.brands_url", "SOURCES_BRANDS_URL", "BRANDS_CSV_URL")
	_ = v.BindEnv("sources.catalog_url", "SOURCES_CATALOG_URL", "CATALOG_CSV_URL")
	_ = v.BindEnv("catalog.placeholder_thumbnail", "CATALOG_PLACEHOLDER_THUMBNAIL", "PLACEHOLDER_THUMBNAIL")
}
