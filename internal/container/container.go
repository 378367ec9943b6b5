package container

import (
	"context"
	"fmt"
	"time"

	"storefront/catalog/internal/client"
	"storefront/catalog/internal/config"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/integrity"
	"storefront/catalog/internal/output"
	"storefront/catalog/internal/proxy"
	"storefront/catalog/internal/repository"
	"storefront/catalog/internal/service"
	"storefront/catalog/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.SourceClient
	Repository   repository.SnapshotRepository
	StateManager state.StateManager

	Service *service.Service

	checker integrity.Checker
	db      *pgxpool.Pool
	redis   *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Sources.Proxies, cfg.Sources.BrandsURL)

	sourceClient, err := client.NewSourceClient(cfg.Sources, proxySupplier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize source client: %w", err)
	}
	container.Client = sourceClient

	fs := afero.NewOsFs()

	var checker integrity.Checker
	if cfg.Catalog.AssetsBaseURL != "" {
		checker = integrity.NewHTTPChecker(cfg.Catalog.AssetsBaseURL, cfg.Catalog.ScanRequestsPerSecond,
			time.Duration(cfg.Sources.Timeout)*time.Second)
		log.Infof("🔗 Checking thumbnails against %s", cfg.Catalog.AssetsBaseURL)
	} else {
		checker = integrity.NewFSChecker(fs, cfg.Catalog.AssetsRoot)
		log.Infof("📁 Checking thumbnails under %s", cfg.Catalog.AssetsRoot)
	}
	container.checker = checker
	scanner := integrity.NewScanner(checker, cfg.Catalog.PlaceholderThumbnail, cfg.Catalog.ScanWorkers)

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		repo := repository.NewSnapshotRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		container.Repository = repo
		log.Info("✅ Connected to database")
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		container.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		container.StateManager = state.NewRedisStateManager(rdb)
		log.Info("✅ Connected to Redis")
	}

	container.Service = service.NewService(
		sourceClient,
		scanner,
		output.NewWriter(fs, cfg.Output),
		container.Repository,
		container.StateManager,
		cfg.Sources,
		cfg.Catalog.PlaceholderThumbnail,
	)

	return container, nil
}

// Run executes one full catalog build
func (c *Container) Run(ctx context.Context) (*domain.HealthReport, error) {
	return c.Service.Run(ctx)
}

// Close releases every connection the container opened
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	if c.Client != nil {
		if err := c.Client.Close(); err != nil {
			log.Warnf("⚠️ Failed to close source client: %v", err)
		}
	}
	if c.checker != nil {
		if err := c.checker.Close(); err != nil {
			log.Warnf("⚠️ Failed to close thumbnail checker: %v", err)
		}
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	return nil
}
