package service

import (
	"context"
	"fmt"
	"time"

	"storefront/catalog/internal/brand"
	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/client"
	"storefront/catalog/internal/config"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/integrity"
	"storefront/catalog/internal/output"
	"storefront/catalog/internal/repository"
	"storefront/catalog/internal/state"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	client       client.SourceClient
	scanner      *integrity.Scanner
	writer       *output.Writer
	repository   repository.SnapshotRepository
	stateManager state.StateManager
	sources      config.SourcesConfig
	placeholder  string

	now      func() time.Time
	newRunID func() string
}

// NewService wires the pipeline. repository and stateManager are optional
// and may be nil.
func NewService(
	client client.SourceClient,
	scanner *integrity.Scanner,
	writer *output.Writer,
	repository repository.SnapshotRepository,
	stateManager state.StateManager,
	sources config.SourcesConfig,
	placeholder string,
) *Service {
	return &Service{
		client:       client,
		scanner:      scanner,
		writer:       writer,
		repository:   repository,
		stateManager: stateManager,
		sources:      sources,
		placeholder:  placeholder,
		now:          func() time.Time { return time.Now().UTC() },
		newRunID:     func() string { return uuid.NewString() },
	}
}

// Run fetches both sources, builds and checks the catalog and writes the
// snapshot and health report. A returned error means nothing usable was
// produced; findings of a completed run live in the report.
func (s *Service) Run(ctx context.Context) (*domain.HealthReport, error) {
	runID := s.newRunID()
	log.Infof("🔄 Starting catalog run %s", runID)

	brandRows, catalogRows, err := s.fetchSources(ctx)
	if err != nil {
		return nil, err
	}

	issues := domain.NewIssues()
	snap, processedRows, err := s.build(ctx, brandRows, catalogRows, issues)
	if err != nil {
		return nil, err
	}

	batch := s.writer.Begin()
	defer batch.Abort()

	if err := batch.StageSnapshot(snap); err != nil {
		return nil, err
	}

	s.persist(ctx, snap, issues)

	report := domain.NewHealthReport(runID, snap, processedRows, issues)
	if err := batch.StageReport(report); err != nil {
		return nil, err
	}
	if _, err := batch.Commit(); err != nil {
		return nil, err
	}

	log.Infof("✅ Run %s finished with status %s: %d brands, %d products, %d warnings, %d errors",
		runID, report.Status, report.Counts.Brands, report.Counts.Products,
		report.Counts.Warnings, report.Counts.Errors)

	return report, nil
}

// fetchSources loads both sources concurrently. Either failure cancels the
// other and fails the run.
func (s *Service) fetchSources(ctx context.Context) ([]domain.Row, []domain.Row, error) {
	var brandRows, catalogRows []domain.Row

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.client.FetchRows(gctx, s.sources.BrandsURL)
		if err != nil {
			return fmt.Errorf("brand source: %w", err)
		}
		brandRows = rows
		log.Infof("📥 Fetched %d brand rows", len(rows))
		return nil
	})

	g.Go(func() error {
		rows, err := s.client.FetchRows(gctx, s.sources.CatalogURL)
		if err != nil {
			return fmt.Errorf("catalog source: %w", err)
		}
		catalogRows = rows
		log.Infof("📥 Fetched %d catalog rows", len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Failed to fetch sources: %v", err)
		return nil, nil, err
	}

	return brandRows, catalogRows, nil
}

func (s *Service) build(ctx context.Context, brandRows, catalogRows []domain.Row, issues *domain.Issues) (*domain.Snapshot, int, error) {
	registry := brand.NewBuilder(issues).Build(brandRows)

	result := catalog.NewBuilder(s.placeholder, issues).Build(catalogRows)
	catalog.NewPropagator(s.placeholder, issues).Propagate(result)

	missing, err := s.scanner.Scan(ctx, result.Root)
	if err != nil {
		return nil, 0, err
	}
	issues.AddMissingThumbnails(missing...)

	snap := &domain.Snapshot{
		GeneratedAt: s.now(),
		Brands:      registry.Brands,
		Catalog: domain.Catalog{
			TotalProducts: result.ProductCount,
			Tree:          result.Root.Children,
		},
	}

	return snap, result.ProcessedRows, nil
}

// persist mirrors the snapshot to the optional stores. Failures are run
// errors but never undo the files already written.
func (s *Service) persist(ctx context.Context, snap *domain.Snapshot, issues *domain.Issues) {
	if s.repository != nil {
		if err := s.repository.SaveSnapshot(ctx, snap); err != nil {
			issues.Errorf("snapshot repository: %v", err)
		} else {
			log.Info("✅ Snapshot saved to database")
		}
	}

	if s.stateManager == nil {
		return
	}

	fingerprint, err := state.Fingerprint(snap)
	if err != nil {
		issues.Errorf("run state: %v", err)
		return
	}

	previous, err := s.stateManager.GetLastRun(ctx)
	if err != nil {
		issues.Errorf("run state: %v", err)
		return
	}
	switch {
	case previous == nil:
		log.Info("🆕 No previous run recorded")
	case previous.Fingerprint == fingerprint:
		log.Infof("✅ Catalog unchanged since %s", previous.GeneratedAt.Format(time.RFC3339))
	default:
		log.Infof("🔄 Catalog changed since %s (%d → %d products)",
			previous.GeneratedAt.Format(time.RFC3339), previous.TotalProducts, snap.Catalog.TotalProducts)
	}

	err = s.stateManager.SetLastRun(ctx, state.RunState{
		Fingerprint:   fingerprint,
		TotalProducts: snap.Catalog.TotalProducts,
		GeneratedAt:   snap.GeneratedAt,
	})
	if err != nil {
		issues.Errorf("run state: %v", err)
	}
}
