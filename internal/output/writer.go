package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"storefront/catalog/internal/config"
	"storefront/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const tmpSuffix = ".tmp"

// Writer persists run artifacts. Artifacts of one run are staged as temp
// files and only renamed into place once all of them were staged, so a
// failed run never leaves a new snapshot next to a stale report.
type Writer struct {
	fs           afero.Fs
	dir          string
	snapshotFile string
	reportFile   string
}

func NewWriter(fs afero.Fs, cfg config.OutputConfig) *Writer {
	return &Writer{
		fs:           fs,
		dir:          cfg.Dir,
		snapshotFile: cfg.SnapshotFile,
		reportFile:   cfg.ReportFile,
	}
}

// Batch is one run's set of staged artifacts.
type Batch struct {
	writer    *Writer
	staged    []string
	committed bool
}

func (w *Writer) Begin() *Batch {
	return &Batch{writer: w}
}

func (b *Batch) StageSnapshot(snap *domain.Snapshot) error {
	return b.stage(b.writer.snapshotFile, snap)
}

func (b *Batch) StageReport(report *domain.HealthReport) error {
	return b.stage(b.writer.reportFile, report)
}

func (b *Batch) stage(name string, v any) error {
	if b.committed {
		return fmt.Errorf("batch already committed")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	data = append(data, '\n')

	w := b.writer
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, name)
	if err := afero.WriteFile(w.fs, path+tmpSuffix, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path+tmpSuffix, err)
	}
	b.staged = append(b.staged, path)

	log.Debugf("Staged %s (%d bytes)", path, len(data))
	return nil
}

// Commit renames every staged artifact into place and returns the final
// paths in staging order.
func (b *Batch) Commit() ([]string, error) {
	if b.committed {
		return nil, fmt.Errorf("batch already committed")
	}

	fs := b.writer.fs
	for i, path := range b.staged {
		if err := fs.Rename(path+tmpSuffix, path); err != nil {
			b.staged = b.staged[i:]
			return nil, fmt.Errorf("failed to replace %s: %w", path, err)
		}
		log.Infof("💾 Wrote %s", path)
	}

	b.committed = true
	return b.staged, nil
}

// Abort removes staged temp files. It is a no-op after Commit.
func (b *Batch) Abort() {
	if b.committed {
		return
	}
	for _, path := range b.staged {
		if err := b.writer.fs.Remove(path + tmpSuffix); err != nil {
			log.Debugf("Failed to remove %s: %v", path+tmpSuffix, err)
		}
	}
	b.staged = nil
}
