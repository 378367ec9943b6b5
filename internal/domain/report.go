package domain

import "time"

const (
	ReportStatusOK       = "ok"
	ReportStatusWarnings = "warnings"
	ReportStatusErrors   = "errors"

	// ReportSampleSize caps each sample list in the health report.
	ReportSampleSize = 10
)

type ReportCounts struct {
	Brands            int `json:"brands"`
	Products          int `json:"products"`
	Categories        int `json:"categories"`
	ProcessedRows     int `json:"processedRows"`
	InvalidLinks      int `json:"invalidLinks"`
	MissingThumbnails int `json:"missingThumbnails"`
	Warnings          int `json:"warnings"`
	Errors            int `json:"errors"`
}

type ReportSamples struct {
	InvalidLinks      []InvalidLink      `json:"invalidLinks"`
	MissingThumbnails []MissingThumbnail `json:"missingThumbnails"`
	Warnings          []string           `json:"warnings"`
	Errors            []string           `json:"errors"`
}

// HealthReport summarizes the quality of one run for human review.
type HealthReport struct {
	RunID       string        `json:"runId"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Status      string        `json:"status"`
	Counts      ReportCounts  `json:"counts"`
	Samples     ReportSamples `json:"samples"`
}

func NewHealthReport(runID string, snap *Snapshot, processedRows int, issues *Issues) *HealthReport {
	categories := 0
	if snap.Catalog.Tree != nil {
		categories = snap.Catalog.Tree.Len()
	}

	report := &HealthReport{
		RunID:       runID,
		GeneratedAt: snap.GeneratedAt,
		Counts: ReportCounts{
			Brands:            len(snap.Brands),
			Products:          snap.Catalog.TotalProducts,
			Categories:        categories,
			ProcessedRows:     processedRows,
			InvalidLinks:      len(issues.InvalidLinks),
			MissingThumbnails: len(issues.MissingThumbnails),
			Warnings:          len(issues.Warnings),
			Errors:            len(issues.Errors),
		},
		Samples: ReportSamples{
			InvalidLinks:      sample(issues.InvalidLinks),
			MissingThumbnails: sample(issues.MissingThumbnails),
			Warnings:          sample(issues.Warnings),
			Errors:            sample(issues.Errors),
		},
	}

	switch {
	case report.Counts.Errors > 0:
		report.Status = ReportStatusErrors
	case report.Counts.Warnings > 0 || report.Counts.InvalidLinks > 0 || report.Counts.MissingThumbnails > 0:
		report.Status = ReportStatusWarnings
	default:
		report.Status = ReportStatusOK
	}

	return report
}

// HasErrors reports whether the run should exit non-zero.
func (r *HealthReport) HasErrors() bool {
	return r.Counts.Errors > 0
}

func sample[T any](items []T) []T {
	n := min(len(items), ReportSampleSize)
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
