package importer

import (
	"sort"

	"github.com/google/uuid"
)

type ImportReport struct {
	ImportID     uuid.UUID         `json:"import_id"`
	Kind         Kind              `json:"kind"`
	FileName     string            `json:"file_name"`
	TotalRows    int               `json:"total_rows"`
	CreatedCount int               `json:"created_count"`
	UpdatedCount int               `json:"updated_count"`
	SkippedCount int               `json:"skipped_count"`
	DryRun       bool              `json:"dry_run"`
	Errors       []ValidationError `json:"errors"`
}

// ReportBuilder accumulates per-row outcomes for one batch.
type ReportBuilder struct {
	report ImportReport
}

func NewReportBuilder(id uuid.UUID, kind Kind, fileName string) *ReportBuilder {
	return &ReportBuilder{report: ImportReport{
		ImportID: id,
		Kind:     kind,
		FileName: fileName,
		Errors:   []ValidationError{},
	}}
}

func (b *ReportBuilder) Created() {
	b.report.TotalRows++
	b.report.CreatedCount++
}

func (b *ReportBuilder) Updated() {
	b.report.TotalRows++
	b.report.UpdatedCount++
}

// Skip counts one skipped row and records every error it produced.
func (b *ReportBuilder) Skip(errs ...ValidationError) {
	b.report.TotalRows++
	b.report.SkippedCount++
	b.report.Errors = append(b.report.Errors, errs...)
}

// Build returns the report with errors in input row order. Errors of a
// single row keep the order they were found in.
func (b *ReportBuilder) Build(dryRun bool) ImportReport {
	r := b.report
	r.DryRun = dryRun
	r.Errors = append([]ValidationError{}, b.report.Errors...)
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return r.Errors[i].Row < r.Errors[j].Row
	})
	return r
}
