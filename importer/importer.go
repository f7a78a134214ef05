// Package importer implements the bulk tabular import pipeline: parse an
// uploaded CSV or XLSX file, validate each row, resolve the parent entities
// rows refer to by natural key, upsert the target rows inside one
// transaction and report what happened.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"seatsync-backend/models"
	"seatsync-backend/storage"

	"github.com/google/uuid"
)

type Kind string

const (
	KindStructure Kind = "structure"
	KindStudents  Kind = "students"
)

// applyFunc writes one validated record and reports whether it created the
// target row (false means an existing row was updated).
type applyFunc func(ctx context.Context, tx storage.Store, res *Resolver, rec Record) (bool, error)

type pipeline struct {
	schema Schema
	apply  applyFunc
}

var pipelines = map[Kind]pipeline{
	KindStructure: {schema: structureSchema, apply: applyStructure},
	KindStudents:  {schema: studentSchema, apply: applyStudent},
}

type Request struct {
	Kind     Kind
	FileName string
	Data     []byte
	DryRun   bool
	UserID   uint
}

type Importer struct {
	store  storage.Store
	engine *Engine
}

func New(store storage.Store) *Importer {
	return &Importer{store: store, engine: NewEngine(store)}
}

// Import runs one batch. It returns a *ParseError when the file cannot be
// decoded and an *ImportError when the storage phase fails; in both cases no
// report is produced and nothing from the batch is persisted.
func (im *Importer) Import(ctx context.Context, req Request) (ImportReport, error) {
	p, ok := pipelines[req.Kind]
	if !ok {
		return ImportReport{}, fmt.Errorf("unknown import kind %q", req.Kind)
	}

	id := uuid.New()
	table, err := Parse(req.FileName, req.Data, p.schema.Columns())
	if err != nil {
		im.record(ctx, id, req, nil, err)
		return ImportReport{}, err
	}
	if missing := p.schema.requiredOf(table.Missing()); len(missing) > 0 {
		log.Printf("Import %s (%s): header is missing required columns %v", id, req.Kind, missing)
	}

	b := NewReportBuilder(id, req.Kind, req.FileName)
	valid := make([]Record, 0, table.Len())
	for row := range table.Rows() {
		rec, errs := p.schema.Validate(row)
		if len(errs) > 0 {
			b.Skip(errs...)
			continue
		}
		valid = append(valid, rec)
	}

	var parents int
	err = im.engine.Run(ctx, req.DryRun, func(tx storage.Store) error {
		res := NewResolver(tx)
		for _, rec := range valid {
			created, err := applyRow(ctx, tx, res, p.apply, rec)
			if err != nil {
				if ve, ok := rowLevel(rec.Line, err); ok {
					b.Skip(ve)
					continue
				}
				return fmt.Errorf("row %d: %w", rec.Line, err)
			}
			if created {
				b.Created()
			} else {
				b.Updated()
			}
		}
		parents = res.Created()
		return nil
	})
	if err != nil {
		importErr := &ImportError{Op: string(req.Kind), Err: err}
		im.record(ctx, id, req, nil, importErr)
		return ImportReport{}, importErr
	}

	report := b.Build(req.DryRun)
	log.Printf("Import %s (%s, dry_run=%v): %d rows, %d created, %d updated, %d skipped, %d parent records created",
		id, req.Kind, req.DryRun, report.TotalRows, report.CreatedCount, report.UpdatedCount, report.SkippedCount, parents)
	im.record(ctx, id, req, &report, nil)
	return report, nil
}

// applyRow runs apply inside a savepoint, so a row skipped during the storage
// phase leaves none of the parents it resolved behind.
func applyRow(ctx context.Context, tx storage.Store, res *Resolver, apply applyFunc, rec Record) (bool, error) {
	var created bool
	err := tx.Transaction(ctx, func(rowTx storage.Store) error {
		res.begin(rowTx)
		var err error
		created, err = apply(ctx, rowTx, res, rec)
		return err
	})
	if err != nil {
		res.discard()
		return false, err
	}
	return created, nil
}

// record writes the import history entry outside the batch transaction, so a
// failed batch still leaves a trace.
func (im *Importer) record(ctx context.Context, id uuid.UUID, req Request, report *ImportReport, failure error) {
	entry := models.ImportLog{
		ID:       id,
		Kind:     string(req.Kind),
		FileName: req.FileName,
		DryRun:   req.DryRun,
		UserID:   req.UserID,
		Status:   models.ImportStatusCompleted,
	}
	if report != nil {
		entry.TotalRows = report.TotalRows
		entry.Created = report.CreatedCount
		entry.Updated = report.UpdatedCount
		entry.Skipped = report.SkippedCount
	}
	if failure != nil {
		entry.Status = models.ImportStatusFailed
		entry.Message = failure.Error()
		log.Printf("Import %s (%s) failed: %v", id, req.Kind, failure)
	}
	if err := im.store.Create(ctx, &entry); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Failed to record import %s: %v", id, err)
	}
}
