package importer

import (
	"errors"
	"fmt"

	"seatsync-backend/storage"
)

// ParseError means the uploaded bytes could not be read as the expected
// tabular format. The whole batch is rejected before any row is processed.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a row-level failure. It is collected into the report,
// never returned on its own.
type ValidationError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// ResolutionError is returned when a natural key matches more than one
// existing parent entity.
type ResolutionError struct {
	Kind    string
	Field   string
	Key     string
	Matches int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s %q is ambiguous (%d matches)", e.Kind, e.Key, e.Matches)
}

// RowError rejects a single row during the storage phase without aborting
// the batch, e.g. an email already owned by a staff account.
type RowError struct {
	Field  string
	Reason string
}

func (e *RowError) Error() string { return e.Field + ": " + e.Reason }

// ImportError is a batch-level storage failure. Every write of the batch has
// been rolled back when it is returned.
type ImportError struct {
	Op  string
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s import failed: %v", e.Op, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Conflict reports whether the batch lost a uniqueness race and can be
// retried.
func (e *ImportError) Conflict() bool {
	return errors.Is(e.Err, storage.ErrDuplicate)
}

// rowLevel converts errors that only concern one row into a ValidationError.
// Anything else is a storage failure and must abort the batch.
func rowLevel(line int, err error) (ValidationError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return ValidationError{Row: line, Field: re.Field, Reason: re.Error()}, true
	}
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return ValidationError{Row: line, Field: rowErr.Field, Reason: rowErr.Reason}, true
	}
	return ValidationError{}, false
}
