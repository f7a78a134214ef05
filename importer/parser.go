package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ImportRow is one data row of an uploaded table, keyed by normalized column
// name. Line is the 1-based line (or sheet row) it came from.
type ImportRow struct {
	Line   int
	values map[string]string
}

// NewRow builds an ImportRow from already-split values.
func NewRow(line int, values map[string]string) ImportRow {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[NormalizeColumn(k)] = v
	}
	return ImportRow{Line: line, values: copied}
}

// Get returns the raw value of column, or "" when the row has none.
func (r ImportRow) Get(column string) string {
	return r.values[column]
}

// Table is a decoded upload. Records are buffered; Rows walks them lazily.
type Table struct {
	header  []string
	records [][]string
	lines   []int
	index   map[string]int
	missing []string
}

// Parse decodes data according to the file extension of filename and maps
// the header onto the expected columns. Columns not listed are ignored.
func Parse(filename string, data []byte, columns []string) (*Table, error) {
	if len(data) == 0 {
		return nil, &ParseError{Reason: "file is empty"}
	}

	var (
		records [][]string
		lines   []int
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, lines, err = readCSV(data)
	case ".xlsx":
		records, lines, err = readXLSX(data)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", ext)}
	}
	if err != nil {
		return nil, err
	}

	headerAt := -1
	for i, rec := range records {
		if !blank(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &ParseError{Reason: "no header row found"}
	}

	header := make([]string, len(records[headerAt]))
	seen := make(map[string]bool, len(header))
	for i, name := range records[headerAt] {
		name = NormalizeColumn(name)
		if name != "" && seen[name] {
			return nil, &ParseError{Reason: fmt.Sprintf("duplicate column %q in header", name)}
		}
		seen[name] = true
		header[i] = name
	}

	t := &Table{header: header, index: make(map[string]int, len(columns))}
	for _, col := range columns {
		col = NormalizeColumn(col)
		idx := -1
		for i, name := range header {
			if name == col {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.missing = append(t.missing, col)
			continue
		}
		t.index[col] = idx
	}

	for i := headerAt + 1; i < len(records); i++ {
		if blank(records[i]) {
			continue
		}
		t.records = append(t.records, records[i])
		t.lines = append(t.lines, lines[i])
	}
	return t, nil
}

// Rows yields the data rows in file order. Each call starts from the first
// row again.
func (t *Table) Rows() iter.Seq[ImportRow] {
	return func(yield func(ImportRow) bool) {
		for i, rec := range t.records {
			values := make(map[string]string, len(t.index))
			for col, idx := range t.index {
				if idx < len(rec) {
					values[col] = rec[idx]
				}
			}
			if !yield(ImportRow{Line: t.lines[i], values: values}) {
				return
			}
		}
	}
}

// Len is the number of non-blank data rows.
func (t *Table) Len() int { return len(t.records) }

// Missing lists the expected columns the header did not contain.
func (t *Table) Missing() []string { return t.missing }

// NormalizeColumn folds a header label into the form columns are keyed by:
// "Room Code" and "room-code" both become "room_code".
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

func readCSV(data []byte) ([][]string, []int, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, nil, &ParseError{Reason: "file is not valid CSV text"}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{Reason: "malformed CSV", Err: err}
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func readXLSX(data []byte) ([][]string, []int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ParseError{Reason: "unreadable spreadsheet", Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &ParseError{Reason: "spreadsheet has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &ParseError{Reason: "unreadable sheet " + sheets[0], Err: err}
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return rows, lines, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
