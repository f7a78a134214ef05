package importer

import (
	"errors"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

var roomColumns = []string{"block", "floor", "room", "capacity"}

func collect(t *testing.T, table *Table) []ImportRow {
	t.Helper()
	var rows []ImportRow
	for row := range table.Rows() {
		rows = append(rows, row)
	}
	return rows
}

func TestParseCSV(t *testing.T) {
	data := []byte("Block,Floor,Room,Capacity\nA,1,101,30\nA,1,102,25\n")

	table, err := Parse("rooms.csv", data, roomColumns)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rows := collect(t, table)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Errorf("expected lines 2 and 3, got %d and %d", rows[0].Line, rows[1].Line)
	}
	if rows[1].Get("room") != "102" || rows[1].Get("capacity") != "25" {
		t.Errorf("unexpected row values: room=%q capacity=%q", rows[1].Get("room"), rows[1].Get("capacity"))
	}
}

func TestParseIgnoresUnknownColumns(t *testing.T) {
	data := []byte("block,notes,floor,room,capacity\nA,ignore me,1,101,30\n")

	table, err := Parse("rooms.csv", data, roomColumns)
	if err != nil {
		t.Fatal(err)
	}
	rows := collect(t, table)
	if rows[0].Get("notes") != "" {
		t.Error("expected unknown column to be dropped")
	}
	if rows[0].Get("floor") != "1" {
		t.Errorf("expected floor 1, got %q", rows[0].Get("floor"))
	}
}

func TestParseMissingColumnsDoNotFail(t *testing.T) {
	data := []byte("block,room\nA,101\n")

	table, err := Parse("rooms.csv", data, roomColumns)
	if err != nil {
		t.Fatalf("missing columns should not fail parsing: %v", err)
	}
	if !slices.Equal(table.Missing(), []string{"floor", "capacity"}) {
		t.Errorf("unexpected missing columns: %v", table.Missing())
	}
	rows := collect(t, table)
	if rows[0].Get("capacity") != "" {
		t.Error("expected empty value for missing column")
	}
}

func TestParseNormalizesHeaderAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(" Block , FLOOR,Room,capacity\nA,1,101,30\n")...)

	table, err := Parse("rooms.CSV", data, roomColumns)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Missing()) != 0 {
		t.Errorf("expected no missing columns, got %v", table.Missing())
	}
	if got := collect(t, table)[0].Get("block"); got != "A" {
		t.Errorf("expected block A, got %q", got)
	}
}

func TestParseSkipsBlankRowsKeepingLineNumbers(t *testing.T) {
	data := []byte("block,floor,room,capacity\nA,1,101,30\n,,,\n\nA,1,102,20\n")

	table, err := Parse("rooms.csv", data, roomColumns)
	if err != nil {
		t.Fatal(err)
	}
	rows := collect(t, table)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Line != 5 {
		t.Errorf("expected second row on line 5, got %d", rows[1].Line)
	}
}

func TestRowsIsRestartable(t *testing.T) {
	data := []byte("block,floor,room,capacity\nA,1,101,30\nB,2,201,10\n")

	table, err := Parse("rooms.csv", data, roomColumns)
	if err != nil {
		t.Fatal(err)
	}

	first := collect(t, table)
	second := collect(t, table)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both passes to yield 2 rows, got %d and %d", len(first), len(second))
	}

	// Stopping early must not break a later full pass.
	for range table.Rows() {
		break
	}
	if len(collect(t, table)) != 2 {
		t.Error("expected a full pass after an early stop")
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Block", "Floor", "Room", "Capacity"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"B", 2, "201", 40})
	f.SetSheetRow("Sheet1", "A4", &[]interface{}{"B", 2, "202", 35})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	table, err := Parse("rooms.xlsx", buf.Bytes(), roomColumns)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rows := collect(t, table)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Get("capacity") != "40" || rows[1].Line != 4 {
		t.Errorf("unexpected rows: capacity=%q line=%d", rows[0].Get("capacity"), rows[1].Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"empty file", "rooms.csv", nil},
		{"unsupported extension", "rooms.pdf", []byte("block\nA\n")},
		{"corrupt spreadsheet", "rooms.xlsx", []byte{0x50, 0x4b, 0x03, 0x04, 0xde, 0xad, 0xbe, 0xef}},
		{"binary csv", "rooms.csv", []byte{0x00, 0xff, 0xfe, 0x01}},
		{"malformed quotes", "rooms.csv", []byte("block,floor\n\"A,1\n")},
		{"duplicate header", "rooms.csv", []byte("block,Block,floor\nA,A,1\n")},
		{"only blank rows", "rooms.csv", []byte(",,\n,,\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.filename, tt.data, roomColumns)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}
