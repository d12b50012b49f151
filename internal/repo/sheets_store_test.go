package repo

import (
	"strings"
	"testing"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// The Sheets client itself needs live credentials; these tests cover the
// pure row/column translation the backend is built on.

func defaultHeader() []string {
	return []string{"id", "name", "address", "lat", "lon", "description", "days", "start_time", "end_time"}
}

func TestHeaderIndex_CanonicalOrder(t *testing.T) {
	cols, err := headerIndex(defaultHeader())
	if err != nil {
		t.Fatalf("headerIndex: %v", err)
	}
	if cols["id"] != 0 || cols["description"] != 5 || cols["end_time"] != 8 {
		t.Fatalf("unexpected indices: %v", cols)
	}
}

func TestHeaderIndex_ReorderedColumns(t *testing.T) {
	header := []string{"name", "id", "description", "address", "lat", "lon", "days", "start_time", "end_time"}
	cols, err := headerIndex(header)
	if err != nil {
		t.Fatalf("headerIndex: %v", err)
	}
	// Lookup is by name, so a reordered sheet still resolves correctly.
	if cols["id"] != 1 || cols["description"] != 2 {
		t.Fatalf("reordered lookup broken: %v", cols)
	}
}

func TestHeaderIndex_MissingColumn(t *testing.T) {
	header := []string{"id", "name", "address", "lat", "lon", "days", "start_time", "end_time"} // no description
	if _, err := headerIndex(header); err == nil || !strings.Contains(err.Error(), "description") {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}

func TestParseRow_StringAndNumericCells(t *testing.T) {
	cols, _ := headerIndex(defaultHeader())

	// The API may deliver numbers as strings or as float64 depending on
	// render options; both must parse.
	rows := [][]any{
		{"2", "Fassler Hall", "7 E Sheridan Ave", "35.4676", "-97.5164", "$5 beer", "Monday,Friday", "16:00", "18:00"},
		{2.0, "Fassler Hall", "7 E Sheridan Ave", 35.4676, -97.5164, "$5 beer", "Monday,Friday", "16:00", "18:00"},
	}
	for i, row := range rows {
		loc, err := parseRow(row, cols)
		if err != nil {
			t.Fatalf("parseRow case %d: %v", i, err)
		}
		if loc.ID != 2 || loc.Name != "Fassler Hall" || loc.Lat != 35.4676 || loc.Lon != -97.5164 {
			t.Fatalf("parseRow case %d mismatch: %+v", i, loc)
		}
		if loc.Days != "Monday,Friday" || loc.StartTime != "16:00" || loc.EndTime != "18:00" {
			t.Fatalf("parseRow case %d schedule mismatch: %+v", i, loc)
		}
	}
}

func TestParseRow_ShortRowReadsEmptyTrailingCells(t *testing.T) {
	cols, _ := headerIndex(defaultHeader())
	loc, err := parseRow([]any{"3", "Bar", "Addr", "1.0", "2.0"}, cols)
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	if loc.Description != "" || loc.Days != "" || loc.StartTime != "" {
		t.Fatalf("short row should yield empty trailing fields: %+v", loc)
	}
}

func TestParseRow_BadID(t *testing.T) {
	cols, _ := headerIndex(defaultHeader())
	if _, err := parseRow([]any{"", "Bar", "Addr", "1.0", "2.0"}, cols); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestParseRow_BadCoordinates(t *testing.T) {
	cols, _ := headerIndex(defaultHeader())
	if _, err := parseRow([]any{"1", "Bar", "Addr", "north", "2.0"}, cols); err == nil {
		t.Fatalf("expected error for bad lat")
	}
}

func TestRowValuesFor_CanonicalHeader(t *testing.T) {
	cols, _ := headerIndex(defaultHeader())
	loc := domain.Location{
		ID: 7, Name: "N", Address: "A", Lat: 1.5, Lon: -2.5,
		Description: "D", Days: "Monday", StartTime: "15:00", EndTime: "19:00",
	}
	row := rowValuesFor(loc, cols)
	if len(row) != len(sheetColumns) {
		t.Fatalf("rowValuesFor len = %d; want %d", len(row), len(sheetColumns))
	}
	if row[0] != 7 || row[5] != "D" || row[8] != "19:00" {
		t.Fatalf("rowValuesFor layout wrong: %v", row)
	}
}

func TestRowValuesFor_ReorderedHeaderRoundTrips(t *testing.T) {
	// An operator dragging columns around must not corrupt writes: a row
	// rendered against the reordered header has to parse back unchanged.
	header := []string{"name", "id", "description", "address", "lon", "lat", "end_time", "days", "start_time"}
	cols, err := headerIndex(header)
	if err != nil {
		t.Fatalf("headerIndex: %v", err)
	}
	loc := domain.Location{
		ID: 4, Name: "Fassler Hall", Address: "7 E Sheridan Ave",
		Lat: 35.4676, Lon: -97.5164,
		Description: "$5 beer", Days: "Monday,Friday", StartTime: "16:00", EndTime: "18:00",
	}
	row := rowValuesFor(loc, cols)
	if row[1] != 4 || row[0] != "Fassler Hall" || row[5] != 35.4676 || row[6] != "18:00" {
		t.Fatalf("row does not follow the live header: %v", row)
	}
	got, err := parseRow(row, cols)
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	if got != loc {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, loc)
	}
}

func TestRowValuesFor_ExtraColumnsLeftUntouched(t *testing.T) {
	// Unknown columns in the sheet get nil cells, which the Values API
	// skips instead of clearing.
	header := []string{"id", "notes", "name", "address", "lat", "lon", "description", "days", "start_time", "end_time"}
	cols, err := headerIndex(header)
	if err != nil {
		t.Fatalf("headerIndex: %v", err)
	}
	row := rowValuesFor(domain.Location{ID: 1, Name: "Bar"}, cols)
	if len(row) != len(header) {
		t.Fatalf("row len = %d; want %d", len(row), len(header))
	}
	if row[1] != nil {
		t.Fatalf("extra column cell should be nil, got %v", row[1])
	}
}

func TestNextID(t *testing.T) {
	if got := nextID(nil); got != 1 {
		t.Fatalf("nextID(empty) = %d; want 1", got)
	}
	locs := []domain.Location{{ID: 3}, {ID: 9}, {ID: 5}}
	if got := nextID(locs); got != 10 {
		t.Fatalf("nextID = %d; want 10", got)
	}
}

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{0: "A", 5: "F", 8: "I", 25: "Z", 26: "AA", 27: "AB"}
	for in, want := range cases {
		if got := columnLetter(in); got != want {
			t.Fatalf("columnLetter(%d) = %q; want %q", in, got, want)
		}
	}
}

func TestCellHelpers(t *testing.T) {
	if cellInt("12") != 12 || cellInt(12.0) != 12 || cellInt("x") != 0 {
		t.Fatalf("cellInt misbehaved")
	}
	if f, err := cellFloat(" 1.5 "); err != nil || f != 1.5 {
		t.Fatalf("cellFloat string: %v %v", f, err)
	}
	if f, err := cellFloat(2.5); err != nil || f != 2.5 {
		t.Fatalf("cellFloat float: %v %v", f, err)
	}
	if cellString(nil) != "" || cellString("a") != "a" {
		t.Fatalf("cellString misbehaved")
	}
	if cellAt([]any{"a"}, 3) != "" {
		t.Fatalf("cellAt out of range should read empty")
	}
}
