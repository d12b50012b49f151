// Google Sheets implementation of the Store contract.
//
// The worksheet acts as a single table: row 1 is a header row naming the
// same fields as the SQLite schema (id, name, address, lat, lon,
// description, days, start_time, end_time) and every following row is one
// venue. Columns are located by header name, never by fixed position, so
// an operator reordering columns in the sheet corrupts neither reads nor
// writes: rows written back are laid out to match the live header.
//
// Identity assignment computes max(id)+1 over the current rows. The
// Sheets API has no atomic counter, so this is only safe under the
// application's single-writer assumption; a deployment with multiple
// concurrent admin processes would need an external allocator.
package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// sheetColumns names the columns every worksheet must carry. Reads and
// writes both follow the live header, not this order.
var sheetColumns = []string{
	"id", "name", "address", "lat", "lon", "description", "days", "start_time", "end_time",
}

// SheetsStore is the remote-spreadsheet Store implementation.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string

	// sheetID is the numeric id of the worksheet, resolved lazily; it is
	// needed only for row deletion.
	sheetID int64
	haveID  bool
}

// NewSheetsStore builds a SheetsStore for one worksheet of one
// spreadsheet. credentialsFile points at a service-account JSON key; when
// empty, Application Default Credentials are used.
func NewSheetsStore(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &StorageError{Op: "open sheets client", Err: err}
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// readAll fetches the header row plus all data rows in one call.
func (s *SheetsStore) readAll(ctx context.Context) (header []string, rows [][]any, err error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName).
		Context(ctx).Do()
	if err != nil {
		return nil, nil, &StorageError{Op: "read worksheet", Err: err}
	}
	if len(resp.Values) == 0 {
		return nil, nil, &StorageError{Op: "read worksheet", Err: fmt.Errorf("worksheet %q has no header row", s.sheetName)}
	}
	header = make([]string, 0, len(resp.Values[0]))
	for _, c := range resp.Values[0] {
		header = append(header, strings.TrimSpace(cellString(c)))
	}
	return header, resp.Values[1:], nil
}

// load fetches and parses the whole worksheet, returning the header index
// alongside the rows so callers that write back can match the live layout.
func (s *SheetsStore) load(ctx context.Context) (map[string]int, []domain.Location, error) {
	header, rows, err := s.readAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	cols, err := headerIndex(header)
	if err != nil {
		return nil, nil, &StorageError{Op: "read worksheet", Err: err}
	}
	out := make([]domain.Location, 0, len(rows))
	for i, row := range rows {
		loc, err := parseRow(row, cols)
		if err != nil {
			return nil, nil, &StorageError{Op: fmt.Sprintf("parse row %d", i+2), Err: err}
		}
		out = append(out, loc)
	}
	return cols, out, nil
}

// ListAll returns every data row in worksheet order.
func (s *SheetsStore) ListAll(ctx context.Context) ([]domain.Location, error) {
	_, locs, err := s.load(ctx)
	return locs, err
}

// GetByID scans the worksheet for the row with the given id.
func (s *SheetsStore) GetByID(ctx context.Context, id int) (*domain.Location, error) {
	locs, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range locs {
		if locs[i].ID == id {
			return &locs[i], nil
		}
	}
	return nil, ErrNotFound
}

// Insert appends a new row with id = max(existing)+1 (1 for an empty
// sheet) and returns the assigned id.
func (s *SheetsStore) Insert(ctx context.Context, loc domain.Location) (int, error) {
	cols, locs, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	loc.ID = nextID(locs)

	vr := &sheets.ValueRange{Values: [][]any{rowValuesFor(loc, cols)}}
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, &StorageError{Op: "append row", Err: err}
	}
	return loc.ID, nil
}

// Update rewrites the row holding the given id, cell by cell in the
// sheet's own column layout.
func (s *SheetsStore) Update(ctx context.Context, id int, loc domain.Location) error {
	rowNum, cols, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}
	loc.ID = id

	row := rowValuesFor(loc, cols)
	rng := fmt.Sprintf("%s!A%d:%s%d", s.sheetName, rowNum, columnLetter(len(row)-1), rowNum)
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return &StorageError{Op: "update row", Err: err}
	}
	return nil
}

// UpdateDescription rewrites only the description cell of the row holding
// the given id, located by header name.
func (s *SheetsStore) UpdateDescription(ctx context.Context, id int, description string) error {
	rowNum, cols, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!%s%d", s.sheetName, columnLetter(cols["description"]), rowNum)
	vr := &sheets.ValueRange{Values: [][]any{{description}}}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return &StorageError{Op: "update description cell", Err: err}
	}
	return nil
}

// Delete removes the whole row holding the given id.
func (s *SheetsStore) Delete(ctx context.Context, id int) error {
	rowNum, _, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}
	sheetID, err := s.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1), // zero-based, inclusive
					EndIndex:   int64(rowNum),     // exclusive
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &StorageError{Op: "delete row", Err: err}
	}
	return nil
}

// findRow locates the 1-based worksheet row number carrying the given id,
// returning the header index alongside. Row 1 is the header, so the first
// data row is row 2.
func (s *SheetsStore) findRow(ctx context.Context, id int) (int, map[string]int, error) {
	header, rows, err := s.readAll(ctx)
	if err != nil {
		return 0, nil, err
	}
	cols, err := headerIndex(header)
	if err != nil {
		return 0, nil, &StorageError{Op: "read worksheet", Err: err}
	}
	for i, row := range rows {
		if cellInt(cellAt(row, cols["id"])) == id {
			return i + 2, cols, nil
		}
	}
	return 0, nil, ErrNotFound
}

// resolveSheetID looks up (and caches) the numeric worksheet id by title.
func (s *SheetsStore) resolveSheetID(ctx context.Context) (int64, error) {
	if s.haveID {
		return s.sheetID, nil
	}
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, &StorageError{Op: "read spreadsheet metadata", Err: err}
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			s.sheetID = sh.Properties.SheetId
			s.haveID = true
			return s.sheetID, nil
		}
	}
	return 0, &StorageError{Op: "read spreadsheet metadata", Err: fmt.Errorf("worksheet %q not found", s.sheetName)}
}

//
// Pure row/column helpers (unit-tested without network access)
//

// headerIndex maps the required column names to their zero-based position
// in the header row. Unknown extra columns are ignored; a missing
// required column is an error.
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(sheetColumns))
	for i, name := range header {
		idx[strings.ToLower(name)] = i
	}
	for _, want := range sheetColumns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("worksheet header missing column %q", want)
		}
	}
	return idx, nil
}

// parseRow converts one worksheet row into a Location using the header
// index. Short rows read missing trailing cells as empty.
func parseRow(row []any, cols map[string]int) (domain.Location, error) {
	idCell := cellAt(row, cols["id"])
	id := cellInt(idCell)
	if id == 0 {
		return domain.Location{}, fmt.Errorf("row has no integer id (got %q)", cellString(idCell))
	}
	lat, err := cellFloat(cellAt(row, cols["lat"]))
	if err != nil {
		return domain.Location{}, fmt.Errorf("row id %d: bad lat: %w", id, err)
	}
	lon, err := cellFloat(cellAt(row, cols["lon"]))
	if err != nil {
		return domain.Location{}, fmt.Errorf("row id %d: bad lon: %w", id, err)
	}
	return domain.Location{
		ID:          id,
		Name:        cellString(cellAt(row, cols["name"])),
		Address:     cellString(cellAt(row, cols["address"])),
		Lat:         lat,
		Lon:         lon,
		Description: cellString(cellAt(row, cols["description"])),
		Days:        cellString(cellAt(row, cols["days"])),
		StartTime:   cellString(cellAt(row, cols["start_time"])),
		EndTime:     cellString(cellAt(row, cols["end_time"])),
	}, nil
}

// rowValuesFor renders a Location as a worksheet row laid out to match the
// header index, so writes land in the right cells even on a reordered
// sheet. Positions belonging to unknown extra columns stay nil, which the
// API leaves untouched.
func rowValuesFor(loc domain.Location, cols map[string]int) []any {
	width := 0
	for _, name := range sheetColumns {
		if i := cols[name]; i >= width {
			width = i + 1
		}
	}
	row := make([]any, width)
	row[cols["id"]] = loc.ID
	row[cols["name"]] = loc.Name
	row[cols["address"]] = loc.Address
	row[cols["lat"]] = loc.Lat
	row[cols["lon"]] = loc.Lon
	row[cols["description"]] = loc.Description
	row[cols["days"]] = loc.Days
	row[cols["start_time"]] = loc.StartTime
	row[cols["end_time"]] = loc.EndTime
	return row
}

// nextID computes max(id)+1 over the given rows, or 1 for an empty set.
func nextID(locs []domain.Location) int {
	max := 0
	for _, l := range locs {
		if l.ID > max {
			max = l.ID
		}
	}
	return max + 1
}

// columnLetter converts a zero-based column index to its A1-notation
// letter ("A".."Z", "AA"..).
func columnLetter(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

// cellAt reads row[i], tolerating rows shorter than the header.
func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// cellString renders a cell value as a string.
func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// cellInt parses a cell as an integer, returning 0 when it cannot.
func cellInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		n, err := strconv.Atoi(strings.TrimSpace(cellString(v)))
		if err != nil {
			return 0
		}
		return n
	}
}

// cellFloat parses a cell as a float64.
func cellFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	default:
		return strconv.ParseFloat(strings.TrimSpace(cellString(v)), 64)
	}
}
