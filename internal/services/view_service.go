// ViewService derives the artifacts the dashboard actually renders: map
// markers with tooltips, the tile style for the active theme, and the
// management table rows. It is the read-side counterpart of
// LocationService's refresh counter.
package services

import (
	"context"
	"fmt"
	"html"
	"sync"

	"github.com/paulmach/orb"

	"github.com/okchh/go-happyhour-backend/internal/domain"
	"github.com/okchh/go-happyhour-backend/internal/filter"
)

// Themes supported by the dashboard. Anything unrecognized falls back to
// light.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Tile styles and marker colors per theme, matching the dashboard's map
// renderer.
const (
	tileStyleLight = "open-street-map"
	tileStyleDark  = "carto-darkmatter"

	markerColorLight = "#e74c3c"
	markerColorDark  = "#ff6b6b"
)

// descriptionPreviewRunes caps the description column in table rows.
const descriptionPreviewRunes = 50

// Marker is one map pin: position plus the pre-rendered tooltip markup.
// Point is GeoJSON-ordered (lon, lat).
type Marker struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Point   orb.Point `json:"point"`
	Tooltip string    `json:"tooltip"`
}

// MapView is the full render model for the public map: everything the
// client needs to draw the current filter state without further queries.
// Version echoes the refresh counter the view was computed at; a client
// holding an equal version can skip re-rendering.
type MapView struct {
	Version     int64     `json:"version"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	Theme       string    `json:"theme"`
	TileStyle   string    `json:"tile_style"`
	MarkerColor string    `json:"marker_color"`
	Center      orb.Point `json:"center"`
	Zoom        int       `json:"zoom"`
	Markers     []Marker  `json:"markers"`
}

// TableRow is one line of the management table, with display-ready
// columns (truncated description, joined hours).
type TableRow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Days        string `json:"days"`
	Hours       string `json:"hours"`
}

// viewKey identifies one computed map view. Two requests with equal keys
// are guaranteed to see identical data, because every mutation moves
// Version.
type viewKey struct {
	day, at, theme string
	version        int64
}

// ViewService computes and memoizes map views.
//
// The memo holds exactly the last computed view: the dashboard is a
// single shared map, so consecutive requests overwhelmingly repeat one
// key, and a mutation (version bump) or filter change simply misses and
// recomputes. Safe for concurrent use.
type ViewService struct {
	Loc *LocationService

	// DefaultCenter (lon, lat) and DefaultZoom position the map when no
	// markers match the current filters.
	DefaultCenter orb.Point
	DefaultZoom   int

	mu     sync.Mutex
	key    viewKey
	cached *MapView
}

// NewViewService constructs a ViewService over the given location
// service with the configured fallback viewport.
func NewViewService(loc *LocationService, defaultCenter orb.Point, defaultZoom int) *ViewService {
	return &ViewService{Loc: loc, DefaultCenter: defaultCenter, DefaultZoom: defaultZoom}
}

// Map returns the render model for the given selectors, recomputing only
// when the selectors or the refresh counter changed since the last call.
func (v *ViewService) Map(ctx context.Context, day, at, theme string) (*MapView, error) {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	key := viewKey{day: day, at: at, theme: theme, version: v.Loc.Version()}

	v.mu.Lock()
	if v.cached != nil && v.key == key {
		cached := v.cached
		v.mu.Unlock()
		return cached, nil
	}
	v.mu.Unlock()

	locs, err := v.Loc.List(ctx)
	if err != nil {
		return nil, err
	}
	view := v.project(filter.Apply(locs, day, at), key)

	v.mu.Lock()
	v.key = key
	v.cached = view
	v.mu.Unlock()
	return view, nil
}

// Table returns one page of management table rows plus the total venue
// count and the refresh counter the page was read at.
func (v *ViewService) Table(ctx context.Context, page, pageSize int) ([]TableRow, int64, int64, error) {
	locs, total, err := v.Loc.ListPage(ctx, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	rows := make([]TableRow, 0, len(locs))
	for _, loc := range locs {
		rows = append(rows, TableRow{
			ID:          loc.ID,
			Name:        loc.Name,
			Address:     loc.Address,
			Description: previewDescription(loc.Description),
			Days:        loc.Days,
			Hours:       fmt.Sprintf("%s - %s", loc.StartTime, loc.EndTime),
		})
	}
	return rows, total, v.Loc.Version(), nil
}

// project turns a filtered snapshot into the map render model.
func (v *ViewService) project(locs []domain.Location, key viewKey) *MapView {
	markers := make([]Marker, 0, len(locs))
	points := make(orb.MultiPoint, 0, len(locs))
	for _, loc := range locs {
		p := orb.Point{loc.Lon, loc.Lat}
		markers = append(markers, Marker{
			ID:      loc.ID,
			Name:    loc.Name,
			Point:   p,
			Tooltip: tooltip(loc),
		})
		points = append(points, p)
	}

	center := v.DefaultCenter
	if len(points) > 0 {
		center = points.Bound().Center()
	}

	tile, color := tileStyleLight, markerColorLight
	if key.theme == ThemeDark {
		tile, color = tileStyleDark, markerColorDark
	}

	return &MapView{
		Version:     key.version,
		Day:         key.day,
		Time:        key.at,
		Theme:       key.theme,
		TileStyle:   tile,
		MarkerColor: color,
		Center:      center,
		Zoom:        v.DefaultZoom,
		Markers:     markers,
	}
}

// tooltip renders the hover markup for one venue: bold name, then
// address, specials, days, and the happy-hour window. Field values are
// escaped so a venue description cannot inject markup.
func tooltip(loc domain.Location) string {
	return fmt.Sprintf("<b>%s</b><br>%s<br>%s<br>Days: %s<br>Time: %s - %s",
		html.EscapeString(loc.Name),
		html.EscapeString(loc.Address),
		html.EscapeString(loc.Description),
		html.EscapeString(loc.Days),
		loc.StartTime, loc.EndTime,
	)
}

// previewDescription truncates long descriptions for the table column.
func previewDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionPreviewRunes {
		return s
	}
	return string(runes[:descriptionPreviewRunes]) + "..."
}
