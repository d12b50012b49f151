package services

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

var okcCenter = orb.Point{-97.5164, 35.4676}

func newTestViewService(st *fakeStore) *ViewService {
	loc := NewLocationService(st, &fakeGeocoder{})
	return NewViewService(loc, okcCenter, 11)
}

func TestMap_ProjectsMarkersAndCenter(t *testing.T) {
	st := newFakeStore(
		domain.Location{ID: 1, Name: "A", Lat: 35.0, Lon: -97.0, Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
		domain.Location{ID: 2, Name: "B", Lat: 37.0, Lon: -95.0, Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
	)
	v := newTestViewService(st)

	view, err := v.Map(context.Background(), "", "", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(view.Markers) != 2 {
		t.Fatalf("markers = %d; want 2", len(view.Markers))
	}
	if view.Markers[0].Point != (orb.Point{-97.0, 35.0}) {
		t.Fatalf("marker point = %v", view.Markers[0].Point)
	}
	if view.Center != (orb.Point{-96.0, 36.0}) {
		t.Fatalf("center = %v; want bound midpoint", view.Center)
	}
	if view.TileStyle != "open-street-map" || view.MarkerColor != "#e74c3c" {
		t.Fatalf("light theme projection wrong: %s %s", view.TileStyle, view.MarkerColor)
	}
	if view.Zoom != 11 {
		t.Fatalf("zoom = %d", view.Zoom)
	}
}

func TestMap_EmptyResult_UsesDefaultCenter(t *testing.T) {
	st := newFakeStore(
		domain.Location{ID: 1, Name: "A", Lat: 35.0, Lon: -97.0, Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
	)
	v := newTestViewService(st)

	view, err := v.Map(context.Background(), "Sunday", "", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(view.Markers) != 0 {
		t.Fatalf("expected no markers, got %d", len(view.Markers))
	}
	if view.Center != okcCenter {
		t.Fatalf("center = %v; want default", view.Center)
	}
}

func TestMap_DarkTheme(t *testing.T) {
	v := newTestViewService(newFakeStore())
	view, err := v.Map(context.Background(), "", "", ThemeDark)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if view.TileStyle != "carto-darkmatter" || view.MarkerColor != "#ff6b6b" {
		t.Fatalf("dark theme projection wrong: %s %s", view.TileStyle, view.MarkerColor)
	}
}

func TestMap_UnknownThemeFallsBackToLight(t *testing.T) {
	v := newTestViewService(newFakeStore())
	view, err := v.Map(context.Background(), "", "", "sepia")
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if view.Theme != ThemeLight || view.TileStyle != "open-street-map" {
		t.Fatalf("theme fallback wrong: %s %s", view.Theme, view.TileStyle)
	}
}

func TestMap_FiltersApplied(t *testing.T) {
	st := newFakeStore(
		domain.Location{ID: 1, Name: "Mon late", Days: "Monday", StartTime: "20:00", EndTime: "23:00"},
		domain.Location{ID: 2, Name: "Mon early", Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
		domain.Location{ID: 3, Name: "Tue", Days: "Tuesday", StartTime: "15:00", EndTime: "19:00"},
	)
	v := newTestViewService(st)

	view, err := v.Map(context.Background(), "Monday", "16:00", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(view.Markers) != 1 || view.Markers[0].ID != 2 {
		t.Fatalf("filtered markers = %+v", view.Markers)
	}
}

func TestMap_CachesUntilInputsChange(t *testing.T) {
	st := newFakeStore(
		domain.Location{ID: 1, Name: "A", Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
	)
	v := newTestViewService(st)
	ctx := context.Background()

	first, err := v.Map(ctx, "Monday", "16:00", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	second, err := v.Map(ctx, "Monday", "16:00", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if first != second {
		t.Fatalf("identical request did not hit the cache")
	}
	if st.lists != 1 {
		t.Fatalf("store listed %d times; want 1", st.lists)
	}

	// A different selector misses the cache.
	if _, err := v.Map(ctx, "Monday", "18:00", ThemeLight); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if st.lists != 2 {
		t.Fatalf("store listed %d times; want 2", st.lists)
	}
}

func TestMap_RefreshCounterInvalidatesCache(t *testing.T) {
	st := newFakeStore(
		domain.Location{ID: 1, Name: "A", Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
	)
	v := newTestViewService(st)
	ctx := context.Background()

	before, err := v.Map(ctx, "", "", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	if err := v.Loc.UpdateDescription(ctx, 1, "new deal"); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}

	after, err := v.Map(ctx, "", "", ThemeLight)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if before == after {
		t.Fatalf("cache served stale view after mutation")
	}
	if after.Version != 1 {
		t.Fatalf("view version = %d; want 1", after.Version)
	}
	if !strings.Contains(after.Markers[0].Tooltip, "new deal") {
		t.Fatalf("tooltip not rebuilt: %q", after.Markers[0].Tooltip)
	}
}

func TestTooltip_EscapesFields(t *testing.T) {
	loc := domain.Location{
		Name:        "Dive <Bar>",
		Address:     "1 Main & Broadway",
		Description: "<script>alert(1)</script>",
		Days:        "Monday",
		StartTime:   "15:00",
		EndTime:     "19:00",
	}
	got := tooltip(loc)
	if strings.Contains(got, "<script>") {
		t.Fatalf("tooltip not escaped: %q", got)
	}
	if !strings.Contains(got, "<b>Dive &lt;Bar&gt;</b>") {
		t.Fatalf("name markup wrong: %q", got)
	}
	if !strings.Contains(got, "Time: 15:00 - 19:00") {
		t.Fatalf("time line wrong: %q", got)
	}
}

func TestTable_RowsAndPreview(t *testing.T) {
	long := strings.Repeat("x", 60)
	st := newFakeStore(
		domain.Location{ID: 1, Name: "A", Address: "addr", Description: long, Days: "Monday", StartTime: "15:00", EndTime: "19:00"},
		domain.Location{ID: 2, Name: "B", Address: "addr", Description: "short", Days: "Friday", StartTime: "16:00", EndTime: "18:00"},
	)
	v := newTestViewService(st)

	rows, total, version, err := v.Table(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if total != 2 || version != 0 {
		t.Fatalf("total=%d version=%d", total, version)
	}
	if rows[0].ID != 2 {
		t.Fatalf("rows not id-descending: %+v", rows)
	}
	if rows[0].Hours != "16:00 - 18:00" {
		t.Fatalf("hours = %q", rows[0].Hours)
	}
	want := strings.Repeat("x", 50) + "..."
	if rows[1].Description != want {
		t.Fatalf("description preview = %q", rows[1].Description)
	}
}

func TestPreviewDescription(t *testing.T) {
	if got := previewDescription("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
	exact := strings.Repeat("a", 50)
	if got := previewDescription(exact); got != exact {
		t.Fatalf("exact-length string truncated: %q", got)
	}
	if got := previewDescription(strings.Repeat("a", 51)); got != exact+"..." {
		t.Fatalf("got %q", got)
	}
}
