// LocationService coordinates every venue mutation: it validates form
// input, resolves addresses through the geocoder, writes through the
// store, and advances the refresh counter that invalidates derived views.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/okchh/go-happyhour-backend/internal/domain"
	"github.com/okchh/go-happyhour-backend/internal/geocode"
	"github.com/okchh/go-happyhour-backend/internal/repo"
	"github.com/okchh/go-happyhour-backend/internal/timeofday"
)

// LocationInput carries the mutable fields of a venue as submitted by the
// add/edit forms. Coordinates are deliberately absent: they are always
// derived from Address by the service, never accepted from the client.
type LocationInput struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Days        []string `json:"days"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
}

// LocationService owns the write path for venues and the refresh counter.
//
// The counter is the single invalidation signal of the system: it is
// bumped exactly once per successful mutation, and every derived view
// (map, admin table) is recomputed if and only if it has moved. Reads
// never bump it, so an idle dashboard serves cached projections.
type LocationService struct {
	Store    repo.Store
	Geocoder geocode.Geocoder

	refresh atomic.Int64
}

// NewLocationService constructs a LocationService over the given backend
// and geocoder.
func NewLocationService(st repo.Store, geo geocode.Geocoder) *LocationService {
	return &LocationService{Store: st, Geocoder: geo}
}

// Version returns the current refresh counter value. It increases
// monotonically with every successful mutation.
func (s *LocationService) Version() int64 { return s.refresh.Load() }

func (s *LocationService) bump() { s.refresh.Add(1) }

// List returns all venues sorted by id descending. Backends make no
// ordering promise, so the sort happens here rather than being assumed.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	locs, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID > locs[j].ID })
	return locs, nil
}

// ListPage returns one page of the id-descending venue list plus the
// total count, for the management table.
func (s *LocationService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Location, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	locs, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(locs))

	start := (page - 1) * pageSize
	if start >= len(locs) {
		return []domain.Location{}, total, nil
	}
	end := start + pageSize
	if end > len(locs) {
		end = len(locs)
	}
	return locs[start:end], total, nil
}

// Get fetches one venue by id.
func (s *LocationService) Get(ctx context.Context, id int) (*domain.Location, error) {
	loc, err := s.Store.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrLocationNotFound
	}
	return loc, err
}

// Create validates the submitted fields, geocodes the address, and
// inserts the venue. On success the refresh counter is bumped and the
// persisted record (with its assigned id) is returned.
//
// Validation failures and geocoding failures happen before any store
// write, so a rejected submission never leaves partial state behind.
func (s *LocationService) Create(ctx context.Context, in LocationInput) (*domain.Location, error) {
	loc, err := s.buildLocation(in)
	if err != nil {
		return nil, err
	}

	res, err := s.Geocoder.Geocode(ctx, loc.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGeocodeFailed, loc.Address)
	}
	loc.Lat, loc.Lon = res.Lat, res.Lon

	id, err := s.Store.Insert(ctx, loc)
	if err != nil {
		return nil, err
	}
	loc.ID = id
	s.bump()
	return &loc, nil
}

// Update applies a full edit to an existing venue. The submitted address
// is compared to the stored one: when it changed, the service re-geocodes
// and fails the whole update if the lookup fails; when it is unchanged,
// the stored coordinates are reused untouched. A record with a new
// address but stale coordinates is never written.
//
// The read-then-write sequence is not atomic: a concurrent writer could
// modify the record in between. Last write wins.
func (s *LocationService) Update(ctx context.Context, id int, in LocationInput) (*domain.Location, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	loc, err := s.buildLocation(in)
	if err != nil {
		return nil, err
	}

	if loc.Address != existing.Address {
		res, err := s.Geocoder.Geocode(ctx, loc.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrGeocodeFailed, loc.Address)
		}
		loc.Lat, loc.Lon = res.Lat, res.Lon
	} else {
		loc.Lat, loc.Lon = existing.Lat, existing.Lon
	}

	if err := s.Store.Update(ctx, id, loc); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	loc.ID = id
	s.bump()
	return &loc, nil
}

// UpdateDescription performs the management table's inline edit: only the
// description changes, coordinates and address are untouched by
// construction (the store contract writes a single column).
func (s *LocationService) UpdateDescription(ctx context.Context, id int, description string) error {
	err := s.Store.UpdateDescription(ctx, id, strings.TrimSpace(description))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrLocationNotFound
	}
	if err != nil {
		return err
	}
	s.bump()
	return nil
}

// Delete removes a venue permanently.
func (s *LocationService) Delete(ctx context.Context, id int) error {
	err := s.Store.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrLocationNotFound
	}
	if err != nil {
		return err
	}
	s.bump()
	return nil
}

// buildLocation validates the input and assembles the persistable record,
// minus coordinates (the caller fills those).
func (s *LocationService) buildLocation(in LocationInput) (domain.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Location{}, invalid("name", "required")
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return domain.Location{}, invalid("address", "required")
	}
	if len(in.Days) == 0 {
		return domain.Location{}, invalid("days", "select at least one day")
	}
	days, ok := domain.JoinDays(in.Days)
	if !ok {
		return domain.Location{}, invalid("days", "unknown day name")
	}

	// Times are stored zero-padded so the stored form compares lexically;
	// unpadded input ("9:30") is accepted and canonicalized here.
	start, err := timeofday.Canonical(in.StartTime)
	if err != nil {
		return domain.Location{}, invalid("start_time", "must be HH:MM")
	}
	end, err := timeofday.Canonical(in.EndTime)
	if err != nil {
		return domain.Location{}, invalid("end_time", "must be HH:MM")
	}
	if start > end {
		return domain.Location{}, invalid("end_time", "must not be before start_time")
	}

	return domain.Location{
		Name:        name,
		Address:     address,
		Description: strings.TrimSpace(in.Description),
		Days:        days,
		StartTime:   start,
		EndTime:     end,
	}, nil
}
