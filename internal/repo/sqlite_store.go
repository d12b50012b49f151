// SQLite implementation of the Store contract, backed by GORM with the
// pure-Go glebarez driver.
//
// Identity assignment is delegated to SQLite's AUTOINCREMENT primary key,
// so concurrent inserts cannot race on a read-max-then-add sequence and
// deleted ids are never handed out again. ListAll orders by id descending
// (newest first), matching the management table's expectation.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// SQLiteStore is the relational-file Store implementation.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore wraps an opened GORM handle (see OpenSQLite) as a Store.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListAll returns every location ordered by id descending.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	err := s.db.WithContext(ctx).Order("id desc").Find(&out).Error
	return out, storageErr("list locations", err)
}

// GetByID fetches a single location, or ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id int) (*domain.Location, error) {
	var loc domain.Location
	err := s.db.WithContext(ctx).First(&loc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get location", err)
	}
	return &loc, nil
}

// Insert persists a new location and returns the id SQLite assigned.
// Any id set on loc is discarded; identity belongs to the store.
func (s *SQLiteStore) Insert(ctx context.Context, loc domain.Location) (int, error) {
	loc.ID = 0
	if err := s.db.WithContext(ctx).Create(&loc).Error; err != nil {
		return 0, storageErr("insert location", err)
	}
	return loc.ID, nil
}

// Update replaces all mutable fields of the identified row.
func (s *SQLiteStore) Update(ctx context.Context, id int, loc domain.Location) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Location{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        loc.Name,
			"address":     loc.Address,
			"lat":         loc.Lat,
			"lon":         loc.Lon,
			"description": loc.Description,
			"days":        loc.Days,
			"start_time":  loc.StartTime,
			"end_time":    loc.EndTime,
		})
	if res.Error != nil {
		return storageErr("update location", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDescription updates only the description column; coordinates and
// every other field stay untouched.
func (s *SQLiteStore) UpdateDescription(ctx context.Context, id int, description string) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Location{}).
		Where("id = ?", id).
		Update("description", description)
	if res.Error != nil {
		return storageErr("update description", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row permanently.
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&domain.Location{}, "id = ?", id)
	if res.Error != nil {
		return storageErr("delete location", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
