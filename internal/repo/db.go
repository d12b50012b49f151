// Database bootstrapping for the SQLite backend: open with PRAGMAs,
// migrate the schema, and seed an empty database with the original
// sample venues so a fresh checkout renders a non-empty map.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the locations table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Location{})
}

// sampleLocations are the starter rows inserted into an empty database.
var sampleLocations = []domain.Location{
	{
		Name: "The Pump Bar", Address: "2425 N Walker Ave, Oklahoma City, OK",
		Lat: 35.4945, Lon: -97.5264, Description: "$3 wells, $4 drafts",
		Days: "Monday,Tuesday,Wednesday,Thursday,Friday", StartTime: "15:00", EndTime: "19:00",
	},
	{
		Name: "Fassler Hall", Address: "7 E Sheridan Ave, Oklahoma City, OK",
		Lat: 35.4676, Lon: -97.5164, Description: "$5 beer & brats",
		Days: "Monday,Tuesday,Wednesday,Thursday,Friday", StartTime: "16:00", EndTime: "18:00",
	},
	{
		Name: "Empire Slice House", Address: "4029 N Western Ave, Oklahoma City, OK",
		Lat: 35.5153, Lon: -97.5347, Description: "$2 off pizzas, $1 off drinks",
		Days: "Monday,Tuesday,Wednesday,Thursday", StartTime: "15:00", EndTime: "18:00",
	},
}

// Seed inserts the sample venues when the locations table is empty.
// A database that already has rows is left untouched.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Location{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rows := make([]domain.Location, len(sampleLocations))
	copy(rows, sampleLocations)
	return db.Create(&rows).Error
}
