// Package domain defines the persistence model for happy-hour venues.
// The single entity, Location, is mapped with GORM for the SQLite backend
// and shared as-is with the Google Sheets backend and the HTTP layer.
package domain

// Location represents a single happy-hour venue: where it is, what the
// deal is, and when it applies.
//
// Fields:
//   - ID: integer primary key, assigned by the store at creation and
//     immutable afterwards. SQLite uses AUTOINCREMENT so ids are never
//     reused after deletion.
//   - Name / Address: required free text. Address is the geocoding input.
//   - Lat / Lon: coordinates derived from Address via the geocoder. They
//     are never user-entered; a row with an address but no coordinates is
//     an invalid state and must not be persisted.
//   - Description: the specials text; editable on its own without
//     touching coordinates.
//   - Days: comma-separated canonical weekday names ("Monday,Tuesday").
//     Tokens never contain embedded commas.
//   - StartTime / EndTime: zero-padded 24-hour "HH:MM" strings with
//     StartTime <= EndTime. The fixed-width format makes lexical
//     comparison equivalent to numeric comparison.
type Location struct {
	ID          int     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name"        gorm:"type:text;not null"`
	Address     string  `json:"address"     gorm:"type:text;not null"`
	Lat         float64 `json:"lat"         gorm:"not null"`
	Lon         float64 `json:"lon"         gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	Days        string  `json:"days"        gorm:"type:text"`
	StartTime   string  `json:"start_time"  gorm:"type:text;column:start_time"`
	EndTime     string  `json:"end_time"    gorm:"type:text;column:end_time"`
}

// TableName returns the database table name for Location.
func (Location) TableName() string { return "locations" }
