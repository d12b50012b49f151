// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage backends, geocoding, rate
// limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backend identifiers accepted by STORE_BACKEND.
const (
	StoreSQLite = "sqlite"
	StoreSheets = "sheets"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// StoreConfig selects and configures the location storage backend.
type StoreConfig struct {
	Backend string // STORE_BACKEND: sqlite|sheets

	// SQLite
	DBPath string // DB_PATH: path to the database file

	// Google Sheets
	SpreadsheetID   string // SHEETS_SPREADSHEET_ID
	Worksheet       string // SHEETS_WORKSHEET: tab name holding the data
	CredentialsFile string // SHEETS_CREDENTIALS_FILE: service account JSON
}

// GeocoderConfig configures the forward-geocoding provider.
type GeocoderConfig struct {
	BaseURL   string        // GEOCODER_BASE_URL (Nominatim-compatible)
	UserAgent string        // GEOCODER_USER_AGENT (required by Nominatim's usage policy)
	Timeout   time.Duration // GEOCODER_TIMEOUT per lookup
}

// MapConfig positions the dashboard map when no venues match a filter.
type MapConfig struct {
	DefaultLat  float64 // MAP_DEFAULT_LAT
	DefaultLon  float64 // MAP_DEFAULT_LON
	DefaultZoom int     // MAP_DEFAULT_ZOOM
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-happyhour-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Store       StoreConfig
	Geocoder    GeocoderConfig
	Map         MapConfig
	AdminSecret string // ADMIN_SECRET gates mutating endpoints; empty disables the gate

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		Store: StoreConfig{
			Backend:         strings.ToLower(getenv("STORE_BACKEND", StoreSQLite)),
			DBPath:          getenv("DB_PATH", "locations.db"),
			SpreadsheetID:   getenv("SHEETS_SPREADSHEET_ID", ""),
			Worksheet:       getenv("SHEETS_WORKSHEET", "Locations"),
			CredentialsFile: getenv("SHEETS_CREDENTIALS_FILE", ""),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getenv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getenv("GEOCODER_USER_AGENT", "go-happyhour-backend"),
			Timeout:   getdur("GEOCODER_TIMEOUT", 10*time.Second),
		},
		Map: MapConfig{
			// Oklahoma City by default.
			DefaultLat:  getfloat("MAP_DEFAULT_LAT", 35.4676),
			DefaultLon:  getfloat("MAP_DEFAULT_LON", -97.5164),
			DefaultZoom: getint("MAP_DEFAULT_ZOOM", 11),
		},
		AdminSecret: getenv("ADMIN_SECRET", ""),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-happyhour-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Store.Backend {
	case StoreSQLite:
		if strings.TrimSpace(cfg.Store.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case StoreSheets:
		if strings.TrimSpace(cfg.Store.SpreadsheetID) == "" {
			return cfg, errors.New("SHEETS_SPREADSHEET_ID must not be empty for the sheets backend")
		}
		if strings.TrimSpace(cfg.Store.Worksheet) == "" {
			return cfg, errors.New("SHEETS_WORKSHEET must not be empty for the sheets backend")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: sqlite, sheets")
	}
	if strings.TrimSpace(cfg.Geocoder.UserAgent) == "" {
		return cfg, errors.New("GEOCODER_USER_AGENT must not be empty")
	}
	if cfg.Geocoder.Timeout <= 0 {
		return cfg, errors.New("GEOCODER_TIMEOUT must be > 0")
	}
	if cfg.Map.DefaultLat < -90 || cfg.Map.DefaultLat > 90 {
		return cfg, errors.New("MAP_DEFAULT_LAT must be in [-90,90]")
	}
	if cfg.Map.DefaultLon < -180 || cfg.Map.DefaultLon > 180 {
		return cfg, errors.New("MAP_DEFAULT_LON must be in [-180,180]")
	}
	if cfg.Map.DefaultZoom < 0 || cfg.Map.DefaultZoom > 22 {
		return cfg, errors.New("MAP_DEFAULT_ZOOM must be in [0,22]")
	}
	if cfg.GinMode == "release" && cfg.AdminSecret == "" {
		return cfg, errors.New("ADMIN_SECRET must be set in release mode")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
