package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("STORE_BACKEND", "SQLITE") // normalized to lowercase
	t.Setenv("DB_PATH", "venues.db")
	t.Setenv("GEOCODER_BASE_URL", "http://nominatim.local")
	t.Setenv("GEOCODER_USER_AGENT", "happyhour-test")
	t.Setenv("GEOCODER_TIMEOUT", "5s")
	t.Setenv("MAP_DEFAULT_LAT", "36.15")
	t.Setenv("MAP_DEFAULT_LON", "-95.99")
	t.Setenv("MAP_DEFAULT_ZOOM", "12")
	t.Setenv("ADMIN_SECRET", "s3cret")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// App
	if cfg.Store.Backend != StoreSQLite || cfg.Store.DBPath != "venues.db" {
		t.Fatalf("store fields unexpected: %+v", cfg.Store)
	}
	if cfg.Geocoder.BaseURL != "http://nominatim.local" || cfg.Geocoder.UserAgent != "happyhour-test" || cfg.Geocoder.Timeout != 5*time.Second {
		t.Fatalf("geocoder fields unexpected: %+v", cfg.Geocoder)
	}
	if cfg.Map.DefaultLat != 36.15 || cfg.Map.DefaultLon != -95.99 || cfg.Map.DefaultZoom != 12 {
		t.Fatalf("map fields unexpected: %+v", cfg.Map)
	}
	if cfg.AdminSecret != "s3cret" {
		t.Fatalf("admin secret unexpected: %q", cfg.AdminSecret)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_SheetsBackend(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("STORE_BACKEND", "sheets")
	t.Setenv("SHEETS_SPREADSHEET_ID", "1AbC")
	t.Setenv("SHEETS_WORKSHEET", "Venues")
	t.Setenv("SHEETS_CREDENTIALS_FILE", "sa.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Backend != StoreSheets || cfg.Store.SpreadsheetID != "1AbC" ||
		cfg.Store.Worksheet != "Venues" || cfg.Store.CredentialsFile != "sa.json" {
		t.Fatalf("sheets fields unexpected: %+v", cfg.Store)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	// Valid baseline the sub-cases break one variable at a time.
	base := func(t *testing.T) {
		t.Setenv("GIN_MODE", "debug")
	}

	t.Run("invalid LOG_LEVEL", func(t *testing.T) {
		base(t)
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := Load(); err == nil {
			t.Fatalf("expected LOG_LEVEL validation error")
		}
	})
	t.Run("empty PORT via spaces", func(t *testing.T) {
		base(t)
		t.Setenv("PORT", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "PORT must not be empty") {
			t.Fatalf("expected port validation error, got: %v", err)
		}
	})
	t.Run("non-positive timeouts", func(t *testing.T) {
		base(t)
		t.Setenv("READ_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "timeouts must be positive") {
			t.Fatalf("expected timeouts validation error, got: %v", err)
		}
	})
	t.Run("max header bytes <= 0", func(t *testing.T) {
		base(t)
		t.Setenv("MAX_HEADER_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "MAX_HEADER_BYTES") {
			t.Fatalf("expected MAX_HEADER_BYTES validation error, got: %v", err)
		}
	})
	t.Run("unknown store backend", func(t *testing.T) {
		base(t)
		t.Setenv("STORE_BACKEND", "redis")
		if _, err := Load(); err == nil || !containsErr(err, "STORE_BACKEND") {
			t.Fatalf("expected STORE_BACKEND validation error, got: %v", err)
		}
	})
	t.Run("empty DB_PATH", func(t *testing.T) {
		base(t)
		t.Setenv("DB_PATH", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "DB_PATH must not be empty") {
			t.Fatalf("expected DB_PATH validation error, got: %v", err)
		}
	})
	t.Run("sheets backend without spreadsheet id", func(t *testing.T) {
		base(t)
		t.Setenv("STORE_BACKEND", "sheets")
		if _, err := Load(); err == nil || !containsErr(err, "SHEETS_SPREADSHEET_ID") {
			t.Fatalf("expected SHEETS_SPREADSHEET_ID validation error, got: %v", err)
		}
	})
	t.Run("empty geocoder user agent", func(t *testing.T) {
		base(t)
		t.Setenv("GEOCODER_USER_AGENT", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "GEOCODER_USER_AGENT") {
			t.Fatalf("expected GEOCODER_USER_AGENT validation error, got: %v", err)
		}
	})
	t.Run("non-positive geocoder timeout", func(t *testing.T) {
		base(t)
		t.Setenv("GEOCODER_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "GEOCODER_TIMEOUT") {
			t.Fatalf("expected GEOCODER_TIMEOUT validation error, got: %v", err)
		}
	})
	t.Run("latitude out of range", func(t *testing.T) {
		base(t)
		t.Setenv("MAP_DEFAULT_LAT", "120")
		if _, err := Load(); err == nil || !containsErr(err, "MAP_DEFAULT_LAT") {
			t.Fatalf("expected MAP_DEFAULT_LAT validation error, got: %v", err)
		}
	})
	t.Run("longitude out of range", func(t *testing.T) {
		base(t)
		t.Setenv("MAP_DEFAULT_LON", "-200")
		if _, err := Load(); err == nil || !containsErr(err, "MAP_DEFAULT_LON") {
			t.Fatalf("expected MAP_DEFAULT_LON validation error, got: %v", err)
		}
	})
	t.Run("zoom out of range", func(t *testing.T) {
		base(t)
		t.Setenv("MAP_DEFAULT_ZOOM", "30")
		if _, err := Load(); err == nil || !containsErr(err, "MAP_DEFAULT_ZOOM") {
			t.Fatalf("expected MAP_DEFAULT_ZOOM validation error, got: %v", err)
		}
	})
	t.Run("release mode requires admin secret", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		if _, err := Load(); err == nil || !containsErr(err, "ADMIN_SECRET") {
			t.Fatalf("expected ADMIN_SECRET validation error, got: %v", err)
		}
	})
	t.Run("rate rps negative", func(t *testing.T) {
		base(t)
		t.Setenv("RATE_RPS", "-1")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_RPS") {
			t.Fatalf("expected RATE_RPS validation error, got: %v", err)
		}
	})
	t.Run("rate burst < 1", func(t *testing.T) {
		base(t)
		t.Setenv("RATE_BURST", "0")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_BURST") {
			t.Fatalf("expected RATE_BURST validation error, got: %v", err)
		}
	})
	t.Run("hsts max age negative", func(t *testing.T) {
		base(t)
		t.Setenv("HSTS_MAX_AGE", "-1s")
		if _, err := Load(); err == nil || !containsErr(err, "HSTS_MAX_AGE") {
			t.Fatalf("expected HSTS_MAX_AGE validation error, got: %v", err)
		}
	})
	t.Run("idempotency ttl non-positive", func(t *testing.T) {
		base(t)
		t.Setenv("IDEMPOTENCY_TTL", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "IDEMPOTENCY_TTL") {
			t.Fatalf("expected IDEMPOTENCY_TTL validation error, got: %v", err)
		}
	})
	t.Run("otel sample ratio out of range", func(t *testing.T) {
		base(t)
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		if _, err := Load(); err == nil || !containsErr(err, "OTEL_TRACES_SAMPLER_ARG") {
			t.Fatalf("expected OTEL_TRACES_SAMPLER_ARG validation error, got: %v", err)
		}
	})
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + config_strconv(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + config_strconv(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	// default on unset/empty
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	// normalizeBasePath
	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

// small helper (avoid fmt just for ints)
func config_strconv(i int) string { return string('a' + rune(i)) }

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	os.Unsetenv("PORT")
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	// Debug mode keeps the open admin gate acceptable; everything else
	// defaults to valid values.
	t.Setenv("GIN_MODE", "debug")
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid debug defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}
