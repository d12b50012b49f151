// Package geocode resolves free-text street addresses to coordinates.
//
// The only implementation talks to a Nominatim-compatible endpoint
// (OpenStreetMap's public instance by default). The provider is treated as
// an advisory lookup: it never mutates venue state, and every failure mode
// (no match, HTTP error, timeout, malformed payload) surfaces as an error
// value the caller can turn into a recoverable, user-facing message.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result is a single best-match coordinate pair for an address.
type Result struct {
	Lat float64
	Lon float64
}

// Geocoder is the forward-geocoding contract consumed by the service
// layer. Implementations must honor the context for cancellation and must
// not retain or mutate any caller state.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// ErrNoMatch is returned when the provider answers successfully but finds
// no coordinates for the address. Callers should treat it as user error
// ("check the address"), not as a provider outage.
var ErrNoMatch = errors.New("geocode: no match for address")

// ProviderError wraps transport or provider-side failures (non-2xx status,
// network error, undecodable body) so they are distinguishable from
// ErrNoMatch at the service boundary.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return "geocode: provider failure: " + e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim is a Geocoder backed by the Nominatim /search API.
//
// Nominatim's usage policy requires an identifying User-Agent; the
// constructor refuses to default it away silently and callers should pass
// something like "okc-happy-hours/1.0". The HTTP client timeout is
// explicit and configurable rather than inherited from http.DefaultClient.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatim constructs a Nominatim geocoder. Empty baseURL falls back
// to DefaultBaseURL; timeout <= 0 falls back to 10s.
func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// nominatimHit mirrors the subset of the /search JSON payload we read.
// Nominatim encodes coordinates as strings.
type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves address to its single best-match coordinate pair.
//
// It performs GET {base}/search?q=...&format=json&limit=1 and returns:
//   - the first hit's coordinates on success,
//   - ErrNoMatch when the result list is empty,
//   - a *ProviderError for transport, status, or decoding failures.
func (n *Nominatim) Geocode(ctx context.Context, address string) (Result, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, &ProviderError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	if len(hits) == 0 {
		return Result{}, ErrNoMatch
	}

	lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(hits[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Result{}, &ProviderError{Err: fmt.Errorf("undecodable coordinates %q,%q", hits[0].Lat, hits[0].Lon)}
	}
	return Result{Lat: lat, Lon: lon}, nil
}
