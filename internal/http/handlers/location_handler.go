// Location HTTP handlers.
//
// This file exposes REST endpoints for venue resources:
//   - GET    /locations                    (public filtered list)
//   - POST   /locations                    (create, admin)
//   - GET    /admin/locations              (management table, paginated, admin)
//   - GET    /locations/{id}               (fetch one, admin)
//   - PUT    /locations/{id}               (full update, admin)
//   - PATCH  /locations/{id}/description   (inline specials edit, admin)
//   - DELETE /locations/{id}               (remove, admin)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okchh/go-happyhour-backend/internal/domain"
	"github.com/okchh/go-happyhour-backend/internal/filter"
	"github.com/okchh/go-happyhour-backend/internal/http/middleware"
	"github.com/okchh/go-happyhour-backend/internal/services"
	"github.com/okchh/go-happyhour-backend/internal/timeofday"
	"github.com/okchh/go-happyhour-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// LocationService defines venue lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LocationService interface {
	// List returns every venue, newest first.
	List(ctx context.Context) ([]domain.Location, error)
	// Get returns one venue by id.
	Get(ctx context.Context, id int) (*domain.Location, error)
	// Create validates, geocodes, and persists a new venue.
	Create(ctx context.Context, in services.LocationInput) (*domain.Location, error)
	// Update replaces a venue, re-geocoding only when the address changed.
	Update(ctx context.Context, id int, in services.LocationInput) (*domain.Location, error)
	// UpdateDescription edits only the specials text of a venue.
	UpdateDescription(ctx context.Context, id int, description string) error
	// Delete removes a venue.
	Delete(ctx context.Context, id int) error
	// Version returns the refresh counter for cache validation.
	Version() int64
}

// ViewService defines read-side projections consumed by HTTP handlers.
type ViewService interface {
	// Map builds the filtered map render model for the given selectors.
	Map(ctx context.Context, day, at, theme string) (*services.MapView, error)
	// Table returns one management table page, the total count, and the
	// refresh counter the page was read at.
	Table(ctx context.Context, page, pageSize int) ([]services.TableRow, int64, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for venues and map views.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	locSvc  LocationService
	viewSvc ViewService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(locSvc LocationService, viewSvc ViewService) *Handlers {
	return &Handlers{locSvc: locSvc, viewSvc: viewSvc}
}

//
// DTOs
//

// LocationRequest is the JSON payload for creating or replacing a venue.
// Coordinates are always derived server-side from Address.
type LocationRequest struct {
	// Name is the venue name (required).
	Name string `json:"name" binding:"required" example:"The Pump Bar"`
	// Address is the geocoding input (required).
	Address string `json:"address" binding:"required" example:"2425 N Walker Ave, Oklahoma City, OK"`
	// Description is the specials text shown in tooltips.
	Description string `json:"description" example:"$3 wells until 7"`
	// Days lists weekday names the deal applies to (at least one).
	Days []string `json:"days" binding:"required" example:"Monday,Friday"`
	// StartTime is the window start, 24-hour "HH:MM" (stored zero-padded).
	StartTime string `json:"start_time" binding:"required" example:"15:00"`
	// EndTime is the window end, "HH:MM", not before StartTime.
	EndTime string `json:"end_time" binding:"required" example:"19:00"`
}

// UpdateDescriptionRequest is the JSON payload for the inline specials edit.
type UpdateDescriptionRequest struct {
	Description string `json:"description" example:"Half-price apps after 9"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListLocationsResponse wraps the public filtered venue list.
type ListLocationsResponse struct {
	Locations []domain.Location `json:"locations"`
	Version   int64             `json:"version"`
}

// AdminLocationsResponse wraps a page of management table rows.
type AdminLocationsResponse struct {
	Rows       []services.TableRow `json:"rows"`
	Version    int64               `json:"version"`
	Pagination Pagination          `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// pathID parses the {id} path segment as a positive integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "location id must be a positive integer")
		return 0, false
	}
	return id, true
}

// timeQuery validates the optional ?time= selector and canonicalizes it
// to the zero-padded form the stored windows compare against. An empty
// value is allowed and means "no time filter".
func timeQuery(c *gin.Context) (string, bool) {
	at := strings.TrimSpace(c.Query("time"))
	if at == "" {
		return "", true
	}
	canon, err := timeofday.Canonical(at)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "time must be HH:MM (24-hour)")
		return "", false
	}
	return canon, true
}

// toInput converts the request payload into the service-level input.
func (r LocationRequest) toInput() services.LocationInput {
	return services.LocationInput{
		Name:        r.Name,
		Address:     r.Address,
		Description: r.Description,
		Days:        r.Days,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// failFromService maps service-layer errors onto the HTTP error taxonomy.
func failFromService(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, ve.Error())
	case errors.Is(err, services.ErrGeocodeFailed):
		fail(c, http.StatusUnprocessableEntity, ErrCodeGeocodeFailed, err.Error())
	case errors.Is(err, services.ErrLocationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "location not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// ListLocations godoc
// @ID          listLocations
// @Summary     List venues (filtered)
// @Description Returns all venues matching the optional day and time selectors, newest first.
// @Tags        Locations
// @Produce     json
//
// @Param       day   query  string  false "Weekday name or substring; empty or All matches everything"  example(Monday)
// @Param       time  query  string  false "Time of day HH:MM; venues whose window contains it match"    example(17:30)
//
// @Success     200  {object} handlers.ListLocationsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations [get]
func (h *Handlers) ListLocations(c *gin.Context) {
	at, okTime := timeQuery(c)
	if !okTime {
		return
	}
	day := strings.TrimSpace(c.Query("day"))

	locs, err := h.locSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	filtered := filter.Apply(locs, day, at)
	ok(c, http.StatusOK, ListLocationsResponse{Locations: filtered, Version: h.locSvc.Version()})
}

// CreateLocation godoc
// @ID          createLocation
// @Summary     Add a venue
// @Description Validates the payload, geocodes the address, and persists the venue.
// @Tags        Locations
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true  "Admin shared secret"
// @Param       body            body    handlers.LocationRequest  true  "Venue payload"
//
// @Success     201  {object} domain.Location
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     422  {object} handlers.ErrorResponse "Address could not be geocoded"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations [post]
func (h *Handlers) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	loc, err := h.locSvc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		failFromService(c, err)
		return
	}
	// A keyed create logs its key so a 409 on retry can be traced back to
	// the request that consumed it.
	if key, ok := middleware.GetIdempotencyKey(c); ok {
		middleware.LoggerFrom(c).Info().
			Str("idempotency_key", key).
			Int("location_id", loc.ID).
			Msg("location created")
	}
	ok(c, http.StatusCreated, loc)
}

// AdminLocations godoc
// @ID          adminLocations
// @Summary     Management table (paginated)
// @Description Returns a page of venue rows for the management table, newest first, with descriptions truncated for display.
// @Tags        Locations
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true  "Admin shared secret"
// @Param       page            query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size       query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.AdminLocationsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/locations [get]
func (h *Handlers) AdminLocations(c *gin.Context) {
	page, pageSize := clampPagination(c)

	rows, total, version, err := h.viewSvc.Table(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := AdminLocationsResponse{
		Rows:    rows,
		Version: version,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetLocation godoc
// @ID          getLocation
// @Summary     Fetch one venue
// @Description Returns a single venue by id, typically to prefill the edit form.
// @Tags        Locations
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true "Admin shared secret"
// @Param       id              path    int     true "Location ID"  example(4)
//
// @Success     200  {object} domain.Location
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Location not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations/{id} [get]
func (h *Handlers) GetLocation(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	loc, err := h.locSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, loc)
}

// UpdateLocation godoc
// @ID          updateLocation
// @Summary     Replace a venue
// @Description Replaces every editable field of a venue. The address is re-geocoded only when it changed.
// @Tags        Locations
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true "Admin shared secret"
// @Param       id              path    int     true "Location ID"  example(4)
// @Param       body            body    handlers.LocationRequest  true  "Replacement payload"
//
// @Success     200  {object} domain.Location
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Location not found"
// @Failure     422  {object} handlers.ErrorResponse "Address could not be geocoded"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations/{id} [put]
func (h *Handlers) UpdateLocation(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	loc, err := h.locSvc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, loc)
}

// UpdateLocationDescription godoc
// @ID          updateLocationDescription
// @Summary     Edit venue specials inline
// @Description Updates only the specials text of a venue, leaving address and coordinates untouched.
// @Tags        Locations
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true "Admin shared secret"
// @Param       id              path    int     true "Location ID"  example(4)
// @Param       body            body    handlers.UpdateDescriptionRequest  true  "New specials text"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Location not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations/{id}/description [patch]
func (h *Handlers) UpdateLocationDescription(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.locSvc.UpdateDescription(c.Request.Context(), id, req.Description); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// DeleteLocation godoc
// @ID          deleteLocation
// @Summary     Remove a venue
// @Description Deletes a venue. In the SQLite backend the id is never reused.
// @Tags        Locations
// @Produce     json
//
// @Param       X-Admin-Secret  header  string  true "Admin shared secret"
// @Param       id              path    int     true "Location ID"  example(4)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Location not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /locations/{id} [delete]
func (h *Handlers) DeleteLocation(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.locSvc.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
