// Map view HTTP handler.
//
// GET /map returns the complete render model for the dashboard map:
// filtered markers with tooltip markup, the tile style and marker color
// for the requested theme, and the computed center. The refresh counter
// doubles as a weak ETag so unchanged views can be answered with 304.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MapView godoc
// @ID          mapView
// @Summary     Map render model
// @Description Returns markers, tooltips, tile style, and center for the filtered venue map. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Map
// @Produce     json
//
// @Param       day            query   string  false "Weekday name or substring; empty or All matches everything"  example(Monday)
// @Param       time           query   string  false "Time of day HH:MM"                                           example(17:30)
// @Param       theme          query   string  false "light or dark"                                               example(dark)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"                                  example(W/\"map:3:Monday:17:30:dark\")
//
// @Success     200  {object} services.MapView
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /map [get]
func (h *Handlers) MapView(c *gin.Context) {
	at, okTime := timeQuery(c)
	if !okTime {
		return
	}
	day := strings.TrimSpace(c.Query("day"))
	theme := strings.TrimSpace(c.Query("theme"))

	// ETag pre-check: the refresh counter moves on every successful
	// mutation, so counter plus selectors fully identify a view.
	etag := fmt.Sprintf(`W/"map:%d:%s:%s:%s"`, h.locSvc.Version(), day, at, theme)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	view, err := h.viewSvc.Map(c.Request.Context(), day, at, theme)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, view)
}
