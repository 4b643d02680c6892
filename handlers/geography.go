package handlers

import (
	"errors"
	"html"
	"log"
	"net/http"
	"strings"

	"civic_app_go/services/geography"

	"github.com/labstack/echo/v4"
)

// SelectionRequest is an address form's current picks
type SelectionRequest struct {
	Region   string `json:"region" form:"region"`
	City     string `json:"city" form:"city"`
	Barangay string `json:"barangay" form:"barangay"`
}

// SelectionResponse describes the resolved selection and the next valid choices
type SelectionResponse struct {
	Selection          geography.Selection `json:"selection"`
	Complete           bool                `json:"complete"`
	AvailableCities    []string            `json:"available_cities"`
	AvailableBarangays []string            `json:"available_barangays"`
	Error              *SelectionError     `json:"error,omitempty"`
}

// SelectionError names the tier that was rejected
type SelectionError struct {
	Tier    string `json:"tier"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ListRegionsHandler returns every region
// GET /api/geography/regions
func (h *Handler) ListRegionsHandler(c echo.Context) error {
	regions, err := h.Catalog.ListRegions()
	if err != nil {
		return catalogUnavailable(c, err)
	}
	return respondOptions(c, regions, "Select a region")
}

// ListCitiesHandler returns the cities of a region
// GET /api/geography/cities?region=xxx
func (h *Handler) ListCitiesHandler(c echo.Context) error {
	region := c.QueryParam("region")
	if region == "" && !isHTMX(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "region is required")
	}

	cities, err := h.Catalog.ListCities(region)
	if err != nil {
		return catalogUnavailable(c, err)
	}
	return respondOptions(c, cities, "Select a city")
}

// ListBarangaysHandler returns the barangays of a city
// GET /api/geography/barangays?region=xxx&city=yyy
func (h *Handler) ListBarangaysHandler(c echo.Context) error {
	region := c.QueryParam("region")
	city := c.QueryParam("city")
	if (region == "" || city == "") && !isHTMX(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "region and city are required")
	}

	barangays, err := h.Catalog.ListBarangays(region, city)
	if err != nil {
		return catalogUnavailable(c, err)
	}
	return respondOptions(c, barangays, "Select a barangay")
}

// ResolveSelectionHandler replays an address form's picks through a fresh selector
// POST /api/geography/selection
func (h *Handler) ResolveSelectionHandler(c echo.Context) error {
	var req SelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	selector, err := geography.ResolveAddress(h.Catalog,
		strings.TrimSpace(req.Region), strings.TrimSpace(req.City), strings.TrimSpace(req.Barangay))

	var loadErr *geography.DatasetLoadError
	if errors.As(err, &loadErr) {
		return catalogUnavailable(c, err)
	}

	resp := SelectionResponse{
		Selection: selector.State(),
		Complete:  selector.IsComplete(),
	}
	// The catalog is available past this point, so these cannot fail
	resp.AvailableCities, _ = selector.AvailableCities()
	resp.AvailableBarangays, _ = selector.AvailableBarangays()

	var selErr *geography.InvalidSelectionError
	if errors.As(err, &selErr) {
		resp.Error = &SelectionError{Tier: selErr.Tier, Name: selErr.Name, Message: selErr.Error()}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve selection")
	}

	return c.JSON(http.StatusOK, resp)
}

// respondOptions returns JSON for API clients and <option> elements for HTMX
func respondOptions(c echo.Context, names []string, placeholder string) error {
	if !isHTMX(c) {
		return c.JSON(http.StatusOK, names)
	}

	var b strings.Builder
	b.WriteString(`<option value="">` + placeholder + `</option>`)
	for _, name := range names {
		escaped := html.EscapeString(name)
		b.WriteString(`<option value="` + escaped + `">` + escaped + `</option>`)
	}
	return c.HTML(http.StatusOK, b.String())
}

func catalogUnavailable(c echo.Context, err error) error {
	log.Printf("[WARNING] Geography request refused: %v", err)
	if isHTMX(c) {
		return c.HTML(http.StatusServiceUnavailable, `<option value="">Locations unavailable</option>`)
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, "Geography data is unavailable")
}
