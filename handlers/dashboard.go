package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"civic_app_go/middleware"
	"civic_app_go/models"
	"civic_app_go/services"
	"civic_app_go/services/geography"

	"github.com/labstack/echo/v4"
)

// UserListResponse is one page of registered citizens
type UserListResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// CityNode is a city in the geography summary
type CityNode struct {
	Name      string         `json:"name"`
	Barangays []BarangayNode `json:"barangays"`
	Users     int64          `json:"users"`
}

// BarangayNode is a barangay in the geography summary
type BarangayNode struct {
	Name  string `json:"name"`
	Users int64  `json:"users"`
}

// RegionNode is a region in the geography summary
type RegionNode struct {
	Name   string     `json:"name"`
	Cities []CityNode `json:"cities"`
	Users  int64      `json:"users"`
}

// ListUsersHandler lists registered citizens, optionally filtered by address
// GET /dashboard/users
func (h *Handler) ListUsersHandler(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := services.UserFilter{
		Region:   c.QueryParam("region"),
		City:     c.QueryParam("city"),
		Barangay: c.QueryParam("barangay"),
		Search:   c.QueryParam("q"),
	}

	users, total, err := services.ListUsers(h.DB, filter, page, limit)
	if err != nil {
		log.Printf("[ERROR] Failed to list users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}

	return c.JSON(http.StatusOK, UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUserHandler returns a single citizen
// GET /dashboard/users/:id
func (h *Handler) GetUserHandler(c echo.Context) error {
	user, err := services.GetUserByID(h.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUserHandler removes a citizen record (admin only)
// DELETE /dashboard/users/:id
func (h *Handler) DeleteUserHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeleteUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	audit := middleware.GetAuditContext(c)
	services.LogSecurityEvent("USER_DELETED", audit.StaffID, "user="+id+" "+audit.Details())

	return c.NoContent(http.StatusNoContent)
}

// GeographySummaryHandler returns the catalog tree annotated with citizen counts
// GET /dashboard/geography
func (h *Handler) GeographySummaryHandler(c echo.Context) error {
	regions, err := h.Catalog.Regions()
	if err != nil {
		return catalogUnavailable(c, err)
	}

	counts, err := services.CountUsersByAddress(h.DB)
	if err != nil {
		log.Printf("[ERROR] Failed to count users by address: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build summary")
	}

	return c.JSON(http.StatusOK, buildSummary(regions, counts))
}

func buildSummary(regions []geography.Region, counts []services.AddressCount) []RegionNode {
	type key struct{ region, city, barangay string }
	byAddress := make(map[key]int64, len(counts))
	for _, ac := range counts {
		byAddress[key{ac.Region, ac.City, ac.Barangay}] = ac.Count
	}

	nodes := make([]RegionNode, 0, len(regions))
	for _, r := range regions {
		rn := RegionNode{Name: r.Name, Cities: make([]CityNode, 0, len(r.Cities))}
		for _, city := range r.Cities {
			cn := CityNode{Name: city.Name, Barangays: make([]BarangayNode, 0, len(city.Barangays))}
			for _, b := range city.Barangays {
				n := byAddress[key{r.Name, city.Name, b}]
				cn.Barangays = append(cn.Barangays, BarangayNode{Name: b, Users: n})
				cn.Users += n
			}
			rn.Cities = append(rn.Cities, cn)
			rn.Users += cn.Users
		}
		nodes = append(nodes, rn)
	}
	return nodes
}
