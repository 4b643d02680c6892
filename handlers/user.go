package handlers

import (
	"errors"
	"log"
	"net/http"

	"civic_app_go/services"
	"civic_app_go/services/geography"

	"github.com/labstack/echo/v4"
)

// CreateUserHandler registers a citizen from the mobile app
// POST /api/users
func (h *Handler) CreateUserHandler(c echo.Context) error {
	var input services.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := services.CreateUser(h.DB, h.Catalog, input)
	if err != nil {
		return userError(c, err)
	}

	log.Printf("[INFO] Registered user %s", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// userError maps registration failures to responses; nothing was written in any of these cases
func userError(c echo.Context, err error) error {
	var (
		missing  *services.MissingFieldError
		invalid  *services.InvalidFieldError
		selErr   *geography.InvalidSelectionError
		datasets *geography.DatasetLoadError
	)

	switch {
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":          err.Error(),
			"missing_fields": missing.Fields,
		})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
			"field": invalid.Field,
		})
	case errors.As(err, &selErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": err.Error(),
			"tier":  selErr.Tier,
		})
	case errors.Is(err, services.ErrIncompleteAddress):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.As(err, &datasets):
		return catalogUnavailable(c, err)
	case errors.Is(err, services.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		log.Printf("[ERROR] Failed to register user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}
}
