package handlers

import (
	"civic_app_go/config"
	"civic_app_go/services/geography"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by every route. The catalog is built
// once per process and shared read-only; selectors are created per request.
type Handler struct {
	DB      *gorm.DB
	Catalog *geography.Catalog
	Config  *config.Config
}

// New creates a Handler
func New(db *gorm.DB, catalog *geography.Catalog, cfg *config.Config) *Handler {
	return &Handler{DB: db, Catalog: catalog, Config: cfg}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
