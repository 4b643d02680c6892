package handlers

import (
	"errors"
	"net/http"
	"strings"

	"civic_app_go/middleware"
	"civic_app_go/services"

	"github.com/labstack/echo/v4"
)

// LoginRequest is the dashboard login payload (JSON or form)
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginHandler tells unauthenticated dashboard clients how to sign in
// GET /login
func (h *Handler) LoginHandler(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": "Authentication required",
		"login": "POST " + middleware.LoginPath + " with email and password",
	})
}

// LoginPostHandler authenticates staff and starts a session
// POST /login
func (h *Handler) LoginPostHandler(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	staff, err := services.AuthenticateStaff(h.DB, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			services.LogSecurityEvent("LOGIN_FAILED", "", "email="+req.Email+" ip="+c.RealIP())
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrStaffInactive):
			return echo.NewHTTPError(http.StatusForbidden, "Your account has been deactivated")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
		}
	}

	session, err := services.CreateSession(h.DB, staff.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session, h.Config.SecureCookies)
	services.LogSecurityEvent("LOGIN_SUCCESS", staff.ID, "ip="+c.RealIP())

	return c.JSON(http.StatusOK, staff)
}

// LogoutHandler ends the current session
// POST /logout
func (h *Handler) LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := services.DeleteSession(h.DB, cookie.Value); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign out")
		}
	}
	middleware.ClearSessionCookie(c, h.Config.SecureCookies)
	return c.NoContent(http.StatusNoContent)
}

// GetCurrentStaffHandler returns the signed-in staff member
// GET /dashboard/me
func (h *Handler) GetCurrentStaffHandler(c echo.Context) error {
	staff := middleware.GetCurrentStaff(c)
	if staff == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, staff)
}
