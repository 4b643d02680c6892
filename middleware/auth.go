package middleware

import (
	"net/http"

	"civic_app_go/models"
	"civic_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "civic_admin_session"
	// ContextKeyStaff is the context key for the authenticated staff member
	ContextKeyStaff = "staff"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
	// LoginPath is where unauthenticated dashboard requests are sent
	LoginPath = "/login"
)

// RequireAuth requires a valid session token; anything else is redirected to /login
func RequireAuth(db *gorm.DB, secureCookies bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return redirectToLogin(c)
			}

			session, err := services.ValidateSession(db, cookie.Value)
			if err != nil {
				ClearSessionCookie(c, secureCookies)
				return redirectToLogin(c)
			}

			if session.Staff.ID == "" || !session.Staff.IsActive {
				services.LogSecurityEvent("INACTIVE_SESSION", session.StaffID, "session rejected for inactive or missing account")
				ClearSessionCookie(c, secureCookies)
				return redirectToLogin(c)
			}

			c.Set(ContextKeyStaff, &session.Staff)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			staff := GetCurrentStaff(c)
			if staff == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if staff.Role == role {
					return next(c)
				}
			}

			services.LogSecurityEvent("FORBIDDEN", staff.ID, c.Request().Method+" "+c.Path())
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentStaff retrieves the authenticated staff member from context
func GetCurrentStaff(c echo.Context) *models.Staff {
	staff, ok := c.Get(ContextKeyStaff).(*models.Staff)
	if !ok {
		return nil
	}
	return staff
}

// SetSessionCookie writes the session cookie for a new login
func SetSessionCookie(c echo.Context, session *models.Session, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func redirectToLogin(c echo.Context) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", LoginPath)
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusSeeOther, LoginPath)
}
