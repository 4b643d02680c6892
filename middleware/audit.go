package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditInfo identifies who performed a dashboard action and from where
type AuditInfo struct {
	StaffID   string
	StaffName string
	StaffRole string
	IPAddress string
	UserAgent string
}

// Details formats the acting staff member and request origin for a security log line
func (a AuditInfo) Details() string {
	return fmt.Sprintf("staff=%q role=%s ip=%s ua=%q", a.StaffName, a.StaffRole, a.IPAddress, a.UserAgent)
}

// AuditContext is middleware that extracts staff info for audit logging.
// It must run after RequireAuth.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			info := AuditInfo{
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}

			if staff := GetCurrentStaff(c); staff != nil {
				info.StaffID = staff.ID
				info.StaffName = staff.Name
				info.StaffRole = staff.Role
			}

			c.Set(ContextKeyAuditContext, info)
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) AuditInfo {
	if info, ok := c.Get(ContextKeyAuditContext).(AuditInfo); ok {
		return info
	}
	return AuditInfo{IPAddress: c.RealIP(), UserAgent: c.Request().UserAgent()}
}
