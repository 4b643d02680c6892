package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// apiCSP forbids loading anything; responses are JSON or bare <option> fragments
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets response headers for the API and dashboard endpoints.
// HSTS is only sent in production, and only over HTTPS.
func SecurityHeaders(production bool) echo.MiddlewareFunc {
	config := echomiddleware.SecureConfig{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: apiCSP,
		ReferrerPolicy:        "no-referrer",
	}
	if production {
		config.HSTSMaxAge = 31536000
	}
	return echomiddleware.SecureWithConfig(config)
}
