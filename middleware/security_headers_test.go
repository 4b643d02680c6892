package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("Development", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXForwardedProto, "https")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, SecurityHeaders(false)(ok)(c))
		assert.Equal(t, apiCSP, rec.Header().Get(echo.HeaderContentSecurityPolicy))
		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
		assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
		assert.Equal(t, "no-referrer", rec.Header().Get(echo.HeaderReferrerPolicy))
		assert.Empty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity))
	})

	t.Run("ProductionOverHTTPS", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXForwardedProto, "https")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, SecurityHeaders(true)(ok)(c))
		assert.Equal(t, "max-age=31536000; includeSubdomains", rec.Header().Get(echo.HeaderStrictTransportSecurity))
	})

	t.Run("ProductionOverHTTP", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		assert.NoError(t, SecurityHeaders(true)(ok)(c))
		assert.Empty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity))
	})
}
