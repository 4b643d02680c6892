package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"civic_app_go/models"
	"civic_app_go/services/geography"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHandler(t *testing.T) {
	t.Run("registers a user with an address", func(t *testing.T) {
		h := setupHandler(t)
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz",
			"region":"NCR","city":"Caloocan City","barangay":"Barangay 73"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))

		require.NoError(t, h.CreateUserHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.NotEmpty(t, user.ID)
		require.NotNil(t, user.Barangay)
		assert.Equal(t, "Barangay 73", *user.Barangay)
	})

	t.Run("missing fields are all listed", func(t *testing.T) {
		h := setupHandler(t)
		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(`{"email":"juan@example.ph"}`))

		require.NoError(t, h.CreateUserHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			MissingFields []string `json:"missing_fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.ElementsMatch(t, []string{"clerk_id", "first_name", "last_name"}, resp.MissingFields)

		var count int64
		h.DB.Model(&models.User{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("invalid address", func(t *testing.T) {
		h := setupHandler(t)
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz",
			"region":"NCR","city":"Calamba","barangay":"Real"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))

		require.NoError(t, h.CreateUserHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), geography.TierCity)
	})

	t.Run("partial address", func(t *testing.T) {
		h := setupHandler(t)
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz",
			"region":"NCR"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))

		require.NoError(t, h.CreateUserHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		h := setupHandler(t)
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz"}`

		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))
		require.NoError(t, h.CreateUserHandler(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		_, c, _ = setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))
		err := h.CreateUserHandler(c)
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("re-registers after admin delete", func(t *testing.T) {
		h := setupHandler(t)
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz"}`

		_, c, rec := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))
		require.NoError(t, h.CreateUserHandler(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

		_, c, rec = setupEcho(http.MethodDelete, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(user.ID)
		require.NoError(t, h.DeleteUserHandler(c))
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, c, rec = setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))
		require.NoError(t, h.CreateUserHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		h := setupHandler(t)
		h.Catalog = geography.Unavailable(&geography.DatasetLoadError{Source: "r2:geo.json", Err: errors.New("timeout")})
		body := `{"clerk_id":"user_2abc","email":"juan@example.ph","first_name":"Juan","last_name":"Dela Cruz",
			"region":"NCR","city":"Caloocan City","barangay":"Barangay 73"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/users", strings.NewReader(body))

		err := h.CreateUserHandler(c)
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusServiceUnavailable, he.Code)
	})
}
