package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"civic_app_go/config"
	"civic_app_go/models"
	"civic_app_go/services"
	"civic_app_go/services/geography"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Barangay#73-Caloocan"

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates each test while every pooled connection sees the same data
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Staff{}, &models.Session{}))
	return testDB
}

func testCatalog(t *testing.T) *geography.Catalog {
	catalog, err := geography.NewCatalog([]geography.Region{
		{Name: "NCR", Cities: []geography.City{
			{Name: "Caloocan City", Barangays: []string{"Barangay 73", "Barangay 12"}},
			{Name: "Quezon City", Barangays: []string{"Commonwealth"}},
		}},
		{Name: "Region IV-A", Cities: []geography.City{
			{Name: "Calamba", Barangays: []string{"Real", "Parian"}},
		}},
	})
	require.NoError(t, err)
	return catalog
}

func setupHandler(t *testing.T) *Handler {
	return New(setupTestDB(t), testCatalog(t), &config.Config{Environment: "test"})
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func createTestStaff(t *testing.T, db *gorm.DB, email, role string) *models.Staff {
	staff, err := services.CreateStaff(db, "Test Staff", email, testPassword, role)
	require.NoError(t, err)
	return staff
}

func stringPtr(s string) *string {
	return &s
}
