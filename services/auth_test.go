package services

import (
	"testing"
	"time"

	"civic_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{name: "Valid complex password", password: "StrongPassword123!"},
		{name: "Too short", password: "Short1!", errMsg: "at least 12 characters"},
		{name: "Missing uppercase", password: "lowercase123!", errMsg: "uppercase"},
		{name: "Missing lowercase", password: "UPPERCASE123!", errMsg: "lowercase"},
		{name: "Missing number", password: "NoNumberPass!", errMsg: "number"},
		{name: "Missing special char", password: "NoSpecialChar123", errMsg: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestCreateStaff(t *testing.T) {
	db := setupUserTestDB(t)

	staff, err := CreateStaff(db, " Maria Santos ", "Maria@City.gov.ph", "StrongPassword123!", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", staff.Name)
	assert.Equal(t, "maria@city.gov.ph", staff.Email)
	assert.True(t, staff.IsAdmin())
	assert.NotEqual(t, "StrongPassword123!", staff.Password)

	_, err = CreateStaff(db, "Other", "maria@city.gov.ph", "StrongPassword123!", models.RoleStaff)
	assert.ErrorIs(t, err, ErrStaffExists)

	_, err = CreateStaff(db, "", "", "StrongPassword123!", models.RoleStaff)
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, []string{"name", "email"}, mfe.Fields)

	_, err = CreateStaff(db, "Weak", "weak@city.gov.ph", "weak", models.RoleStaff)
	assert.ErrorContains(t, err, "password")

	_, err = CreateStaff(db, "Root", "root@city.gov.ph", "StrongPassword123!", "superuser")
	assert.ErrorContains(t, err, "invalid role")
}

func TestAuthenticateStaff(t *testing.T) {
	db := setupUserTestDB(t)
	_, err := CreateStaff(db, "Maria", "maria@city.gov.ph", "StrongPassword123!", models.RoleStaff)
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		staff, err := AuthenticateStaff(db, "MARIA@city.gov.ph", "StrongPassword123!")
		require.NoError(t, err)
		assert.NotNil(t, staff.LastLoginAt)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := AuthenticateStaff(db, "maria@city.gov.ph", "WrongPassword123!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := AuthenticateStaff(db, "nobody@city.gov.ph", "StrongPassword123!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Inactive account", func(t *testing.T) {
		db.Model(&models.Staff{}).Where("email = ?", "maria@city.gov.ph").Update("is_active", false)
		_, err := AuthenticateStaff(db, "maria@city.gov.ph", "StrongPassword123!")
		assert.ErrorIs(t, err, ErrStaffInactive)
	})
}

func TestSessionLifecycle(t *testing.T) {
	db := setupUserTestDB(t)
	staff, err := CreateStaff(db, "Maria", "maria@city.gov.ph", "StrongPassword123!", models.RoleStaff)
	require.NoError(t, err)

	session, err := CreateSession(db, staff.ID, "127.0.0.1", "TestAgent")
	require.NoError(t, err)
	assert.Len(t, session.Token, SessionTokenLength*2)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	valid, err := ValidateSession(db, session.Token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, valid.Staff.ID)

	_, err = ValidateSession(db, "invalid-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, DeleteSession(db, session.Token))
	_, err = ValidateSession(db, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredSessions(t *testing.T) {
	db := setupUserTestDB(t)

	expired, err := CreateSession(db, "staff-1", "", "")
	require.NoError(t, err)
	db.Model(expired).Update("expires_at", time.Now().Add(-time.Hour))

	_, err = ValidateSession(db, expired.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	stale, err := CreateSession(db, "staff-2", "", "")
	require.NoError(t, err)
	db.Model(stale).Update("expires_at", time.Now().Add(-time.Hour))
	fresh, err := CreateSession(db, "staff-3", "", "")
	require.NoError(t, err)

	require.NoError(t, CleanupExpiredSessions(db))

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = ValidateSession(db, fresh.Token)
	assert.NoError(t, err)
}
