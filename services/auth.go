package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode"

	"civic_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
	// MinPasswordLength is the minimum staff password length
	MinPasswordLength = 12
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffInactive      = errors.New("account is deactivated")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrStaffExists        = errors.New("a staff account with this email already exists")
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// ValidatePassword enforces length plus upper, lower, digit and symbol classes
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasNumber:
		return fmt.Errorf("password must contain at least one number")
	case !hasSpecial:
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

// CreateStaff validates and stores a new dashboard account
func CreateStaff(db *gorm.DB, name, email, password, role string) (*models.Staff, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Staff{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing staff: %w", err)
	}
	if count > 0 {
		return nil, ErrStaffExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

// AuthenticateStaff checks credentials and records the login time
func AuthenticateStaff(db *gorm.DB, email, password string) (*models.Staff, error) {
	var staff models.Staff
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Keep response time close to the found-account path
			VerifyPassword(timingDummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}

	if !VerifyPassword(staff.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}

	now := time.Now()
	staff.LastLoginAt = &now
	if err := db.Model(&staff).Update("last_login_at", now).Error; err != nil {
		log.Printf("[WARNING] Failed to update last login for staff %s: %v", staff.ID, err)
	}

	return &staff, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

func timingDummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("dummy_password_for_timing_mitigation")
	})
	return dummyHash
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session for a staff member
func CreateSession(db *gorm.DB, staffID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		StaffID:   staffID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("Staff").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		db.Delete(&session)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("[INFO] Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, staffID, details string) {
	log.Printf("[SECURITY] %s | Staff: %s | Details: %s", eventType, staffID, details)
}

