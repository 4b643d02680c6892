package services

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"sort"
	"strings"

	"civic_app_go/models"
	"civic_app_go/services/geography"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("a user with this clerk ID or email already exists")
	ErrIncompleteAddress = errors.New("address must include region, city and barangay")
)

// MissingFieldError lists every required field that was absent or empty
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldError reports a present field that failed a format rule
type InvalidFieldError struct {
	Field string
	Rule  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %s failed %s validation", e.Field, e.Rule)
}

// CreateUserInput is the registration payload sent by the mobile app
type CreateUserInput struct {
	ClerkID   string `json:"clerk_id" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Region    string `json:"region" validate:"omitempty,max=100"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Barangay  string `json:"barangay" validate:"omitempty,max=100"`
}

// UserFilter narrows the dashboard user list
type UserFilter struct {
	Region   string
	City     string
	Barangay string
	Search   string
}

// AddressCount is the number of users registered at one barangay
type AddressCount struct {
	Region   string `json:"region"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
	Count    int64  `json:"count"`
}

var (
	inputValidator = newInputValidator()
	strictPolicy   = bluemonday.StrictPolicy()
)

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// maxSanitizePasses bounds how many layers of entity encoding SanitizeText unwraps
const maxSanitizePasses = 8

// SanitizeText strips markup and surrounding whitespace from free-text input.
// Entity-encoded markup is decoded and stripped again until the text is stable.
func SanitizeText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		clean := html.UnescapeString(strictPolicy.Sanitize(s))
		if clean == s {
			return strings.TrimSpace(clean)
		}
		s = clean
	}
	// Still changing: keep the escaped form rather than decoded markup
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// Normalize sanitizes every field and lowercases the email
func (in *CreateUserInput) Normalize() {
	in.ClerkID = SanitizeText(in.ClerkID)
	in.Email = strings.ToLower(SanitizeText(in.Email))
	in.FirstName = SanitizeText(in.FirstName)
	in.LastName = SanitizeText(in.LastName)
	in.Phone = SanitizeText(in.Phone)
	in.Region = strings.TrimSpace(in.Region)
	in.City = strings.TrimSpace(in.City)
	in.Barangay = strings.TrimSpace(in.Barangay)
}

// Validate checks the required-field set first, then field formats.
// All missing fields are reported together in a single MissingFieldError.
func (in *CreateUserInput) Validate() error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	var missing []string
	var firstInvalid *InvalidFieldError
	for _, fe := range validationErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		if firstInvalid == nil {
			firstInvalid = &InvalidFieldError{Field: fe.Field(), Rule: fe.Tag()}
		}
	}

	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	if firstInvalid != nil {
		return firstInvalid
	}
	return nil
}

// CreateUser validates the payload, checks the address against the catalog and
// inserts the user. Nothing is written unless every check passes.
func CreateUser(db *gorm.DB, catalog *geography.Catalog, input CreateUserInput) (*models.User, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		ClerkID:   input.ClerkID,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}

	if input.Region != "" || input.City != "" || input.Barangay != "" {
		selector, err := geography.ResolveAddress(catalog, input.Region, input.City, input.Barangay)
		if err != nil {
			return nil, err
		}
		if !selector.IsComplete() {
			return nil, ErrIncompleteAddress
		}
		state := selector.State()
		user.Region, user.City, user.Barangay = state.Region, state.City, state.Barangay
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.User{}).
			Where("clerk_id = ? OR email = ?", user.ClerkID, user.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing users: %w", err)
		}
		if count > 0 {
			return ErrUserExists
		}

		if err := tx.Create(user).Error; err != nil {
			// A concurrent registration can win the race past the check above
			if isDuplicateKey(err) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID returns a user by its ID
func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ListUsers returns a page of users matching the filter plus the total match count
func ListUsers(db *gorm.DB, filter UserFilter, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.User{})
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Barangay != "" {
		query = query.Where("barangay = ?", filter.Barangay)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// DeleteUser permanently removes a user, freeing the clerk ID and email for re-registration
func DeleteUser(db *gorm.DB, id string) error {
	result := db.Unscoped().Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUsersByAddress groups registered users by barangay, sorted by region, city, barangay
func CountUsersByAddress(db *gorm.DB) ([]AddressCount, error) {
	var counts []AddressCount
	err := db.Model(&models.User{}).
		Select("region, city, barangay, COUNT(*) AS count").
		Where("region IS NOT NULL AND city IS NOT NULL AND barangay IS NOT NULL").
		Group("region, city, barangay").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by address: %w", err)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Region != counts[j].Region {
			return counts[i].Region < counts[j].Region
		}
		if counts[i].City != counts[j].City {
			return counts[i].City < counts[j].City
		}
		return counts[i].Barangay < counts[j].Barangay
	})
	return counts, nil
}

// isDuplicateKey reports a unique-constraint violation. TranslateError covers the
// sqlite driver; the libsql driver only surfaces the SQLite message.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
