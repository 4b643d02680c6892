package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionSecret(t *testing.T) {
	t.Run("Insecure default in development is allowed", func(t *testing.T) {
		assert.NoError(t, ValidateSessionSecret("change-me", "development"))
		assert.NoError(t, ValidateSessionSecret("", "development"))
	})

	t.Run("Insecure default in production is rejected", func(t *testing.T) {
		assert.Error(t, ValidateSessionSecret("Secret", "production"))
		assert.Error(t, ValidateSessionSecret("", "production"))
	})

	t.Run("Short secret in production is rejected", func(t *testing.T) {
		err := ValidateSessionSecret("not-long-enough", "production")
		assert.ErrorContains(t, err, "at least 32 characters")
	})

	t.Run("Long secret in production is accepted", func(t *testing.T) {
		assert.NoError(t, ValidateSessionSecret(GenerateSecureSecret(), "production"))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CIVIC_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("CIVIC_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnv("CIVIC_TEST_MISSING", "default"))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("CIVIC_TEST_BOOL", "yes")
	assert.True(t, getEnvBool("CIVIC_TEST_BOOL", false))

	t.Setenv("CIVIC_TEST_BOOL", "off")
	assert.False(t, getEnvBool("CIVIC_TEST_BOOL", true))

	t.Setenv("CIVIC_TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("CIVIC_TEST_BOOL", true))
}

func TestR2Configured(t *testing.T) {
	cfg := &Config{R2AccountID: "a", R2AccessKeyID: "b", R2SecretAccessKey: "c"}
	assert.False(t, cfg.R2Configured())
	cfg.R2BucketName = "d"
	assert.True(t, cfg.R2Configured())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("GEOGRAPHY_SOURCE", "")
	t.Setenv("SECURE_COOKIES", "")
	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "", cfg.GeographySource)
	assert.NotEmpty(t, cfg.SessionSecret)
}
