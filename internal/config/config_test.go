package config_test

import (
	"testing"

	"github.com/ohalko/inventory-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvFilePath, "testdata/nonexistent.env")
	t.Setenv(config.DBHostEnv, "localhost")
	t.Setenv(config.DBUserEnv, "user")
	t.Setenv(config.DBPassEnv, "pass")
	t.Setenv(config.DBNameEnv, "inventory")
	t.Setenv(config.DBPortEnv, "5432")
	t.Setenv(config.HTTPServerPortEnv, "8080")
	t.Setenv(config.MetricsServerPortEnv, "9090")
	t.Setenv(config.AdminEmailEnv, "admin@example.com")
	t.Setenv(config.AdminPasswordEnv, "secret")
	t.Setenv(config.JWTSecretEnv, "signing-secret")
	t.Setenv(config.SQSQueueURLEnv, "https://sqs.us-east-1.amazonaws.com/1/product-events")
	t.Setenv(config.S3BucketEnv, "inventory-images")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(config.DebugModeEnv, "true")
	t.Setenv(config.S3PublicURLEnv, "https://cdn.example.com")

	conf, err := config.LoadFromEnv()
	require.NoError(t, err, "loading config should not return error")

	assert.True(t, conf.DebugMode, "DebugMode should be true")
	assert.Equal(t, "localhost", conf.Database.Host)
	assert.Equal(t, "user", conf.Database.User)
	assert.Equal(t, "pass", conf.Database.Password)
	assert.Equal(t, "inventory", conf.Database.Name)
	assert.Equal(t, "5432", conf.Database.Port)
	assert.Equal(t, "8080", conf.HTTPServer.Port)
	assert.Equal(t, "9090", conf.MetricsServer.Port)
	assert.Equal(t, "admin@example.com", conf.Admin.Email)
	assert.Equal(t, "secret", conf.Admin.Password)
	assert.Equal(t, "signing-secret", conf.JWTSecret)
	assert.Equal(t, "inventory-images", conf.AWS.S3Bucket)
	assert.Equal(t, "https://cdn.example.com", conf.AWS.S3PublicURL)
}

func TestLoadFromEnvMissingAdmin(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(config.AdminEmailEnv, "")

	conf, err := config.LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, conf)
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

func TestLoadFromEnvMissingJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(config.JWTSecretEnv, "")

	conf, err := config.LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, conf)
}

func TestLoadFromEnvInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(config.HTTPServerPortEnv, "not-a-port")

	conf, err := config.LoadFromEnv()

	require.Error(t, err)
	assert.Nil(t, conf)
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"GetEnvAsBool_True", "true", false, true},
		{"GetEnvAsBool_False", "false", true, false},
		{"GetEnvAsBool_Invalid", "invalid", true, true},
		{"GetEnvAsBool_Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV", tt.envValue)
			got := config.GetEnvAsBool("TEST_ENV", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}
