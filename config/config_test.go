package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "sqlite")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, BlobFilesystem, cfg.Blob.Backend)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 10485760, cfg.Blob.MaxBytes)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"unknown blob backend", map[string]string{"BLOB_BACKEND": "s3"}},
		{"cloudinary without creds", map[string]string{"BLOB_BACKEND": "cloudinary", "CLOUDINARY_CLOUD_NAME": ""}},
		{"redis sessions without addr", map[string]string{"SESSION_BACKEND": "redis", "REDIS_ADDR": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoggerFormat(t *testing.T) {
	tests := []struct {
		name string
		app  AppConfig
		want string
	}{
		{"development defaults to console", AppConfig{Env: "development"}, "console"},
		{"env is case insensitive", AppConfig{Env: "Development"}, "console"},
		{"production defaults to json", AppConfig{Env: "production"}, "json"},
		{"explicit format wins", AppConfig{Env: "development", LogFormat: "json"}, "json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.app.LoggerFormat())
		})
	}
}
