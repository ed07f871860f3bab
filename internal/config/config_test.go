package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
jwt:
  secret: from-file
storage:
  driver: local
  local_path: /tmp/photos
school:
  name: TEST SCHOOL
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_MAX_CONNS", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7, cfg.Database.MaxConns)
	assert.Equal(t, "TEST SCHOOL", cfg.School.Name)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxPhotoBytes)
	assert.Equal(t, "/tmp/photos", cfg.Storage.LocalPath)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing jwt secret", "server:\n  port: \"8080\"\n"},
		{"bad expiration", "jwt:\n  secret: x\n  access_token_expiration: soon\n"},
		{"unknown storage driver", "jwt:\n  secret: x\nstorage:\n  driver: s3\n"},
		{"oss without bucket", "jwt:\n  secret: x\nstorage:\n  driver: oss\n  oss:\n    endpoint: e\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_InvalidEnvValue(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: x\n")
	t.Setenv("METRICS_ENABLED", "sometimes")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	cfg.Server.CORSOrigins = " http://a.test , ,http://b.test"
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())

	cfg.Server.PublicURL = "https://academy.example/"
	assert.Equal(t, "https://academy.example", cfg.BaseURL())
}
