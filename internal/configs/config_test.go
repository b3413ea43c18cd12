package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://shop.test/api/
  timeout: 5s
firebase:
  api_key: ${TEST_FIREBASE_KEY}
  project_id: shop
  use_emulator: true
redis:
  redis_addr: localhost:6379
`)
	t.Setenv("TEST_FIREBASE_KEY", "key-from-env")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("STOREFRONT_PROFILE", "work")

	cfg, err := Load("development", path)
	require.NoError(t, err)

	assert.Equal(t, "http://shop.test/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "key-from-env", cfg.Firebase.APIKey)
	assert.Equal(t, DefaultEmulatorHost, cfg.Firebase.EmulatorHost)
	assert.Equal(t, "work", cfg.Session.Profile)

	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.EmulatorEnabled())
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.GoogleEnabled())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("production", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultCallbackPort, cfg.Google.CallbackPort)
	assert.False(t, cfg.Development)
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     environment
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "emulator needs a development build",
			env:  environment{UseEmulator: boolPtr(true), NodeEnv: "production"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Firebase.UseEmulator)
				assert.False(t, cfg.EmulatorEnabled())
			},
		},
		{
			name: "missing project id disables auth",
			env:  environment{FirebaseAPIKey: "key"},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.AuthEnabled())
			},
		},
		{
			name: "timeout",
			env:  environment{APITimeout: "750ms"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 750*time.Millisecond, cfg.API.Timeout)
			},
		},
		{
			name:    "bad timeout",
			env:     environment{APITimeout: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults("development")
			err := tt.env.apply(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func boolPtr(b bool) *bool { return &b }
