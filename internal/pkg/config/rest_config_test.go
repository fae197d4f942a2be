//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rest-app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeRestConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
logger:
  log_level: debug
  log_type: console
database:
  type: sqlite
  dsn: ":memory:"
security:
  encryption_key: "`+testEncryptionKey+`"
  jwt_secret: "0123456789abcdef0123456789abcdef"
  session_ttl: 2h
  totp_issuer: Acme
cron:
  enabled: true
  interval: 10m
  lock_ttl: 30m
  lock_backend: database
`)

	cfg, err := InitializeRestConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, LogLevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.Equal(t, 2*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, "Acme", cfg.Security.TOTPIssuer)
	assert.True(t, cfg.Cron.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cron.Interval)
	assert.Equal(t, "plugins", cfg.Plugins.Dir)

	key, err := cfg.Security.Key()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestInitializeRestConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
security:
  encryption_key: "`+testEncryptionKey+`"
  jwt_secret: "0123456789abcdef0123456789abcdef"
`)
	t.Setenv("BILLING_PORT", "7070")
	t.Setenv("BILLING_CRON_LOCK_BACKEND", LockBackendRedis)
	t.Setenv("BILLING_REDIS_ADDR", "cache:6380")

	cfg, err := InitializeRestConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, LockBackendRedis, cfg.Cron.LockBackend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestInitializeRestConfig_LoggerRotation(t *testing.T) {
	path := writeConfig(t, `
logger:
  log_level: info
  log_type: file
  file_path: billing.log
  rotation:
    max_size: 20
security:
  encryption_key: "`+testEncryptionKey+`"
  jwt_secret: "0123456789abcdef0123456789abcdef"
`)
	t.Setenv("BILLING_LOGGER_ROTATION_MAX_AGE", "7")

	cfg, err := InitializeRestConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogService, cfg.Logger.Service)
	assert.Equal(t, 20, cfg.Logger.Rotation.MaxSize)
	assert.Equal(t, 10, cfg.Logger.Rotation.MaxBackups)
	assert.Equal(t, 7, cfg.Logger.Rotation.MaxAge)
	assert.True(t, cfg.Logger.Rotation.Compress)
}

func TestInitializeRestConfig_MissingSecrets(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
`)

	_, err := InitializeRestConfig(path)
	require.Error(t, err)
}

func TestInitializeRestConfig_MissingFile(t *testing.T) {
	_, err := InitializeRestConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSecuritySettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      SecuritySettings
		expectedError bool
	}{
		{
			name: "valid",
			settings: SecuritySettings{
				EncryptionKey: testEncryptionKey,
				JWTSecret:     "0123456789abcdef0123456789abcdef",
				SessionTTL:    time.Hour,
				TOTPIssuer:    "Billing",
			},
		},
		{
			name: "short key",
			settings: SecuritySettings{
				EncryptionKey: "c2hvcnQ=",
				JWTSecret:     "0123456789abcdef0123456789abcdef",
				SessionTTL:    time.Hour,
				TOTPIssuer:    "Billing",
			},
			expectedError: true,
		},
		{
			name: "short jwt secret",
			settings: SecuritySettings{
				EncryptionKey: testEncryptionKey,
				JWTSecret:     "short",
				SessionTTL:    time.Hour,
				TOTPIssuer:    "Billing",
			},
			expectedError: true,
		},
		{
			name: "session ttl too small",
			settings: SecuritySettings{
				EncryptionKey: testEncryptionKey,
				JWTSecret:     "0123456789abcdef0123456789abcdef",
				SessionTTL:    time.Second,
				TOTPIssuer:    "Billing",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCronSettingsValidation(t *testing.T) {
	valid := CronSettings{Enabled: true, Interval: 5 * time.Minute, LockTTL: time.Hour, LockBackend: LockBackendDatabase}
	assert.NoError(t, valid.Validate())

	tooFrequent := valid
	tooFrequent.Interval = 10 * time.Second
	assert.Error(t, tooFrequent.Validate())

	disabled := tooFrequent
	disabled.Enabled = false
	assert.NoError(t, disabled.Validate())

	badBackend := valid
	badBackend.LockBackend = "etcd"
	assert.Error(t, badBackend.Validate())
}
