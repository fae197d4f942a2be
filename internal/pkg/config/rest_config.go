package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "BILLING"

// RestConfig is the complete configuration of the REST server
type RestConfig struct {
	Port          string                `mapstructure:"port" validate:"required,numeric"`
	Logger        LoggerSettings        `mapstructure:"logger"`
	Database      DatabaseSettings      `mapstructure:"database"`
	Security      SecuritySettings      `mapstructure:"security"`
	Cron          CronSettings          `mapstructure:"cron"`
	Redis         RedisSettings         `mapstructure:"redis"`
	BlobConnector BlobConnectorSettings `mapstructure:"blob_connector"`
	Plugins       PluginSettings        `mapstructure:"plugins"`
}

// Validate checks the configuration section by section
func (c *RestConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	if err := c.Cron.Validate(); err != nil {
		return err
	}
	if c.Cron.LockBackend == LockBackendRedis {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}
	if c.BlobConnector.CloudProvider != "" {
		if err := c.BlobConnector.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// InitializeRestConfig reads the YAML file at path, applies environment
// overrides and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

// InitializeRestConfigFromEnv builds the configuration from defaults and
// environment variables only. The CLI uses it when no file is given.
func InitializeRestConfigFromEnv() (*RestConfig, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.service", DefaultLogService)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.rotation.max_size", 100)
	v.SetDefault("logger.rotation.max_backups", 10)
	v.SetDefault("logger.rotation.max_age", 28)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "billing.db")
	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.session_ttl", 12*time.Hour)
	v.SetDefault("security.cookie_secure", true)
	v.SetDefault("security.totp_issuer", "Billing")
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.interval", 5*time.Minute)
	v.SetDefault("cron.lock_ttl", time.Hour)
	v.SetDefault("cron.lock_backend", LockBackendDatabase)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("blob_connector.cloud_provider", "")
	v.SetDefault("blob_connector.connection_string", "")
	v.SetDefault("blob_connector.container_name", "")
	v.SetDefault("plugins.dir", "plugins")

	return v
}

func decode(v *viper.Viper) (*RestConfig, error) {
	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
