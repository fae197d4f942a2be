package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Cron lock backends
const (
	LockBackendDatabase = "database"
	LockBackendRedis    = "redis"
)

// CronSettings controls the in-process scheduler and the task lock
type CronSettings struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	LockTTL     time.Duration `mapstructure:"lock_ttl" validate:"required"`
	LockBackend string        `mapstructure:"lock_backend" validate:"required,oneof=database redis"`
}

// Validate checks that all fields in CronSettings are valid
func (s *CronSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for CronSettings: %w", err)
	}

	if s.Enabled && s.Interval < time.Minute {
		return fmt.Errorf("cron interval must be at least one minute")
	}

	if s.LockTTL < time.Minute {
		return fmt.Errorf("cron lock ttl must be at least one minute")
	}

	return nil
}

// RedisSettings holds the connection parameters for the redis lock backend
type RedisSettings struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`
}

// Validate checks that all fields in RedisSettings are valid
func (s *RedisSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RedisSettings: %w", err)
	}
	return nil
}
