package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Log level constants
const (
	LogLevelInfo     = "info"
	LogLevelDebug    = "debug"
	LogLevelError    = "error"
	LogLevelWarning  = "warning"
	LogLevelCritical = "critical"
)

// Log type constants
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// DefaultLogService tags records when no service name is configured
const DefaultLogService = "billing"

// LoggerSettings selects where records go and how they are tagged
type LoggerSettings struct {
	LogLevel string           `mapstructure:"log_level" validate:"required,oneof=info debug error warning critical"`
	LogType  string           `mapstructure:"log_type" validate:"required,oneof=console file"`
	Service  string           `mapstructure:"service" validate:"omitempty,max=64,printascii"`
	FilePath string           `mapstructure:"file_path" validate:"required_if=LogType file"`
	Rotation RotationSettings `mapstructure:"rotation" validate:"-"`
}

// RotationSettings maps onto the lumberjack writer used by the file logger.
// Sizes are megabytes, ages are days. MaxBackups 0 keeps every old file.
type RotationSettings struct {
	MaxSize    int  `mapstructure:"max_size" validate:"min=1,max=1024"`
	MaxBackups int  `mapstructure:"max_backups" validate:"min=0,max=100"`
	MaxAge     int  `mapstructure:"max_age" validate:"min=1,max=365"`
	Compress   bool `mapstructure:"compress"`
}

// Validate checks the settings. Rotation only matters to the file logger.
func (s *LoggerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	if s.LogType == LogTypeFile {
		if err := validate.Struct(&s.Rotation); err != nil {
			return fmt.Errorf("validation failed for log rotation: %w", err)
		}
	}

	return nil
}

// ServiceName returns the configured service tag or DefaultLogService
func (s *LoggerSettings) ServiceName() string {
	if s.Service == "" {
		return DefaultLogService
	}
	return s.Service
}
