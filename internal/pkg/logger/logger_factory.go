package logger

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
)

var (
	loggerInstance Logger
	loggerErr      error
	loggerOnce     sync.Once
)

// InitLogger initializes the singleton logger.
func InitLogger(settings *config.LoggerSettings) error {
	loggerOnce.Do(func() {
		loggerInstance, loggerErr = newLogger(settings)
	})
	return loggerErr
}

// GetLogger returns the initialized logger instance.
func GetLogger() (Logger, error) {
	if loggerInstance == nil {
		return nil, fmt.Errorf("logger not initialized: call InitLogger first")
	}
	return loggerInstance, nil
}

// ServiceKey is the attribute naming the process on every record
const ServiceKey = "service"

func newLogger(c *config.LoggerSettings) (Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var l Logger
	switch c.LogType {
	case config.LogTypeConsole:
		l = NewConsoleLogger(c.LogLevel)
	case config.LogTypeFile:
		l = NewFileLogger(c.LogLevel, c.FilePath, c.Rotation)
	default:
		return nil, fmt.Errorf("unsupported log type: %s", c.LogType)
	}

	if tagged, ok := l.(interface{ with(key, value string) }); ok {
		tagged.with(ServiceKey, c.ServiceName())
	}
	return l, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError, config.LogLevelCritical:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatArgs(args ...interface{}) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args...)
}
