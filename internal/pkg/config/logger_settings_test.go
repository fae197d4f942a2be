//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fileLoggerSettings() *LoggerSettings {
	return &LoggerSettings{
		LogLevel: LogLevelInfo,
		LogType:  LogTypeFile,
		FilePath: "/var/log/billing/app.log",
		Rotation: RotationSettings{MaxSize: 50, MaxBackups: 5, MaxAge: 30, Compress: true},
	}
}

func TestLoggerSettings_Validate_Rotation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *LoggerSettings)
		wantErr string
	}{
		{"valid", func(s *LoggerSettings) {}, ""},
		{"keep every backup", func(s *LoggerSettings) { s.Rotation.MaxBackups = 0 }, ""},
		{"zero max size", func(s *LoggerSettings) { s.Rotation.MaxSize = 0 }, "MaxSize"},
		{"oversized file", func(s *LoggerSettings) { s.Rotation.MaxSize = 2048 }, "MaxSize"},
		{"negative backups", func(s *LoggerSettings) { s.Rotation.MaxBackups = -1 }, "MaxBackups"},
		{"zero max age", func(s *LoggerSettings) { s.Rotation.MaxAge = 0 }, "MaxAge"},
		{"missing path", func(s *LoggerSettings) { s.FilePath = "" }, "FilePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fileLoggerSettings()
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoggerSettings_Validate_ConsoleSkipsRotation(t *testing.T) {
	s := &LoggerSettings{LogLevel: LogLevelDebug, LogType: LogTypeConsole}
	assert.NoError(t, s.Validate())

	s.LogType = "syslog"
	assert.Error(t, s.Validate())
}

func TestLoggerSettings_Service(t *testing.T) {
	s := &LoggerSettings{LogLevel: LogLevelInfo, LogType: LogTypeConsole}
	assert.Equal(t, DefaultLogService, s.ServiceName())

	s.Service = "billing-cron"
	assert.Equal(t, "billing-cron", s.ServiceName())
	assert.NoError(t, s.Validate())

	s.Service = "billing\ncron"
	assert.Error(t, s.Validate())
}
