package logger

import (
	"log/slog"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"

	"github.com/natefinch/lumberjack"
)

// FileLogger is an implementation of Logger that logs JSON to a rotated file.
type FileLogger struct {
	slogLogger
	writer *lumberjack.Logger
}

// NewFileLogger creates a file logger that rotates according to rotation.
func NewFileLogger(level, filePath string, rotation config.RotationSettings) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &FileLogger{slogLogger: slogLogger{logger: slog.New(handler)}, writer: writer}
}

// Close releases the current log file
func (l *FileLogger) Close() error {
	return l.writer.Close()
}
