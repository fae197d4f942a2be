// Package settings describes per-company configuration values.
package settings

import (
	"errors"
	"time"
)

// Setting is a single stored company setting
type Setting struct {
	CompanyID string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Errors returned by the settings service
var (
	ErrUnknownKey = errors.New("unknown setting")
)
