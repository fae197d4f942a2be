package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// SecuritySettings holds secrets and session parameters
type SecuritySettings struct {
	EncryptionKey string        `mapstructure:"encryption_key" validate:"required,base64"`
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"required"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	TOTPIssuer    string        `mapstructure:"totp_issuer" validate:"required"`
}

// Validate checks that all fields in SecuritySettings are valid
func (s *SecuritySettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for SecuritySettings: %w", err)
	}

	key, err := s.Key()
	if err != nil {
		return err
	}
	if len(key) != 32 {
		return fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(key))
	}

	if s.SessionTTL < time.Minute {
		return fmt.Errorf("session ttl must be at least one minute")
	}

	return nil
}

// Key decodes the base64 encryption key
func (s *SecuritySettings) Key() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	return key, nil
}
