// Package identity holds the credential and session contracts shared by
// staff and client logins.
package identity

import (
	"context"
	"errors"
	"time"
)

// Session roles
const (
	RoleStaff  = "staff"
	RoleClient = "client"
)

// Errors returned while authenticating
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrOTPRequired        = errors.New("one-time password required")
	ErrInvalidOTP         = errors.New("invalid one-time password")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Claims identify the holder of a session.
type Claims struct {
	Subject   string
	Role      string
	CompanyID string
	ExpiresAt time.Time
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Cipher encrypts small secrets such as card numbers and TOTP seeds.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// TokenIssuer signs and parses session tokens.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Parse(token string) (*Claims, error)
	TTL() time.Duration
}

// OTPProvider generates and validates time based one-time passwords.
type OTPProvider interface {
	// Generate returns a new base32 secret and its otpauth:// URL.
	Generate(accountName string) (secret, url string, err error)
	Validate(code, secret string) bool
}

// Session is a signed token with the claims it carries.
type Session struct {
	Token  string
	Claims Claims
}

// Enrollment is a pending two-factor setup.
type Enrollment struct {
	Secret string
	URL    string
}

// LoginRequest carries credentials and the caller's address for the audit log.
type LoginRequest struct {
	CompanyID string
	Username  string
	Password  string
	OTP       string
	IPAddress string
}

// Authenticator starts sessions and manages staff two-factor settings.
type Authenticator interface {
	LoginStaff(ctx context.Context, req LoginRequest) (*Session, error)
	LoginClient(ctx context.Context, req LoginRequest) (*Session, error)
	ParseSession(token string) (*Claims, error)
	EnrollTOTP(ctx context.Context, staffID string) (*Enrollment, error)
	ConfirmTOTP(ctx context.Context, staffID, code string) error
	DisableTOTP(ctx context.Context, staffID string) error
}
