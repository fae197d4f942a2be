//go:build unit
// +build unit

package cryptography

import (
	"errors"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, hasher.Verify(hash, "correct horse"))
	assert.False(t, hasher.Verify(hash, "battery staple"))
	assert.False(t, hasher.Verify("not-a-hash", "correct horse"))
}

func TestTOTPProvider(t *testing.T) {
	provider := NewTOTPProvider("Billing").(*totpProvider)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }

	secret, url, err := provider.Generate("admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")
	assert.Contains(t, url, "issuer=Billing")

	code, err := totp.GenerateCode(secret, now)
	require.NoError(t, err)
	assert.True(t, provider.Validate(code, secret))

	skewed, err := totp.GenerateCode(secret, now.Add(-30*time.Second))
	require.NoError(t, err)
	assert.True(t, provider.Validate(skewed, secret))

	stale, err := totp.GenerateCode(secret, now.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.False(t, provider.Validate(stale, secret))
}

func TestJWTIssuer(t *testing.T) {
	issuer := NewJWTIssuer("0123456789abcdef0123456789abcdef", time.Hour).(*jwtIssuer)
	now := time.Now()
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(identity.Claims{Subject: "staff-1", Role: identity.RoleStaff, CompanyID: "company-1"})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.Subject)
	assert.Equal(t, identity.RoleStaff, claims.Role)
	assert.Equal(t, "company-1", claims.CompanyID)
	assert.Equal(t, time.Hour, issuer.TTL())

	issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, identity.ErrInvalidToken))

	other := NewJWTIssuer("ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.Parse(token)
	assert.True(t, errors.Is(err, identity.ErrInvalidToken))
}
