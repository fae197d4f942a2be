package cryptography

import (
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

type totpProvider struct {
	issuer string
	now    func() time.Time
}

// NewTOTPProvider creates an OTPProvider issuing secrets under issuer
func NewTOTPProvider(issuer string) identity.OTPProvider {
	return &totpProvider{
		issuer: issuer,
		now:    time.Now,
	}
}

func (p *totpProvider) Generate(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: accountName,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// Validate accepts the current code and one step of clock skew either way
func (p *totpProvider) Validate(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, p.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
