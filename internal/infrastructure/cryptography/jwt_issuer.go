package cryptography

import (
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	jwt.RegisteredClaims
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a TokenIssuer signing HS256 tokens valid for ttl
func NewJWTIssuer(secret string, ttl time.Duration) identity.TokenIssuer {
	return &jwtIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (j *jwtIssuer) TTL() time.Duration {
	return j.ttl
}

func (j *jwtIssuer) Issue(claims identity.Claims) (string, error) {
	now := j.now()
	expires := claims.ExpiresAt
	if expires.IsZero() {
		expires = now.Add(j.ttl)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role:    claims.Role,
		Company: claims.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (j *jwtIssuer) Parse(token string) (*identity.Claims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(identity.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, identity.ErrInvalidToken
	}

	return &identity.Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		CompanyID: claims.Company,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
