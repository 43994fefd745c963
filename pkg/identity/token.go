package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freshhfarm/storefront-backend/pkg/config"
)

var signingMethod = jwt.SigningMethodHS256

// SessionClaims is the subset of the provider-issued session token this
// service relies on. Subject carries the provider user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SubjectID returns the provider user id from the token, or an error when
// the claim is absent.
func (c *SessionClaims) SubjectID() (string, error) {
	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return "", fmt.Errorf("session token has no subject")
	}
	return sub, nil
}

// VerifySessionToken validates the signature, expiry and issuer of a session
// token and returns its typed claims. Leeway absorbs small clock skew between
// this service and the identity provider.
func VerifySessionToken(cfg config.IdentityConfig, tokenString string) (*SessionClaims, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("identity secret key is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.SecretKey), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// MintSessionToken issues a signed session token. Production traffic carries
// provider-issued tokens; this exists for tests and local tooling.
func MintSessionToken(cfg config.IdentityConfig, now time.Time, subject string, ttl time.Duration) (string, error) {
	if cfg.SecretKey == "" {
		return "", fmt.Errorf("identity secret key is required")
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	signed, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}
