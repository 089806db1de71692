package credential

import (
	"fmt"
	"time"

	"notes-auth/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the informational payload of a federated credential. The
// decode is structural only: the signature is never verified, the claims are
// used purely for diagnostics and must not gate any auth decision.
type Claims struct {
	Subject string
	Issuer  string
	Email   string
	Name    string
	Picture string
	Expiry  time.Time
}

// Decode extracts the payload of a raw federated credential without
// verifying its signature. Failure wraps domain.ErrDecodeFailed and is
// non-fatal to the sign-in attempt.
func Decode(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailed, err)
	}

	out := &Claims{
		Subject: stringClaim(claims, "sub"),
		Issuer:  stringClaim(claims, "iss"),
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Picture: stringClaim(claims, "picture"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Expiry = exp.Time
	}
	return out, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
