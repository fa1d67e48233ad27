package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Signer seals session ids into tamper-evident cookie values.
type Signer struct {
	Key    []byte
	Issuer string
	// Now overrides the clock used to check expiry.
	Now func() time.Time
}

// Sign issues a signed token for session id, valid until exp.
func (s Signer) Sign(sessionID string, issuedAt, exp time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key)
}

// Parse validates a token and returns the session id it carries.
func (s Signer) Parse(tokenStr string) (string, error) {
	var opts []jwt.ParserOption
	if s.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(s.Now))
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.Key, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", errors.New("invalid token")
	}
	if s.Issuer != "" && claims.Issuer != s.Issuer {
		return "", errors.New("issuer mismatch")
	}
	return claims.SessionID, nil
}
