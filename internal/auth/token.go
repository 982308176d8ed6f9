package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies anonymous session tokens. A token carries only
// the session id and its issue time; there are no identity claims.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns an HMAC-signed token for the given session id.
func (s *Signer) Sign(sessionID string, issued time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(issued),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

var ErrInvalidToken = errors.New("invalid session token")

// Verify checks the signature and returns the session id the token was
// issued for. Expiry is not a token concern here: session freshness is
// enforced by the comment gatekeeper against the registry timestamp.
func (s *Signer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
