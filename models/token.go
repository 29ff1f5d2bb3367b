package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT issued to a restaurant location. The "sub" claim carries
// the location (account) identifier that scopes every synchronised record.
type Token struct {
	// Token is the parsed JWT, excluded from JSON.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// AccountID is the cached "sub" claim.
	AccountID string `json:"-"`
}

// GetAccountID returns the "sub" claim, failing when it is missing or empty.
func (t *Token) GetAccountID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting account id from token: %w", err)
	}
	if sub == "" {
		return "", errors.New("empty subject in token")
	}
	return sub, nil
}

// ExpiresWithin reports whether the token expires before now+d. Tokens without
// an "exp" claim never expire.
func (t *Token) ExpiresWithin(now time.Time, d time.Duration) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !t.ExpiresAt.After(now.Add(d))
}

func (t *Token) String() string {
	return t.SignedString
}
