// Package utils provides small helpers shared by the client and server:
// typed context keys, JSON response writing, the resty client wrapper, JWT
// generation and parsing, and uuid v7 identifiers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// AccountIDCtxKey stores the restaurant location (account) the request was
// authenticated for.
var AccountIDCtxKey = contextKey("accountID")

// GetAccountIDFromContext returns the account id put into ctx by the auth
// middleware.
func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(string)
	return accountID, ok
}
