package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
)

// auth rejects requests without a valid bearer token with 401 and stores
// the location the token was issued for under [utils.AccountIDCtxKey].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
			utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		accountID, err := token.GetAccountID()
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("token has no account")
			utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// handlers below log with the account attached
		accountLog := log.GetChildLogger()
		accountLog.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("account_id", accountID)
		})
		ctx = accountLog.WithContext(ctx)

		ctx = context.WithValue(ctx, utils.AccountIDCtxKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the token from "Bearer <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	token, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
	}
	return token, nil
}
