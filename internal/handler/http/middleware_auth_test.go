package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/service"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

// ---- Helpers ----

func newHandlerWithAuthService(authSvc service.AuthService) *Handler {
	return &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService: authSvc,
		},
	}
}

// injectNopLogger puts a nop logger into the request context the way
// withTraceID does.
func injectNopLogger(r *http.Request) *http.Request {
	return r.WithContext(logger.Nop().WithContext(r.Context()))
}

func executeAuth(h *Handler, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/sync/batch", nil))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)
	return rr
}

func tokenFor(accountID string) models.Token {
	return models.Token{RegisteredClaims: jwt.RegisteredClaims{Subject: accountID}}
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "bearer token", header: "Bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "scheme is case insensitive", header: "bearer abc", wantToken: "abc"},
		{name: "missing token", header: "Bearer", wantErr: true},
		{name: "empty header", header: "", wantErr: true},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "extra parts", header: "Bearer token extra-part", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth middleware ----

func TestAuth_Middleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		parseFn        func(ctx context.Context, s string) (models.Token, error)
		expectedStatus int
		wantAccountID  string
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "BearerTokenWithoutSpace",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			parseFn: func(_ context.Context, s string) (models.Token, error) {
				if s != "valid-token" {
					return models.Token{}, service.ErrTokenIsExpiredOrInvalid
				}
				return tokenFor("location-3"), nil
			},
			expectedStatus: http.StatusOK,
			wantAccountID:  "location-3",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			parseFn: func(context.Context, string) (models.Token, error) {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "token without subject",
			authHeader: "Bearer anonymous",
			parseFn: func(context.Context, string) (models.Token, error) {
				return tokenFor(""), nil
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseFn := tt.parseFn
			if parseFn == nil {
				parseFn = func(context.Context, string) (models.Token, error) {
					t.Fatal("ParseToken should not be called")
					return models.Token{}, nil
				}
			}
			h := newHandlerWithAuthService(&mockAuthService{parseFn: parseFn})

			nextCalled := false
			var accountID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				accountID, _ = utils.GetAccountIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rr := executeAuth(h, tt.authHeader, next)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, nextCalled)
			assert.Equal(t, tt.wantAccountID, accountID)

			if rr.Code == http.StatusUnauthorized {
				var body utils.ErrorBody
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}
