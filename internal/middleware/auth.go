package middleware

import (
	"context"
	"net/http"

	"github.com/devlinkhq/devlink-backend/internal/apperr"
	"github.com/devlinkhq/devlink-backend/internal/auth"
)

// Header carrying the bearer token, kept from the original API.
const TokenHeader = "x-auth-token"

// RequireAuth is middleware that verifies the x-auth-token header and
// injects the user_id into the request context.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				apperr.WriteError(w, apperr.Unauthorized("UnAuthorized"))
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				apperr.WriteError(w, apperr.Unauthorized("Token is not valid"))
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
