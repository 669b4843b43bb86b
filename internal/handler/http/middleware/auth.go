package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
)

// AuthRequired gates a route group on a verified access token. It runs
// after jwtauth.Verifier, which parses the Authorization header and
// stashes the outcome in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			switch {
			case err != nil:
				response.Unauthorized(w, err.Error())
			case token == nil:
				response.HandleError(w, auth.ErrInvalidToken)
			case claims["type"] != "access":
				// Refresh tokens must not open authenticated endpoints.
				response.HandleError(w, auth.ErrInvalidToken)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
