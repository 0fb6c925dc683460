package rest

import (
	"context"
	"net/http"

	"github.com/validoio/valido/internal/common"
	"github.com/validoio/valido/internal/server/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the token claims the auth middleware stored on
// the request, or nil for an unauthenticated request.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// authMiddleware requires a syntactically valid, unexpired access token in
// the Authorization header and stores its claims on the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, common.Unauthorized("Authorization token required"))
			return
		}

		claims, err := s.codec.ExtractClaims(token)
		if err != nil {
			writeError(w, common.Unauthorized("Invalid token"))
			return
		}
		if s.codec.IsExpired(token) {
			writeError(w, common.Unauthorized("Token expired"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware mirrors the permissive browser policy of the original
// deployment: any origin, credentials allowed, preflight answered inline.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
