package auth

import (
	"log/slog"
	"net/http"
)

// Middleware creates an HTTP middleware that extracts and injects the caller
// identity. This middleware:
// 1. Extracts the Authorization header
// 2. Verifies the bearer token
// 3. Injects the identity from the token claims into the request
//
// If any step fails (missing token, invalid token), the request proceeds
// without an identity. Handlers should check for identity availability.
//
// This design allows:
// - Public endpoints (no auth required)
// - Protected endpoints (check for identity)
// - Optional auth endpoints (use identity if available)
func Middleware(parser *TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			// If no Authorization header, continue without an identity
			if authHeader == "" {
				slog.Debug("no authorization header provided")
				next.ServeHTTP(w, r)
				return
			}

			identity, err := parser.ParseHeader(authHeader)
			if err != nil {
				slog.Warn("failed to verify bearer token",
					"error", err,
					"auth_header_length", len(authHeader),
				)
				next.ServeHTTP(w, r)
				return
			}

			r = r.WithContext(WithIdentity(r.Context(), identity))

			slog.Debug("identity injected successfully",
				"user_id", identity.UserID,
				"company_id", identity.CompanyID,
			)

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires authentication.
// If no identity is found, returns 401 Unauthorized.
// This middleware should be applied to protected endpoints.
//
// Usage:
//
//	mux.Handle("POST /api/protected", auth.RequireAuth(parser)(handler))
func RequireAuth(parser *TokenParser) func(http.Handler) http.Handler {
	// Create the auth middleware once, not on every request
	authMiddleware := Middleware(parser)

	return func(next http.Handler) http.Handler {
		return authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				slog.Warn("authentication required but not provided",
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
