// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/logging"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie set by the login handler.
const TokenCookieName = "token"

// Middleware provides authentication middleware for the admin API.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
	}
}

// Authenticate is middleware that enforces authentication. With auth mode
// "none" every request runs as an anonymous admin.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == config.AuthModeNone {
			claims := &Claims{Username: "anonymous", Role: RoleAdmin}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			return "", fmt.Errorf("unauthorized: missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("unauthorized: invalid authorization header")
	}

	return parts[1], nil
}

// RequireRole rejects requests whose claims do not carry role. Admins pass
// every role check. It must run after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: invalid claims", http.StatusForbidden)
				return
			}

			if claims.Role != role && claims.Role != RoleAdmin {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithClaims stores claims on ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
