package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const claimsContextKey contextKey = "claims"

const (
	jwtClaimParticipantID = "participant_id"
	adminKeyHeader        = "X-Admin-Key"
)

// Authenticate verifies the Bearer token and stores its claims in the
// request context. Tokens are HS256, signed with the shared secret.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				http.Error(w, "authorization header must use the Bearer scheme", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetParticipantIDFromContext extracts the authenticated participant's
// ID from the claims Authenticate stored.
func GetParticipantIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("claims not found in context")
	}
	raw, ok := claims[jwtClaimParticipantID]
	if !ok {
		return 0, errors.New("missing participant_id claim")
	}
	idFloat, ok := raw.(float64)
	if !ok || idFloat != float64(int(idFloat)) || int(idFloat) <= 0 {
		return 0, errors.New("invalid participant_id claim")
	}
	return int(idFloat), nil
}

// RequireAdminKey guards result-entry routes. The caller presents the
// plaintext operator key in X-Admin-Key; only its bcrypt hash is held
// in configuration.
func RequireAdminKey(adminKeyHash string) func(http.Handler) http.Handler {
	hash := []byte(adminKeyHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(adminKeyHeader)
			if key == "" {
				http.Error(w, "missing admin key", http.StatusUnauthorized)
				return
			}
			if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
				http.Error(w, "invalid admin key", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
