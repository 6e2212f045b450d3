// Package middleware provides the HTTP cross-cutting layers: JWT
// authentication, panic recovery, request logging and request metrics.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"govportal/internal/common/logger"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID int64  `json:"user_id"`
	NIC    string `json:"nic"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens and injects the authenticated user's claims
// into the request context.
type Auth struct {
	secret []byte
	expiry time.Duration
	logger logger.Logger
}

// NewAuth creates an Auth layer. expiryMinutes bounds issued token life.
func NewAuth(secret string, expiryMinutes int, log logger.Logger) *Auth {
	return &Auth{
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
		logger: log,
	}
}

// IssueToken signs a token for an authenticated user.
func (a *Auth) IssueToken(userID int64, nic string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		NIC:    nic,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a signed token and returns its claims.
func (a *Auth) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Require rejects requests without a valid bearer token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, `{"error":"Authorization required"}`, http.StatusUnauthorized)
			return
		}

		claims, err := a.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			a.logger.Debug("Token rejected", map[string]interface{}{
				"error": err.Error(),
			})
			http.Error(w, `{"error":"Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user's claims, if present.
func UserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	return claims, ok
}
