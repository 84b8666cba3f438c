/*
Package auth issues and verifies short-lived session tokens for the API.

PURPOSE:
  The payroll engine itself knows nothing about users; this package is
  the external auth collaborator. A single operator credential (bcrypt
  hashed at startup, never stored in plain text) is exchanged for an
  HS256 JWT with an expiry; the middleware gates API routes on a valid
  Bearer token. There is no process-wide logged-in state.

USAGE:
  sessions, err := auth.NewSessions("admin", password, secret, 12*time.Hour)
  token, err := sessions.Login("admin", password)
  router.Use(sessions.Middleware)
*/
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadCredentials is returned by Login for a wrong username or password.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned by Verify for a missing, malformed,
	// expired or tampered token.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload carried by a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const claimsContextKey contextKey = "auth.claims"

// ClaimsFromContext returns the verified claims the middleware stored on
// the request context, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// =============================================================================
// SESSIONS
// =============================================================================

// Sessions issues and verifies session tokens for a single operator
// credential.
type Sessions struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// NewSessions hashes the operator password and returns a session issuer.
func NewSessions(username, password, secret string, ttl time.Duration) (*Sessions, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Sessions{
		username:     username,
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          ttl,
	}, nil
}

// Login verifies the credential and returns a signed session token.
func (s *Sessions) Login(username, password string) (string, error) {
	if username != s.username {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a session token, returning its claims.
func (s *Sessions) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// Middleware rejects requests without a valid Bearer token and stores
// the verified claims on the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenString string
		authHeader := r.Header.Get("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}

		claims, err := s.Verify(tokenString)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
