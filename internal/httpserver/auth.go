// internal/httpserver/auth.go
//
// Bearer-token auth for the gated routes.
// Tokens are HS256 JWTs signed with a shared secret; the CLI signs one at
// startup and prints it so the local player can call the API. Without a
// configured secret a random key is generated per process, so only tokens
// issued by this process verify.

package httpserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// generatedKeyLen is the size of the signing key used when no secret is set.
const generatedKeyLen = 32

// Auth signs and checks tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// NewAuth signs with secret, or with a fresh random key when secret is empty.
func NewAuth(secret string, ttl time.Duration) (*Auth, error) {
	if secret != "" {
		return &Auth{secret: []byte(secret), ttl: ttl}, nil
	}
	key := make([]byte, generatedKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &Auth{secret: key, ttl: ttl}, nil
}

// Sign issues a token for subject.
func (a *Auth) Sign(subject string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(a.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString(a.secret)
	return ss, exp, err
}

// Verify returns the subject of a valid token.
func (a *Auth) Verify(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

type ctxSubjectKey struct{}

// Require enforces a valid bearer token and stores its subject in the context.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearer(r)
		if tokenStr == "" {
			writeErr(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		sub, err := a.Verify(tokenStr)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSubjectKey{}, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject returns the authenticated subject, if any.
func Subject(r *http.Request) string {
	s, _ := r.Context().Value(ctxSubjectKey{}).(string)
	return s
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
