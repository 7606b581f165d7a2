// Package auth extracts the acting user from HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
)

type contextKey string

const actorKey = contextKey("actor")

// SystemActor is used when no identity is available.
const SystemActor = "system"

// ActorHeader is honoured only when verification is disabled.
const ActorHeader = "X-Actor"

// WithActor stores the acting user in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting user, or SystemActor.
func Actor(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey).(string); ok && a != "" {
		return a
	}

	return SystemActor
}

type Verifier struct {
	secret   []byte
	disabled bool
}

// NewVerifier returns a verifier for tokens signed with secret. When disabled
// is set, tokens are not checked and the X-Actor header names the actor.
func NewVerifier(secret string, disabled bool) *Verifier {
	return &Verifier{secret: []byte(secret), disabled: disabled}
}

// Subject verifies tokenString and returns its sub claim.
func (v *Verifier) Subject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// token subject as the actor.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		if v.disabled {
			actor := strings.TrimSpace(r.Header.Get(ActorHeader))
			if actor == "" {
				actor = SystemActor
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))

			return
		}

		header := r.Header.Get("Authorization")

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			logger.Warn("authorization header missing or malformed")
			http.Error(w, "bearer token required", http.StatusUnauthorized)

			return
		}

		subject, err := v.Subject(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token has expired"
			}

			logger.Warn("rejected token", "error", err)
			http.Error(w, msg, http.StatusUnauthorized)

			return
		}

		ctx := WithActor(r.Context(), subject)
		ctx = logging.WithLogger(ctx, logger.With(slog.String("actor", subject)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
