// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gencraft/chat-api/internal/auth"
	"github.com/gencraft/chat-api/pkg/logger"
	"github.com/gencraft/chat-api/pkg/metrics"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for user ID.
	UserIDKey ContextKey = "user_id"
	// SessionIDKey is the context key for the identity provider session ID.
	SessionIDKey ContextKey = "session_id"
)

// Verifier checks a bearer token with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// Auth creates authentication middleware backed by verifier.
func Auth(verifier Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				metrics.RecordAuthFailure("missing")
				unauthorized(w, "No authorization token provided")
				return
			}

			token = strings.TrimPrefix(token, "Bearer ")

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				metrics.RecordAuthFailure("invalid")
				log.Debug("token verification failed",
					zap.String("correlation_id", GetCorrelationID(r.Context())),
					zap.Error(err),
				)
				unauthorized(w, err.Error())
				return
			}

			recordIdentity(r.Context(), identity)

			ctx := context.WithValue(r.Context(), UserIDKey, identity.UserID)
			ctx = context.WithValue(ctx, SessionIDKey, identity.SessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserID gets user ID from context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

// GetSessionID gets the session ID from context.
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(SessionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
