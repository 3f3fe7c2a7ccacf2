package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"inkflow/backend/internal/model"
)

// The engine never resolves identity itself; this middleware is the identity
// boundary. A valid Bearer token yields a user subject, the X-Guest-ID header
// yields a guest subject, and everything downstream works with model.Subject.

type contextKey int

const subjectContextKey contextKey = iota

// Identity returns a middleware that resolves the request's subject.
func Identity(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := resolveSubject(r, jwtSecret)
			if err != nil {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
				return
			}
			ctx := context.WithValue(r.Context(), subjectContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the subject the Identity middleware resolved.
func SubjectFromContext(ctx context.Context) (model.Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey).(model.Subject)
	return subject, ok
}

// ContextWithSubject injects a subject directly, bypassing the middleware.
// Exported for handler tests.
func ContextWithSubject(ctx context.Context, subject model.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

func resolveSubject(r *http.Request, jwtSecret string) (model.Subject, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		tokenString, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return model.Subject{}, fmt.Errorf("authorization header must use the Bearer scheme")
		}
		userID, err := parseUserID(tokenString, jwtSecret)
		if err != nil {
			return model.Subject{}, err
		}
		return model.UserSubject(userID), nil
	}

	if guestID := r.Header.Get("X-Guest-ID"); guestID != "" {
		return model.GuestSubject(guestID), nil
	}

	return model.Subject{}, fmt.Errorf("missing credentials: provide a Bearer token or X-Guest-ID header")
}

func parseUserID(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject claim")
	}
	return sub, nil
}
