package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aidar/courtmatch/internal/service"
)

// TokenValidator проверяет JWT токен и возвращает claims
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// MemberIDKey ключ контекста для ID участника
	MemberIDKey ContextKey = "member_id"
	// ClubIDKey ключ контекста для ID клуба
	ClubIDKey ContextKey = "club_id"
)

const unauthorizedBody = `{"statusCode":401,"success":false,"message":"%s"}`

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), MemberIDKey, claims.MemberID)
			ctx = context.WithValue(ctx, ClubIDKey, claims.ClubID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = fmt.Fprintf(w, unauthorizedBody, message)
}

// GetMemberIDFromContext извлекает ID участника из контекста
func GetMemberIDFromContext(ctx context.Context) string {
	memberID, ok := ctx.Value(MemberIDKey).(string)
	if !ok {
		return ""
	}
	return memberID
}

// GetClubIDFromContext извлекает ID клуба из контекста
func GetClubIDFromContext(ctx context.Context) string {
	clubID, ok := ctx.Value(ClubIDKey).(string)
	if !ok {
		return ""
	}
	return clubID
}
