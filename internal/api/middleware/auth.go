package middleware

import (
	"context"
	"net/http"
	"strings"
)

type tokenKey struct{}

// OptionalBearer кладет bearer-токен из Authorization в контекст
// Запрос без токена проходит дальше как анонимный.
func OptionalBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token != "" {
			r = r.WithContext(context.WithValue(r.Context(), tokenKey{}, token))
		}
		next.ServeHTTP(w, r)
	})
}

// GetToken возвращает токен из контекста, пустую строку для анонимного запроса
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
