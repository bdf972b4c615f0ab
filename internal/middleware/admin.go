package middleware

import (
	"fortune_wheel/internal/logger"
	"fortune_wheel/pkg/pass"
	"fortune_wheel/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminOnly пропускает запросы с токеном оператора. Пустой хэш - доступ закрыт всем
func AdminOnly(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				resp.WriteError(w, http.StatusForbidden, "admin access disabled")
				return
			}

			tok := r.Header.Get(AdminTokenHeader)
			if tok == "" || !pass.VerifyPassword(tokenHash, tok) {
				logger.Warn("Admin token rejected", zap.String("remote", r.RemoteAddr))
				resp.WriteError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
