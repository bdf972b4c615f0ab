package middleware

import (
	"context"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/telegram"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"
	InitDataQuery  = "initData"
)

type initDataCtxKey struct{}

// InitData проверяет данные запуска Telegram. Без них или с неверной подписью
// запрос идёт дальше как открытый вне Telegram
func InitData(botToken string, maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(InitDataHeader)
			if raw == "" {
				raw = r.URL.Query().Get(InitDataQuery)
			}
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			data, err := telegram.ParseInitData(raw, botToken, maxAge, time.Now())
			if err != nil {
				logger.Warn("Telegram init data rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), initDataCtxKey{}, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InitDataFromContext - nil, если приложение открыто вне Telegram
func InitDataFromContext(ctx context.Context) *telegram.InitData {
	data, _ := ctx.Value(initDataCtxKey{}).(*telegram.InitData)
	return data
}
