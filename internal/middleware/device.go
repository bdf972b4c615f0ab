package middleware

import (
	"context"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/pkg/token"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DeviceCookieName = "device_token"

type deviceCtxKey struct{}

// Device определяет устройство по cookie device_token.
// Нет cookie или токен невалиден - выдаём новое устройство
func Device(secretKey []byte, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := ""
			if c, err := r.Cookie(DeviceCookieName); err == nil {
				claims, err := token.VerifyToken(c.Value, secretKey)
				if err == nil {
					deviceID = claims.Subject
				} else {
					logger.Debug("Device token rejected", zap.Error(err))
				}
			}

			if deviceID == "" {
				device := &model.Device{ID: uuid.NewString()}
				tok, err := token.GenerateDeviceToken(device, secretKey, ttl)
				if err != nil {
					logger.Error("Failed to issue device token", zap.Error(err))
					http.Error(w, "failed to issue device token", http.StatusInternalServerError)
					return
				}
				setDeviceCookie(w, tok, ttl)
				deviceID = device.ID
			}

			ctx := context.WithValue(r.Context(), deviceCtxKey{}, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func DeviceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceCtxKey{}).(string)
	return id, ok && id != ""
}

// WithDeviceID - для тестов и внутренних вызовов
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceCtxKey{}, deviceID)
}

func setDeviceCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(ttl.Seconds()),
	})
}
