package wheel

import (
	"context"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/repository/user_repo"

	"go.uber.org/zap"
)

const userIDMissingAlert = "⚠️ Не удалось получить ID пользователя. Уведомление не будет отправлено."

// notify - уведомление боту о выигрыше. Ошибки только в лог: без повторов и без показа пользователю
func (s *serv) notify(deviceID string, h host.Host, outcome model.SpinOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	userID, ok := s.resolveUserID(ctx, deviceID, h)
	if !ok {
		logger.Warn("Telegram user id not found, notification skipped", zap.String("device", deviceID))
		if h.Available() {
			if err := h.ShowAlert(ctx, userIDMissingAlert); err != nil {
				logger.Debug("Failed to show alert", zap.Error(err))
			}
		}
		return
	}

	if !s.writeAccessAllowed(ctx, deviceID) {
		logger.Info("User denied bot messages, notification skipped",
			zap.String("device", deviceID),
			zap.Int64("user_id", userID))
		return
	}

	if s.notifier == nil {
		logger.Debug("Notifier is not configured, notification skipped", zap.Int64("user_id", userID))
		return
	}

	err := s.notifier.SendNotification(ctx, model.Notification{
		UserID:        userID,
		PrizeName:     outcome.Prize.ID,
		ProtectionKey: outcome.ProtectionKey,
	})
	if err != nil {
		logger.Error("Failed to send prize notification",
			zap.Int64("user_id", userID),
			zap.String("prize", outcome.Prize.ID),
			zap.Error(err))
		return
	}

	logger.Info("Prize notification sent",
		zap.Int64("user_id", userID),
		zap.String("prize", outcome.Prize.ID))
}

// resolveUserID - id от хоста (и запоминаем его), иначе сохранённый ранее на устройстве
func (s *serv) resolveUserID(ctx context.Context, deviceID string, h host.Host) (int64, bool) {
	if id, ok := h.UserID(); ok {
		if err := s.userRepo.CacheUserID(ctx, deviceID, id); err != nil {
			logger.Warn("Failed to cache user id", zap.String("device", deviceID), zap.Error(err))
		}
		return id, true
	}

	id, ok, err := s.userRepo.CachedUserID(ctx, deviceID)
	if err != nil {
		logger.Warn("Failed to read cached user id", zap.String("device", deviceID), zap.Error(err))
		return 0, false
	}
	return id, ok
}

// writeAccessAllowed - отказ, записанный стратегией разрешений, блокирует отправку.
// Если проверки ещё не было (вне Telegram, id из кэша), отправляем
func (s *serv) writeAccessAllowed(ctx context.Context, deviceID string) bool {
	status, err := s.userRepo.WriteAccess(ctx, deviceID)
	if err != nil {
		logger.Warn("Failed to read write access", zap.String("device", deviceID), zap.Error(err))
		return true
	}
	return status != user_repo.WriteAccessDenied
}
