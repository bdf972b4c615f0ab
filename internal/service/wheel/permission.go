package wheel

import (
	"context"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/repository"

	"go.uber.org/zap"
)

const permissionNotice = "📱 Для получения уведомлений о призах\n\n" +
	"1. Откройте настройки бота\n" +
	"2. Включите \"Разрешить боту писать мне\"\n" +
	"3. Вернитесь в приложение\n\n" +
	"Это нужно для отправки уведомлений о выигрышах!"

// PermissionStrategy проверяет (и при необходимости запрашивает) разрешение боту писать пользователю
type PermissionStrategy interface {
	Ensure(ctx context.Context, deviceID string, h host.Host) bool
}

type silentCheck struct {
	users repository.UserRepository
}

// NewSilentCheck - только проверка canSendMessage; если разрешения нет,
// один раз на устройство показывает подсказку, как его включить
func NewSilentCheck(users repository.UserRepository) PermissionStrategy {
	return &silentCheck{users: users}
}

func (s *silentCheck) Ensure(ctx context.Context, deviceID string, h host.Host) bool {
	if !h.Available() {
		return false
	}

	if h.CanSendMessage() {
		s.record(ctx, deviceID, true)
		return true
	}

	shown, err := s.users.PermissionNoticeShown(ctx, deviceID)
	if err != nil {
		logger.Warn("Failed to read permission notice flag", zap.String("device", deviceID), zap.Error(err))
	}
	if !shown && err == nil {
		if err := h.ShowAlert(ctx, permissionNotice); err != nil {
			logger.Debug("Failed to show permission notice", zap.Error(err))
		}
		if err := s.users.MarkPermissionNoticeShown(ctx, deviceID); err != nil {
			logger.Warn("Failed to save permission notice flag", zap.Error(err))
		}
	}

	s.record(ctx, deviceID, false)
	return false
}

func (s *silentCheck) record(ctx context.Context, deviceID string, granted bool) {
	if err := s.users.SetWriteAccess(ctx, deviceID, granted); err != nil {
		logger.Warn("Failed to save write access", zap.String("device", deviceID), zap.Error(err))
	}
}

type interactiveModal struct {
	users repository.UserRepository
}

// NewInteractiveModal - если canSendMessage false, просит разрешение через хост и ждёт ответа
func NewInteractiveModal(users repository.UserRepository) PermissionStrategy {
	return &interactiveModal{users: users}
}

func (s *interactiveModal) Ensure(ctx context.Context, deviceID string, h host.Host) bool {
	if !h.Available() {
		return false
	}

	granted := h.CanSendMessage()
	if !granted {
		var err error
		granted, err = h.RequestWriteAccess(ctx)
		if err != nil {
			logger.Info("Write access request failed", zap.String("device", deviceID), zap.Error(err))
			granted = false
		}
	}

	if err := s.users.SetWriteAccess(ctx, deviceID, granted); err != nil {
		logger.Warn("Failed to save write access", zap.String("device", deviceID), zap.Error(err))
	}
	return granted
}
