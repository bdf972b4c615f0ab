package service

import (
	"context"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/model"
)

// Presenter - слой отображения: рисует колесо и показывает результат
type Presenter interface {
	DrawWheel(rotation float64) error
	ShowResult(outcome model.SpinOutcome) error
}

type Notifier interface {
	SendNotification(ctx context.Context, n model.Notification) error
}

type WheelService interface {
	Catalog() []model.Prize
	Open(ctx context.Context, deviceID string, h host.Host) (*model.RestoredView, error)
	Restore(ctx context.Context, deviceID string) (*model.RestoredView, error)
	State(ctx context.Context, deviceID string) (model.SessionState, error)
	Spin(ctx context.Context, deviceID string, h host.Host, p Presenter) (*model.SpinOutcome, error)
	ResetAttempts(ctx context.Context, deviceID string) (model.SessionState, error)
	DaysUntilReset(ctx context.Context, deviceID string) (int, error)
	LastProtectionKey(ctx context.Context, deviceID string) (string, error)
	Stats() model.DrawStats
	Close(ctx context.Context) error
}
