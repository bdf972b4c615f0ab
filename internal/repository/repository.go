package repository

import (
	"context"
	"fortune_wheel/internal/model"
)

// KVRepository - ключ-значение хранилище (аналог localStorage мини-приложения)
type KVRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type StateRepository interface {
	Load(ctx context.Context, deviceID string) (model.SessionState, error)
	Save(ctx context.Context, deviceID string, state model.SessionState) error
	Reset(ctx context.Context, deviceID string) (model.SessionState, error)
	DaysUntilReset(ctx context.Context, deviceID string) (int, error)
}

type UserRepository interface {
	CachedUserID(ctx context.Context, deviceID string) (userID int64, ok bool, err error)
	CacheUserID(ctx context.Context, deviceID string, userID int64) error

	SetWriteAccess(ctx context.Context, deviceID string, granted bool) error
	WriteAccess(ctx context.Context, deviceID string) (status string, err error)
	PermissionNoticeShown(ctx context.Context, deviceID string) (bool, error)
	MarkPermissionNoticeShown(ctx context.Context, deviceID string) error
}

type StatsRepository interface {
	Record(prize model.Prize)
	Snapshot(catalog []model.Prize) model.DrawStats
}
