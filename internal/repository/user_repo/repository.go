package user_repo

import (
	"context"
	"fmt"
	"fortune_wheel/internal/repository"
	"strconv"
)

const (
	keyUserID          = "telegram_user_id:"
	keyWriteAccess     = "telegram_write_access:"
	keyWriteAsked      = "telegram_write_access_asked:"
	keyPermissionShown = "telegram_permission_notice_shown:"

	WriteAccessGranted = "granted"
	WriteAccessDenied  = "denied"
	WriteAccessUnknown = ""
)

type repo struct {
	kv repository.KVRepository
}

func NewUserRepository(kv repository.KVRepository) repository.UserRepository {
	return &repo{
		kv: kv,
	}
}

// CachedUserID - Telegram user_id, сохранённый при прошлых запусках на этом устройстве
func (r *repo) CachedUserID(ctx context.Context, deviceID string) (int64, bool, error) {
	raw, ok, err := r.kv.Get(ctx, keyUserID+deviceID)
	if err != nil || !ok {
		return 0, false, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Битое значение считаем отсутствующим
		return 0, false, nil
	}
	return id, true, nil
}

func (r *repo) CacheUserID(ctx context.Context, deviceID string, userID int64) error {
	if err := r.kv.Set(ctx, keyUserID+deviceID, strconv.FormatInt(userID, 10)); err != nil {
		return fmt.Errorf("cache user id: %w", err)
	}
	return nil
}

// SetWriteAccess сохраняет результат проверки разрешения писать пользователю
func (r *repo) SetWriteAccess(ctx context.Context, deviceID string, granted bool) error {
	status := WriteAccessDenied
	if granted {
		status = WriteAccessGranted
	}
	if err := r.kv.Set(ctx, keyWriteAccess+deviceID, status); err != nil {
		return err
	}
	return r.kv.Set(ctx, keyWriteAsked+deviceID, "true")
}

func (r *repo) WriteAccess(ctx context.Context, deviceID string) (string, error) {
	raw, ok, err := r.kv.Get(ctx, keyWriteAccess+deviceID)
	if err != nil || !ok {
		return WriteAccessUnknown, err
	}
	return raw, nil
}

func (r *repo) PermissionNoticeShown(ctx context.Context, deviceID string) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, keyPermissionShown+deviceID)
	if err != nil {
		return false, err
	}
	return ok && raw == "true", nil
}

func (r *repo) MarkPermissionNoticeShown(ctx context.Context, deviceID string) error {
	return r.kv.Set(ctx, keyPermissionShown+deviceID, "true")
}
