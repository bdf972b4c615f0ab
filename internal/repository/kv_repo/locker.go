package kv_repo

import (
	"context"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type lockCtxKey struct{}

// lockManager - trm.Manager для хранилища в памяти, где транзакций нет.
// Сериализует блоки Do; вложенный Do выполняется под уже взятым локом
type lockManager struct {
	mtx sync.Mutex
}

func NewLockManager() trm.Manager {
	return &lockManager{}
}

func (m *lockManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(lockCtxKey{}) != nil {
		return fn(ctx)
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	return fn(context.WithValue(ctx, lockCtxKey{}, struct{}{}))
}

func (m *lockManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
