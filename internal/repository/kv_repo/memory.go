package kv_repo

import (
	"context"
	"sync"
)

// MemoryRepo - хранилище в памяти процесса, для тестов и STORE_DRIVER=memory
type MemoryRepo struct {
	mtx  sync.RWMutex
	data map[string]string
}

func NewMemoryRepository() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]string)}
}

func (r *MemoryRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryRepo) Set(_ context.Context, key, value string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.data[key] = value
	return nil
}
