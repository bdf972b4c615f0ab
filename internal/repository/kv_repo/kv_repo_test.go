package kv_repo

import (
	"context"
	"errors"
	"fortune_wheel/internal/repository"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func TestQueries_Postgres(t *testing.T) {
	sqlStr, args, err := getQuery("k", sq.Dollar).ToSql()
	if err != nil {
		t.Fatalf("getQuery failed: %v", err)
	}
	if sqlStr != "SELECT value FROM kv_store WHERE key = $1" {
		t.Fatalf("unexpected select: %q", sqlStr)
	}
	if len(args) != 1 || args[0] != "k" {
		t.Fatalf("unexpected args: %v", args)
	}

	sqlStr, args, err = setQuery("k", "v", sq.Dollar).ToSql()
	if err != nil {
		t.Fatalf("setQuery failed: %v", err)
	}
	if !strings.HasPrefix(sqlStr, "INSERT INTO kv_store") {
		t.Fatalf("unexpected insert: %q", sqlStr)
	}
	if !strings.Contains(sqlStr, "ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value") {
		t.Fatalf("insert is not an upsert: %q", sqlStr)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func testKV(t *testing.T, repo repository.KVRepository) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get missing failed: %v", err)
	}
	if ok {
		t.Fatalf("missing key reported as present")
	}

	if err := repo.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}

	v, ok, err := repo.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if v != "2" {
		t.Fatalf("unexpected value: got=%q want=%q", v, "2")
	}
}

func TestMemoryRepo(t *testing.T) {
	testKV(t, NewMemoryRepository())
}

func TestSQLiteRepo(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "wheel.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository failed: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	testKV(t, repo)
}

func TestSQLiteRepo_Transaction(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "wheel.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository failed: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	txManager, err := repo.TxManager()
	if err != nil {
		t.Fatalf("TxManager failed: %v", err)
	}
	ctx := context.Background()

	wantErr := errors.New("boom")
	err = txManager.Do(ctx, func(ctx context.Context) error {
		if err := repo.Set(ctx, "rolled", "back"); err != nil {
			return err
		}
		// Внутри транзакции запись уже видна
		if v, ok, err := repo.Get(ctx, "rolled"); err != nil || !ok || v != "back" {
			t.Errorf("value inside tx: got=%q ok=%v err=%v", v, ok, err)
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error not propagated: %v", err)
	}
	if _, ok, err := repo.Get(ctx, "rolled"); err != nil || ok {
		t.Fatalf("rolled back value is visible: ok=%v err=%v", ok, err)
	}

	err = txManager.Do(ctx, func(ctx context.Context) error {
		return repo.Set(ctx, "committed", "yes")
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if v, ok, err := repo.Get(ctx, "committed"); err != nil || !ok || v != "yes" {
		t.Fatalf("committed value: got=%q ok=%v err=%v", v, ok, err)
	}
}

func TestLockManager_SerializesAndAllowsNesting(t *testing.T) {
	m := NewLockManager()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, func(ctx context.Context) error {
				return m.Do(ctx, func(context.Context) error {
					counter++
					return nil
				})
			})
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("unexpected counter: got=%d want=50", counter)
	}

	wantErr := errors.New("boom")
	if err := m.Do(ctx, func(context.Context) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("error not propagated: %v", err)
	}
}
