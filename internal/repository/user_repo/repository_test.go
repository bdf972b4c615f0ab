package user_repo

import (
	"context"
	"fortune_wheel/internal/repository/kv_repo"
	"testing"
)

func TestUserIDCache(t *testing.T) {
	kv := kv_repo.NewMemoryRepository()
	r := NewUserRepository(kv)
	ctx := context.Background()

	if _, ok, err := r.CachedUserID(ctx, "dev"); err != nil || ok {
		t.Fatalf("unexpected cached id: ok=%v err=%v", ok, err)
	}

	if err := r.CacheUserID(ctx, "dev", 123456789); err != nil {
		t.Fatalf("CacheUserID failed: %v", err)
	}
	id, ok, err := r.CachedUserID(ctx, "dev")
	if err != nil || !ok {
		t.Fatalf("CachedUserID failed: ok=%v err=%v", ok, err)
	}
	if id != 123456789 {
		t.Fatalf("unexpected id: got=%d want=123456789", id)
	}

	_ = kv.Set(ctx, keyUserID+"broken", "abc")
	if _, ok, err := r.CachedUserID(ctx, "broken"); err != nil || ok {
		t.Fatalf("broken id should be ignored: ok=%v err=%v", ok, err)
	}
}

func TestWriteAccessFlags(t *testing.T) {
	r := NewUserRepository(kv_repo.NewMemoryRepository())
	ctx := context.Background()

	status, err := r.WriteAccess(ctx, "dev")
	if err != nil || status != WriteAccessUnknown {
		t.Fatalf("unexpected initial status: %q err=%v", status, err)
	}

	if err := r.SetWriteAccess(ctx, "dev", false); err != nil {
		t.Fatalf("SetWriteAccess failed: %v", err)
	}
	status, _ = r.WriteAccess(ctx, "dev")
	if status != WriteAccessDenied {
		t.Fatalf("unexpected status: got=%q want=%q", status, WriteAccessDenied)
	}

	shown, _ := r.PermissionNoticeShown(ctx, "dev")
	if shown {
		t.Fatalf("notice reported as shown")
	}
	_ = r.MarkPermissionNoticeShown(ctx, "dev")
	shown, _ = r.PermissionNoticeShown(ctx, "dev")
	if !shown {
		t.Fatalf("notice not marked as shown")
	}
}
