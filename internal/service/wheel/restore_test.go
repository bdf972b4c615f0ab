package wheel

import (
	"context"
	"errors"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/repository/user_repo"
	"strconv"
	"testing"
	"time"
)

func TestRestore_NoSpinYet(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)

	view, err := e.serv.Restore(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if view.Prize != nil || view.Unlocked || view.Rotation != 0 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestRestore_AfterReload(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	outcome, err := e.serv.Spin(ctx, "dev", nil, nil)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	e.serv.notifyWG.Wait()

	// Перезагрузка: новый процесс над тем же хранилищем
	reloaded := e.newServ(singlePrizeCatalog(), redoID, nil)
	view, err := reloaded.Restore(ctx, "dev")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if view.Prize == nil || view.Prize.ID != outcome.Prize.ID {
		t.Fatalf("prize not restored: %+v", view)
	}
	if view.ProtectionKey != outcome.ProtectionKey {
		t.Fatalf("key: got=%q want=%q", view.ProtectionKey, outcome.ProtectionKey)
	}
	if view.Rotation != outcome.FinalRotation || !view.Unlocked {
		t.Fatalf("unexpected view: %+v", view)
	}

	sess := reloaded.session("dev")
	if sess.Rotation() != outcome.FinalRotation || !sess.Unlocked() {
		t.Fatalf("session not restored: rotation=%v unlocked=%v", sess.Rotation(), sess.Unlocked())
	}
}

func TestRestore_UnlockedFollowsSession(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	if _, err := e.serv.Spin(ctx, "dev", nil, nil); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	e.serv.notifyWG.Wait()

	if view, _ := e.serv.Restore(ctx, "dev"); !view.Unlocked {
		t.Fatalf("downloads locked after spin: %+v", view)
	}

	if _, err := e.serv.ResetAttempts(ctx, "dev"); err != nil {
		t.Fatalf("ResetAttempts: %v", err)
	}
	if view, _ := e.serv.Restore(ctx, "dev"); view.Unlocked || view.Prize != nil {
		t.Fatalf("downloads unlocked after reset: %+v", view)
	}
}

func TestRestore_LegacyRecordWithoutRotation(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	ms := e.now.Add(-time.Hour).UnixMilli()
	raw := `{"attemptsLeft":2,"lastResetDate":` + itoa(ms) + `,"lastPrize":"Кофе","lastSpinDate":` + itoa(ms) + `,"hasSpun":true}`
	if err := e.kv.Set(ctx, "wheelFortuneState:dev", raw); err != nil {
		t.Fatalf("Set: %v", err)
	}

	view, err := e.serv.Restore(ctx, "dev")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if view.Prize == nil {
		t.Fatalf("prize not restored")
	}
	if want := RestingRotation(*view.Prize); view.Rotation != want {
		t.Fatalf("rotation: got=%v want=%v", view.Rotation, want)
	}
	if view.ProtectionKey != noProtectionKey {
		t.Fatalf("key: got=%q want=%q", view.ProtectionKey, noProtectionKey)
	}
}

func TestRestore_StaleSpin(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	state, _ := e.serv.State(ctx, "dev")
	state.HasSpun = true
	state.LastPrize = "Кофе"
	state.LastSpinDate = e.now.Add(-model.ResetPeriod - time.Minute)
	state.WheelRotation = 1.5
	if err := e.serv.stateRepo.Save(ctx, "dev", state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	view, err := e.serv.Restore(ctx, "dev")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if view.Prize != nil || view.Unlocked {
		t.Fatalf("stale prize restored: %+v", view)
	}
	if view.Rotation != 1.5 {
		t.Fatalf("rotation: got=%v want=1.5", view.Rotation)
	}
}

func TestRestore_UnknownPrize(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	state, _ := e.serv.State(ctx, "dev")
	state.HasSpun = true
	state.LastPrize = "removed from catalog"
	state.LastSpinDate = e.now
	if err := e.serv.stateRepo.Save(ctx, "dev", state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	view, err := e.serv.Restore(ctx, "dev")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if view.Prize != nil {
		t.Fatalf("unknown prize restored: %+v", view)
	}
}

func TestResetAttempts(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	for i := 0; i < model.DefaultAttempts; i++ {
		if _, err := e.serv.Spin(ctx, "dev", nil, nil); err != nil {
			t.Fatalf("Spin: %v", err)
		}
	}
	e.serv.notifyWG.Wait()

	state, err := e.serv.ResetAttempts(ctx, "dev")
	if err != nil {
		t.Fatalf("ResetAttempts: %v", err)
	}
	if state.AttemptsLeft != model.DefaultAttempts || state.HasSpun || state.LastPrize != "" || state.RevanchCount != 0 {
		t.Fatalf("unexpected state after reset: %+v", state)
	}

	sess := e.serv.session("dev")
	if sess.Rotation() != 0 || sess.Unlocked() {
		t.Fatalf("session not reset")
	}

	if _, err := e.serv.LastProtectionKey(ctx, "dev"); !errors.Is(err, model.ErrNoProtectionKey) {
		t.Fatalf("unexpected error: %v", err)
	}
	days, err := e.serv.DaysUntilReset(ctx, "dev")
	if err != nil || days != 30 {
		t.Fatalf("days until reset: got=%d err=%v", days, err)
	}
}

func TestLastProtectionKey(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()

	if _, err := e.serv.LastProtectionKey(ctx, "dev"); !errors.Is(err, model.ErrNoProtectionKey) {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := e.serv.Spin(ctx, "dev", nil, nil)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	e.serv.notifyWG.Wait()

	key, err := e.serv.LastProtectionKey(ctx, "dev")
	if err != nil || key != outcome.ProtectionKey {
		t.Fatalf("key: got=%q err=%v want=%q", key, err, outcome.ProtectionKey)
	}
}

func TestOpen(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	ctx := context.Background()
	h := &fakeHost{userID: 99, hasUser: true, canSend: true}

	view, err := e.serv.Open(ctx, "dev", h)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if view.Prize != nil {
		t.Fatalf("unexpected prize: %+v", view)
	}
	if h.readyHits != 1 || h.expanded != 1 {
		t.Fatalf("host not initialised: ready=%d expand=%d", h.readyHits, h.expanded)
	}

	id, ok, err := e.serv.userRepo.CachedUserID(ctx, "dev")
	if err != nil || !ok || id != 99 {
		t.Fatalf("user id not cached: id=%d ok=%v err=%v", id, ok, err)
	}
	status, _ := e.serv.userRepo.WriteAccess(ctx, "dev")
	if status != user_repo.WriteAccessGranted {
		t.Fatalf("write access: got=%q want=granted", status)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
