package wheel

import (
	"context"
	"errors"
	"fortune_wheel/internal/model"
	"testing"
	"time"
)

func TestClose_WaitsForNotifications(t *testing.T) {
	e := newTestEnv(singlePrizeCatalog(), redoID, nil)
	e.notifier.block = make(chan struct{})
	ctx := context.Background()
	h := &fakeHost{userID: 3, hasUser: true, canSend: true}

	if _, err := e.serv.Spin(ctx, "dev", h, nil); err != nil {
		t.Fatalf("Spin: %v", err)
	}

	// Уведомление ещё висит - Close не должен вернуться раньше
	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := e.serv.Close(shortCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Close returned before notification finished: %v", err)
	}

	close(e.notifier.block)
	if err := e.serv.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if sent := e.notifier.Sent(); len(sent) != 1 {
		t.Fatalf("notification lost on close: %+v", sent)
	}

	if _, err := e.serv.Spin(ctx, "dev", h, nil); !errors.Is(err, model.ErrServiceClosed) {
		t.Fatalf("unexpected error after close: got=%v want=%v", err, model.ErrServiceClosed)
	}
	state, _ := e.serv.State(ctx, "dev")
	if state.AttemptsLeft != 2 {
		t.Fatalf("rejected spin changed state: %+v", state)
	}
}
