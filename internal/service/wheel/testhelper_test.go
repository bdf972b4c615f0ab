package wheel

import (
	"context"
	"errors"
	"fortune_wheel/internal/config/env"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/repository/kv_repo"
	"fortune_wheel/internal/repository/state_repo"
	"fortune_wheel/internal/repository/stats_repo"
	"fortune_wheel/internal/repository/user_repo"
	"sync"
	"time"
)

const frameStep = 16 * time.Millisecond

var errClosed = errors.New("connection closed")

// stepClock - каждое обращение сдвигает время на step
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

// manualScheduler - заранее заготовленные кадры, без реального таймера
type manualScheduler struct {
	frames int
}

func (s manualScheduler) Start() (<-chan time.Time, func()) {
	ch := make(chan time.Time, s.frames)
	for i := 0; i < s.frames; i++ {
		ch <- time.Time{}
	}
	close(ch)
	return ch, func() {}
}

func newTestAnimator() *Animator {
	clock := &stepClock{t: time.Unix(0, 0), step: frameStep}
	frames := int(SpinDuration/frameStep) + 10
	return NewAnimator(clock.Now, manualScheduler{frames: frames})
}

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

type recordingPresenter struct {
	mu      sync.Mutex
	frames  []float64
	results []model.SpinOutcome
	err     error
}

func (p *recordingPresenter) DrawWheel(rotation float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, rotation)
	return p.err
}

func (p *recordingPresenter) ShowResult(outcome model.SpinOutcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, outcome)
	return p.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
	// block - если задан, отправка ждёт его закрытия
	block chan struct{}
}

func (n *fakeNotifier) SendNotification(_ context.Context, msg model.Notification) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *fakeNotifier) Sent() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.sent...)
}

type fakeHost struct {
	mu        sync.Mutex
	userID    int64
	hasUser   bool
	canSend   bool
	grant     bool
	grantErr  error
	requests  int
	alerts    []string
	readyHits int
	expanded  int
}

func (h *fakeHost) Available() bool { return true }

func (h *fakeHost) Ready() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readyHits++
}

func (h *fakeHost) Expand() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expanded++
}

func (h *fakeHost) UserID() (int64, bool) { return h.userID, h.hasUser }

func (h *fakeHost) CanSendMessage() bool { return h.canSend }

func (h *fakeHost) RequestWriteAccess(context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	return h.grant, h.grantErr
}

func (h *fakeHost) ShowAlert(_ context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, text)
	return nil
}

func (h *fakeHost) Close() {}

func (h *fakeHost) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

type testEnv struct {
	kv       *kv_repo.MemoryRepo
	now      time.Time
	notifier *fakeNotifier
	serv     *serv
}

func (e *testEnv) clock() time.Time { return e.now }

// newTestEnv - сервис колеса на памяти. wheelCfg == nil - каталог по умолчанию
func newTestEnv(wheelCfg []model.Prize, redoID string, rnd RandomSource) *testEnv {
	e := &testEnv{
		kv:       kv_repo.NewMemoryRepository(),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		notifier: &fakeNotifier{},
	}
	e.serv = e.newServ(wheelCfg, redoID, rnd)
	return e
}

// newServ - новый экземпляр сервиса поверх того же хранилища (как перезагрузка страницы)
func (e *testEnv) newServ(prizes []model.Prize, redoID string, rnd RandomSource) *serv {
	cfg := env.DefaultWheelConfig()
	if prizes != nil {
		cfg = staticWheelConfig{prizes: prizes, redo: redoID}
	}
	if rnd == nil {
		rnd = NewSeededRandom(42)
	}
	users := user_repo.NewUserRepository(e.kv)
	return newServ(ServiceDeps{
		WheelCfg:  cfg,
		StateRepo: state_repo.NewStateRepository(e.kv, e.clock),
		UserRepo:  users,
		StatsRepo: stats_repo.NewStatsRepository(cfg.RedoPrizeID()),
		TxManager: kv_repo.NewLockManager(),
		Notifier:  e.notifier,
		Animator:  newTestAnimator(),
		Random:    rnd,
		Now:       e.clock,
	})
}

type staticWheelConfig struct {
	prizes []model.Prize
	redo   string
}

func (c staticWheelConfig) Prizes() []model.Prize { return c.prizes }

func (c staticWheelConfig) RedoPrizeID() string { return c.redo }

func (c staticWheelConfig) FrameRate() int { return 60 }
