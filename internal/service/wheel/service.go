package wheel

import (
	"context"
	"fortune_wheel/internal/config"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/repository"
	"fortune_wheel/internal/service"
	"sync"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

const defaultNotifyTimeout = 10 * time.Second

type ServiceDeps struct {
	WheelCfg   config.WheelConfig
	StateRepo  repository.StateRepository
	UserRepo   repository.UserRepository
	StatsRepo  repository.StatsRepository
	TxManager  trm.Manager
	Notifier   service.Notifier
	Permission PermissionStrategy
	Animator   *Animator
	Random     RandomSource
	Now        func() time.Time

	NotifyTimeout time.Duration
}

type serv struct {
	catalog     []model.Prize
	redoPrizeID string

	stateRepo  repository.StateRepository
	userRepo   repository.UserRepository
	statsRepo  repository.StatsRepository
	txManager  trm.Manager
	notifier   service.Notifier
	permission PermissionStrategy
	animator   *Animator
	rnd        RandomSource
	now        func() time.Time

	notifyTimeout time.Duration
	notifyWG      sync.WaitGroup

	mtx      sync.Mutex
	sessions map[string]*WheelSession
	closed   bool
	spinWG   sync.WaitGroup
}

// NewWheelService собирает колесо: сектора считаются здесь, один раз
func NewWheelService(deps ServiceDeps) service.WheelService {
	return newServ(deps)
}

func newServ(deps ServiceDeps) *serv {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	rnd := deps.Random
	if rnd == nil {
		rnd = DefaultRandom()
	}
	animator := deps.Animator
	if animator == nil {
		animator = NewAnimator(now, NewTickerScheduler(deps.WheelCfg.FrameRate()))
	}
	permission := deps.Permission
	if permission == nil {
		permission = NewSilentCheck(deps.UserRepo)
	}
	timeout := deps.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}

	return &serv{
		catalog:       ComputeSectors(deps.WheelCfg.Prizes()),
		redoPrizeID:   deps.WheelCfg.RedoPrizeID(),
		stateRepo:     deps.StateRepo,
		userRepo:      deps.UserRepo,
		statsRepo:     deps.StatsRepo,
		txManager:     deps.TxManager,
		notifier:      deps.Notifier,
		permission:    permission,
		animator:      animator,
		rnd:           rnd,
		now:           now,
		notifyTimeout: timeout,
		sessions:      make(map[string]*WheelSession),
	}
}

func (s *serv) Catalog() []model.Prize {
	out := make([]model.Prize, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *serv) Stats() model.DrawStats {
	return s.statsRepo.Snapshot(s.catalog)
}

func (s *serv) session(deviceID string) *WheelSession {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess, ok := s.sessions[deviceID]
	if !ok {
		sess = &WheelSession{}
		s.sessions[deviceID] = sess
	}
	return sess
}

func (s *serv) prizeByID(id string) (model.Prize, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return model.Prize{}, false
}

// acquire регистрирует спин; false, если сервис уже закрывается
func (s *serv) acquire() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return false
	}
	s.spinWG.Add(1)
	return true
}

// Close перестаёт принимать спины и ждёт начатые спины и уведомления
// (не дольше ctx). После Close хранилище можно закрывать
func (s *serv) Close(ctx context.Context) error {
	s.mtx.Lock()
	s.closed = true
	s.mtx.Unlock()

	done := make(chan struct{})
	go func() {
		s.spinWG.Wait()
		s.notifyWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
