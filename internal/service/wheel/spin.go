package wheel

import (
	"context"
	"errors"
	"fmt"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/service"

	"go.uber.org/zap"
)

// Spin - полный цикл спина: выбор приза, анимация, сохранение, результат, уведомление.
// ErrSpinInProgress - колесо уже крутится; ErrNoAttempts - попытки кончились;
// ErrServiceClosed - сервер останавливается
func (s *serv) Spin(ctx context.Context, deviceID string, h host.Host, p service.Presenter) (*model.SpinOutcome, error) {
	if h == nil {
		h = host.Absent{}
	}

	if !s.acquire() {
		return nil, model.ErrServiceClosed
	}
	defer s.spinWG.Done()

	sess := s.session(deviceID)
	if !sess.begin() {
		return nil, model.ErrSpinInProgress
	}

	state, err := s.stateRepo.Load(ctx, deviceID)
	if err != nil {
		sess.abort()
		return nil, err
	}
	if state.AttemptsLeft <= 0 {
		sess.abort()
		return nil, model.ErrNoAttempts
	}

	prize := SelectPrize(state, s.catalog, s.redoPrizeID, s.rnd)
	rotation := sess.sync(storedRotation(state))
	plan := BeginSpin(rotation, prize)

	logger.Info("Spin started",
		zap.String("device", deviceID),
		zap.String("prize", prize.ID),
		zap.Int("attempts_left", state.AttemptsLeft),
		zap.Int("revanch_count", state.RevanchCount))

	done := s.animator.Play(plan, p)

	// Клиент мог отключиться во время анимации - результат всё равно сохраняем
	outcome, err := s.complete(context.WithoutCancel(ctx), deviceID, done)
	if err != nil {
		sess.abort()
		return nil, err
	}
	sess.finish(done.FinalRotation)
	outcome.Unlocked = sess.Unlocked()

	s.statsRepo.Record(done.Prize)

	if p != nil {
		if err := p.ShowResult(*outcome); err != nil {
			logger.Debug("Failed to show spin result", zap.String("device", deviceID), zap.Error(err))
		}
	}

	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()
		s.notify(deviceID, h, *outcome)
	}()

	return outcome, nil
}

// complete - обновление сохранённого состояния по итогам анимации
func (s *serv) complete(ctx context.Context, deviceID string, done SpinCompleted) (*model.SpinOutcome, error) {
	var outcome *model.SpinOutcome

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		state, err := s.stateRepo.Load(txCtx, deviceID)
		if err != nil {
			return err
		}

		// Реванш попытку не тратит
		if done.Prize.ID == s.redoPrizeID {
			state.RevanchCount++
		} else {
			state.AttemptsLeft = max(0, state.AttemptsLeft-1)
		}

		key, err := generateProtectionKey()
		if err != nil {
			return fmt.Errorf("generate protection key: %w", err)
		}

		state.LastPrize = done.Prize.ID
		state.LastSpinDate = s.now()
		state.HasSpun = true
		state.WheelRotation = done.FinalRotation
		state.RotationSaved = true
		state.LastProtectionKey = key

		if err := s.stateRepo.Save(txCtx, deviceID, state); err != nil {
			return err
		}

		outcome = &model.SpinOutcome{
			Prize:          done.Prize,
			ProtectionKey:  key,
			FinalRotation:  done.FinalRotation,
			AttemptsLeft:   state.AttemptsLeft,
			RevanchCount:   state.RevanchCount,
			DaysUntilReset: state.DaysUntilReset(s.now()),
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to save spin result",
			zap.String("device", deviceID),
			zap.String("prize", done.Prize.ID),
			zap.Error(err))
		return nil, err
	}

	logger.Info("Spin completed",
		zap.String("device", deviceID),
		zap.String("prize", outcome.Prize.ID),
		zap.Int("attempts_left", outcome.AttemptsLeft),
		zap.Float64("rotation", outcome.FinalRotation))

	return outcome, nil
}

// IsPrecondition - ошибка означает отказ в спине, а не сбой
func IsPrecondition(err error) bool {
	return errors.Is(err, model.ErrSpinInProgress) || errors.Is(err, model.ErrNoAttempts)
}

func storedRotation(state model.SessionState) float64 {
	if state.RotationSaved {
		return state.WheelRotation
	}
	return 0
}
