package wheel

import (
	"context"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"

	"go.uber.org/zap"
)

const noProtectionKey = "N/A"

// Open - открытие мини-приложения: ready/expand, запоминаем user_id,
// проверяем разрешение на сообщения и восстанавливаем последний результат
func (s *serv) Open(ctx context.Context, deviceID string, h host.Host) (*model.RestoredView, error) {
	if h == nil {
		h = host.Absent{}
	}

	if h.Available() {
		h.Ready()
		h.Expand()
		if id, ok := h.UserID(); ok {
			if err := s.userRepo.CacheUserID(ctx, deviceID, id); err != nil {
				logger.Warn("Failed to cache user id", zap.String("device", deviceID), zap.Error(err))
			}
		}
		if !s.permission.Ensure(ctx, deviceID, h) {
			logger.Info("Bot messages not allowed, prize notifications are off", zap.String("device", deviceID))
		}
	}

	return s.Restore(ctx, deviceID)
}

// Restore - последний приз и позиция колеса без повторной анимации,
// если в текущем периоде уже был спин
func (s *serv) Restore(ctx context.Context, deviceID string) (*model.RestoredView, error) {
	state, err := s.stateRepo.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	sess := s.session(deviceID)

	prize, ok := s.restorablePrize(deviceID, state)
	if !ok {
		sess.restore(storedRotation(state), false)
		return &model.RestoredView{Rotation: sess.Rotation(), Unlocked: sess.Unlocked()}, nil
	}

	rotation := RestingRotation(prize)
	if state.RotationSaved {
		rotation = state.WheelRotation
	}
	sess.restore(rotation, true)

	key := state.LastProtectionKey
	if key == "" {
		key = noProtectionKey
	}

	return &model.RestoredView{
		Prize:         &prize,
		ProtectionKey: key,
		Rotation:      sess.Rotation(),
		Unlocked:      sess.Unlocked(),
	}, nil
}

func (s *serv) restorablePrize(deviceID string, state model.SessionState) (model.Prize, bool) {
	if !state.HasSpun || state.LastPrize == "" {
		return model.Prize{}, false
	}
	if !state.LastSpinDate.IsZero() && s.now().Sub(state.LastSpinDate) >= model.ResetPeriod {
		return model.Prize{}, false
	}

	prize, ok := s.prizeByID(state.LastPrize)
	if !ok {
		logger.Warn("Stored prize is not in catalog",
			zap.String("device", deviceID),
			zap.String("prize", state.LastPrize))
	}
	return prize, ok
}

func (s *serv) State(ctx context.Context, deviceID string) (model.SessionState, error) {
	return s.stateRepo.Load(ctx, deviceID)
}

// ResetAttempts - ручной сброс попыток (для оператора и тестов)
func (s *serv) ResetAttempts(ctx context.Context, deviceID string) (model.SessionState, error) {
	state, err := s.stateRepo.Reset(ctx, deviceID)
	if err != nil {
		return model.SessionState{}, err
	}
	s.session(deviceID).reset()

	logger.Info("Attempts reset", zap.String("device", deviceID))
	return state, nil
}

func (s *serv) DaysUntilReset(ctx context.Context, deviceID string) (int, error) {
	return s.stateRepo.DaysUntilReset(ctx, deviceID)
}

// LastProtectionKey - ключ последнего приза текущего периода
func (s *serv) LastProtectionKey(ctx context.Context, deviceID string) (string, error) {
	state, err := s.stateRepo.Load(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if !state.HasSpun || state.LastProtectionKey == "" {
		return "", model.ErrNoProtectionKey
	}
	return state.LastProtectionKey, nil
}
