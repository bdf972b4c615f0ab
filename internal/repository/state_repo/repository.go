package state_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/repository"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	keyPrefix = "wheelFortuneState:"

	DefaultAttempts = model.DefaultAttempts
	ResetPeriod     = model.ResetPeriod
)

// record - сериализованное состояние. Все поля опциональны:
// старые записи дополняются значениями по умолчанию
type record struct {
	AttemptsLeft      *int     `json:"attemptsLeft"`
	LastResetDate     *int64   `json:"lastResetDate"`
	LastPrize         *string  `json:"lastPrize"`
	LastSpinDate      *int64   `json:"lastSpinDate"`
	HasSpun           *bool    `json:"hasSpun"`
	RevanchCount      *int     `json:"revanchCount"`
	WheelRotation     *float64 `json:"wheelRotation"`
	LastProtectionKey *string  `json:"lastProtectionKey"`
}

type repo struct {
	kv  repository.KVRepository
	now func() time.Time
}

func NewStateRepository(kv repository.KVRepository, now func() time.Time) repository.StateRepository {
	if now == nil {
		now = time.Now
	}
	return &repo{
		kv:  kv,
		now: now,
	}
}

// Defaults - свежее состояние периода, начинающегося в now
func Defaults(now time.Time) model.SessionState {
	return model.SessionState{
		AttemptsLeft:  DefaultAttempts,
		LastResetDate: now,
		RotationSaved: true,
	}
}

// Load читает состояние устройства.
// Нет записи - состояние по умолчанию; битая запись - тоже (с предупреждением в лог).
// Если с lastResetDate прошло 30 дней - возвращается новое состояние.
// Ничего не пишет в хранилище
func (r *repo) Load(ctx context.Context, deviceID string) (model.SessionState, error) {
	now := r.now()

	raw, ok, err := r.kv.Get(ctx, key(deviceID))
	if err != nil {
		return model.SessionState{}, fmt.Errorf("load wheel state: %w", err)
	}
	if !ok {
		return Defaults(now), nil
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logger.Warn("Malformed wheel state, using defaults",
			zap.String("device", deviceID),
			zap.Error(err))
		return Defaults(now), nil
	}

	state := fromRecord(rec, now)
	if now.Sub(state.LastResetDate) >= ResetPeriod {
		return Defaults(now), nil
	}
	return state, nil
}

func (r *repo) Save(ctx context.Context, deviceID string, state model.SessionState) error {
	data, err := json.Marshal(toRecord(state))
	if err != nil {
		return err
	}

	if err := r.kv.Set(ctx, key(deviceID), string(data)); err != nil {
		return fmt.Errorf("save wheel state: %w", err)
	}
	return nil
}

// Reset записывает состояние по умолчанию (ручной сброс оператором)
func (r *repo) Reset(ctx context.Context, deviceID string) (model.SessionState, error) {
	state := Defaults(r.now())
	if err := r.Save(ctx, deviceID, state); err != nil {
		return model.SessionState{}, err
	}
	return state, nil
}

// DaysUntilReset - сколько целых дней (с округлением вверх) осталось до сброса
func (r *repo) DaysUntilReset(ctx context.Context, deviceID string) (int, error) {
	state, err := r.Load(ctx, deviceID)
	if err != nil {
		return 0, err
	}
	return daysUntilReset(state.LastResetDate, r.now()), nil
}

func daysUntilReset(lastReset, now time.Time) int {
	return model.SessionState{LastResetDate: lastReset}.DaysUntilReset(now)
}

func key(deviceID string) string {
	return keyPrefix + deviceID
}

func fromRecord(rec record, now time.Time) model.SessionState {
	state := Defaults(now)
	state.RotationSaved = false

	if rec.AttemptsLeft != nil {
		state.AttemptsLeft = clamp(*rec.AttemptsLeft, 0, DefaultAttempts)
	}
	if rec.LastResetDate != nil {
		state.LastResetDate = time.UnixMilli(*rec.LastResetDate)
	}
	if rec.RevanchCount != nil && *rec.RevanchCount > 0 {
		state.RevanchCount = *rec.RevanchCount
	}
	if rec.LastPrize != nil {
		state.LastPrize = *rec.LastPrize
	}
	if rec.LastSpinDate != nil {
		state.LastSpinDate = time.UnixMilli(*rec.LastSpinDate)
	}
	if rec.HasSpun != nil {
		state.HasSpun = *rec.HasSpun
	}
	if rec.WheelRotation != nil && !math.IsNaN(*rec.WheelRotation) && !math.IsInf(*rec.WheelRotation, 0) {
		state.WheelRotation = *rec.WheelRotation
		state.RotationSaved = true
	}
	if rec.LastProtectionKey != nil {
		state.LastProtectionKey = *rec.LastProtectionKey
	}
	return state
}

func toRecord(state model.SessionState) record {
	resetDate := state.LastResetDate.UnixMilli()
	rec := record{
		AttemptsLeft:  &state.AttemptsLeft,
		LastResetDate: &resetDate,
		HasSpun:       &state.HasSpun,
		RevanchCount:  &state.RevanchCount,
		WheelRotation: &state.WheelRotation,
	}
	if state.LastPrize != "" {
		rec.LastPrize = &state.LastPrize
	}
	if !state.LastSpinDate.IsZero() {
		spinDate := state.LastSpinDate.UnixMilli()
		rec.LastSpinDate = &spinDate
	}
	if state.LastProtectionKey != "" {
		rec.LastProtectionKey = &state.LastProtectionKey
	}
	return rec
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
