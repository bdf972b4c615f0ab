package model

import (
	"errors"
	"math"
	"time"
)

const (
	// DefaultAttempts - попыток на период
	DefaultAttempts = 3
	// ResetPeriod - длина периода, после которого попытки и история сбрасываются
	ResetPeriod = 30 * 24 * time.Hour
)

var (
	// ErrSpinInProgress - колесо уже крутится, новый спин игнорируется
	ErrSpinInProgress = errors.New("spin already in progress")
	// ErrNoAttempts - попытки на текущий период закончились
	ErrNoAttempts = errors.New("no attempts left")
	// ErrNoProtectionKey - ключ защиты ещё не выдавался
	ErrNoProtectionKey = errors.New("no protection key issued")
	// ErrServiceClosed - сервер останавливается, новые спины не принимаются
	ErrServiceClosed = errors.New("wheel service is closed")
)

// SessionState - сохраняемое состояние колеса одного устройства
type SessionState struct {
	AttemptsLeft  int
	LastResetDate time.Time
	RevanchCount  int
	LastPrize     string    // ID приза, пустая строка - приза нет
	LastSpinDate  time.Time // нулевое время - спинов не было
	HasSpun       bool

	WheelRotation float64
	// RotationSaved false только для старых записей, где позиция колеса не сохранялась
	RotationSaved bool

	LastProtectionKey string
}

// DaysUntilReset - сколько дней (с округлением вверх) осталось до сброса, не меньше 0
func (s SessionState) DaysUntilReset(now time.Time) int {
	daysSince := now.Sub(s.LastResetDate).Hours() / 24
	left := int(math.Ceil(ResetPeriod.Hours()/24 - daysSince))
	if left < 0 {
		return 0
	}
	return left
}

// SpinOutcome - результат завершённого спина для слоя представления
type SpinOutcome struct {
	Prize          Prize
	ProtectionKey  string
	FinalRotation  float64
	AttemptsLeft   int
	RevanchCount   int
	DaysUntilReset int
	// Unlocked - результат доступен для загрузки и отправки
	Unlocked bool
}

// RestoredView - то, что показываем при загрузке, если спин уже был в этом периоде
type RestoredView struct {
	Prize         *Prize
	ProtectionKey string
	Rotation      float64
	Unlocked      bool
}

// Notification - уведомление боту о выигрыше
type Notification struct {
	UserID        int64
	PrizeName     string
	ProtectionKey string
}
