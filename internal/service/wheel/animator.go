package wheel

import (
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/service"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	// ExtraTurns - полных оборотов сверх нужного угла, для зрелищности
	ExtraTurns = 6
	// SpinDuration - длительность анимации
	SpinDuration = 6000 * time.Millisecond
	// driftTolerance - допустимое отклонение центра приза от стрелки, рад
	driftTolerance = 0.01
)

// AnimationPlan - параметры одного вращения.
// StartRotation+TotalRotation ставит центр приза под стрелку (по модулю 2π)
type AnimationPlan struct {
	Prize         model.Prize
	StartRotation float64
	TotalRotation float64
	Duration      time.Duration
}

// SpinCompleted - событие окончания анимации
type SpinCompleted struct {
	Prize         model.Prize
	FinalRotation float64
}

// BeginSpin считает, на сколько повернуть колесо из currentRotation, чтобы приз встал под стрелку
func BeginSpin(currentRotation float64, prize model.Prize) AnimationPlan {
	normalized := NormalizeAngle(currentRotation)

	// Где сейчас центр приза с учётом поворота колеса
	currentCenter := NormalizeAngle(prize.Center() + normalized)

	delta := TargetAngle - currentCenter
	if delta < 0 {
		delta += FullTurn
	}

	final := normalized + ExtraTurns*FullTurn + delta

	return AnimationPlan{
		Prize:         prize,
		StartRotation: currentRotation,
		TotalRotation: final - currentRotation,
		Duration:      SpinDuration,
	}
}

func (p AnimationPlan) FinalRotation() float64 {
	return p.StartRotation + p.TotalRotation
}

// RotationAt - поворот колеса через elapsed от начала
func (p AnimationPlan) RotationAt(elapsed time.Duration) float64 {
	return p.StartRotation + p.TotalRotation*Ease(Progress(elapsed, p.Duration))
}

// Settle - финальная позиция: коррекция накопленной погрешности и нормализация в [0, 2π)
func (p AnimationPlan) Settle(rotation float64) float64 {
	if e := AngleError(p.Prize, rotation); math.Abs(e) > driftTolerance {
		logger.Debug("Wheel drift correction",
			zap.String("prize", p.Prize.ID),
			zap.Float64("error", e))
		rotation -= e
	}
	return NormalizeAngle(rotation)
}

// Progress - доля прошедшего времени, [0, 1]
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	return math.Max(0, math.Min(1, p))
}

// Ease - cubic ease-out
func Ease(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// FrameScheduler выдаёт тики кадров. stop освобождает ресурсы
type FrameScheduler interface {
	Start() (frames <-chan time.Time, stop func())
}

type tickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler - кадры с частотой frameRate в секунду
func NewTickerScheduler(frameRate int) FrameScheduler {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &tickerScheduler{interval: time.Second / time.Duration(frameRate)}
}

func (s *tickerScheduler) Start() (<-chan time.Time, func()) {
	t := time.NewTicker(s.interval)
	return t.C, t.Stop
}

// Animator проигрывает план покадрово. Одновременно на одном колесе идёт одна анимация -
// это гарантирует WheelSession
type Animator struct {
	now       func() time.Time
	scheduler FrameScheduler
}

func NewAnimator(now func() time.Time, scheduler FrameScheduler) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{
		now:       now,
		scheduler: scheduler,
	}
}

// Play крутит колесо до конца плана. Не прерывается: ошибки отрисовки
// (клиент отключился) не мешают довести спин и сохранить результат
func (a *Animator) Play(plan AnimationPlan, p service.Presenter) SpinCompleted {
	frames, stop := a.scheduler.Start()
	defer stop()

	start := a.now()
	for range frames {
		elapsed := a.now().Sub(start)
		draw(p, plan.RotationAt(elapsed))
		if Progress(elapsed, plan.Duration) >= 1 {
			break
		}
	}

	final := plan.Settle(plan.FinalRotation())
	draw(p, final)

	return SpinCompleted{
		Prize:         plan.Prize,
		FinalRotation: final,
	}
}

func draw(p service.Presenter, rotation float64) {
	if p == nil {
		return
	}
	if err := p.DrawWheel(rotation); err != nil {
		logger.Debug("Failed to draw wheel frame", zap.Error(err))
	}
}
