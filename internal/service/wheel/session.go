package wheel

import "sync"

// WheelSession - состояние колеса одного устройства в процессе: флаг вращения,
// текущий поворот, доступ к загрузке результата. Флаг spinning - единственная защита от двух спинов сразу
type WheelSession struct {
	mtx             sync.Mutex
	spinning        bool
	synced          bool
	currentRotation float64
	unlocked        bool
}

// begin переводит Idle -> Spinning. false, если спин уже идёт
func (s *WheelSession) begin() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.spinning {
		return false
	}
	s.spinning = true
	return true
}

// abort - возврат в Idle без спина (например, нет попыток)
func (s *WheelSession) abort() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.spinning = false
}

func (s *WheelSession) finish(rotation float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.spinning = false
	s.synced = true
	s.currentRotation = rotation
	s.unlocked = true
}

// sync берёт позицию из сохранённого состояния, если сессия ещё не знает своей
func (s *WheelSession) sync(rotation float64) float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.synced {
		s.currentRotation = rotation
		s.synced = true
	}
	return s.currentRotation
}

// restore - позиция и разблокировка после перезагрузки страницы. Во время спина не трогаем
func (s *WheelSession) restore(rotation float64, unlocked bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.spinning {
		return
	}
	s.currentRotation = rotation
	s.synced = true
	s.unlocked = unlocked
}

func (s *WheelSession) reset() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.currentRotation = 0
	s.synced = true
	s.unlocked = false
}

func (s *WheelSession) Rotation() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.currentRotation
}

func (s *WheelSession) Spinning() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.spinning
}

// Unlocked - после спина в этом периоде результат можно скачать и отправить
func (s *WheelSession) Unlocked() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.unlocked
}
