package model

// DrawState - накопленная статистика выпадений
type DrawState struct {
	TotalSpins int            // Сколько всего спинов завершено
	RedoCount  int            // Сколько раз выпал реванш
	Counts     map[string]int // Выпадения по ID приза

	Window     []string // Окно последних выпавших призов
	WindowSize int      // Размер окна
}
