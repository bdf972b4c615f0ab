package model

// DrawStats - снимок статистики выпадений призов
type DrawStats struct {
	TotalSpins   int
	RedoCount    int
	Counts       map[string]int
	WindowSize   int
	WindowCounts map[string]int
	Shares       []PrizeShare
}

// PrizeShare - фактическая и ожидаемая доля приза
type PrizeShare struct {
	PrizeID  string
	Observed float64
	Expected float64
}
