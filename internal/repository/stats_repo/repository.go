package stats_repo

import (
	servModel "fortune_wheel/internal/model"
	repoModel "fortune_wheel/internal/repository/stats_repo/model"
	"sync"
)

const defaultWindowSize = 500

// StatsRepo - статистика выпадений в памяти процесса
type StatsRepo struct {
	mtx         sync.RWMutex
	state       repoModel.DrawState
	redoPrizeID string
}

func NewStatsRepository(redoPrizeID string) *StatsRepo {
	return &StatsRepo{
		redoPrizeID: redoPrizeID,
		state: repoModel.DrawState{
			Counts:     make(map[string]int),
			Window:     make([]string, 0, defaultWindowSize),
			WindowSize: defaultWindowSize,
		},
	}
}

// Record учитывает выпавший приз
func (r *StatsRepo) Record(prize servModel.Prize) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.state.TotalSpins++
	r.state.Counts[prize.ID]++
	if prize.ID == r.redoPrizeID {
		r.state.RedoCount++
	}

	r.state.Window = append(r.state.Window, prize.ID)
	if len(r.state.Window) > r.state.WindowSize {
		r.state.Window = r.state.Window[1:]
	}
}

// Snapshot - копия статистики и сравнение фактических долей с ожидаемыми по весам каталога.
// Ожидаемая доля не учитывает гарантированный реванш и исключение после двух реваншей
func (r *StatsRepo) Snapshot(catalog []servModel.Prize) servModel.DrawStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	stats := servModel.DrawStats{
		TotalSpins:   r.state.TotalSpins,
		RedoCount:    r.state.RedoCount,
		Counts:       make(map[string]int, len(r.state.Counts)),
		WindowSize:   len(r.state.Window),
		WindowCounts: make(map[string]int),
		Shares:       make([]servModel.PrizeShare, 0, len(catalog)),
	}
	for id, c := range r.state.Counts {
		stats.Counts[id] = c
	}
	for _, id := range r.state.Window {
		stats.WindowCounts[id]++
	}

	var totalWeight float64
	for _, p := range catalog {
		if p.Weight > 0 {
			totalWeight += p.Weight
		}
	}

	for _, p := range catalog {
		share := servModel.PrizeShare{PrizeID: p.ID}
		if totalWeight > 0 && p.Weight > 0 {
			share.Expected = p.Weight / totalWeight
		}
		if r.state.TotalSpins > 0 {
			share.Observed = float64(r.state.Counts[p.ID]) / float64(r.state.TotalSpins)
		}
		stats.Shares = append(stats.Shares, share)
	}
	return stats
}
