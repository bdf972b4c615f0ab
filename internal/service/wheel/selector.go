package wheel

import (
	"fortune_wheel/internal/model"
)

// maxRedo - после стольких реваншей за период реванш больше не выпадает
const maxRedo = 2

// SelectPrize выбирает приз для спина.
//  1. Последняя попытка, реванша ещё не было, хотя бы одна попытка потрачена - реванш.
//  2. Пул - призы с весом > 0; без реванша, если он выпал уже maxRedo раз.
//  3. Взвешенный выбор: r в [0, Σw), первый приз с r <= накопленной сумме.
//
// Каталог не должен быть пустым
func SelectPrize(state model.SessionState, catalog []model.Prize, redoPrizeID string, rnd RandomSource) model.Prize {
	usedAttempts := model.DefaultAttempts - state.AttemptsLeft
	if state.AttemptsLeft == 1 && state.RevanchCount == 0 && usedAttempts >= 1 {
		for _, p := range catalog {
			if p.ID == redoPrizeID {
				return p
			}
		}
	}

	pool := candidatePool(state, catalog, redoPrizeID)
	if len(pool) == 0 {
		return catalog[0]
	}

	var total float64
	for _, p := range pool {
		total += p.Weight
	}
	r := rnd.Float64() * total

	// Граница r == cumulative относится к текущему призу, r == 0 всегда даёт первый
	var cumulative float64
	for _, p := range pool {
		cumulative += p.Weight
		if r <= cumulative {
			return p
		}
	}

	return pool[0]
}

func candidatePool(state model.SessionState, catalog []model.Prize, redoPrizeID string) []model.Prize {
	pool := make([]model.Prize, 0, len(catalog))
	for _, p := range catalog {
		if p.Weight <= 0 {
			continue
		}
		if p.ID == redoPrizeID && state.RevanchCount >= maxRedo {
			continue
		}
		pool = append(pool, p)
	}
	return pool
}
