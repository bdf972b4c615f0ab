package wheel

import (
	"fortune_wheel/internal/model"
	"math"
)

const (
	// FullTurn - полный оборот
	FullTurn = 2 * math.Pi
	// TargetAngle - угол стрелки (верх колеса, то же что -π/2)
	TargetAngle = 3 * math.Pi / 2
	// startAngle - первый сектор начинается сверху
	startAngle = -math.Pi / 2
)

// ComputeSectors делит круг на len(prizes) равных секторов в порядке каталога.
// Все сектора визуально одинаковые, вес на размер не влияет
func ComputeSectors(prizes []model.Prize) []model.Prize {
	out := make([]model.Prize, len(prizes))
	if len(prizes) == 0 {
		return out
	}

	anglePerSector := FullTurn / float64(len(prizes))
	for i, p := range prizes {
		p.SectorStart = startAngle + float64(i)*anglePerSector
		p.SectorEnd = startAngle + float64(i+1)*anglePerSector
		out[i] = p
	}
	return out
}

// NormalizeAngle приводит угол к [0, 2π)
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	if a >= FullTurn {
		a = 0
	}
	return a
}

// RestingRotation - поворот колеса, при котором центр приза стоит под стрелкой
func RestingRotation(prize model.Prize) float64 {
	rotation := TargetAngle - prize.Center()
	if rotation < 0 {
		rotation += FullTurn
	}
	return rotation
}

// AngleError - отклонение центра приза от стрелки при данном повороте, в [-π, π]
func AngleError(prize model.Prize, rotation float64) float64 {
	e := NormalizeAngle(prize.Center()+rotation) - TargetAngle
	if e > math.Pi {
		e -= FullTurn
	}
	if e < -math.Pi {
		e += FullTurn
	}
	return e
}
