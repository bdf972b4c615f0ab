package model

// Prize - элемент каталога колеса.
// Сектора (SectorStart, SectorEnd) в радианах, считаются один раз при старте
type Prize struct {
	ID          string
	DisplayName string
	Message     string
	Weight      float64
	SectorStart float64
	SectorEnd   float64
}

// Center - угол середины сектора приза
func (p Prize) Center() float64 {
	return p.SectorStart + (p.SectorEnd-p.SectorStart)/2
}
