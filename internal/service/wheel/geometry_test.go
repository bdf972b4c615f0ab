package wheel

import (
	"fmt"
	"fortune_wheel/internal/model"
	"math"
	"testing"
)

func catalogOf(n int) []model.Prize {
	prizes := make([]model.Prize, n)
	for i := range prizes {
		prizes[i] = model.Prize{ID: fmt.Sprintf("p%d", i), Weight: 1}
	}
	return prizes
}

func TestComputeSectors(t *testing.T) {
	for n := 1; n <= 12; n++ {
		sectors := ComputeSectors(catalogOf(n))
		if len(sectors) != n {
			t.Fatalf("n=%d: unexpected sector count: got=%d", n, len(sectors))
		}
		if sectors[0].SectorStart != -math.Pi/2 {
			t.Fatalf("n=%d: first sector starts at %v", n, sectors[0].SectorStart)
		}

		var total float64
		for i, s := range sectors {
			if s.SectorEnd <= s.SectorStart {
				t.Fatalf("n=%d: empty sector %d: %+v", n, i, s)
			}
			if i > 0 && math.Abs(s.SectorStart-sectors[i-1].SectorEnd) > 1e-12 {
				t.Fatalf("n=%d: gap between sectors %d and %d", n, i-1, i)
			}
			if s.ID != fmt.Sprintf("p%d", i) {
				t.Fatalf("n=%d: catalog order lost at %d: %q", n, i, s.ID)
			}
			total += s.SectorEnd - s.SectorStart
		}
		if math.Abs(total-2*math.Pi) > 1e-9 {
			t.Fatalf("n=%d: sectors cover %v, want 2π", n, total)
		}
		if math.Abs(sectors[n-1].SectorEnd-(3*math.Pi/2)) > 1e-9 {
			t.Fatalf("n=%d: last sector ends at %v", n, sectors[n-1].SectorEnd)
		}
	}
}

func TestComputeSectors_DoesNotModifyInput(t *testing.T) {
	in := catalogOf(4)
	_ = ComputeSectors(in)
	if in[1].SectorStart != 0 || in[1].SectorEnd != 0 {
		t.Fatalf("input catalog modified: %+v", in[1])
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-7 * math.Pi, math.Pi},
	}
	for _, tc := range cases {
		got := NormalizeAngle(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v): got=%v want=%v", tc.in, got, tc.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Fatalf("NormalizeAngle(%v) out of range: %v", tc.in, got)
		}
	}
}

func TestRestingRotation_PutsPrizeUnderPointer(t *testing.T) {
	for _, p := range ComputeSectors(catalogOf(8)) {
		rot := RestingRotation(p)
		if rot < 0 || rot >= 2*math.Pi+1e-12 {
			t.Fatalf("%s: rotation out of range: %v", p.ID, rot)
		}
		if e := AngleError(p, rot); math.Abs(e) > 1e-9 {
			t.Fatalf("%s: prize is off the pointer by %v", p.ID, e)
		}
	}
}

func TestAngleError_Range(t *testing.T) {
	p := ComputeSectors(catalogOf(8))[3]
	for rot := -20.0; rot < 20; rot += 0.37 {
		e := AngleError(p, rot)
		if e < -math.Pi || e > math.Pi {
			t.Fatalf("AngleError(%v) out of [-π, π]: %v", rot, e)
		}
	}
}
