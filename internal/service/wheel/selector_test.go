package wheel

import (
	"fortune_wheel/internal/model"
	"math"
	"testing"
)

const redoID = "Реванш"

func weightedCatalog() []model.Prize {
	return ComputeSectors([]model.Prize{
		{ID: "a", Weight: 90},
		{ID: "b", Weight: 5},
		{ID: "c", Weight: 3},
		{ID: "d", Weight: 0.5},
		{ID: "e", Weight: 0.1},
		{ID: redoID, Weight: 50},
		{ID: "g", Weight: 9},
		{ID: "never", Weight: 0},
	})
}

func freshState() model.SessionState {
	return model.SessionState{AttemptsLeft: model.DefaultAttempts}
}

func TestSelectPrize_GuaranteedRedo(t *testing.T) {
	state := model.SessionState{AttemptsLeft: 1, RevanchCount: 0}
	for _, r := range []float64{0, 0.3, 0.999999} {
		got := SelectPrize(state, weightedCatalog(), redoID, fixedRandom(r))
		if got.ID != redoID {
			t.Fatalf("last attempt without redo: got=%q want=%q", got.ID, redoID)
		}
	}
}

func TestSelectPrize_NoGuaranteeAfterRedo(t *testing.T) {
	state := model.SessionState{AttemptsLeft: 1, RevanchCount: 1}
	got := SelectPrize(state, weightedCatalog(), redoID, fixedRandom(0))
	if got.ID != "a" {
		t.Fatalf("unexpected prize: got=%q want=%q", got.ID, "a")
	}
}

func TestSelectPrize_ZeroWeightNeverChosen(t *testing.T) {
	rnd := NewSeededRandom(7)
	catalog := weightedCatalog()
	for i := 0; i < 100000; i++ {
		if got := SelectPrize(freshState(), catalog, redoID, rnd); got.ID == "never" {
			t.Fatalf("zero-weight prize selected on draw %d", i)
		}
	}
}

func TestSelectPrize_RedoExcludedAfterLimit(t *testing.T) {
	rnd := NewSeededRandom(11)
	catalog := weightedCatalog()
	state := model.SessionState{AttemptsLeft: 2, RevanchCount: 2}
	for i := 0; i < 50000; i++ {
		if got := SelectPrize(state, catalog, redoID, rnd); got.ID == redoID {
			t.Fatalf("redo selected with revanch_count=2 on draw %d", i)
		}
	}
}

func TestSelectPrize_FrequenciesMatchWeights(t *testing.T) {
	const draws = 200000
	catalog := weightedCatalog()
	rnd := NewSeededRandom(2026)

	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		counts[SelectPrize(freshState(), catalog, redoID, rnd).ID]++
	}

	var total float64
	for _, p := range catalog {
		total += p.Weight
	}
	for _, p := range catalog {
		want := p.Weight / total
		got := float64(counts[p.ID]) / draws
		if math.Abs(got-want) > 0.005 {
			t.Fatalf("%s: unexpected share: got=%.4f want=%.4f", p.ID, got, want)
		}
	}
}

func TestSelectPrize_BoundaryBelongsToEarlierPrize(t *testing.T) {
	catalog := ComputeSectors([]model.Prize{{ID: "x", Weight: 1}, {ID: "y", Weight: 1}})

	if got := SelectPrize(freshState(), catalog, redoID, fixedRandom(0.5)); got.ID != "x" {
		t.Fatalf("r == cumulative: got=%q want=%q", got.ID, "x")
	}
	if got := SelectPrize(freshState(), catalog, redoID, fixedRandom(0)); got.ID != "x" {
		t.Fatalf("r == 0: got=%q want=%q", got.ID, "x")
	}
	if got := SelectPrize(freshState(), catalog, redoID, fixedRandom(0.51)); got.ID != "y" {
		t.Fatalf("r past boundary: got=%q want=%q", got.ID, "y")
	}
}

func TestSelectPrize_FallbackToFirstCandidate(t *testing.T) {
	catalog := ComputeSectors([]model.Prize{
		{ID: "zero", Weight: 0},
		{ID: "first", Weight: 2},
		{ID: "second", Weight: 3},
	})
	got := SelectPrize(freshState(), catalog, redoID, fixedRandom(math.NaN()))
	if got.ID != "first" {
		t.Fatalf("unexpected fallback: got=%q want=%q", got.ID, "first")
	}
}
