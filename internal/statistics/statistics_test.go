package statistics

import (
	"math"
	"testing"

	"github.com/lox/trashsim/internal/game"
)

func TestWilsonInterval_NoTrials(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		if _, ok := WilsonInterval(0, n); ok {
			t.Errorf("WilsonInterval(0, %d) should report no interval", n)
		}
	}
}

func TestWilsonInterval_Bounds(t *testing.T) {
	for _, n := range []int{1, 2, 10, 1000, 1_000_000} {
		zero, ok := WilsonInterval(0, n)
		if !ok {
			t.Fatalf("WilsonInterval(0, %d) reported no interval", n)
		}
		if zero.Lower() != 0 {
			t.Errorf("WilsonInterval(0, %d) lower = %v, want 0", n, zero.Lower())
		}
		if zero.Upper() <= 0 {
			t.Errorf("WilsonInterval(0, %d) upper = %v, want > 0", n, zero.Upper())
		}

		all, _ := WilsonInterval(n, n)
		if all.Upper() != 1 {
			t.Errorf("WilsonInterval(%d, %d) upper = %v, want 1", n, n, all.Upper())
		}
		if all.Lower() >= 1 {
			t.Errorf("WilsonInterval(%d, %d) lower = %v, want < 1", n, n, all.Lower())
		}
	}
}

func TestWilsonInterval_KnownValues(t *testing.T) {
	tests := []struct {
		successes, trials int
		lower, upper      float64
	}{
		// Reference values for z = 1.96.
		{40, 100, 0.3094, 0.4980},
		{50, 100, 0.4038, 0.5962},
		{1, 10, 0.0179, 0.4042},
	}

	for _, tt := range tests {
		got, ok := WilsonInterval(tt.successes, tt.trials)
		if !ok {
			t.Fatalf("WilsonInterval(%d, %d) reported no interval", tt.successes, tt.trials)
		}
		if math.Abs(got.Lower()-tt.lower) > 1e-4 || math.Abs(got.Upper()-tt.upper) > 1e-4 {
			t.Errorf("WilsonInterval(%d, %d) = %v, want [%.4f, %.4f]", tt.successes, tt.trials, got, tt.lower, tt.upper)
		}
		p := float64(tt.successes) / float64(tt.trials)
		if !got.Contains(p) {
			t.Errorf("interval %v does not contain the point estimate %v", got, p)
		}
	}
}

func TestWilsonInterval_Symmetric(t *testing.T) {
	a, _ := WilsonInterval(30, 200)
	b, _ := WilsonInterval(170, 200)
	if math.Abs(a.Lower()-(1-b.Upper())) > 1e-12 || math.Abs(a.Upper()-(1-b.Lower())) > 1e-12 {
		t.Errorf("intervals %v and %v are not mirror images", a, b)
	}
}

func TestWilsonIntervalZ_Narrows(t *testing.T) {
	wide, _ := WilsonIntervalZ(10, 100, 2.576)
	narrow, _ := WilsonIntervalZ(10, 100, 1.645)
	if narrow.Width() >= wide.Width() {
		t.Errorf("90%% interval %v should be narrower than 99%% interval %v", narrow, wide)
	}
}

func TestTally_Empty(t *testing.T) {
	var tally Tally

	if tally.Probability() != 0 {
		t.Errorf("Expected probability of 0 for empty tally, got %f", tally.Probability())
	}
	if _, ok := tally.ExpectedGamesToSuccess(); ok {
		t.Error("empty tally should have no expected games")
	}
	if _, ok := tally.AverageRoundsToWin(); ok {
		t.Error("empty tally should have no average rounds")
	}
	if _, ok := tally.ConfidenceInterval95(); ok {
		t.Error("empty tally should have no interval")
	}
	if err := tally.Validate(); err != nil {
		t.Errorf("empty tally should validate: %v", err)
	}
}

func TestTally_Add(t *testing.T) {
	var tally Tally
	results := []game.Result{
		{FirstTurnPerfect: true, BoardCompleted: true, DrawsTaken: 3, SlotsFilled: 10},
		{FirstTurnPerfect: false, BoardCompleted: true, DrawsTaken: 9, SlotsFilled: 10},
		{FirstTurnPerfect: false, BoardCompleted: false, DrawsTaken: 41, SlotsFilled: 7},
		{FirstTurnPerfect: false, BoardCompleted: false, DrawsTaken: 30, SlotsFilled: 4},
	}
	for _, r := range results {
		tally.Add(r)
	}

	if tally.Runs != 4 || tally.Successes != 1 || tally.Wins != 2 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if tally.TotalDrawsToWin != 12 {
		t.Errorf("draws to win should only count completed boards, got %d", tally.TotalDrawsToWin)
	}
	if tally.Probability() != 0.25 {
		t.Errorf("Expected probability 0.25, got %f", tally.Probability())
	}
	if e, ok := tally.ExpectedGamesToSuccess(); !ok || e != 4 {
		t.Errorf("Expected 4 games to success, got %v (ok=%t)", e, ok)
	}
	if avg, ok := tally.AverageRoundsToWin(); !ok || avg != 6 {
		t.Errorf("Expected 6 rounds to win, got %v (ok=%t)", avg, ok)
	}
	if err := tally.Validate(); err != nil {
		t.Errorf("tally should validate: %v", err)
	}
}

func TestTally_Merge(t *testing.T) {
	results := []game.Result{
		{FirstTurnPerfect: true, BoardCompleted: true, DrawsTaken: 2},
		{BoardCompleted: true, DrawsTaken: 5},
		{DrawsTaken: 40},
		{FirstTurnPerfect: true, BoardCompleted: true, DrawsTaken: 1},
		{DrawsTaken: 38},
	}

	var whole, left, right Tally
	for i, r := range results {
		whole.Add(r)
		if i%2 == 0 {
			left.Add(r)
		} else {
			right.Add(r)
		}
	}

	merged := right
	merged.Merge(left)
	if merged != whole {
		t.Errorf("merged tally %+v differs from sequential %+v", merged, whole)
	}
}

func TestTally_Validate(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
	}{
		{"successes exceed wins", Tally{Runs: 5, Successes: 3, Wins: 2}},
		{"wins exceed runs", Tally{Runs: 1, Successes: 1, Wins: 2}},
		{"negative", Tally{Runs: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tally.Validate(); err == nil {
				t.Errorf("expected %+v to fail validation", tt.tally)
			}
		})
	}
}
