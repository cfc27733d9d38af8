package statistics

import (
	"fmt"

	"github.com/lox/trashsim/internal/game"
)

// Tally accumulates trial outcomes. All fields are sums, so tallies from
// independent workers combine with Merge in any order.
type Tally struct {
	Runs            int // Trials played
	Successes       int // Perfect first rounds
	Wins            int // Boards completed, perfect or not
	TotalDrawsToWin int // Draws summed over completed boards only
}

// Add incorporates one trial.
func (t *Tally) Add(result game.Result) {
	t.Runs++
	if result.FirstTurnPerfect {
		t.Successes++
	}
	if result.BoardCompleted {
		t.Wins++
		t.TotalDrawsToWin += result.DrawsTaken
	}
}

// Merge adds another tally into t.
func (t *Tally) Merge(other Tally) {
	t.Runs += other.Runs
	t.Successes += other.Successes
	t.Wins += other.Wins
	t.TotalDrawsToWin += other.TotalDrawsToWin
}

// Probability is the fraction of perfect rounds, 0 for an empty tally.
func (t Tally) Probability() float64 {
	if t.Runs == 0 {
		return 0
	}
	return float64(t.Successes) / float64(t.Runs)
}

// ExpectedGamesToSuccess is the geometric mean wait 1/p. It reports false
// when no success was seen.
func (t Tally) ExpectedGamesToSuccess() (float64, bool) {
	p := t.Probability()
	if p <= 0 {
		return 0, false
	}
	return 1 / p, true
}

// AverageRoundsToWin is the mean draw count over completed boards. It
// reports false when no board was completed.
func (t Tally) AverageRoundsToWin() (float64, bool) {
	if t.Wins == 0 {
		return 0, false
	}
	return float64(t.TotalDrawsToWin) / float64(t.Wins), true
}

// ConfidenceInterval95 is the Wilson interval for Successes out of Runs.
func (t Tally) ConfidenceInterval95() (Interval, bool) {
	return WilsonInterval(t.Successes, t.Runs)
}

// Validate checks the counters are mutually consistent.
func (t Tally) Validate() error {
	if t.Runs < 0 || t.Successes < 0 || t.Wins < 0 || t.TotalDrawsToWin < 0 {
		return fmt.Errorf("negative counter in tally %+v", t)
	}
	// A perfect round always completes the board.
	if t.Successes > t.Wins {
		return fmt.Errorf("successes (%d) exceed wins (%d)", t.Successes, t.Wins)
	}
	if t.Wins > t.Runs {
		return fmt.Errorf("wins (%d) exceed runs (%d)", t.Wins, t.Runs)
	}
	return nil
}
