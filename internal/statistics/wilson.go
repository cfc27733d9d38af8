// Package statistics aggregates trial outcomes and computes binomial
// confidence intervals for them.
package statistics

import (
	"fmt"
	"math"
)

// Z95 is the two-sided 95% normal quantile.
const Z95 = 1.96

// Interval is a closed [lower, upper] range. It encodes to JSON as a pair.
type Interval [2]float64

// Lower returns the lower bound.
func (i Interval) Lower() float64 { return i[0] }

// Upper returns the upper bound.
func (i Interval) Upper() float64 { return i[1] }

// Contains reports whether p lies within the interval.
func (i Interval) Contains(p float64) bool { return p >= i[0] && p <= i[1] }

// Width returns upper minus lower.
func (i Interval) Width() float64 { return i[1] - i[0] }

func (i Interval) String() string {
	return fmt.Sprintf("[%.6f, %.6f]", i[0], i[1])
}

// WilsonInterval returns the 95% Wilson score interval for successes out of
// trials. It reports false when trials <= 0.
func WilsonInterval(successes, trials int) (Interval, bool) {
	return WilsonIntervalZ(successes, trials, Z95)
}

// WilsonIntervalZ is WilsonInterval for an arbitrary normal quantile z.
// The Wilson interval stays inside [0,1] and keeps a non-zero width when no
// successes were seen, which the normal approximation does not.
func WilsonIntervalZ(successes, trials int, z float64) (Interval, bool) {
	if trials <= 0 {
		return Interval{}, false
	}

	n := float64(trials)
	pHat := float64(successes) / n
	z2 := z * z

	denominator := 1 + z2/n
	centre := pHat + z2/(2*n)
	margin := z * math.Sqrt((pHat*(1-pHat)+z2/(4*n))/n)

	lower := (centre - margin) / denominator
	upper := (centre + margin) / denominator

	// The bounds are exactly 0 and 1 at the extremes; floating point leaves
	// them a few ulps off otherwise.
	if successes <= 0 {
		lower = 0
	}
	if successes >= trials {
		upper = 1
	}

	return Interval{math.Max(0, lower), math.Min(1, upper)}, true
}
