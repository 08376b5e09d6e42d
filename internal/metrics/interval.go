package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceInterval returns the normal-approximation (Wald) interval for a
// proportion p observed over n trials, clamped to [0, 1]. With no
// observations the interval collapses to p.
func ConfidenceInterval(p float64, n int, level float64) (float64, float64) {
	if n <= 0 {
		return p, p
	}
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	margin := z * math.Sqrt(p*(1-p)/float64(n))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}
