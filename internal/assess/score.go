package assess

import "math"

// round2 rounds to two decimal places, the precision of every reported score.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp100 bounds a score to [0,100].
func clamp100(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}
