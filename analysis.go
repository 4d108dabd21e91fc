package eoverp

import (
	"math"

	"github.com/decibelcooper/eoverp/decorate"
)

// Efficiency returns pass/total with its binomial uncertainty. Both are
// zero when total is not positive.
func Efficiency(pass, total float64) (eff, sigma float64) {
	if total <= 0 {
		return 0, 0
	}
	eff = pass / total
	return eff, math.Sqrt(math.Max(0, (1-eff)*pass) / (total * total))
}

// EOverP returns the ratio of a decorated energy to the track momentum.
// It fails for undecorated energies and non-positive momenta.
func EOverP(e, p float32) (float64, bool) {
	if e == decorate.Sentinel || !(p > 0) {
		return 0, false
	}
	return float64(e) / float64(p), true
}
