// Package rating implements the logistic expectation model and the
// per-player rating update used by the ledger.
package rating

import "math"

const (
	// DefaultK is the K-factor applied when none is configured
	DefaultK = 30.0

	// Spread is the rating gap at which the favourite is ten times as likely to win.
	// Gaps wider than Spread are clamped to it.
	Spread = 400.0
)

// Expectation returns the win probabilities of two sides rated a and b.
// pA + pB == 1 exactly, and Expectation(b, a) returns (pB, pA) bit for bit.
func Expectation(a, b float64) (pA, pB float64) {
	d := clamp(b-a, -Spread, Spread)

	// Evaluate from the favoured side so swapping the arguments mirrors exactly.
	if d <= 0 {
		pA = logistic(d)
		return pA, 1 - pA
	}
	pB = logistic(-d)
	return 1 - pB, pB
}

// Update returns the new rating after one match.
// score is 1 for a win, 0.5 for a draw and 0 for a loss.
// The result is rounded half away from zero.
func Update(r int, score, expectation, k float64) int {
	return int(math.Round(float64(r) + k*(score-expectation)))
}

// Outcome maps a numeric result onto team scores
func Outcome(resultA, resultB int) (scoreA, scoreB float64) {
	switch {
	case resultA > resultB:
		return 1, 0
	case resultA < resultB:
		return 0, 1
	default:
		return 0.5, 0.5
	}
}

// TeamRating is the arithmetic mean of the two players' ratings
func TeamRating(r1, r2 int) float64 {
	return float64(r1+r2) / 2
}

func logistic(d float64) float64 {
	return 1 / (1 + math.Pow(10, d/Spread))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
