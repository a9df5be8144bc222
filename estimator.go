package biorad

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Weights of the .632+ rule. These are fixed by the method (0.632 = 1-1/e,
// the expected fraction of distinct samples in a bootstrap draw), not
// tunable parameters.
const (
	w632 = 0.632
	w368 = 0.368
)

// ErrUnstableCorrection reports that the .632+ correction denominator
// vanished. This can only happen when the relative overfit rate exceeds
// one, which the overfit-rate guard prevents for capped test scores; it is
// surfaced explicitly rather than returning NaN or Inf.
var ErrUnstableCorrection = errors.New("biorad: .632+ correction denominator vanished")

// NoInfoRate returns the expected accuracy if predictions were independent
// of the truth,
//
//	γ = p(1-q) + (1-p)q
//
// where p is the observed rate of positive labels and q the rate of
// positive predictions. Only defined for dichotomous labels.
func NoInfoRate(yTrue, yPred []float64) float64 {
	p := stat.Mean(yTrue, nil)
	q := stat.Mean(yPred, nil)
	return p*(1-q) + (1-p)*q
}

// RelativeOverfitRate returns (test-train)/(gamma-train) when
// test > train and gamma > train, and exactly 0 otherwise. The branch
// guards both division by zero and negative denominators.
func RelativeOverfitRate(train, test, gamma float64) float64 {
	if test > train && gamma > train {
		return (test - train) / (gamma - train)
	}
	return 0
}

// Point632Plus blends the optimistic training score and the pessimistic
// held-out score, weighted by the relative overfit rate r,
//
//	0.368·train + 0.632·test + (testMarked-train)·(0.368·0.632·r)/(1-0.368·r)
//
// With r = 0 this reduces exactly to the plain .632 estimate. testMarked
// is the test score capped at the no-information rate, which bounds the
// correction term.
func Point632Plus(train, test, r, testMarked float64) (float64, error) {
	denom := 1 - w368*r
	if denom < 1e-12 {
		return math.NaN(), ErrUnstableCorrection
	}
	point632 := w368*train + w632*test
	frac := (w368 * w632 * r) / denom
	return point632 + (testMarked-train)*frac, nil
}

// Score632Plus computes the .632+ corrected score for one train/test
// split. yTrue and yPred select which side of the split feeds the
// no-information rate; trainScore and testScore are the raw scores of the
// split and are shared between the train-side and test-side corrections.
func Score632Plus(yTrue, yPred []float64, trainScore, testScore float64) (float64, error) {
	gamma := NoInfoRate(yTrue, yPred)
	// The correction term sees the test score capped at the no-information
	// rate; the overfit rate itself is computed from the raw score.
	testMarked := math.Min(testScore, gamma)
	r := RelativeOverfitRate(trainScore, testScore, gamma)
	return Point632Plus(trainScore, testScore, r, testMarked)
}
