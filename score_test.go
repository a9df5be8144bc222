package biorad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	require.Equal(t, 1.0, Accuracy([]float64{0, 1, 1}, []float64{0, 1, 1}))
	require.Equal(t, 0.0, Accuracy([]float64{0, 1}, []float64{1, 0}))
	require.Equal(t, 0.75, Accuracy([]float64{0, 0, 1, 1}, []float64{0, 0, 1, 0}))
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []float64{1, 1, 1, 0, 0, 0}
	yPred := []float64{1, 1, 0, 1, 0, 0}

	p, r, f1 := PrecisionRecallF1(yTrue, yPred)
	require.InDelta(t, 2.0/3.0, p, 1e-15)
	require.InDelta(t, 2.0/3.0, r, 1e-15)
	require.InDelta(t, 2.0/3.0, f1, 1e-15)
}

func TestPrecisionRecallF1Degenerate(t *testing.T) {
	// No positive predictions: precision, recall and F1 collapse to zero
	// instead of NaN.
	p, r, f1 := PrecisionRecallF1([]float64{1, 1}, []float64{0, 0})
	require.Equal(t, 0.0, p)
	require.Equal(t, 0.0, r)
	require.Equal(t, 0.0, f1)
}

func TestPopVariance(t *testing.T) {
	require.Equal(t, 0.0, popVariance(nil))
	require.Equal(t, 0.0, popVariance([]float64{3}))
	require.InDelta(t, 0.25, popVariance([]float64{0, 1, 0, 1}), 1e-15)
}
