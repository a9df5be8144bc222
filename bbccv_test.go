package biorad

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBBCCVDominantConfiguration(t *testing.T) {
	// Column 1 has a constant loss strictly below every other cell, so
	// every bootstrap iteration must select it and the estimate must
	// equal its true loss regardless of the resampling.
	const n, c = 40, 3
	rng := rand.New(rand.NewSource(5))
	losses := mat.NewDense(n, c, nil)
	for i := 0; i < n; i++ {
		losses.Set(i, 0, 0.5+0.4*rng.Float64())
		losses.Set(i, 1, 0.1)
		losses.Set(i, 2, 0.6+0.3*rng.Float64())
	}

	est, picks := NewBBCCV(200, 17).Select(losses)
	require.InDelta(t, 0.1, est, 1e-12)
	require.Equal(t, []int{0, 200, 0}, picks)
}

func TestBBCCVDeterministic(t *testing.T) {
	losses := mat.NewDense(10, 2, nil)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10; i++ {
		losses.Set(i, 0, rng.Float64())
		losses.Set(i, 1, rng.Float64())
	}

	estA, picksA := NewBBCCV(100, 9).Select(losses)
	estB, picksB := NewBBCCV(100, 9).Select(losses)
	require.Equal(t, estA, estB)
	require.Equal(t, picksA, picksB)
}

func TestBBCCVCorrectsOptimism(t *testing.T) {
	// Two exchangeable noisy columns: picking the in-bag winner and
	// rescoring it out-of-bag must not beat the better column's true
	// mean loss by more than noise allows, while the naive "best
	// observed" estimate is systematically lower.
	const n = 60
	rng := rand.New(rand.NewSource(3))
	losses := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		losses.Set(i, 0, rng.Float64())
		losses.Set(i, 1, rng.Float64())
	}
	naive := meanLossAt(losses, allFeatures(n), 0)
	if alt := meanLossAt(losses, allFeatures(n), 1); alt < naive {
		naive = alt
	}

	est, _ := NewBBCCV(500, 23).Select(losses)
	require.GreaterOrEqual(t, est, naive)
}

func TestZeroOneLossMatrix(t *testing.T) {
	yTrue := []float64{0, 1, 1}
	preds := mat.NewDense(3, 2, []float64{
		0, 1,
		1, 1,
		1, 0,
	})
	losses := ZeroOneLossMatrix(yTrue, preds)
	require.Equal(t, 0.0, losses.At(0, 0))
	require.Equal(t, 1.0, losses.At(0, 1))
	require.Equal(t, 1.0, losses.At(1, 0))
	require.Equal(t, 0.0, losses.At(1, 1))
	require.Equal(t, 0.0, losses.At(2, 0))
	require.Equal(t, 1.0, losses.At(2, 1))
}
