package biorad

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLeastSquaresSeparable(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := []float64{0, 0, 0, 1, 1, 1}

	for _, lambda := range []float64{0, 0.01, 1} {
		m := &LeastSquares{Lambda: lambda}
		require.NoError(t, m.Fit(x, y))
		pred, err := m.Predict(x)
		require.NoError(t, err)
		require.Equal(t, y, pred, "lambda=%v", lambda)
	}
}

func TestLeastSquaresValidation(t *testing.T) {
	x := mat.NewDense(3, 2, nil)

	m := &LeastSquares{}
	require.Error(t, m.Fit(x, []float64{0, 1})) // length mismatch
	require.Error(t, m.Fit(x, []float64{0, 1, 2})) // non-binary label

	m = &LeastSquares{Lambda: -1}
	require.Error(t, m.Fit(x, []float64{0, 1, 1}))

	_, err := (&LeastSquares{}).Predict(x)
	require.Error(t, err) // not fitted
}

func TestLeastSquaresColumnMismatch(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		0, 1,
		1, 0,
		0, 0,
		1, 1,
	})
	y := []float64{0, 1, 0, 1}
	m := &LeastSquares{Lambda: 0.1}
	require.NoError(t, m.Fit(x, y))

	_, err := m.Predict(mat.NewDense(2, 3, nil))
	require.Error(t, err)
}
