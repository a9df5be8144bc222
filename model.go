package biorad

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares is a ridge-regularized linear least-squares classifier
// thresholded at 1/2. It solves
//
//	min_β Σ_i (y_i - β_0 - x_i·β)² + λ‖β‖²
//
// and predicts label 1 when the linear response reaches 1/2. It is the
// reference classifier for sweeps and tests; richer classifiers plug in
// behind the Model capability.
type LeastSquares struct {
	// Lambda is the ridge penalty. Zero fits ordinary least squares.
	Lambda float64

	beta []float64 // intercept first, then one weight per column
}

var _ Model = (*LeastSquares)(nil)

// Fit solves the regularized least-squares system for the training data.
func (m *LeastSquares) Fit(x mat.Matrix, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	if m.Lambda < 0 {
		return fmt.Errorf("biorad: negative ridge penalty %v", m.Lambda)
	}
	rows, cols := x.Dims()
	nTerms := cols + 1

	// Augment the design matrix with sqrt(λ)·I rows so the ridge problem
	// solves as one least-squares system. The intercept row is excluded
	// from the penalty.
	nRows := rows
	if m.Lambda > 0 {
		nRows += cols
	}
	a := mat.NewDense(nRows, nTerms, nil)
	b := mat.NewVecDense(nRows, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
		b.SetVec(i, y[i])
	}
	if m.Lambda > 0 {
		sl := math.Sqrt(m.Lambda)
		for j := 0; j < cols; j++ {
			a.Set(rows+j, j+1, sl)
		}
	}

	beta := make([]float64, nTerms)
	betaVec := mat.NewVecDense(nTerms, beta)
	if err := betaVec.SolveVec(a, b); err != nil {
		return fmt.Errorf("biorad: least squares solve: %w", err)
	}
	m.beta = beta
	return nil
}

// Predict thresholds the linear response at 1/2.
func (m *LeastSquares) Predict(x mat.Matrix) ([]float64, error) {
	if m.beta == nil {
		return nil, errors.New("biorad: model is not fitted")
	}
	rows, cols := x.Dims()
	if cols != len(m.beta)-1 {
		return nil, fmt.Errorf("biorad: expected %d feature columns, got %d", len(m.beta)-1, cols)
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := m.beta[0]
		for j := 0; j < cols; j++ {
			v += m.beta[j+1] * x.At(i, j)
		}
		if v >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}
