package biorad

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// takeRows copies the given rows of x into a new dense matrix.
func takeRows(x mat.Matrix, rows []int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(len(rows), cols, nil)
	buf := make([]float64, cols)
	for i, r := range rows {
		mat.Row(buf, r, x)
		out.SetRow(i, buf)
	}
	return out
}

// takeVec copies the given elements of y into a new slice.
func takeVec(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, v := range idx {
		out[i] = y[v]
	}
	return out
}

// restrictColumns copies the given columns of x into a new dense matrix,
// preserving column order as listed in support.
func restrictColumns(x mat.Matrix, support []int) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, len(support), nil)
	for i := 0; i < rows; i++ {
		for j, c := range support {
			out.Set(i, j, x.At(i, c))
		}
	}
	return out
}

// allFeatures returns the full feature index range [0, n).
func allFeatures(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// popVariance is the population variance (normalized by n, not n-1),
// matching the aggregation used for fold score variances.
func popVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := stat.Mean(xs, nil)
	var ss float64
	for _, v := range xs {
		d := v - m
		ss += d * d
	}
	return ss / float64(len(xs))
}
