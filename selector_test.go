package biorad

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParseSupportPolicy(t *testing.T) {
	p, err := ParseSupportPolicy("return_all")
	require.NoError(t, err)
	require.Equal(t, SupportAll, p)

	p, err = ParseSupportPolicy("return_NaN")
	require.NoError(t, err)
	require.Equal(t, SupportNaN, p)

	_, err = ParseSupportPolicy("return_some")
	require.Error(t, err)
}

func TestCheckSupport(t *testing.T) {
	for _, test := range []struct {
		name      string
		support   []int
		nFeatures int
		policy    SupportPolicy
		want      []int
		wantErr   error
	}{
		{
			name:      "SortedDeduped",
			support:   []int{3, 1, 3, 0},
			nFeatures: 5,
			want:      []int{0, 1, 3},
		},
		{
			name:      "EmptyReturnAll",
			support:   nil,
			nFeatures: 3,
			policy:    SupportAll,
			want:      []int{0, 1, 2},
		},
		{
			name:      "EmptyReturnNaN",
			support:   nil,
			nFeatures: 3,
			policy:    SupportNaN,
			wantErr:   ErrEmptySupport,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := checkSupport(test.support, test.nFeatures, test.policy)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestCheckSupportOutOfRange(t *testing.T) {
	_, err := checkSupport([]int{0, 7}, 5, SupportAll)
	require.Error(t, err)

	_, err = checkSupport([]int{-1}, 5, SupportAll)
	require.Error(t, err)
}

func TestTopVariance(t *testing.T) {
	// Column 1 has the largest spread, column 2 the second largest.
	x := mat.NewDense(4, 3, []float64{
		1, -10, 5,
		1, 10, -5,
		1, -10, 5,
		1, 10, -5,
	})
	y := []float64{0, 1, 0, 1}

	sel := &TopVariance{K: 2}
	require.NoError(t, sel.Fit(x, y))

	support, err := sel.Support()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, support)

	reduced := sel.Transform(x)
	_, cols := reduced.Dims()
	require.Equal(t, 2, cols)
	require.Equal(t, -10.0, reduced.At(0, 0))
	require.Equal(t, 5.0, reduced.At(0, 1))
}

func TestTopVarianceEmptySelection(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		1, 2, 3,
	})
	y := []float64{0, 1, 0, 1}

	all := &TopVariance{K: 0, Policy: SupportAll}
	require.NoError(t, all.Fit(x, y))
	support, err := all.Support()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, support)

	nan := &TopVariance{K: 0, Policy: SupportNaN}
	require.NoError(t, nan.Fit(x, y))
	_, err = nan.Support()
	require.ErrorIs(t, err, ErrEmptySupport)
}

func TestSelectAll(t *testing.T) {
	x := mat.NewDense(2, 4, nil)
	y := []float64{0, 1}
	sel := &SelectAll{}
	require.NoError(t, sel.Fit(x, y))
	support, err := sel.Support()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, support)
	require.Equal(t, mat.Matrix(x), sel.Transform(x))
}
