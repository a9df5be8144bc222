package biorad

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptySupport is the sentinel reported by a Selector that selected no
// features under the SupportNaN policy. It must be checked explicitly;
// the support accompanying it is nil and never usable as indices.
var ErrEmptySupport = errors.New("biorad: selector support is empty")

// SupportPolicy governs what a selector reports when it selects zero
// features. An empty selection is not an error in itself; the policy
// decides between substituting the full feature range and propagating an
// explicit sentinel.
type SupportPolicy int

const (
	// SupportAll substitutes the full feature index range.
	SupportAll SupportPolicy = iota
	// SupportNaN propagates the ErrEmptySupport sentinel.
	SupportNaN
)

// ParseSupportPolicy maps the configuration strings "return_all" and
// "return_NaN" onto policies. Any other value is fatal at construction
// time.
func ParseSupportPolicy(s string) (SupportPolicy, error) {
	switch s {
	case "return_all":
		return SupportAll, nil
	case "return_NaN":
		return SupportNaN, nil
	}
	return 0, fmt.Errorf("biorad: invalid support policy %q", s)
}

// checkSupport validates and normalizes selected feature indices: bounds
// check, dedupe, sort, and application of the empty-support policy.
func checkSupport(support []int, nFeatures int, policy SupportPolicy) ([]int, error) {
	seen := make(map[int]struct{}, len(support))
	out := make([]int, 0, len(support))
	for _, v := range support {
		if v < 0 || v >= nFeatures {
			return nil, fmt.Errorf("biorad: support index %d out of range [0, %d)", v, nFeatures)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		switch policy {
		case SupportAll:
			return allFeatures(nFeatures), nil
		case SupportNaN:
			return nil, ErrEmptySupport
		default:
			return nil, fmt.Errorf("biorad: unknown support policy %d", policy)
		}
	}
	sort.Ints(out)
	return out, nil
}

// TopVariance selects the K highest-variance feature columns. It is the
// reference selector for sweeps that do not inject their own; the
// external mutual-information, ReliefF and rank-test selectors plug in
// behind the same Selector capability.
type TopVariance struct {
	K      int
	Policy SupportPolicy

	support   []int
	nFeatures int
}

var _ Selector = (*TopVariance)(nil)

// Fit ranks the columns of x by variance and keeps the top K.
func (t *TopVariance) Fit(x mat.Matrix, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	rows, cols := x.Dims()
	k := t.K
	if k > cols {
		k = cols
	}
	if k < 0 {
		k = 0
	}

	type ranked struct {
		col int
		v   float64
	}
	vars := make([]ranked, cols)
	buf := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(buf, j, x)
		vars[j] = ranked{col: j, v: stat.Variance(buf, nil)}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].v > vars[j].v })

	support := make([]int, 0, k)
	for _, r := range vars[:k] {
		support = append(support, r.col)
	}
	support, err := checkSupport(support, cols, t.Policy)
	if err != nil && !errors.Is(err, ErrEmptySupport) {
		return err
	}
	t.support = support
	t.nFeatures = cols
	return nil
}

// Support returns the selected column indices.
func (t *TopVariance) Support() ([]int, error) {
	if t.support == nil {
		return nil, ErrEmptySupport
	}
	return t.support, nil
}

// Transform restricts x to the selected columns. With an empty support
// the input is passed through unchanged.
func (t *TopVariance) Transform(x mat.Matrix) mat.Matrix {
	if t.support == nil {
		return x
	}
	return restrictColumns(x, t.support)
}

// SelectAll passes every feature through unchanged.
type SelectAll struct {
	nFeatures int
}

var _ Selector = (*SelectAll)(nil)

func (s *SelectAll) Fit(x mat.Matrix, y []float64) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	_, cols := x.Dims()
	s.nFeatures = cols
	return nil
}

func (s *SelectAll) Support() ([]int, error) {
	if s.nFeatures == 0 {
		return nil, ErrEmptySupport
	}
	return allFeatures(s.nFeatures), nil
}

func (s *SelectAll) Transform(x mat.Matrix) mat.Matrix { return x }
