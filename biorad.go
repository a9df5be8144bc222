// Package biorad implements bias-corrected model comparison for
// small-sample, high-dimensional binary classification, such as radiomics
// feature data.
//
// The package answers the question: given several candidate modeling
// pipelines (feature selector, classifier, hyperparameters), which performs
// best, with what uncertainty, and without leaking information between
// training and evaluation? The approach follows
//
//	Efron and Tibshirani. "Improvements on Cross-Validation: The .632+
//	Bootstrap Method", Journal of the American Statistical Association,
//	Vol. 92, No. 438 (1997), pp. 548-560.
//
//	Tsamardinos, Greasidou and Borboudakis. "Bootstrapping the out-of-sample
//	predictions for efficient and accurate cross-validation", Machine
//	Learning 107 (2018), pp. 1895-1922.
//
// The main routine is Run, which drives an outer stratified K-fold loop
// around an injected hyperparameter search, scores each outer fold through
// the .632+ bias-corrected estimator, and tallies feature-selection votes
// across folds. BBCCV corrects the selection bias of picking the best of
// several configurations from their out-of-sample predictions.
package biorad

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Config is a hyperparameter configuration, mapping parameter names to
// values. A Config returned by a Searcher is treated as immutable.
type Config map[string]float64

// Clone returns an independent copy of the configuration.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Model is the capability set required of a classifier: it can be fit to
// labeled samples and predict labels for new samples. Implementations
// report failures (non-convergence, degenerate input) through the error
// return, never by panicking.
type Model interface {
	Fit(x mat.Matrix, y []float64) error
	Predict(x mat.Matrix) ([]float64, error)
}

// ScoreFunc scores predicted against true labels. Higher is better, and
// the output must lie in a bounded range, typically [0,1].
type ScoreFunc func(yTrue, yPred []float64) float64

// Selector is the feature-selection collaborator. Fit determines the
// support on training data only. Support reports the selected column
// indices; under the return_NaN policy an empty selection surfaces as
// ErrEmptySupport, which callers must check before using the indices.
type Selector interface {
	Fit(x mat.Matrix, y []float64) error
	Support() ([]int, error)
	Transform(x mat.Matrix) mat.Matrix
}

// checkXY validates the shape of a feature matrix against its label
// vector and that the labels are dichotomous. The .632+ no-information
// rate is only defined for binary labels, so anything else is fatal.
func checkXY(x mat.Matrix, y []float64) error {
	if x == nil {
		return errors.New("biorad: nil feature matrix")
	}
	rows, cols := x.Dims()
	if cols == 0 {
		return errors.New("biorad: feature matrix has no columns")
	}
	if rows != len(y) {
		return fmt.Errorf("biorad: feature matrix has %d rows but %d labels", rows, len(y))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("biorad: label %v at index %d is not binary", v, i)
		}
	}
	return nil
}
