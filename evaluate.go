package biorad

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyTestPartition reports a split whose out-of-bag test set is
// empty. Scores on an empty partition are undefined; callers skip the
// split rather than divide by zero.
var ErrEmptyTestPartition = errors.New("biorad: empty test partition")

// Score632 is the bias-corrected train/test score pair for one split.
type Score632 struct {
	Train float64
	Test  float64
}

// Evaluator632 standardizes features, fits a model and reports .632+
// corrected train and test scores for a single split.
//
// Evaluation is best effort: any failure during fit, predict or scoring
// is logged and returned as an error so that one bad split does not abort
// an entire comparison sweep. Callers exclude failed splits from
// aggregation.
type Evaluator632 struct {
	Score  ScoreFunc
	Logger *Logger
}

// NewEvaluator632 returns an evaluator using the given scoring function.
// A nil logger disables logging.
func NewEvaluator632(score ScoreFunc, logger *Logger) *Evaluator632 {
	if score == nil {
		panic("biorad: nil score function")
	}
	if logger == nil {
		logger = NoopLogger()
	}
	return &Evaluator632{Score: score, Logger: logger}
}

// Evaluate standardizes the split, fits the model on the training rows and
// computes both .632+ corrected scores. The standardization statistics are
// estimated from the training rows only and applied to both sides, so the
// test rows never influence the transform.
//
// The train-side and test-side corrections share the same raw score pair
// and differ only in which labels feed the no-information rate.
func (e *Evaluator632) Evaluate(model Model, xTrain, xTest mat.Matrix, yTrain, yTest []float64) (Score632, error) {
	if len(yTest) == 0 {
		return Score632{}, ErrEmptyTestPartition
	}
	z := fitZScore(xTrain)
	xTrainStd := z.transform(xTrain)
	xTestStd := z.transform(xTest)

	if err := model.Fit(xTrainStd, yTrain); err != nil {
		e.Logger.Warn("model fit failed", "error", err)
		return Score632{}, fmt.Errorf("biorad: fit: %w", err)
	}
	yTrainPred, err := model.Predict(xTrainStd)
	if err != nil {
		e.Logger.Warn("train prediction failed", "error", err)
		return Score632{}, fmt.Errorf("biorad: predict train: %w", err)
	}
	yTestPred, err := model.Predict(xTestStd)
	if err != nil {
		e.Logger.Warn("test prediction failed", "error", err)
		return Score632{}, fmt.Errorf("biorad: predict test: %w", err)
	}

	trainScore := e.Score(yTrain, yTrainPred)
	testScore := e.Score(yTest, yTestPred)

	train632, err := Score632Plus(yTrain, yTrainPred, trainScore, testScore)
	if err != nil {
		e.Logger.Warn("train score correction failed", "error", err)
		return Score632{}, err
	}
	test632, err := Score632Plus(yTest, yTestPred, trainScore, testScore)
	if err != nil {
		e.Logger.Warn("test score correction failed", "error", err)
		return Score632{}, err
	}
	return Score632{Train: train632, Test: test632}, nil
}

// zscore holds a standardization transform fitted on training rows only.
type zscore struct {
	mean []float64
	std  []float64
}

// fitZScore estimates per-column mean and standard deviation.
func fitZScore(x mat.Matrix) *zscore {
	rows, cols := x.Dims()
	z := &zscore{
		mean: make([]float64, cols),
		std:  make([]float64, cols),
	}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		m, s := stat.MeanStdDev(col, nil)
		// Constant columns carry no scale information; divide by one
		// instead of zero.
		if s == 0 || math.IsNaN(s) {
			s = 1
		}
		z.mean[j] = m
		z.std[j] = s
	}
	return z
}

// transform applies the fitted standardization to x.
func (z *zscore) transform(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	if cols != len(z.mean) {
		panic("biorad: column count mismatch in standardization")
	}
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-z.mean[j])/z.std[j])
		}
	}
	return out
}
