package biorad

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrSearchIncomplete reports that a hyperparameter search ran out of its
// wall-clock budget. It is distinct from a failed search: the search may
// still return the best configuration found so far alongside it.
var ErrSearchIncomplete = errors.New("biorad: search wall-clock budget exhausted")

// Interval bounds one hyperparameter.
type Interval struct {
	Min float64
	Max float64
}

// ParamSpace maps hyperparameter names to their bounds.
type ParamSpace map[string]Interval

// Objective maps a configuration to a loss. Lower is better.
type Objective func(ctx context.Context, cfg Config) (float64, error)

// Searcher is the hyperparameter-search collaborator: given an objective
// over a configuration space, return a best configuration. Sequential
// model-based and tree-of-Parzen-estimators backends plug in behind this
// capability. Implementations must honor context cancellation and return
// ErrSearchIncomplete (possibly wrapped) when the deadline cuts the
// search short.
type Searcher interface {
	Search(ctx context.Context, x mat.Matrix, y []float64, space ParamSpace, objective Objective) (Config, error)
}

// RandomSearch samples configurations uniformly from the space. It is the
// reference Searcher; each instance owns its seeded generator.
type RandomSearch struct {
	MaxEvals int
	seed     int64
}

var _ Searcher = (*RandomSearch)(nil)

// NewRandomSearch returns a search evaluating at most maxEvals
// configurations.
func NewRandomSearch(maxEvals int, seed int64) *RandomSearch {
	if maxEvals <= 0 {
		panic("biorad: non-positive number of evaluations")
	}
	return &RandomSearch{MaxEvals: maxEvals, seed: seed}
}

// Search draws MaxEvals configurations and keeps the one with the lowest
// objective loss. On deadline overrun the best configuration found so far
// is returned together with ErrSearchIncomplete; with nothing evaluated
// yet only the error is returned.
func (s *RandomSearch) Search(ctx context.Context, x mat.Matrix, y []float64, space ParamSpace, objective Objective) (Config, error) {
	rng := rand.New(rand.NewSource(s.seed))
	// Draw parameters in a fixed name order so a seed reproduces the
	// same configuration sequence.
	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}
	sort.Strings(names)

	var best Config
	bestLoss := math.Inf(1)
	for i := 0; i < s.MaxEvals; i++ {
		if err := ctx.Err(); err != nil {
			return best, fmt.Errorf("%w after %d evaluations", ErrSearchIncomplete, i)
		}
		cfg := make(Config, len(space))
		for _, name := range names {
			iv := space[name]
			cfg[name] = iv.Min + rng.Float64()*(iv.Max-iv.Min)
		}
		loss, err := objective(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return best, fmt.Errorf("%w after %d evaluations", ErrSearchIncomplete, i)
			}
			// A single failed configuration does not abort the search.
			continue
		}
		if loss < bestLoss {
			bestLoss = loss
			best = cfg
		}
	}
	if best == nil {
		return nil, errors.New("biorad: no configuration could be evaluated")
	}
	return best, nil
}

// CVObjective builds the inner-loop objective optimized by a Searcher:
// one minus the mean stratified K-fold cross-validated score of the
// pipeline under a candidate configuration. The inner folds are drawn
// from their own seeded partitioner, independent of the outer folds.
func CVObjective(pipe *Pipeline, score ScoreFunc, folds int, seed int64, x mat.Matrix, y []float64) Objective {
	kfold := NewStratifiedKFold(folds, seed)
	return func(ctx context.Context, cfg Config) (float64, error) {
		parts := kfold.Split(y)
		scores := make([]float64, 0, len(parts))
		for _, part := range parts {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			inner := pipe.Clone()
			inner.Apply(cfg)
			if err := inner.Fit(takeRows(x, part.Train), takeVec(y, part.Train)); err != nil {
				return 0, err
			}
			pred, err := inner.Predict(takeRows(x, part.Test))
			if err != nil {
				return 0, err
			}
			scores = append(scores, score(takeVec(y, part.Test), pred))
		}
		return 1 - stat.Mean(scores, nil), nil
	}
}
