package biorad

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Store is the persistence collaborator. Records are keyed by seed and
// experiment id; Write must be atomic enough that a partially written
// record is never read back as valid.
type Store interface {
	Exists(seed int64, experimentID string) bool
	Read(seed int64, experimentID string) (*Result, error)
	Write(seed int64, experimentID string, rec *Result) error
}

// FoldStatus classifies the outcome of one outer fold.
type FoldStatus string

const (
	// FoldOK means the fold searched, refitted and scored normally.
	FoldOK FoldStatus = "ok"
	// FoldSearchIncomplete means the hyperparameter search exceeded its
	// wall-clock budget; the fold was scored with the best configuration
	// found, or the default configuration if none was.
	FoldSearchIncomplete FoldStatus = "search_incomplete"
	// FoldFailed means the fold produced no scores and is excluded from
	// aggregation.
	FoldFailed FoldStatus = "failed"
)

// FoldResult records the outcome of one outer fold.
type FoldResult struct {
	Fold       int        `json:"fold"`
	Status     FoldStatus `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	TrainScore float64    `json:"train_score"`
	TestScore  float64    `json:"test_score"`
	Config     Config     `json:"config,omitempty"`
	Support    []int      `json:"support,omitempty"`
}

// Result is the terminal record of one experiment: aggregate scores over
// the outer folds, the feature-vote tally, every selected configuration
// and failed-fold accounting.
type Result struct {
	ExperimentID string `json:"experiment_id"`
	Seed         int64  `json:"seed"`

	TrainScore    float64 `json:"train_score"`
	TestScore     float64 `json:"test_score"`
	TrainVariance float64 `json:"train_score_variance"`
	TestVariance  float64 `json:"test_score_variance"`

	FeatureVotes []int        `json:"feature_votes"`
	Folds        []FoldResult `json:"folds"`
	FoldsTotal   int          `json:"folds_total"`
	FoldsScored  int          `json:"folds_scored"`

	Duration time.Duration `json:"duration"`
}

// Settings controls a nested validation run.
type Settings struct {
	// OuterFolds is the number of outer stratified folds. If 0, defaults
	// to 10.
	OuterFolds int
	// InnerFolds is the number of stratified folds used by the inner
	// cross-validated objective. If 0, defaults to 5.
	InnerFolds int
	// Concurrent is the number of outer folds evaluated concurrently.
	// If 0, defaults to GOMAXPROCS.
	Concurrent int
	// SearchBudget bounds the wall clock of each fold's hyperparameter
	// search. Zero means no budget.
	SearchBudget time.Duration
	// Score is the scoring function. If nil, defaults to Accuracy.
	Score ScoreFunc
	// Store, when non-nil, enables idempotent resume: an existing record
	// for the (seed, experiment id) key is reloaded verbatim and no fold
	// is re-executed.
	Store Store
	// Logger receives progress and failure diagnostics. If nil, logging
	// is disabled.
	Logger *Logger
}

func (s *Settings) withDefaults() Settings {
	out := Settings{}
	if s != nil {
		out = *s
	}
	if out.OuterFolds == 0 {
		out.OuterFolds = 10
	}
	if out.InnerFolds == 0 {
		out.InnerFolds = 5
	}
	if out.Concurrent == 0 {
		out.Concurrent = runtime.GOMAXPROCS(0)
	}
	if out.Score == nil {
		out.Score = Accuracy
	}
	if out.Logger == nil {
		out.Logger = NoopLogger()
	}
	return out
}

// Run executes nested cross-validated model comparison for one pipeline
// template.
//
// For each outer stratified fold, Run clones the pipeline, lets the
// injected Searcher pick a configuration by optimizing the inner
// cross-validated objective on the outer training split, refits a fresh
// clone under the winning configuration on the full outer training split,
// and scores it through the .632+ evaluator. Feature-selection votes are
// tallied across folds.
//
// Outer folds are independent: each runs as its own task on a bounded
// worker pool and writes only its own result slot; the tally and the
// aggregate statistics are reduced after all folds have finished. A
// failed fold is recorded and excluded from aggregation without aborting
// the sweep.
func Run(ctx context.Context, x mat.Matrix, y []float64, pipe *Pipeline, searcher Searcher, space ParamSpace, experimentID string, seed int64, settings *Settings) (*Result, error) {
	if err := checkXY(x, y); err != nil {
		return nil, err
	}
	if pipe == nil {
		return nil, errors.New("biorad: nil pipeline")
	}
	if searcher == nil {
		return nil, errors.New("biorad: nil searcher")
	}
	s := settings.withDefaults()
	logger := s.Logger.WithExperiment(experimentID, seed)

	if s.Store != nil && s.Store.Exists(seed, experimentID) {
		rec, err := s.Store.Read(seed, experimentID)
		if err != nil {
			return nil, fmt.Errorf("biorad: reload experiment record: %w", err)
		}
		logger.Info("reloaded persisted experiment record")
		return rec, nil
	}

	start := time.Now()
	_, nFeatures := x.Dims()
	outer := NewStratifiedKFold(s.OuterFolds, seed).Split(y)
	folds := make([]FoldResult, len(outer))
	evaluator := NewEvaluator632(s.Score, logger)

	logger.Info("starting experiment", "outer_folds", len(outer), "features", nFeatures)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrent)
	for k := range outer {
		k := k
		g.Go(func() error {
			folds[k] = runFold(ctx, k, x, y, outer[k], pipe, searcher, space, evaluator, &s, seed, logger.WithFold(k))
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := reduce(folds, nFeatures)
	rec.ExperimentID = experimentID
	rec.Seed = seed
	rec.Duration = time.Since(start)

	logger.Info("experiment finished",
		"folds_scored", rec.FoldsScored,
		"folds_total", rec.FoldsTotal,
		"test_score", rec.TestScore,
		"duration", rec.Duration,
	)

	if s.Store != nil {
		if err := s.Store.Write(seed, experimentID, rec); err != nil {
			return rec, fmt.Errorf("biorad: persist experiment record: %w", err)
		}
	}
	return rec, nil
}

// runFold executes a single outer fold: search, refit, score, support.
func runFold(ctx context.Context, k int, x mat.Matrix, y []float64, part Partition, pipe *Pipeline, searcher Searcher, space ParamSpace, evaluator *Evaluator632, s *Settings, seed int64, logger *Logger) FoldResult {
	res := FoldResult{Fold: k, Status: FoldOK}

	xTrain := takeRows(x, part.Train)
	yTrain := takeVec(y, part.Train)
	xTest := takeRows(x, part.Test)
	yTest := takeVec(y, part.Test)

	searchCtx := ctx
	if s.SearchBudget > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.SearchBudget)
		defer cancel()
	}

	// The inner search runs its own cross-validation on the outer
	// training split only; the outer test split stays untouched until
	// scoring.
	searchPipe := pipe.Clone()
	objective := CVObjective(searchPipe, s.Score, s.InnerFolds, seed, xTrain, yTrain)
	cfg, err := searcher.Search(searchCtx, xTrain, yTrain, space, objective)
	switch {
	case err == nil:
	case errors.Is(err, ErrSearchIncomplete):
		res.Status = FoldSearchIncomplete
		res.Reason = err.Error()
		logger.Warn("search budget exhausted, falling back", "error", err)
		if cfg == nil {
			cfg = Config{}
		}
	default:
		logger.Warn("search failed", "error", err)
		res.Status = FoldFailed
		res.Reason = err.Error()
		return res
	}
	res.Config = cfg.Clone()

	// Fresh clone so no fitted state leaks from the search into the
	// final refit.
	outerPipe := pipe.Clone()
	outerPipe.Apply(cfg)
	score, err := evaluator.Evaluate(outerPipe, xTrain, xTest, yTrain, yTest)
	if err != nil {
		logger.Warn("fold evaluation failed", "error", err)
		res.Status = FoldFailed
		res.Reason = err.Error()
		return res
	}
	res.TrainScore = score.Train
	res.TestScore = score.Test

	support, err := outerPipe.Support()
	switch {
	case errors.Is(err, ErrEmptySupport):
		logger.Warn("empty feature support, no votes cast")
	case err != nil:
		logger.Warn("feature support unavailable", "error", err)
	default:
		res.Support = support
	}

	logger.Debug("fold scored", "train_score", score.Train, "test_score", score.Test)
	return res
}

// reduce aggregates the per-fold results into the terminal record. Only
// scored folds contribute to the score statistics and the vote tally.
func reduce(folds []FoldResult, nFeatures int) *Result {
	rec := &Result{
		FeatureVotes: make([]int, nFeatures),
		Folds:        folds,
		FoldsTotal:   len(folds),
	}
	var trainScores, testScores []float64
	for _, f := range folds {
		if f.Status == FoldFailed {
			continue
		}
		rec.FoldsScored++
		trainScores = append(trainScores, f.TrainScore)
		testScores = append(testScores, f.TestScore)
		for _, idx := range f.Support {
			rec.FeatureVotes[idx]++
		}
	}
	if rec.FoldsScored > 0 {
		rec.TrainScore = stat.Mean(trainScores, nil)
		rec.TestScore = stat.Mean(testScores, nil)
		rec.TrainVariance = popVariance(trainScores)
		rec.TestVariance = popVariance(testScores)
	}
	return rec
}
