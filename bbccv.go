package biorad

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BBCCV corrects the selection bias of picking the best of several
// configurations from their out-of-sample predictions (bootstrap bias
// corrected cross-validation).
//
// Each iteration bootstrap-resamples the sample rows of a loss matrix,
// selects the configuration with minimum mean loss on the in-bag rows,
// and evaluates that configuration on the out-of-bag rows. The average of
// the evaluated losses estimates the generalization loss of the selection
// procedure itself, correcting the optimism of naively keeping the best
// observed configuration.
type BBCCV struct {
	NIter int
	seed  int64
}

// NewBBCCV returns a selector performing nIter bootstrap iterations with
// its own seeded generator.
func NewBBCCV(nIter int, seed int64) *BBCCV {
	if nIter <= 0 {
		panic("biorad: non-positive number of iterations")
	}
	return &BBCCV{NIter: nIter, seed: seed}
}

// Select estimates the bias-corrected loss of choosing the best
// configuration. losses is an n-samples by n-configurations matrix where
// cell (i, j) is the out-of-sample loss of configuration j on sample i;
// row i must correspond to sample i in the original sample set.
//
// Returned are the corrected loss estimate and, per configuration, how
// many iterations selected it. Iterations whose out-of-bag set is empty
// fall back to evaluating over all rows.
func (b *BBCCV) Select(losses mat.Matrix) (float64, []int) {
	n, c := losses.Dims()
	if n == 0 || c == 0 {
		panic("biorad: empty loss matrix")
	}
	rng := rand.New(rand.NewSource(b.seed))
	picks := make([]int, c)

	var total float64
	for iter := 0; iter < b.NIter; iter++ {
		inBag := bootstrapIndices(rng, n)
		outBag := oobComplement(inBag, n)

		best := 0
		bestLoss := math.Inf(1)
		for j := 0; j < c; j++ {
			loss := meanLossAt(losses, inBag, j)
			if loss < bestLoss {
				bestLoss = loss
				best = j
			}
		}
		picks[best]++

		rows := outBag
		if len(rows) == 0 {
			rows = allFeatures(n)
		}
		total += meanLossAt(losses, rows, best)
	}
	return total / float64(b.NIter), picks
}

// meanLossAt averages column j of losses over the given rows.
func meanLossAt(losses mat.Matrix, rows []int, j int) float64 {
	var sum float64
	for _, i := range rows {
		sum += losses.At(i, j)
	}
	return sum / float64(len(rows))
}
