package biorad

import (
	"math/rand"
	"sort"
)

// Partition is a train/test index split over one sample set. Train indices
// may repeat (bootstrap draws are with replacement); Test never overlaps
// the distinct train set and may be empty.
type Partition struct {
	Train []int
	Test  []int
}

// OOBSampler generates bootstrap out-of-bag partitions. Each split draws
// n indices uniformly with replacement; the test set is the complement of
// the distinct drawn values and is empty when every index was drawn at
// least once. Callers must tolerate empty test partitions.
//
// The sequence of splits is a deterministic function of the seed. Each
// call to Split restarts the sequence, so a sampler can be reused to
// reproduce the exact same partitions.
type OOBSampler struct {
	NSplits int
	seed    int64
}

// NewOOBSampler returns a sampler producing nSplits partitions per call
// to Split, driven by its own seeded generator.
func NewOOBSampler(nSplits int, seed int64) *OOBSampler {
	if nSplits <= 0 {
		panic("biorad: non-positive number of splits")
	}
	return &OOBSampler{NSplits: nSplits, seed: seed}
}

// Split generates the bootstrap out-of-bag partitions for n samples.
func (s *OOBSampler) Split(n int) []Partition {
	if n <= 0 {
		panic("biorad: non-positive number of samples")
	}
	rng := rand.New(rand.NewSource(s.seed))
	parts := make([]Partition, s.NSplits)
	for i := range parts {
		train := bootstrapIndices(rng, n)
		parts[i] = Partition{Train: train, Test: oobComplement(train, n)}
	}
	return parts
}

// bootstrapIndices draws n indices uniformly with replacement from [0, n).
// Shared by the out-of-bag sampler and the BBC-CV selection procedure.
func bootstrapIndices(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// oobComplement returns the indices in [0, n) absent from train, sorted.
func oobComplement(train []int, n int) []int {
	seen := make([]bool, n)
	for _, v := range train {
		seen[v] = true
	}
	var test []int
	for i := 0; i < n; i++ {
		if !seen[i] {
			test = append(test, i)
		}
	}
	return test
}

// StratifiedKFold partitions samples into k folds such that each fold's
// test set preserves the class proportions of the labels. The assignment
// is shuffled by the fold's own seeded generator; equal seeds reproduce
// equal partitions.
type StratifiedKFold struct {
	K    int
	seed int64
}

// NewStratifiedKFold returns a k-fold partitioner with its own seeded
// generator.
func NewStratifiedKFold(k int, seed int64) *StratifiedKFold {
	if k <= 0 {
		panic("biorad: non-positive number of folds")
	}
	return &StratifiedKFold{K: k, seed: seed}
}

// Split partitions the sample indices of y into folds. If there are fewer
// samples than folds, the number of folds is reduced to the number of
// samples.
func (s *StratifiedKFold) Split(y []float64) []Partition {
	n := len(y)
	if n == 0 {
		panic("biorad: no samples")
	}
	k := s.K
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(s.seed))

	// Group sample indices per class, in stable class order.
	classes := make(map[float64][]int)
	var order []float64
	for i, v := range y {
		if _, ok := classes[v]; !ok {
			order = append(order, v)
		}
		classes[v] = append(classes[v], i)
	}
	sort.Float64s(order)

	// Shuffle within each class and deal the indices round-robin across
	// the fold test sets. The rotating cursor spans classes so fold sizes
	// stay balanced to within one sample.
	testing := make([][]int, k)
	var cursor int
	for _, class := range order {
		idx := classes[class]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, v := range idx {
			fold := cursor % k
			testing[fold] = append(testing[fold], v)
			cursor++
		}
	}

	parts := make([]Partition, k)
	for i := range parts {
		sort.Ints(testing[i])
		parts[i] = Partition{
			Train: foldComplement(testing[i], n),
			Test:  testing[i],
		}
	}
	return parts
}

// foldComplement returns the sorted indices in [0, n) absent from the
// sorted test set.
func foldComplement(test []int, n int) []int {
	train := make([]int, 0, n-len(test))
	var j int
	for i := 0; i < n; i++ {
		if j < len(test) && test[j] == i {
			j++
			continue
		}
		train = append(train, i)
	}
	return train
}
