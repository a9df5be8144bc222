package biorad

import "gonum.org/v1/gonum/mat"

// Accuracy is the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) != len(yPred) {
		panic("biorad: length mismatch")
	}
	if len(yTrue) == 0 {
		return 0
	}
	var hits int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// PrecisionRecallF1 computes the three scores for the positive class of a
// dichotomous problem. Degenerate denominators (no predicted or no true
// positives) yield zero rather than NaN.
func PrecisionRecallF1(yTrue, yPred []float64) (precision, recall, f1 float64) {
	if len(yTrue) != len(yPred) {
		panic("biorad: length mismatch")
	}
	var tp, fp, fn int
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 0 && yPred[i] == 1:
			fp++
		case yTrue[i] == 1 && yPred[i] == 0:
			fn++
		}
	}
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// ZeroOneLossMatrix builds an n-samples by n-configurations loss matrix
// from out-of-sample predictions: cell (i, j) is 0 when configuration j
// predicted sample i correctly and 1 otherwise. The result feeds BBCCV.
func ZeroOneLossMatrix(yTrue []float64, preds mat.Matrix) *mat.Dense {
	n, c := preds.Dims()
	if n != len(yTrue) {
		panic("biorad: length mismatch")
	}
	losses := mat.NewDense(n, c, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			if preds.At(i, j) != yTrue[i] {
				losses.Set(i, j, 1)
			}
		}
	}
	return losses
}
