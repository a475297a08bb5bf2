package segmenter

import (
	"context"
	"math"
	"math/rand"
	"slices"
)

const eulerGamma = 0.5772156649

type isoNode struct {
	feature     int
	split       float64
	left, right *isoNode
	size        int
}

// isolationForest scores points by how quickly random axis-aligned splits
// isolate them. Scores are in (0, 1]; higher is more anomalous.
type isolationForest struct {
	trees      []*isoNode
	sampleSize int
	threshold  float64
}

func fitIsolationForest(ctx context.Context, rows [][]float64, trees, sampleSize int, contamination float64, rng *rand.Rand) (*isolationForest, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	psi := min(sampleSize, len(rows))
	limit := int(math.Ceil(math.Log2(float64(max(psi, 2)))))

	f := &isolationForest{sampleSize: psi, trees: make([]*isoNode, 0, trees)}
	for t := 0; t < trees; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample := make([][]float64, psi)
		for i, idx := range rng.Perm(len(rows))[:psi] {
			sample[i] = rows[idx]
		}
		f.trees = append(f.trees, buildIsoTree(sample, 0, limit, rng))
	}

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = f.score(r)
	}
	slices.Sort(scores)
	idx := int(math.Ceil((1-contamination)*float64(len(scores)))) - 1
	idx = max(0, min(idx, len(scores)-1))
	f.threshold = scores[idx]
	return f, nil
}

func buildIsoTree(rows [][]float64, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(rows) <= 1 {
		return &isoNode{size: len(rows)}
	}

	dim := len(rows[0])
	// pick a feature that still varies within this node
	for _, feature := range rng.Perm(dim) {
		lo, hi := rows[0][feature], rows[0][feature]
		for _, r := range rows {
			lo = math.Min(lo, r[feature])
			hi = math.Max(hi, r[feature])
		}
		if lo == hi {
			continue
		}
		split := lo + rng.Float64()*(hi-lo)
		var left, right [][]float64
		for _, r := range rows {
			if r[feature] < split {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}
		return &isoNode{
			feature: feature,
			split:   split,
			left:    buildIsoTree(left, depth+1, limit, rng),
			right:   buildIsoTree(right, depth+1, limit, rng),
			size:    len(rows),
		}
	}
	return &isoNode{size: len(rows)}
}

func (f *isolationForest) score(x []float64) float64 {
	if f == nil || len(f.trees) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range f.trees {
		total += pathLength(t, x, 0)
	}
	mean := total / float64(len(f.trees))
	c := averagePath(f.sampleSize)
	if c == 0 {
		return 0
	}
	return math.Pow(2, -mean/c)
}

func (f *isolationForest) anomalous(x []float64) bool {
	if f == nil {
		return false
	}
	return f.score(x) > f.threshold
}

func pathLength(n *isoNode, x []float64, depth int) float64 {
	if n.left == nil {
		return float64(depth) + averagePath(n.size)
	}
	if x[n.feature] < n.split {
		return pathLength(n.left, x, depth+1)
	}
	return pathLength(n.right, x, depth+1)
}

// averagePath is the mean path length of an unsuccessful BST search over n points.
func averagePath(n int) float64 {
	switch {
	case n > 2:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	case n == 2:
		return 1
	default:
		return 0
	}
}
