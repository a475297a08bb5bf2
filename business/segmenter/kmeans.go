package segmenter

import (
	"context"
	"math"
	"math/rand"
)

type kmeansResult struct {
	Centroids  [][]float64
	Labels     []int
	Sizes      []int
	Inertia    float64
	Iterations int
}

// kmeans runs Lloyd's algorithm with k-means++ seeding. k is capped at the
// number of rows. The context is checked once per iteration.
func kmeans(ctx context.Context, rows [][]float64, k, maxIter int, tol float64, rng *rand.Rand) (kmeansResult, error) {
	n := len(rows)
	if k > n {
		k = n
	}

	centroids := seedPlusPlus(rows, k, rng)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	res := kmeansResult{}
	for iter := 1; iter <= maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return kmeansResult{}, err
		}
		res.Iterations = iter

		changed := false
		for i, r := range rows {
			c := nearest(centroids, r)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, len(rows[0]))
		}
		for i, r := range rows {
			c := labels[i]
			counts[c]++
			for j, x := range r {
				next[c][j] += x
			}
		}

		shift := 0.0
		for c := range next {
			if counts[c] == 0 {
				// empty cluster: restart it on the point farthest from its centroid
				far := farthest(rows, labels, centroids)
				copy(next[c], rows[far])
				labels[far] = c
				changed = true
			} else {
				for j := range next[c] {
					next[c][j] /= float64(counts[c])
				}
			}
			shift = math.Max(shift, sqDist(next[c], centroids[c]))
		}
		centroids = next

		if !changed || shift <= tol*tol {
			break
		}
	}

	res.Centroids = centroids
	res.Labels = labels
	res.Sizes = make([]int, k)
	for i, r := range rows {
		res.Sizes[labels[i]]++
		res.Inertia += sqDist(r, centroids[labels[i]])
	}
	return res, nil
}

func seedPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rows[rng.Intn(len(rows))]
	centroids = append(centroids, append([]float64(nil), first...))

	dist := make([]float64, len(rows))
	for len(centroids) < k {
		total := 0.0
		for i, r := range rows {
			dist[i] = sqDist(r, centroids[nearest(centroids, r)])
			total += dist[i]
		}

		pick := 0
		if total == 0 {
			// all remaining points coincide with a centroid
			pick = rng.Intn(len(rows))
		} else {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 {
					pick = i
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[pick]...))
	}
	return centroids
}

func nearest(centroids [][]float64, x []float64) int {
	best, bestD := 0, math.Inf(1)
	for c, cen := range centroids {
		if d := sqDist(cen, x); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func farthest(rows [][]float64, labels []int, centroids [][]float64) int {
	best, bestD := 0, -1.0
	for i, r := range rows {
		if d := sqDist(r, centroids[labels[i]]); d > bestD {
			best, bestD = i, d
		}
	}
	return best
}
