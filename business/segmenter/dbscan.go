package segmenter

import "context"

const noise = -1

// dbscan labels every row with a density cluster id, or noise (-1) when it is
// neither a core point nor reachable from one.
func dbscan(ctx context.Context, rows [][]float64, eps float64, minSamples int) ([]int, int, error) {
	n := len(rows)
	labels := make([]int, n)
	visited := make([]bool, n)
	for i := range labels {
		labels[i] = noise
	}
	eps2 := eps * eps

	neighbours := func(i int) []int {
		out := []int{}
		for j := range rows {
			if sqDist(rows[i], rows[j]) <= eps2 {
				out = append(out, j)
			}
		}
		return out
	}

	cluster := 0
	for i := range rows {
		if visited[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		visited[i] = true

		seeds := neighbours(i)
		if len(seeds) < minSamples {
			continue
		}

		labels[i] = cluster
		for q := 0; q < len(seeds); q++ {
			j := seeds[q]
			if labels[j] == noise {
				labels[j] = cluster
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			if nb := neighbours(j); len(nb) >= minSamples {
				seeds = append(seeds, nb...)
			}
		}
		cluster++
	}
	return labels, cluster, nil
}
