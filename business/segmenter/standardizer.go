package segmenter

import "math"

// Standardizer rescales each column to zero mean and unit variance using
// statistics captured at fit time. Constant columns keep a scale of 1.
type Standardizer struct {
	Mean  []float64
	Scale []float64
}

func FitStandardizer(rows [][]float64) Standardizer {
	if len(rows) == 0 {
		return Standardizer{}
	}
	dim := len(rows[0])
	s := Standardizer{Mean: make([]float64, dim), Scale: make([]float64, dim)}

	for _, r := range rows {
		for j, x := range r {
			s.Mean[j] += x
		}
	}
	n := float64(len(rows))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, r := range rows {
		for j, x := range r {
			d := x - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s
}

func (s Standardizer) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if j >= len(s.Mean) {
			out[j] = v
			continue
		}
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

func sqDist(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		x := a[i] - b[i]
		d += x * x
	}
	return d
}
