package segmenter

import (
	"time"

	"refrescobot/business/features"
	"refrescobot/domain"
)

// Untrained is returned by every prediction made without a fitted model.
const Untrained = -1

type affinityStat struct {
	sum   float64
	count int
}

// Snapshot is one fitted model. It is never mutated after publication, so
// readers may hold on to it for the length of a request. All methods accept a
// nil receiver and then behave as an untrained model.
type Snapshot struct {
	Version      int64
	TrainedAt    time.Time
	SamplesAtFit int

	scaler       Standardizer
	centroids    [][]float64
	clusterSizes []int
	densityNoise int

	priceForest *isolationForest

	assignments map[uint64]domain.ClusterAssignment
	// user segment -> beverage cluster -> rating stats
	affinity [features.NumUserSegments]map[int]affinityStat

	affinityMinRating  float64
	affinityMinSamples int
}

func (s *Snapshot) Trained() bool { return s != nil }

// Standardize applies the fit-time scaling to v.
func (s *Snapshot) Standardize(v features.Vector) []float64 {
	if s == nil {
		return v[:]
	}
	return s.scaler.Transform(v[:])
}

func (s *Snapshot) PredictVector(v features.Vector) int {
	if s == nil || len(s.centroids) == 0 {
		return Untrained
	}
	return nearest(s.centroids, s.scaler.Transform(v[:]))
}

// Predict assigns b to the nearest centroid. Malformed beverages get
// Untrained, like any prediction the model cannot make.
func (s *Snapshot) Predict(b domain.Beverage) int {
	if s == nil {
		return Untrained
	}
	v, err := features.Extract(b)
	if err != nil {
		return Untrained
	}
	return s.PredictVector(v)
}

func (s *Snapshot) IsPriceAnomaly(p domain.Presentation) bool {
	if s == nil {
		return false
	}
	return s.priceForest.anomalous(priceTriple(p))
}

// Assignment returns the fit-time assignment of a catalog beverage.
func (s *Snapshot) Assignment(beverageID uint64) (domain.ClusterAssignment, bool) {
	if s == nil {
		return domain.ClusterAssignment{}, false
	}
	a, ok := s.assignments[beverageID]
	return a, ok
}

func (s *Snapshot) Assignments() []domain.ClusterAssignment {
	if s == nil {
		return nil
	}
	out := make([]domain.ClusterAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	return out
}

// Affinity reports whether users in userSegment rated beverages of cluster
// well enough, often enough, to count as a match.
func (s *Snapshot) Affinity(userSegment, cluster int) (mean float64, ok bool) {
	if s == nil || userSegment < 0 || userSegment >= len(s.affinity) || cluster < 0 {
		return 0, false
	}
	st, found := s.affinity[userSegment][cluster]
	if !found || st.count < s.affinityMinSamples {
		return 0, false
	}
	mean = st.sum / float64(st.count)
	return mean, mean >= s.affinityMinRating
}

func (s *Snapshot) Status() domain.ModelStatus {
	if s == nil {
		return domain.ModelStatus{}
	}
	anomalies := 0
	for _, a := range s.assignments {
		if a.PriceAnomaly {
			anomalies++
		}
	}
	return domain.ModelStatus{
		Trained:        true,
		Version:        s.Version,
		TrainedAt:      s.TrainedAt,
		SamplesAtFit:   s.SamplesAtFit,
		ClusterSizes:   append([]int(nil), s.clusterSizes...),
		DensityNoise:   s.densityNoise,
		PriceAnomalies: anomalies,
	}
}

func priceTriple(p domain.Presentation) []float64 {
	return []float64{float64(p.VolumeML), p.Price, p.PricePerML()}
}
