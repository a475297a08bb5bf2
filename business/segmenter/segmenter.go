package segmenter

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"refrescobot/business/features"
	"refrescobot/domain"
	"refrescobot/pkg/logger"

	"go.uber.org/atomic"
)

var (
	ErrInsufficientSamples = errors.New("insufficient training samples")
	ErrRetrainInProgress   = errors.New("retrain already in progress")
	ErrTrainingTimeout     = errors.New("retrain timed out")
	ErrNoValidBeverages    = errors.New("no valid beverages to fit")
)

// Segmenter owns the current fitted model. Readers take the published
// Snapshot; Fit builds a complete new one and swaps it in, so a reader never
// sees a half-fitted model. At most one Fit runs at a time and concurrent
// calls return ErrRetrainInProgress instead of queueing.
type Segmenter struct {
	cfg Config

	current  atomic.Pointer[Snapshot]
	version  atomic.Int64
	training atomic.Bool
	trainMu  sync.Mutex

	now func() time.Time
}

func New(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg, now: time.Now}
}

// NewFromSnapshot starts from an already fitted model.
func NewFromSnapshot(cfg Config, snap *Snapshot) *Segmenter {
	s := New(cfg)
	if snap != nil {
		s.current.Store(snap)
		s.version.Store(snap.Version)
	}
	return s
}

// Snapshot returns the published model, nil while untrained.
func (s *Segmenter) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *Segmenter) Trained() bool {
	return s.current.Load() != nil
}

// Predict returns the cluster id of b, or Untrained.
func (s *Segmenter) Predict(b domain.Beverage) int {
	return s.current.Load().Predict(b)
}

func (s *Segmenter) Training() bool {
	return s.training.Load()
}

// ShouldRetrain reports whether sampleCount justifies a new fit. A count
// below the one at the last fit means the store was cleared and the count
// restarts from zero.
func (s *Segmenter) ShouldRetrain(sampleCount int64) bool {
	snap := s.current.Load()
	if snap == nil {
		return sampleCount >= int64(s.cfg.MinTrainingSamples)
	}
	grown := sampleCount - int64(snap.SamplesAtFit)
	if grown < 0 {
		if sampleCount < int64(s.cfg.MinTrainingSamples) {
			return false
		}
		grown = sampleCount
	}
	return grown >= int64(s.cfg.RetrainThreshold)
}

// Fit trains all three models over catalog and publishes the result. On any
// error the previously published model stays authoritative.
func (s *Segmenter) Fit(ctx context.Context, catalog []domain.Beverage, samples []domain.TrainingSample) (*Snapshot, error) {
	if len(samples) < s.cfg.MinTrainingSamples {
		RetrainsTotal.WithLabelValues(resultInsufficient).Inc()
		return nil, fmt.Errorf("%w: %d < %d", ErrInsufficientSamples, len(samples), s.cfg.MinTrainingSamples)
	}
	if !s.trainMu.TryLock() {
		RetrainsTotal.WithLabelValues(resultBusy).Inc()
		return nil, ErrRetrainInProgress
	}
	defer s.trainMu.Unlock()

	s.training.Store(true)
	defer s.training.Store(false)

	start := s.now()
	trainCtx, cancel := context.WithTimeout(ctx, s.cfg.TrainTimeout)
	defer cancel()

	snap, err := s.build(trainCtx, catalog, samples)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			RetrainsTotal.WithLabelValues(resultTimeout).Inc()
			return nil, fmt.Errorf("%w after %s", ErrTrainingTimeout, s.cfg.TrainTimeout)
		}
		RetrainsTotal.WithLabelValues(resultError).Inc()
		return nil, err
	}

	snap.Version = s.version.Inc()
	snap.TrainedAt = s.now()
	s.current.Store(snap)
	RetrainsTotal.WithLabelValues(resultOK).Inc()

	logger.Info("segmenter_fit",
		"version", snap.Version,
		"beverages", len(snap.assignments),
		"samples", snap.SamplesAtFit,
		"cluster_sizes", snap.clusterSizes,
		"density_noise", snap.densityNoise,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return snap, nil
}

func (s *Segmenter) build(ctx context.Context, catalog []domain.Beverage, samples []domain.TrainingSample) (*Snapshot, error) {
	rng := rand.New(rand.NewSource(s.cfg.Seed))

	ids := make([]uint64, 0, len(catalog))
	rows := make([][]float64, 0, len(catalog))
	var prices [][]float64
	for _, b := range catalog {
		v, err := features.Extract(b)
		if err != nil {
			logger.Warn("segmenter_skip_beverage", "beverage_id", b.ID, "error", err)
			continue
		}
		ids = append(ids, b.ID)
		rows = append(rows, append([]float64(nil), v[:]...))
		for _, p := range b.Presentations {
			prices = append(prices, priceTriple(p))
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoValidBeverages
	}

	scaler := FitStandardizer(rows)
	scaled := make([][]float64, len(rows))
	for i, r := range rows {
		scaled[i] = scaler.Transform(r)
	}

	km, err := kmeans(ctx, scaled, s.cfg.Clusters, s.cfg.MaxIterations, s.cfg.Tolerance, rng)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}

	density, _, err := dbscan(ctx, scaled, s.cfg.DensityEps, s.cfg.DensityMinSamples)
	if err != nil {
		return nil, fmt.Errorf("density grouping: %w", err)
	}

	forest, err := fitIsolationForest(ctx, prices, s.cfg.AnomalyTrees, s.cfg.AnomalySampleSize, s.cfg.AnomalyContamination, rng)
	if err != nil {
		return nil, fmt.Errorf("price anomaly detector: %w", err)
	}

	snap := &Snapshot{
		SamplesAtFit:       len(samples),
		scaler:             scaler,
		centroids:          km.Centroids,
		clusterSizes:       km.Sizes,
		priceForest:        forest,
		assignments:        make(map[uint64]domain.ClusterAssignment, len(ids)),
		affinityMinRating:  s.cfg.AffinityMinRating,
		affinityMinSamples: s.cfg.AffinityMinSamples,
	}

	byID := make(map[uint64]domain.Beverage, len(catalog))
	for _, b := range catalog {
		byID[b.ID] = b
	}
	for i, id := range ids {
		a := domain.ClusterAssignment{
			BeverageID:     id,
			ClusterID:      km.Labels[i],
			DensityOutlier: density[i] == noise,
		}
		for _, p := range byID[id].Presentations {
			if forest.anomalous(priceTriple(p)) {
				a.PriceAnomaly = true
				a.AnomalousSizes = append(a.AnomalousSizes, p.ID)
			}
		}
		if a.DensityOutlier {
			snap.densityNoise++
		}
		snap.assignments[id] = a
	}

	for seg := range snap.affinity {
		snap.affinity[seg] = map[int]affinityStat{}
	}
	for _, smp := range samples {
		a, ok := snap.assignments[smp.BeverageID]
		cluster := a.ClusterID
		if !ok {
			cluster = snap.Predict(smp.Beverage.Data())
		}
		if cluster == Untrained {
			continue
		}
		seg := features.UserSegment(features.ExtractAnswers(smp.Answers))
		st := snap.affinity[seg][cluster]
		st.sum += smp.Rating
		st.count++
		snap.affinity[seg][cluster] = st
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}
