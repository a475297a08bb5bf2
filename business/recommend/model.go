package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"refrescobot/business/categorizer"
	"refrescobot/business/features"
	"refrescobot/business/segmenter"
	"refrescobot/domain"
	"refrescobot/pkg/logger"
)

const defaultSimilarLimit = 5

// Retrain fits the segmenter on the full current sample set regardless of
// how many samples arrived since the last fit, then refreshes the cluster
// ids stored on the catalog.
func (s *Service) Retrain(ctx context.Context) (domain.ModelStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelStatus{}, fmt.Errorf("context error: %w", err)
	}
	traceID := TraceIDFromContext(ctx)

	catalog, err := s.beverages.FindAll(ctx)
	if err != nil {
		return domain.ModelStatus{}, fmt.Errorf("load catalog: %w", err)
	}
	samples, err := s.samples.ForTraining(ctx)
	if err != nil {
		return domain.ModelStatus{}, fmt.Errorf("load training samples: %w", err)
	}

	if _, err := s.seg.Fit(ctx, catalog, samples); err != nil {
		switch {
		case errors.Is(err, segmenter.ErrRetrainInProgress):
			logger.Warn("retrain_coalesced", "trace_id", traceID)
		case errors.Is(err, segmenter.ErrInsufficientSamples):
			logger.Warn("retrain_skipped", "trace_id", traceID, "samples", len(samples), "error", err)
		default:
			logger.Error("retrain_failed", "trace_id", traceID, "error", err)
		}
		return domain.ModelStatus{}, fmt.Errorf("fit segmenter: %w", err)
	}

	if _, err := s.ProcessCatalog(ctx); err != nil {
		logger.Warn("catalog_refresh_after_retrain_failed", "trace_id", traceID, "error", err)
	}
	return s.ModelStatus(ctx)
}

// MaybeRetrain retrains only when ShouldRetrain agrees. It reports whether a
// fit ran.
func (s *Service) MaybeRetrain(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	count, err := s.samples.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count training samples: %w", err)
	}
	if !s.seg.ShouldRetrain(count) {
		return false, nil
	}
	if _, err := s.Retrain(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ClearSamples deletes every training sample. The fitted model is kept; the
// next retrain counts samples from zero.
func (s *Service) ClearSamples(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	n, err := s.samples.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear training samples: %w", err)
	}
	logger.Info("training_samples_cleared", "trace_id", TraceIDFromContext(ctx), "deleted", n)
	return n, nil
}

func (s *Service) ModelStatus(ctx context.Context) (domain.ModelStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelStatus{}, fmt.Errorf("context error: %w", err)
	}
	status := s.seg.Snapshot().Status()
	count, err := s.samples.Count(ctx)
	if err != nil {
		return domain.ModelStatus{}, fmt.Errorf("count training samples: %w", err)
	}
	status.SampleCount = count
	status.Training = s.seg.Training()
	return status, nil
}

// PredictCluster returns the cluster assignment of one beverage. Without a
// fitted model the cluster id is segmenter.Untrained.
func (s *Service) PredictCluster(ctx context.Context, beverageID uint64) (domain.ClusterAssignment, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClusterAssignment{}, fmt.Errorf("context error: %w", err)
	}
	b, ok, err := s.beverages.FindByID(ctx, beverageID)
	if err != nil {
		return domain.ClusterAssignment{}, fmt.Errorf("find beverage: %w", err)
	}
	if !ok {
		return domain.ClusterAssignment{}, ErrBeverageNotFound
	}
	return s.assignment(s.seg.Snapshot(), b), nil
}

func (s *Service) assignment(snap *segmenter.Snapshot, b domain.Beverage) domain.ClusterAssignment {
	if a, ok := snap.Assignment(b.ID); ok {
		return a
	}
	a := domain.ClusterAssignment{BeverageID: b.ID, ClusterID: snap.Predict(b)}
	for _, p := range b.Presentations {
		if snap.IsPriceAnomaly(p) {
			a.PriceAnomaly = true
			a.AnomalousSizes = append(a.AnomalousSizes, p.ID)
		}
	}
	return a
}

// ProcessCatalog derives categories, tags, size categories, cluster ids and
// price anomaly flags for every beverage and persists them. Running it twice
// on an unchanged catalog and model writes the same values.
func (s *Service) ProcessCatalog(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	catalog, err := s.beverages.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	snap := s.seg.Snapshot()
	now := s.now()
	processed := 0
	for _, b := range catalog {
		if err := ctx.Err(); err != nil {
			return processed, fmt.Errorf("context error: %w", err)
		}
		res := s.cat.Process(b)
		a := s.assignment(snap, b)

		b.Categories = res.Categories
		b.Tags = res.Tags
		b.ClusterID = a.ClusterID
		b.PriceAnomaly = a.PriceAnomaly
		for i := range b.Presentations {
			p := &b.Presentations[i]
			p.SizeCategory = res.SizeCategories[p.ID]
			p.PriceAnomaly = slices.Contains(a.AnomalousSizes, p.ID)
		}
		b.ProcessedAt = &now

		if err := s.beverages.SaveProcessed(ctx, b); err != nil {
			return processed, fmt.Errorf("save beverage %d: %w", b.ID, err)
		}
		processed++
	}

	logger.Info("catalog_processed",
		"trace_id", TraceIDFromContext(ctx),
		"beverages", processed,
		"model_version", snap.Status().Version,
	)
	return processed, nil
}

// Beverages lists the catalog with its derived fields.
func (s *Service) Beverages(ctx context.Context) ([]domain.Beverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	catalog, err := s.beverages.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

// Similar ranks the catalog by cosine similarity to one beverage, using the
// fitted scaling when a model exists.
func (s *Service) Similar(ctx context.Context, beverageID uint64, limit int) ([]domain.SimilarBeverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.SimilarLimit
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	catalog, err := s.beverages.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	snap := s.seg.Snapshot()

	var target []float64
	found := false
	vectors := make(map[uint64][]float64, len(catalog))
	for _, b := range catalog {
		v, err := features.Extract(b)
		if err != nil {
			if b.ID == beverageID {
				return nil, fmt.Errorf("beverage %d: %w", b.ID, err)
			}
			continue
		}
		vec := snap.Standardize(v)
		if b.ID == beverageID {
			target, found = vec, true
			continue
		}
		vectors[b.ID] = vec
	}
	if !found {
		return nil, ErrBeverageNotFound
	}

	out := make([]domain.SimilarBeverage, 0, len(vectors))
	for _, b := range catalog {
		vec, ok := vectors[b.ID]
		if !ok {
			continue
		}
		out = append(out, domain.SimilarBeverage{
			BeverageID: b.ID,
			Name:       b.Name,
			Category:   b.Category,
			IsSoda:     b.IsRealSoda,
			ClusterID:  snap.Predict(b),
			Similarity: categorizer.CosineSimilarity(target, vec),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.SimilarBeverage) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.BeverageID, b.BeverageID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
