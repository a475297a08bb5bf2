package recommend

import (
	"context"
	"fmt"

	"refrescobot/business/features"
	"refrescobot/domain"
	"refrescobot/pkg/logger"

	"gorm.io/datatypes"
)

const (
	minScore = 1
	maxScore = 5
)

type RatingInput struct {
	SessionID      string  `json:"session_id" validate:"required"`
	BeverageID     uint64  `json:"beverage_id" validate:"required"`
	PresentationID *uint64 `json:"presentation_id"`
	Score          int     `json:"score" validate:"required,min=1,max=5"`
}

// RateBeverage records a rating, turns it into a training sample and starts
// a background retrain when enough new samples have accumulated. Once the
// rating is recorded a failure to store the sample is logged, not returned.
func (s *Service) RateBeverage(ctx context.Context, in RatingInput) (domain.RatingUpdate, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingUpdate{}, fmt.Errorf("context error: %w", err)
	}
	if in.Score < minScore || in.Score > maxScore {
		return domain.RatingUpdate{}, ErrInvalidRating
	}
	traceID := TraceIDFromContext(ctx)

	session, ok, err := s.sessions.FindByID(ctx, in.SessionID)
	if err != nil {
		return domain.RatingUpdate{}, fmt.Errorf("find session: %w", err)
	}
	if !ok {
		return domain.RatingUpdate{}, ErrSessionNotFound
	}

	bev, ok, err := s.beverages.FindByID(ctx, in.BeverageID)
	if err != nil {
		return domain.RatingUpdate{}, fmt.Errorf("find beverage: %w", err)
	}
	if !ok {
		return domain.RatingUpdate{}, ErrBeverageNotFound
	}
	if in.PresentationID != nil && !hasPresentation(bev, *in.PresentationID) {
		return domain.RatingUpdate{}, ErrPresentationNotFound
	}

	update, err := s.ratings.Record(ctx, domain.BeverageRating{
		SessionID:      in.SessionID,
		BeverageID:     in.BeverageID,
		PresentationID: in.PresentationID,
		Score:          in.Score,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return domain.RatingUpdate{}, fmt.Errorf("record rating: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn("rating_cache_invalidate_failed", "trace_id", traceID, "error", err)
		}
	}

	synthetic := session.UserType == features.UserTypeTest
	sample := domain.TrainingSample{
		ID:         s.newID(),
		SessionID:  in.SessionID,
		BeverageID: in.BeverageID,
		Answers:    session.Answers,
		Beverage:   datatypes.NewJSONType(bev),
		Rating:     float64(in.Score),
		Synthetic:  synthetic,
		CreatedAt:  s.now(),
	}
	// rating is committed; a lost sample must not fail the request
	sampled := true
	if err := s.samples.Append(ctx, sample); err != nil {
		sampled = false
		logger.Warn("training_sample_append_failed",
			"trace_id", traceID,
			"session_id", in.SessionID,
			"beverage_id", in.BeverageID,
			"error", err,
		)
	}

	RatingsTotal.WithLabelValues(fmt.Sprint(in.Score), fmt.Sprint(synthetic)).Inc()
	logger.Info("rating_recorded",
		"trace_id", traceID,
		"session_id", in.SessionID,
		"beverage_id", in.BeverageID,
		"score", in.Score,
		"average", update.Beverage.Average,
		"count", update.Beverage.Count,
		"synthetic", synthetic,
	)

	if sampled && !synthetic {
		s.retrainInBackground(ctx)
	}
	return update, nil
}

// retrainInBackground checks whether a retrain is due and, if so, runs it
// detached from the request. Overlapping triggers coalesce inside Fit.
func (s *Service) retrainInBackground(ctx context.Context) {
	if s.seg.Training() {
		return
	}
	count, err := s.samples.Count(ctx)
	if err != nil {
		logger.Warn("training_sample_count_failed", "trace_id", TraceIDFromContext(ctx), "error", err)
		return
	}
	if !s.seg.ShouldRetrain(count) {
		return
	}

	bg := context.WithoutCancel(ctx)
	s.retrains.Add(1)
	go func() {
		defer s.retrains.Done()
		if _, err := s.MaybeRetrain(bg); err != nil {
			logger.Warn("background_retrain_failed", "trace_id", TraceIDFromContext(bg), "error", err)
		}
	}()
}

func hasPresentation(b domain.Beverage, id uint64) bool {
	for _, p := range b.Presentations {
		if p.ID == id {
			return true
		}
	}
	return false
}
