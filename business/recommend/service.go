package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"refrescobot/business/categorizer"
	"refrescobot/business/policy"
	"refrescobot/business/scoring"
	"refrescobot/business/segmenter"
	"refrescobot/domain"
	"refrescobot/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNoAnswers            = errors.New("at least one answer is required")
	ErrSessionNotFound      = errors.New("session not found")
	ErrBeverageNotFound     = errors.New("beverage not found")
	ErrPresentationNotFound = errors.New("presentation not found for beverage")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidEngineConfig  = errors.New("invalid engine config")
)

// ---- Repository interfaces ----

type BeverageRepository interface {
	FindAll(ctx context.Context) ([]domain.Beverage, error)
	FindByID(ctx context.Context, id uint64) (domain.Beverage, bool, error)
	// SaveProcessed persists the derived catalog fields of b and its presentations.
	SaveProcessed(ctx context.Context, b domain.Beverage) error
}

type SessionRepository interface {
	Create(ctx context.Context, session domain.QuizSession) error
	FindByID(ctx context.Context, sessionID string) (domain.QuizSession, bool, error)
}

type RatingRepository interface {
	// Record stores r and folds it into the running averages atomically.
	Record(ctx context.Context, r domain.BeverageRating) (domain.RatingUpdate, error)
	Stats(ctx context.Context) (map[uint64]domain.RatingStats, error)
}

type TrainingSampleRepository interface {
	Append(ctx context.Context, sample domain.TrainingSample) error
	// ForTraining returns every non-synthetic sample.
	ForTraining(ctx context.Context) ([]domain.TrainingSample, error)
	// Count counts non-synthetic samples.
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) (int64, error)
}

type RatingCache interface {
	Get(ctx context.Context) (map[uint64]domain.RatingStats, bool, error)
	Set(ctx context.Context, stats map[uint64]domain.RatingStats) error
	Invalidate(ctx context.Context) error
}

// ShownStore remembers, per session, which beverages were already offered.
type ShownStore interface {
	Add(ctx context.Context, sessionID string, beverageIDs ...uint64) error
	Members(ctx context.Context, sessionID string) (map[uint64]bool, error)
	// NextPage increments and returns the session's more-options counter.
	NextPage(ctx context.Context, sessionID string) (int, error)
}

type EngineConfigRepository interface {
	List(ctx context.Context) ([]domain.EngineConfigOverride, error)
	Upsert(ctx context.Context, overrides []domain.EngineConfigOverride) error
}

type Config struct {
	Scoring      scoring.Config
	Policy       policy.Config
	SimilarLimit int
}

// ---- Usecase / Service ----

type Service struct {
	beverages BeverageRepository
	sessions  SessionRepository
	ratings   RatingRepository
	samples   TrainingSampleRepository
	cache     RatingCache
	shown     ShownStore
	overrides EngineConfigRepository

	cat *categorizer.Categorizer
	seg *segmenter.Segmenter
	cfg Config

	retrains sync.WaitGroup
	newID    func() string
	now      func() time.Time
}

// NewService wires the engine. cache and overrides may be nil.
func NewService(
	beverages BeverageRepository,
	sessions SessionRepository,
	ratings RatingRepository,
	samples TrainingSampleRepository,
	cache RatingCache,
	shown ShownStore,
	overrides EngineConfigRepository,
	cat *categorizer.Categorizer,
	seg *segmenter.Segmenter,
	cfg Config,
) *Service {
	return &Service{
		beverages: beverages,
		sessions:  sessions,
		ratings:   ratings,
		samples:   samples,
		cache:     cache,
		shown:     shown,
		overrides: overrides,
		cat:       cat,
		seg:       seg,
		cfg:       cfg,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Wait blocks until background retrains started by ratings have finished.
func (s *Service) Wait() {
	s.retrains.Wait()
}

// engine builds a scoring engine from the file config merged with any
// runtime overrides. A broken override set is logged and ignored.
func (s *Service) engine(ctx context.Context) *scoring.Engine {
	cfg := s.cfg.Scoring
	if s.overrides == nil {
		return scoring.New(cfg, s.cat)
	}

	rows, err := s.overrides.List(ctx)
	if err != nil {
		logger.Warn("engine_config_load_failed", "trace_id", TraceIDFromContext(ctx), "error", err)
		return scoring.New(cfg, s.cat)
	}
	if len(rows) == 0 {
		return scoring.New(cfg, s.cat)
	}

	merged, err := cfg.WithOverrides(overrideMap(rows))
	if err != nil {
		logger.Warn("engine_config_override_ignored", "trace_id", TraceIDFromContext(ctx), "error", err)
		return scoring.New(cfg, s.cat)
	}
	return scoring.New(merged, s.cat)
}

// ratingIndex reads live rating stats through the cache. Any failure falls
// back to the stats stored on the catalog rows.
func (s *Service) ratingIndex(ctx context.Context) scoring.RatingIndex {
	traceID := TraceIDFromContext(ctx)
	if s.cache != nil {
		stats, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Warn("rating_cache_get_failed", "trace_id", traceID, "error", err)
		} else if ok {
			CacheLookupsTotal.WithLabelValues("hit").Inc()
			return stats
		}
		CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	stats, err := s.ratings.Stats(ctx)
	if err != nil {
		logger.Warn("rating_stats_failed", "trace_id", traceID, "error", err)
		return nil
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			logger.Warn("rating_cache_set_failed", "trace_id", traceID, "error", err)
		}
	}
	return stats
}

// scoreCatalog scores the whole catalog for answers and logs exclusions.
func (s *Service) scoreCatalog(ctx context.Context, answers []domain.QuizAnswer) ([]domain.Score, error) {
	catalog, err := s.beverages.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	scores, excluded := s.engine(ctx).ScoreSession(answers, catalog, s.ratingIndex(ctx), s.seg.Snapshot())
	for _, ex := range excluded {
		logger.Warn("beverage_excluded",
			"trace_id", TraceIDFromContext(ctx),
			"beverage_id", ex.BeverageID,
			"name", ex.Name,
			"error", ex.Err,
		)
	}
	return scores, nil
}

func overrideMap(rows []domain.EngineConfigOverride) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out
}

func scoreIDs(lists ...[]domain.Score) []uint64 {
	var ids []uint64
	for _, l := range lists {
		for _, s := range l {
			ids = append(ids, s.BeverageID)
		}
	}
	return ids
}
