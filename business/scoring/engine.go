package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"refrescobot/business/categorizer"
	"refrescobot/business/features"
	"refrescobot/business/segmenter"
	"refrescobot/domain"
)

// RatingIndex maps a beverage id to its live community rating. Beverages
// missing from the index fall back to the stats stored on the row.
type RatingIndex map[uint64]domain.RatingStats

// Exclusion records a catalog entry that could not be scored.
type Exclusion struct {
	BeverageID uint64
	Name       string
	Err        error
}

type factor struct {
	delta float64
	text  string
}

// Engine turns quiz answers into a per-beverage probability. It is stateless:
// the fitted model is passed per call so a retrain never changes the scores
// of a request already in flight.
type Engine struct {
	cfg Config
	cat *categorizer.Categorizer
}

func New(cfg Config, cat *categorizer.Categorizer) *Engine {
	return &Engine{cfg: cfg, cat: cat}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Score rates one beverage for one answer vector. snap may be nil, in which
// case the cluster affinity step is skipped.
func (e *Engine) Score(av features.AnswerVector, userSegment int, b domain.Beverage, stats domain.RatingStats, snap *segmenter.Snapshot) (domain.Score, error) {
	vec, err := features.Extract(b)
	if err != nil {
		return domain.Score{}, err
	}

	tags := []string(b.Tags)
	if len(tags) == 0 && e.cat != nil {
		tags = e.cat.Process(b).Tags
	}
	view := beverageView{Beverage: b, tags: tags}

	p := e.cfg.BaseProbability
	var factors []factor
	for _, r := range affinityRules {
		if !r.when(av, view) {
			continue
		}
		d := r.delta(e.cfg)
		p += d
		factors = append(factors, factor{delta: d, text: r.factor})
	}

	if bonus := e.CollaborativeBonus(stats); bonus != 0 {
		p += bonus
		factors = append(factors, factor{delta: bonus, text: collaborativeFactor(bonus, stats)})
	}

	cluster := segmenter.Untrained
	priceAnomaly := b.PriceAnomaly
	if snap.Trained() {
		cluster = snap.PredictVector(vec)
		if a, ok := snap.Assignment(b.ID); ok {
			cluster = a.ClusterID
			priceAnomaly = priceAnomaly || a.PriceAnomaly
		}
		if _, ok := snap.Affinity(userSegment, cluster); ok && e.cfg.ClusterAffinityBonus != 0 {
			p += e.cfg.ClusterAffinityBonus
			factors = append(factors, factor{delta: e.cfg.ClusterAffinityBonus, text: "Popular with people who answered like you"})
		}
	}

	return domain.Score{
		BeverageID:    b.ID,
		Name:          b.Name,
		Category:      b.Category,
		Probability:   e.clamp(p),
		Factors:       topFactors(factors, int(e.cfg.MaxFactors)),
		IsSoda:        b.IsRealSoda,
		IsAlternative: !b.IsRealSoda,
		ClusterID:     cluster,
		PriceAnomaly:  priceAnomaly,
		Tags:          tags,
	}, nil
}

// CollaborativeBonus is the tier bonus for stats scaled by a confidence that
// ramps linearly from 0 at no ratings to 1 at MaxConfidenceRatings.
func (e *Engine) CollaborativeBonus(stats domain.RatingStats) float64 {
	if stats.Count <= 0 {
		return 0
	}
	confidence := math.Min(float64(stats.Count)/e.cfg.MaxConfidenceRatings, 1)

	var tier float64
	switch {
	case stats.Average >= e.cfg.HighRatingThreshold:
		tier = e.cfg.HighRatingBonus
	case stats.Average >= e.cfg.GoodRatingThreshold:
		tier = e.cfg.GoodRatingBonus
	case stats.Average >= e.cfg.RegularRatingThreshold:
		tier = e.cfg.RegularRatingBonus
	case stats.Average < e.cfg.LowRatingThreshold:
		tier = e.cfg.LowRatingPenalty
	}
	return tier * confidence
}

// ScoreSession scores the whole catalog for one set of answers and returns it
// ranked by probability. Beverages that fail feature extraction are left out
// and reported as exclusions.
func (e *Engine) ScoreSession(answers []domain.QuizAnswer, catalog []domain.Beverage, ratings RatingIndex, snap *segmenter.Snapshot) ([]domain.Score, []Exclusion) {
	av := features.ExtractAnswers(answers)
	segment := features.UserSegment(av)

	scores := make([]domain.Score, 0, len(catalog))
	var excluded []Exclusion
	for _, b := range catalog {
		stats, ok := ratings[b.ID]
		if !ok {
			stats = b.Stats()
		}
		s, err := e.Score(av, segment, b, stats, snap)
		if err != nil {
			ExcludedBeveragesTotal.Inc()
			excluded = append(excluded, Exclusion{BeverageID: b.ID, Name: b.Name, Err: err})
			continue
		}
		scores = append(scores, s)
	}
	Rank(scores)
	return scores, excluded
}

// Rank orders scores by probability, highest first, breaking ties by id.
func Rank(scores []domain.Score) {
	slices.SortStableFunc(scores, func(a, b domain.Score) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		return cmp.Compare(a.BeverageID, b.BeverageID)
	})
}

func (e *Engine) clamp(p float64) float64 {
	if math.IsNaN(p) {
		return e.cfg.MinProbability
	}
	return math.Max(e.cfg.MinProbability, math.Min(e.cfg.MaxProbability, p))
}

func topFactors(fs []factor, limit int) []string {
	slices.SortStableFunc(fs, func(a, b factor) int {
		return cmp.Compare(math.Abs(b.delta), math.Abs(a.delta))
	})
	if limit >= 0 && len(fs) > limit {
		fs = fs[:limit]
	}
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.text
	}
	return out
}

func collaborativeFactor(bonus float64, stats domain.RatingStats) string {
	if bonus < 0 {
		return fmt.Sprintf("Low community rating (%.1f from %d ratings)", stats.Average, stats.Count)
	}
	return fmt.Sprintf("Rated %.1f by %d people", stats.Average, stats.Count)
}
