//go:build !integration

package scoring

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"refrescobot/business/categorizer"
	"refrescobot/business/features"
	"refrescobot/business/segmenter"
	"refrescobot/domain"

	"gorm.io/datatypes"
)

func answers(tokens ...string) []domain.QuizAnswer {
	out := make([]domain.QuizAnswer, len(tokens))
	for i, tok := range tokens {
		out[i] = domain.QuizAnswer{QuestionID: fmt.Sprintf("q%d", i+1), ValueToken: tok, Position: i + 1}
	}
	return out
}

func cola(id uint64) domain.Beverage {
	return domain.Beverage{
		ID:             id,
		Name:           "Cola Original",
		Description:    "Refresco de cola clásico",
		Category:       "cola",
		IsRealSoda:     true,
		SweetnessLevel: 9,
		IsEnergizing:   true,
		CalorieTier:    "alto",
		Presentations: []domain.Presentation{
			{ID: id * 10, VolumeML: 355, Price: 15},
			{ID: id*10 + 1, VolumeML: 600, Price: 22},
		},
	}
}

func water(id uint64) domain.Beverage {
	return domain.Beverage{
		ID:             id,
		Name:           "Agua Natural",
		Description:    "Agua purificada sin azúcar",
		Category:       "agua",
		SweetnessLevel: 0,
		CalorieTier:    "cero",
		Presentations: []domain.Presentation{
			{ID: id * 10, VolumeML: 1000, Price: 12},
		},
	}
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	return New(cfg, categorizer.New(categorizer.DefaultConfig()))
}

func TestScore_ClampHolds(t *testing.T) {
	tokens := []string{
		"ama_refrescos", "no_consume_refrescos", "actividad_intensa", "trabajo_sedentario",
		"cero_azucar_natural", "experiencia_placer", "cafeina_positiva", "experiencia_relajacion",
		"prioridad_salud", "prioridad_sabor", "refrescos_tradicionales", "desconocido",
	}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		cfg := DefaultConfig()
		cfg.DeltaStrong = rng.Float64()*400 - 200
		cfg.DeltaMedium = rng.Float64()*400 - 200
		cfg.DeltaMild = rng.Float64()*400 - 200
		cfg.PenaltyStrong = rng.Float64()*400 - 200
		cfg.PenaltyMild = rng.Float64()*400 - 200
		cfg.HighRatingBonus = rng.Float64() * 300
		cfg.LowRatingPenalty = -rng.Float64() * 300
		cfg.ClusterAffinityBonus = rng.Float64() * 100
		e := newEngine(t, cfg)

		var picked []string
		for _, tok := range tokens {
			if rng.Intn(3) == 0 {
				picked = append(picked, tok)
			}
		}
		ratings := RatingIndex{
			1: {Average: rng.Float64()*4 + 1, Count: rng.Intn(30)},
			2: {Average: rng.Float64()*4 + 1, Count: rng.Intn(30)},
		}
		scores, _ := e.ScoreSession(answers(picked...), []domain.Beverage{cola(1), water(2)}, ratings, nil)
		for _, s := range scores {
			if s.Probability < cfg.MinProbability || s.Probability > cfg.MaxProbability {
				t.Fatalf("iteration %d: probability %v outside [%v, %v]", i, s.Probability, cfg.MinProbability, cfg.MaxProbability)
			}
		}
	}
}

func TestCollaborativeBonus(t *testing.T) {
	e := newEngine(t, DefaultConfig())

	tests := []struct {
		name  string
		stats domain.RatingStats
		want  float64
	}{
		{"no ratings", domain.RatingStats{Average: 5, Count: 0}, 0},
		{"default average no ratings", domain.RatingStats{Average: 3, Count: 0}, 0},
		{"high saturated", domain.RatingStats{Average: 4.6, Count: 12}, 15},
		{"high half confidence", domain.RatingStats{Average: 4.8, Count: 5}, 7.5},
		{"good", domain.RatingStats{Average: 4.2, Count: 10}, 10},
		{"regular", domain.RatingStats{Average: 3.6, Count: 10}, 5},
		{"neutral band", domain.RatingStats{Average: 3.0, Count: 10}, 0},
		{"low", domain.RatingStats{Average: 1.5, Count: 20}, -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CollaborativeBonus(tt.stats); got != tt.want {
				t.Errorf("CollaborativeBonus(%+v) = %v, want %v", tt.stats, got, tt.want)
			}
		})
	}
}

func TestScore_WellRatedBeatsUnrated(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	av := features.ExtractAnswers(answers("consume_ocasional"))
	seg := features.UserSegment(av)

	rated, err := e.Score(av, seg, water(1), domain.RatingStats{Average: 4.6, Count: 12}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	unrated, err := e.Score(av, seg, water(2), domain.RatingStats{}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if rated.Probability <= unrated.Probability {
		t.Fatalf("rated %v should beat unrated %v", rated.Probability, unrated.Probability)
	}
}

func TestScore_FactorsCappedByMagnitude(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	av := features.ExtractAnswers([]domain.QuizAnswer{
		{QuestionID: "q1", ValueToken: "consume_frecuente"},
		{QuestionID: "q2", ValueToken: "actividad_intensa"},
		{QuestionID: "q3", ValueToken: "cafeina_positiva"},
		{QuestionID: "q4", Category: "temporal", ValueToken: "manana"},
	})

	s, err := e.Score(av, features.UserSegment(av), cola(1), domain.RatingStats{}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// +10 energizing, -8 very sweet, +10 energy need, +6 morning, +6 regular
	if s.Probability != 74 {
		t.Errorf("Probability = %v, want 74", s.Probability)
	}
	want := []string{
		"Energizing pick for your active day",
		"Energy boost for a busy day",
		"Very sweet for an active day",
	}
	if !slices.Equal(s.Factors, want) {
		t.Errorf("Factors = %q, want %q", s.Factors, want)
	}
	if !s.IsSoda || s.IsAlternative {
		t.Errorf("IsSoda/IsAlternative = %v/%v", s.IsSoda, s.IsAlternative)
	}
	if s.ClusterID != segmenter.Untrained {
		t.Errorf("ClusterID = %d without a model, want Untrained", s.ClusterID)
	}
}

func TestScoreSession_ExcludesMalformed(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	nameless := cola(3)
	nameless.Name = ""
	negative := water(4)
	negative.Presentations[0].Price = -1
	nan := water(5)
	nan.Presentations[0].Price = math.NaN()

	scores, excluded := e.ScoreSession(answers("ama_refrescos"), []domain.Beverage{cola(1), nameless, water(2), negative, nan}, nil, nil)

	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	if len(excluded) != 2 || excluded[0].BeverageID != 4 || excluded[1].BeverageID != 5 {
		t.Fatalf("excluded = %+v, want beverages 4 and 5", excluded)
	}
	kept := false
	for _, sc := range scores {
		kept = kept || sc.BeverageID == 3
	}
	if !kept {
		t.Fatal("nameless beverage was dropped instead of scored")
	}
	if scores[0].Probability < scores[1].Probability {
		t.Errorf("scores not ranked: %v < %v", scores[0].Probability, scores[1].Probability)
	}
}

func TestScoreSession_FallsBackToStoredStats(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	stored := water(1)
	stored.AverageRating, stored.RatingCount = 4.9, 20
	plain := water(2)

	scores, _ := e.ScoreSession(nil, []domain.Beverage{plain, stored}, RatingIndex{}, nil)
	if scores[0].BeverageID != 1 {
		t.Fatalf("top beverage = %d, want the well rated one", scores[0].BeverageID)
	}

	// the live index wins over the row
	scores, _ = e.ScoreSession(nil, []domain.Beverage{plain, stored}, RatingIndex{1: {Average: 1, Count: 20}}, nil)
	if scores[0].BeverageID != 2 {
		t.Fatalf("top beverage = %d, want the unpenalised one", scores[0].BeverageID)
	}
}

func TestScore_ClusterAffinity(t *testing.T) {
	flat := DefaultConfig()
	flat.DeltaStrong, flat.DeltaMedium, flat.DeltaMild = 0, 0, 0
	flat.PenaltyStrong, flat.PenaltyMild = 0, 0
	e := newEngine(t, flat)

	var catalog []domain.Beverage
	for i := uint64(1); i <= 6; i++ {
		catalog = append(catalog, cola(i), water(i+100))
	}
	healthy := []domain.QuizAnswer{
		{QuestionID: "q1", Category: "fisico", ValueToken: "activo"},
		{QuestionID: "q2", ValueToken: "cero_azucar_natural"},
	}
	var samples []domain.TrainingSample
	for i, b := range catalog {
		samples = append(samples, domain.TrainingSample{
			ID:         fmt.Sprintf("s-%d", i),
			BeverageID: b.ID,
			Answers:    datatypes.JSONSlice[domain.QuizAnswer](healthy),
			Beverage:   datatypes.NewJSONType(b),
			Rating:     5,
		})
	}
	segCfg := segmenter.DefaultConfig()
	segCfg.Clusters = 2
	segCfg.AffinityMinSamples = 1
	snap, err := segmenter.New(segCfg).Fit(context.Background(), catalog, samples)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	av := features.ExtractAnswers(healthy)
	seg := features.UserSegment(av)
	if seg != features.SegmentHealthy {
		t.Fatalf("segment = %d, want healthy", seg)
	}

	withModel, err := e.Score(av, seg, water(101), domain.RatingStats{}, snap)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	without, err := e.Score(av, seg, water(101), domain.RatingStats{}, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if without.Probability != 50 {
		t.Errorf("untrained probability = %v, want base 50", without.Probability)
	}
	if withModel.Probability != 55 {
		t.Errorf("trained probability = %v, want 55", withModel.Probability)
	}
	if withModel.ClusterID == segmenter.Untrained {
		t.Error("trained score has no cluster")
	}

	// a segment with no history gets no nudge
	other, _ := e.Score(av, features.SegmentTraditional, water(101), domain.RatingStats{}, snap)
	if other.Probability != 50 {
		t.Errorf("traditional probability = %v, want 50", other.Probability)
	}
}

func TestConfig_WithOverrides(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name      string
		overrides map[string]float64
		check     func(Config) bool
		wantError bool
	}{
		{
			name:      "applies known key",
			overrides: map[string]float64{"base_probability": 40, "max_factors": 2},
			check:     func(c Config) bool { return c.BaseProbability == 40 && c.MaxFactors == 2 },
		},
		{
			name:      "unknown key",
			overrides: map[string]float64{"nope": 1},
			wantError: true,
		},
		{
			name:      "invalid result",
			overrides: map[string]float64{"min_probability": 90, "max_probability": 10},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.WithOverrides(tt.overrides)
			if (err != nil) != tt.wantError {
				t.Fatalf("WithOverrides() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.check != nil && !tt.check(got) {
				t.Errorf("WithOverrides() = %+v", got)
			}
			if base.BaseProbability != defaultBaseProbability {
				t.Error("receiver was modified")
			}
		})
	}

	if len(Keys()) != 19 {
		t.Errorf("Keys() has %d entries, want 19", len(Keys()))
	}
}
