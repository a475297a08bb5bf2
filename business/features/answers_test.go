//go:build !integration

package features

import (
	"testing"

	"refrescobot/domain"
)

func TestExtractAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.QuizAnswer
		check   func(t *testing.T, av AnswerVector)
	}{
		{
			name:    "empty set is neutral everywhere",
			answers: nil,
			check: func(t *testing.T, av AnswerVector) {
				for s := SlotConsumption; s <= SlotHealth; s++ {
					if av.Values[s] != Neutral || av.Has(s) {
						t.Errorf("slot %d = %v known=%v, want neutral", s, av.Values[s], av.Has(s))
					}
				}
			},
		},
		{
			name: "ordinal scale by category",
			answers: []domain.QuizAnswer{
				{QuestionID: "q2", Category: "fisico", ValueToken: "muy_activo"},
				{QuestionID: "q3", Category: "preferencias_dulzura", ValueToken: "natural"},
			},
			check: func(t *testing.T, av AnswerVector) {
				if !av.Is(SlotActivity, 4) {
					t.Errorf("activity = %v, want 4", av.Values[SlotActivity])
				}
				if !av.Is(SlotSweetness, 0) {
					t.Errorf("sweetness = %v, want 0", av.Values[SlotSweetness])
				}
				if av.Values[SlotHealthScore] != 4 {
					t.Errorf("health score = %v, want 4", av.Values[SlotHealthScore])
				}
			},
		},
		{
			name: "ambiguous ordinal word only counts under its category",
			answers: []domain.QuizAnswer{
				{QuestionID: "q5", Category: "aventurero", ValueToken: "moderado"},
			},
			check: func(t *testing.T, av AnswerVector) {
				if av.Has(SlotActivity) || av.Has(SlotHealth) {
					t.Error("moderado leaked into another slot")
				}
				if !av.Is(SlotAdventure, 2) {
					t.Errorf("adventure = %v, want 2", av.Values[SlotAdventure])
				}
			},
		},
		{
			name: "semantic tokens",
			answers: []domain.QuizAnswer{
				{QuestionID: "q1", Category: "consumo_base", ValueToken: "no_consume_refrescos"},
				{QuestionID: "q4", ValueToken: "prioridad_salud"},
				{QuestionID: "q6", Category: "estado_animo", ValueToken: "estresante"},
			},
			check: func(t *testing.T, av AnswerVector) {
				if !av.Is(SlotConsumption, 0) {
					t.Errorf("consumption = %v, want 0", av.Values[SlotConsumption])
				}
				if !av.Is(SlotHealth, 4) {
					t.Errorf("health = %v, want 4", av.Values[SlotHealth])
				}
				if !av.Is(SlotEnergyNeed, 4) {
					t.Errorf("energy need = %v, want 4", av.Values[SlotEnergyNeed])
				}
			},
		},
		{
			name: "unknown tokens stay neutral",
			answers: []domain.QuizAnswer{
				{QuestionID: "q9", Category: "fisico", ValueToken: "flying"},
				{QuestionID: "q10", ValueToken: "???"},
			},
			check: func(t *testing.T, av AnswerVector) {
				if av.Has(SlotActivity) || av.Values[SlotActivity] != Neutral {
					t.Errorf("activity = %v, want neutral", av.Values[SlotActivity])
				}
			},
		},
		{
			name: "first answer for a slot wins",
			answers: []domain.QuizAnswer{
				{QuestionID: "q2", Category: "fisico", ValueToken: "sedentario"},
				{QuestionID: "q12", ValueToken: "actividad_intensa"},
			},
			check: func(t *testing.T, av AnswerVector) {
				if !av.Is(SlotActivity, 1) {
					t.Errorf("activity = %v, want 1", av.Values[SlotActivity])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ExtractAnswers(tt.answers))
		})
	}
}

func TestUserSegment(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.QuizAnswer
		want    int
	}{
		{
			name: "sweet and sedentary is traditional",
			answers: []domain.QuizAnswer{
				{Category: "preferencias_dulzura", ValueToken: "muy_dulce"},
				{Category: "fisico", ValueToken: "sedentario"},
			},
			want: SegmentTraditional,
		},
		{
			name: "active and natural is healthy",
			answers: []domain.QuizAnswer{
				{Category: "fisico", ValueToken: "activo"},
				{ValueToken: "cero_azucar_natural"},
			},
			want: SegmentHealthy,
		},
		{
			name:    "busy is energetic",
			answers: []domain.QuizAnswer{{Category: "estado_animo", ValueToken: "ocupado"}},
			want:    SegmentEnergetic,
		},
		{
			name:    "adventurous",
			answers: []domain.QuizAnswer{{Category: "aventurero", ValueToken: "muy_aventurero"}},
			want:    SegmentAdventurous,
		},
		{
			name: "nothing matches",
			want: SegmentConservative,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserSegment(ExtractAnswers(tt.answers)); got != tt.want {
				t.Errorf("UserSegment = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectUserType(t *testing.T) {
	lat := func(secs ...float64) []domain.QuizAnswer {
		out := make([]domain.QuizAnswer, len(secs))
		for i, s := range secs {
			out[i] = domain.QuizAnswer{ValueToken: "consume_ocasional", LatencySeconds: s}
		}
		return out
	}
	pos := func(ps ...int) []domain.QuizAnswer {
		out := make([]domain.QuizAnswer, len(ps))
		for i, p := range ps {
			out[i] = domain.QuizAnswer{ValueToken: "consume_ocasional", Position: p, LatencySeconds: 6}
		}
		return out
	}

	tests := []struct {
		name    string
		answers []domain.QuizAnswer
		want    string
	}{
		{"non consumer first", []domain.QuizAnswer{{ValueToken: "no_consume_refrescos", LatencySeconds: 0.5}}, UserTypeNoConsumer},
		{"rejects sodas first", []domain.QuizAnswer{{ValueToken: "rechaza_refrescos"}}, UserTypeNoConsumer},
		{"too fast", lat(1, 1.5, 1, 8), UserTypeTest},
		{"low mean", lat(2.5, 2.5, 3), UserTypeTest},
		{"two latencies are not enough", lat(0.5, 0.5), UserTypeRegular},
		{"human pace", lat(4, 6, 2.5, 9), UserTypeRegular},
		{"same position", pos(2, 2, 2, 2), UserTypeTest},
		{"ascending positions", pos(1, 2, 3, 4, 5), UserTypeTest},
		{"descending positions", pos(5, 4, 3, 1), UserTypeTest},
		{"mixed positions", pos(1, 3, 2, 4), UserTypeRegular},
		{"three positions", pos(1, 2, 3), UserTypeRegular},
		{"empty", nil, UserTypeRegular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectUserType(tt.answers); got != tt.want {
				t.Errorf("DetectUserType = %q, want %q", got, tt.want)
			}
		})
	}
}
