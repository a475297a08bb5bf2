package scoring

import (
	"slices"

	f "refrescobot/business/features"
	"refrescobot/domain"
)

type beverageView struct {
	domain.Beverage
	tags []string
}

func (b beverageView) hasTag(tags ...string) bool {
	for _, t := range tags {
		if slices.Contains(b.tags, t) {
			return true
		}
	}
	return false
}

func (b beverageView) calories(tiers ...string) bool {
	return slices.Contains(tiers, b.CalorieTier)
}

func (b beverageView) category(cats ...string) bool {
	return slices.Contains(cats, b.Category)
}

// affinityRule pairs an answer pattern with a beverage attribute. Every rule
// whose predicate holds contributes its delta and factor.
type affinityRule struct {
	name   string
	when   func(av f.AnswerVector, b beverageView) bool
	delta  func(c Config) float64
	factor string
}

func strong(c Config) float64 { return c.DeltaStrong }
func medium(c Config) float64 { return c.DeltaMedium }
func mild(c Config) float64 { return c.DeltaMild }
func penalty(c Config) float64 { return c.PenaltyStrong }
func smallPenalty(c Config) float64 { return c.PenaltyMild }

var affinityRules = []affinityRule{
	{
		name:   "active_energizing",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotActivity, 3) && b.IsEnergizing },
		delta:  medium,
		factor: "Energizing pick for your active day",
	},
	{
		name: "active_alternative",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.AtLeast(f.SlotActivity, 3) && !b.IsRealSoda && !b.IsEnergizing
		},
		delta:  mild,
		factor: "Light alternative that suits an active lifestyle",
	},
	{
		name: "active_very_sweet",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.AtLeast(f.SlotActivity, 3) && b.IsRealSoda && b.SweetnessLevel >= 8
		},
		delta:  smallPenalty,
		factor: "Very sweet for an active day",
	},
	{
		name:   "active_hydrating",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotActivity, 3) && b.hasTag("hidratante") },
		delta:  mild,
		factor: "Hydrating after exercise",
	},
	{
		name:   "sweet_tooth",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotSweetness, 4) && b.SweetnessLevel >= 8 },
		delta:  strong,
		factor: "Matches your taste for very sweet drinks",
	},
	{
		name:   "sweet_tooth_bland",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotSweetness, 4) && b.SweetnessLevel <= 3 },
		delta:  smallPenalty,
		factor: "Less sweet than you like",
	},
	{
		name: "moderately_sweet",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.Is(f.SlotSweetness, 3) && b.SweetnessLevel >= 6 && b.SweetnessLevel <= 8
		},
		delta:  mild,
		factor: "Sweet, the way you like it",
	},
	{
		name: "balanced_sweetness",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.Is(f.SlotSweetness, 2) && b.SweetnessLevel >= 4 && b.SweetnessLevel <= 6
		},
		delta:  medium,
		factor: "Balanced sweetness",
	},
	{
		name:   "natural_low_sugar",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotSweetness, 0) && b.SweetnessLevel <= 3 },
		delta:  strong,
		factor: "Low in sugar, as you prefer",
	},
	{
		name:   "natural_too_sweet",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotSweetness, 0) && b.SweetnessLevel >= 7 },
		delta:  penalty,
		factor: "Too sweet for your preference",
	},
	{
		name:   "health_alternative",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotHealth, 4) && !b.IsRealSoda },
		delta:  strong,
		factor: "Fits your health priorities",
	},
	{
		name:   "health_high_calorie",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotHealth, 4) && b.calories("alto") },
		delta:  penalty,
		factor: "High in calories",
	},
	{
		name: "health_low_calorie",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.AtLeast(f.SlotHealth, 3) && b.calories("cero", "muy_bajo")
		},
		delta:  mild,
		factor: "Zero or very low calories",
	},
	{
		name:   "energy_need",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotEnergyNeed, 4) && b.IsEnergizing },
		delta:  medium,
		factor: "Energy boost for a busy day",
	},
	{
		name:   "energy_need_tea",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotEnergyNeed, 4) && b.category("tes") },
		delta:  mild,
		factor: "A calm tea for a hectic day",
	},
	{
		name:   "morning_energizing",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotTimeOfDay, 4) && b.IsEnergizing },
		delta:  mild,
		factor: "Good morning kick",
	},
	{
		name:   "morning_fresh",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotTimeOfDay, 4) && b.category("agua", "jugos") },
		delta:  mild,
		factor: "Fresh start to the morning",
	},
	{
		name:   "skips_sodas",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.Is(f.SlotConsumption, 0) && b.IsRealSoda },
		delta:  penalty,
		factor: "You told us you skip sodas",
	},
	{
		name:   "soda_regular",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotConsumption, 3) && b.IsRealSoda },
		delta:  mild,
		factor: "One for a regular soda drinker",
	},
	{
		name:   "adventurous_premium",
		when:   func(av f.AnswerVector, b beverageView) bool { return av.AtLeast(f.SlotAdventure, 3) && b.hasTag("premium") },
		delta:  mild,
		factor: "Something different to try",
	},
	{
		name: "conservative_classic",
		when: func(av f.AnswerVector, b beverageView) bool {
			return av.AtMost(f.SlotAdventure, 1) && b.hasTag("clasico", "tradicional")
		},
		delta:  mild,
		factor: "A classic you already know",
	},
}
