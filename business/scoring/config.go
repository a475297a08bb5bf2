package scoring

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Config struct {
	BaseProbability float64 `json:"base_probability" yaml:"base_probability"`
	MinProbability  float64 `json:"min_probability" yaml:"min_probability"`
	MaxProbability  float64 `json:"max_probability" yaml:"max_probability"`

	// answer/beverage affinity deltas, in probability points
	DeltaStrong   float64 `json:"delta_strong" yaml:"delta_strong"`
	DeltaMedium   float64 `json:"delta_medium" yaml:"delta_medium"`
	DeltaMild     float64 `json:"delta_mild" yaml:"delta_mild"`
	PenaltyStrong float64 `json:"penalty_strong" yaml:"penalty_strong"`
	PenaltyMild   float64 `json:"penalty_mild" yaml:"penalty_mild"`

	// collaborative tiers on the community average (1..5)
	HighRatingThreshold    float64 `json:"high_rating_threshold" yaml:"high_rating_threshold"`
	GoodRatingThreshold    float64 `json:"good_rating_threshold" yaml:"good_rating_threshold"`
	RegularRatingThreshold float64 `json:"regular_rating_threshold" yaml:"regular_rating_threshold"`
	LowRatingThreshold     float64 `json:"low_rating_threshold" yaml:"low_rating_threshold"`
	HighRatingBonus        float64 `json:"high_rating_bonus" yaml:"high_rating_bonus"`
	GoodRatingBonus        float64 `json:"good_rating_bonus" yaml:"good_rating_bonus"`
	RegularRatingBonus     float64 `json:"regular_rating_bonus" yaml:"regular_rating_bonus"`
	LowRatingPenalty       float64 `json:"low_rating_penalty" yaml:"low_rating_penalty"`

	// rating count at which collaborative confidence reaches 1
	MaxConfidenceRatings float64 `json:"max_confidence_ratings" yaml:"max_confidence_ratings"`

	ClusterAffinityBonus float64 `json:"cluster_affinity_bonus" yaml:"cluster_affinity_bonus"`

	MaxFactors float64 `json:"max_factors" yaml:"max_factors"`
}

const (
	defaultBaseProbability        = 50.0
	defaultMinProbability         = 5.0
	defaultMaxProbability         = 95.0
	defaultDeltaStrong            = 15.0
	defaultDeltaMedium            = 10.0
	defaultDeltaMild              = 6.0
	defaultPenaltyStrong          = -12.0
	defaultPenaltyMild            = -8.0
	defaultHighRatingThreshold    = 4.5
	defaultGoodRatingThreshold    = 4.0
	defaultRegularRatingThreshold = 3.5
	defaultLowRatingThreshold     = 2.5
	defaultHighRatingBonus        = 15.0
	defaultGoodRatingBonus        = 10.0
	defaultRegularRatingBonus     = 5.0
	defaultLowRatingPenalty       = -8.0
	defaultMaxConfidenceRatings   = 10
	defaultClusterAffinityBonus   = 5.0
	defaultMaxFactors             = 3
)

func DefaultConfig() Config {
	return Config{
		BaseProbability: defaultBaseProbability,
		MinProbability:  defaultMinProbability,
		MaxProbability:  defaultMaxProbability,

		DeltaStrong:   defaultDeltaStrong,
		DeltaMedium:   defaultDeltaMedium,
		DeltaMild:     defaultDeltaMild,
		PenaltyStrong: defaultPenaltyStrong,
		PenaltyMild:   defaultPenaltyMild,

		HighRatingThreshold:    defaultHighRatingThreshold,
		GoodRatingThreshold:    defaultGoodRatingThreshold,
		RegularRatingThreshold: defaultRegularRatingThreshold,
		LowRatingThreshold:     defaultLowRatingThreshold,
		HighRatingBonus:        defaultHighRatingBonus,
		GoodRatingBonus:        defaultGoodRatingBonus,
		RegularRatingBonus:     defaultRegularRatingBonus,
		LowRatingPenalty:       defaultLowRatingPenalty,
		MaxConfidenceRatings:   defaultMaxConfidenceRatings,

		ClusterAffinityBonus: defaultClusterAffinityBonus,
		MaxFactors:           defaultMaxFactors,
	}
}

func (c Config) Validate() error {
	if c.MinProbability > c.MaxProbability {
		return fmt.Errorf("min_probability %.1f > max_probability %.1f", c.MinProbability, c.MaxProbability)
	}
	if c.MinProbability < 0 || c.MaxProbability > 100 {
		return errors.New("probability bounds must lie within [0, 100]")
	}
	if c.MaxConfidenceRatings <= 0 {
		return errors.New("max_confidence_ratings must be > 0")
	}
	if !(c.HighRatingThreshold >= c.GoodRatingThreshold && c.GoodRatingThreshold >= c.RegularRatingThreshold && c.RegularRatingThreshold >= c.LowRatingThreshold) {
		return errors.New("rating thresholds must be ordered high >= good >= regular >= low")
	}
	if c.MaxFactors < 0 {
		return errors.New("max_factors must be >= 0")
	}
	return nil
}

func (c *Config) fields() map[string]*float64 {
	return map[string]*float64{
		"base_probability":         &c.BaseProbability,
		"min_probability":          &c.MinProbability,
		"max_probability":          &c.MaxProbability,
		"delta_strong":             &c.DeltaStrong,
		"delta_medium":             &c.DeltaMedium,
		"delta_mild":               &c.DeltaMild,
		"penalty_strong":           &c.PenaltyStrong,
		"penalty_mild":             &c.PenaltyMild,
		"high_rating_threshold":    &c.HighRatingThreshold,
		"good_rating_threshold":    &c.GoodRatingThreshold,
		"regular_rating_threshold": &c.RegularRatingThreshold,
		"low_rating_threshold":     &c.LowRatingThreshold,
		"high_rating_bonus":        &c.HighRatingBonus,
		"good_rating_bonus":        &c.GoodRatingBonus,
		"regular_rating_bonus":     &c.RegularRatingBonus,
		"low_rating_penalty":       &c.LowRatingPenalty,
		"max_confidence_ratings":   &c.MaxConfidenceRatings,
		"cluster_affinity_bonus":   &c.ClusterAffinityBonus,
		"max_factors":              &c.MaxFactors,
	}
}

// Keys lists every overridable field name.
func Keys() []string {
	var c Config
	keys := make([]string, 0, 19)
	for k := range c.fields() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// WithOverrides returns a copy of c with the given fields replaced. Unknown
// keys and an invalid result are errors; c itself is never modified.
func (c Config) WithOverrides(overrides map[string]float64) (Config, error) {
	out := c
	fields := out.fields()
	var unknown []string
	for k, v := range overrides {
		f, ok := fields[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		*f = v
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return c, fmt.Errorf("unknown scoring keys: %s", strings.Join(unknown, ", "))
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}
