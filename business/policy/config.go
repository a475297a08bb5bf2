package policy

import "fmt"

type Config struct {
	InitialSodas        int `yaml:"initial_sodas"`
	InitialAlternatives int `yaml:"initial_alternatives"`

	NonConsumerCap   int `yaml:"non_consumer_cap"`
	HealthLeaningCap int `yaml:"health_leaning_cap"`
	TraditionalCap   int `yaml:"traditional_cap"`
	MixedCap         int `yaml:"mixed_cap"`
}

const (
	defaultInitialSodas        = 3
	defaultInitialAlternatives = 3
	defaultNonConsumerCap      = 4
	defaultHealthLeaningCap    = 3
	defaultTraditionalCap      = 3
	defaultMixedCap            = 3
)

func DefaultConfig() Config {
	return Config{
		InitialSodas:        defaultInitialSodas,
		InitialAlternatives: defaultInitialAlternatives,
		NonConsumerCap:      defaultNonConsumerCap,
		HealthLeaningCap:    defaultHealthLeaningCap,
		TraditionalCap:      defaultTraditionalCap,
		MixedCap:            defaultMixedCap,
	}
}

func (c Config) Validate() error {
	for name, v := range map[string]int{
		"initial_sodas":        c.InitialSodas,
		"initial_alternatives": c.InitialAlternatives,
		"non_consumer_cap":     c.NonConsumerCap,
		"health_leaning_cap":   c.HealthLeaningCap,
		"traditional_cap":      c.TraditionalCap,
		"mixed_cap":            c.MixedCap,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", name, v)
		}
	}
	return nil
}

// Cap is the page size for a pagination user type.
func (c Config) Cap(userType string) int {
	switch userType {
	case UserTypeNonConsumer:
		return c.NonConsumerCap
	case UserTypeHealthLeaning:
		return c.HealthLeaningCap
	case UserTypeTraditional:
		return c.TraditionalCap
	default:
		return c.MixedCap
	}
}
