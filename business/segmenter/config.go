package segmenter

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	// k-means
	Clusters      int     `yaml:"clusters"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`

	// density grouping on standardized vectors
	DensityEps        float64 `yaml:"density_eps"`
	DensityMinSamples int     `yaml:"density_min_samples"`

	// isolation forest over (volume, price, price per ml)
	AnomalyTrees         int     `yaml:"anomaly_trees"`
	AnomalySampleSize    int     `yaml:"anomaly_sample_size"`
	AnomalyContamination float64 `yaml:"anomaly_contamination"`

	MinTrainingSamples int           `yaml:"min_training_samples"`
	RetrainThreshold   int           `yaml:"retrain_threshold"`
	TrainTimeout       time.Duration `yaml:"train_timeout"`

	// segment x cluster mean rating needed for an affinity hit
	AffinityMinRating  float64 `yaml:"affinity_min_rating"`
	AffinityMinSamples int     `yaml:"affinity_min_samples"`

	Seed int64 `yaml:"seed"`
}

const (
	defaultClusters             = 5
	defaultMaxIterations        = 100
	defaultTolerance            = 1e-4
	defaultDensityEps           = 2.5
	defaultDensityMinSamples    = 2
	defaultAnomalyTrees         = 100
	defaultAnomalySampleSize    = 256
	defaultAnomalyContamination = 0.1
	defaultMinTrainingSamples   = 10
	defaultRetrainThreshold     = 5
	defaultTrainTimeout         = 30 * time.Second
	defaultAffinityMinRating    = 4.0
	defaultAffinityMinSamples   = 2
	defaultSeed                 = 42
)

func DefaultConfig() Config {
	return Config{
		Clusters:             defaultClusters,
		MaxIterations:        defaultMaxIterations,
		Tolerance:            defaultTolerance,
		DensityEps:           defaultDensityEps,
		DensityMinSamples:    defaultDensityMinSamples,
		AnomalyTrees:         defaultAnomalyTrees,
		AnomalySampleSize:    defaultAnomalySampleSize,
		AnomalyContamination: defaultAnomalyContamination,
		MinTrainingSamples:   defaultMinTrainingSamples,
		RetrainThreshold:     defaultRetrainThreshold,
		TrainTimeout:         defaultTrainTimeout,
		AffinityMinRating:    defaultAffinityMinRating,
		AffinityMinSamples:   defaultAffinityMinSamples,
		Seed:                 defaultSeed,
	}
}

func (c Config) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("clusters must be >= 1, got %d", c.Clusters)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.DensityEps <= 0 || c.DensityMinSamples < 1 {
		return errors.New("density_eps must be > 0 and density_min_samples >= 1")
	}
	if c.AnomalyTrees < 1 || c.AnomalySampleSize < 2 {
		return errors.New("anomaly_trees must be >= 1 and anomaly_sample_size >= 2")
	}
	if c.AnomalyContamination <= 0 || c.AnomalyContamination >= 0.5 {
		return fmt.Errorf("anomaly_contamination must be in (0, 0.5), got %.3f", c.AnomalyContamination)
	}
	if c.MinTrainingSamples < 1 || c.RetrainThreshold < 1 {
		return errors.New("min_training_samples and retrain_threshold must be >= 1")
	}
	if c.TrainTimeout <= 0 {
		return errors.New("train_timeout must be > 0")
	}
	return nil
}
