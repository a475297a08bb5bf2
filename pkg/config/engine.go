package config

import (
	"errors"
	"fmt"
	"os"

	"refrescobot/business/categorizer"
	"refrescobot/business/policy"
	"refrescobot/business/scoring"
	"refrescobot/business/segmenter"

	"gopkg.in/yaml.v3"
)

// Engine is the tuning file. Sections missing from the file keep the
// package defaults; keys missing from a section keep their default value.
type Engine struct {
	Scoring     scoring.Config     `yaml:"scoring"`
	Segmenter   segmenter.Config   `yaml:"segmenter"`
	Policy      policy.Config      `yaml:"policy"`
	Categorizer categorizer.Config `yaml:"categorizer"`
	// SimilarLimit is the default result size of the similar-beverages lookup.
	SimilarLimit int `yaml:"similar_limit"`
}

func DefaultEngine() Engine {
	return Engine{
		Scoring:      scoring.DefaultConfig(),
		Segmenter:    segmenter.DefaultConfig(),
		Policy:       policy.DefaultConfig(),
		Categorizer:  categorizer.DefaultConfig(),
		SimilarLimit: 5,
	}
}

// LoadEngine reads the tuning file at path over DefaultEngine. An empty path
// returns the defaults.
func LoadEngine(path string) (Engine, error) {
	eng := DefaultEngine()
	if path == "" {
		return eng, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Engine{}, fmt.Errorf("failed to open engine config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&eng); err != nil {
		return Engine{}, fmt.Errorf("failed to decode engine config file: %w", err)
	}

	if err := eng.Validate(); err != nil {
		return Engine{}, err
	}
	return eng, nil
}

func (e Engine) Validate() error {
	if err := e.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := e.Segmenter.Validate(); err != nil {
		return fmt.Errorf("segmenter: %w", err)
	}
	if err := e.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if err := e.Categorizer.Validate(); err != nil {
		return fmt.Errorf("categorizer: %w", err)
	}
	if e.SimilarLimit < 1 {
		return errors.New("similar_limit must be >= 1")
	}
	return nil
}
