package categorizer

import (
	"errors"
	"fmt"
	"math"
)

type KeywordGroup struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// SizeBucket matches volumes in [MinML, MaxML], both inclusive.
type SizeBucket struct {
	Name  string `yaml:"name"`
	MinML int    `yaml:"min_ml"`
	MaxML int    `yaml:"max_ml"`
}

type Config struct {
	Keywords    []KeywordGroup `yaml:"keywords"`
	SizeBuckets []SizeBucket   `yaml:"size_buckets"`

	// price per ml tiers for auto-tags
	PremiumPricePerML float64 `yaml:"premium_price_per_ml"`
	EconomyPricePerML float64 `yaml:"economy_price_per_ml"`

	// std/mean of price per ml above which pricing is flagged as uneven
	PriceVariationRatio float64 `yaml:"price_variation_ratio"`

	// auto-tag thresholds on presentation volumes
	MiniPortionML   int `yaml:"mini_portion_ml"`
	FamilyPortionML int `yaml:"family_portion_ml"`
	ManySizes       int `yaml:"many_sizes"`
}

const (
	SizeMini       = "mini"
	SizeIndividual = "individual"
	SizePersonal   = "personal"
	SizeFamiliar   = "familiar"
	SizeSpecial    = "special"
)

const (
	defaultPremiumPricePerML   = 0.1
	defaultEconomyPricePerML   = 0.05
	defaultPriceVariationRatio = 0.3
	defaultMiniPortionML       = 250
	defaultFamilyPortionML     = 1000
	defaultManySizes           = 3
)

// SizeBucketsFor builds contiguous buckets from three ascending upper bounds.
func SizeBucketsFor(mini, individual, personal int) []SizeBucket {
	return []SizeBucket{
		{Name: SizeMini, MinML: 0, MaxML: mini},
		{Name: SizeIndividual, MinML: mini + 1, MaxML: individual},
		{Name: SizePersonal, MinML: individual + 1, MaxML: personal},
		{Name: SizeFamiliar, MinML: personal + 1, MaxML: math.MaxInt},
	}
}

func DefaultConfig() Config {
	return Config{
		Keywords: []KeywordGroup{
			{Category: "cola", Keywords: []string{"cola", "coca", "pepsi", "refresco cola"}},
			{Category: "citricos", Keywords: []string{"limón", "lima", "naranja", "citrico", "cítrico", "citrus", "limonada"}},
			{Category: "frutales", Keywords: []string{"fruta", "frutal", "manzana", "uva", "sabor frutas", "punch"}},
			{Category: "sin_azucar", Keywords: []string{"sin azúcar", "zero", "light", "diet", "sin calorías", "cero"}},
			{Category: "agua", Keywords: []string{"agua", "mineralizada", "hidratación", "mineral"}},
			{Category: "jugos", Keywords: []string{"jugo", "néctar", "del valle", "natural", "100"}},
			{Category: "energeticas", Keywords: []string{"energía", "energética", "energético", "boost"}},
			{Category: "tonicas", Keywords: []string{"tónica", "schweppes", "burbuja", "carbonatada"}},
			{Category: "funcional", Keywords: []string{"funcional", "aquarius", "minerales", "deportiva"}},
		},
		SizeBuckets:         SizeBucketsFor(250, 400, 750),
		PremiumPricePerML:   defaultPremiumPricePerML,
		EconomyPricePerML:   defaultEconomyPricePerML,
		PriceVariationRatio: defaultPriceVariationRatio,
		MiniPortionML:       defaultMiniPortionML,
		FamilyPortionML:     defaultFamilyPortionML,
		ManySizes:           defaultManySizes,
	}
}

func (c Config) Validate() error {
	if len(c.SizeBuckets) == 0 {
		return errors.New("size_buckets must not be empty")
	}
	for i, b := range c.SizeBuckets {
		if b.Name == "" {
			return fmt.Errorf("size_buckets[%d]: name is required", i)
		}
		if b.MinML > b.MaxML {
			return fmt.Errorf("size_buckets[%d]: min_ml %d > max_ml %d", i, b.MinML, b.MaxML)
		}
	}
	if c.EconomyPricePerML > c.PremiumPricePerML {
		return fmt.Errorf("economy_price_per_ml %.4f > premium_price_per_ml %.4f", c.EconomyPricePerML, c.PremiumPricePerML)
	}
	if c.PriceVariationRatio < 0 {
		return errors.New("price_variation_ratio must be >= 0")
	}
	return nil
}
