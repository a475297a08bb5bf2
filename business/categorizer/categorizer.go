package categorizer

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"refrescobot/business/features"
	"refrescobot/domain"
)

// tags chained off keyword categories
var categoryTags = map[string][]string{
	"sin_azucar": {"diet", "light", "saludable"},
	"cola":       {"clasico", "tradicional", "gaseoso"},
	"citricos":   {"refrescante", "citrico", "vitamina_c"},
	"agua":       {"hidratante", "puro", "mineral"},
	"jugos":      {"natural", "frutal", "nutritivo"},
}

// description keyword hits
var descriptionTags = []struct {
	tag   string
	terms []string
}{
	{tag: "marca_historica", terms: []string{"años", "historia", "desde", "fundad"}},
	{tag: "origen_mexicano", terms: []string{"mexicano", "mexicana", "mexico", "méxico"}},
	{tag: "marca_global", terms: []string{"millones", "mundial"}},
}

var foundingYear = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)

type Categorizer struct {
	cfg Config
}

func New(cfg Config) *Categorizer {
	return &Categorizer{cfg: cfg}
}

// Categorize returns the sorted set of keyword categories matched by the
// name and description. Zero, one or many categories may match.
func (c *Categorizer) Categorize(name, description string) []string {
	text := features.Preprocess(name + " " + description)
	if text == "" {
		return []string{}
	}

	out := []string{}
	for _, g := range c.cfg.Keywords {
		for _, kw := range g.Keywords {
			if strings.Contains(text, kw) {
				out = append(out, g.Category)
				break
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SizeCategory maps a volume to the first bucket containing it, or to
// SizeSpecial when none does.
func (c *Categorizer) SizeCategory(volumeML int) string {
	for _, b := range c.cfg.SizeBuckets {
		if volumeML >= b.MinML && volumeML <= b.MaxML {
			return b.Name
		}
	}
	return SizeSpecial
}

type PriceAnalysis struct {
	HasPresentations bool    `json:"has_presentations"`
	MeanPricePerML   float64 `json:"price_per_ml_mean"`
	StdPricePerML    float64 `json:"price_per_ml_std"`
	MinPricePerML    float64 `json:"price_per_ml_min"`
	MaxPricePerML    float64 `json:"price_per_ml_max"`
	VariationHigh    bool    `json:"price_variation_high"`
	MinVolumeML      int     `json:"min_volume_ml"`
	MaxVolumeML      int     `json:"max_volume_ml"`
}

func (c *Categorizer) AnalyzePricing(b domain.Beverage) PriceAnalysis {
	if len(b.Presentations) == 0 {
		return PriceAnalysis{}
	}

	ratios := make([]float64, len(b.Presentations))
	a := PriceAnalysis{
		HasPresentations: true,
		MinVolumeML:      b.Presentations[0].VolumeML,
		MaxVolumeML:      b.Presentations[0].VolumeML,
	}
	for i, p := range b.Presentations {
		ratios[i] = p.Price / math.Max(float64(p.VolumeML), 1)
		a.MinVolumeML = min(a.MinVolumeML, p.VolumeML)
		a.MaxVolumeML = max(a.MaxVolumeML, p.VolumeML)
	}
	a.MeanPricePerML, a.StdPricePerML, a.MinPricePerML, a.MaxPricePerML = features.Describe(ratios)
	a.VariationHigh = a.StdPricePerML > a.MeanPricePerML*c.cfg.PriceVariationRatio
	return a
}

// AutoTags derives tags from categories, presentation sizes, price tier and
// description keywords. Output is sorted and duplicate free.
func (c *Categorizer) AutoTags(b domain.Beverage, categories []string) []string {
	tags := []string{}
	for _, cat := range categories {
		tags = append(tags, categoryTags[cat]...)
	}

	if len(b.Presentations) > 0 {
		for _, p := range b.Presentations {
			if p.VolumeML <= c.cfg.MiniPortionML {
				tags = append(tags, "porcion_mini")
			}
			if p.VolumeML >= c.cfg.FamilyPortionML {
				tags = append(tags, "familiar")
			}
		}
		if len(b.Presentations) > c.cfg.ManySizes {
			tags = append(tags, "multiples_presentaciones")
		}

		pricing := c.AnalyzePricing(b)
		switch {
		case pricing.MeanPricePerML > c.cfg.PremiumPricePerML:
			tags = append(tags, "premium")
		case pricing.MeanPricePerML < c.cfg.EconomyPricePerML:
			tags = append(tags, "economico")
		}
	}

	desc := strings.ToLower(b.Description)
	for _, dt := range descriptionTags {
		for _, term := range dt.terms {
			if strings.Contains(desc, term) {
				tags = append(tags, dt.tag)
				break
			}
		}
	}
	if foundingYear.MatchString(desc) {
		tags = append(tags, "marca_historica")
	}

	slices.Sort(tags)
	return slices.Compact(tags)
}

type Result struct {
	Categories     []string          `json:"categories"`
	SizeCategories map[uint64]string `json:"size_categories"`
	Tags           []string          `json:"tags"`
	Pricing        PriceAnalysis     `json:"pricing"`
}

// Process runs every rule layer over one beverage. It is idempotent: the
// result depends only on the beverage's name, description and presentations.
func (c *Categorizer) Process(b domain.Beverage) Result {
	cats := c.Categorize(b.Name, b.Description)
	sizes := make(map[uint64]string, len(b.Presentations))
	for _, p := range b.Presentations {
		sizes[p.ID] = c.SizeCategory(p.VolumeML)
	}
	return Result{
		Categories:     cats,
		SizeCategories: sizes,
		Tags:           c.AutoTags(b, cats),
		Pricing:        c.AnalyzePricing(b),
	}
}

// CosineSimilarity of two equal-length vectors; 0 when either is all zeros.
func CosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
