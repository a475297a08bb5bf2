package features

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"refrescobot/domain"
	"refrescobot/pkg/logger"
)

const BeverageDim = 19

// positions inside Vector
const (
	IdxPresentationCount = iota
	IdxNameLength
	IdxDescriptionLength
	IdxVolumeMean
	IdxVolumeStd
	IdxVolumeMin
	IdxVolumeMax
	IdxPriceMean
	IdxPriceStd
	IdxPriceMin
	IdxPriceMax
	IdxPricePerML
	IdxTextLength
	IdxWordCount
	IdxBrandMentions
	IdxHealthTerms
	IdxFlavorTerms
	IdxHasDigit
	IdxHasPercent
)

type Vector [BeverageDim]float64

var ErrMalformedBeverage = errors.New("malformed beverage")

// Extract turns a beverage into its fixed-order numeric vector. Missing
// fields default to zero: no presentations gives a zero presentation block and
// no name a zero name length. Only negative or non-finite presentation data,
// which has no neutral value, is rejected.
func Extract(b domain.Beverage) (Vector, error) {
	var v Vector

	if strings.TrimSpace(b.Name) == "" {
		logger.Warn("beverage_missing_name", "beverage_id", b.ID)
	}
	for _, p := range b.Presentations {
		if p.VolumeML < 0 || p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return v, fmt.Errorf("%w: beverage %d presentation %d", ErrMalformedBeverage, b.ID, p.ID)
		}
	}

	v[IdxPresentationCount] = float64(len(b.Presentations))
	v[IdxNameLength] = float64(utf8.RuneCountInString(b.Name))
	v[IdxDescriptionLength] = float64(utf8.RuneCountInString(b.Description))

	if n := len(b.Presentations); n > 0 {
		volumes := make([]float64, n)
		prices := make([]float64, n)
		ratio := 0.0
		for i, p := range b.Presentations {
			volumes[i] = float64(p.VolumeML)
			prices[i] = p.Price
			ratio += p.Price / math.Max(float64(p.VolumeML), 1)
		}
		v[IdxVolumeMean], v[IdxVolumeStd], v[IdxVolumeMin], v[IdxVolumeMax] = Describe(volumes)
		v[IdxPriceMean], v[IdxPriceStd], v[IdxPriceMin], v[IdxPriceMax] = Describe(prices)
		v[IdxPricePerML] = ratio / float64(n)
	}

	raw := b.Name + " " + b.Description
	text := Preprocess(raw)
	v[IdxTextLength] = float64(utf8.RuneCountInString(text))
	v[IdxWordCount] = float64(len(strings.Fields(text)))
	v[IdxBrandMentions] = float64(countTerms(text, BrandTerms))
	v[IdxHealthTerms] = float64(countTerms(text, HealthTerms))
	v[IdxFlavorTerms] = float64(countTerms(text, FlavorTerms))
	if hasDigit(text) {
		v[IdxHasDigit] = 1
	}
	if strings.Contains(raw, "%") {
		v[IdxHasPercent] = 1
	}

	return v, nil
}

// Describe returns mean, population std, min and max of a non-empty slice.
func Describe(xs []float64) (mean, std, lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs {
		mean += x
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	std = math.Sqrt(std / float64(len(xs)))
	return mean, std, lo, hi
}
