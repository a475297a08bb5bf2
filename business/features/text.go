package features

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	BrandTerms  = []string{"coca", "pepsi", "fanta", "sprite", "del valle", "schweppes", "ciel", "aquarius", "sidral"}
	HealthTerms = []string{"sin azúcar", "natural", "mineralizada", "antioxidantes", "vitaminas", "hidratación", "saludable", "funcional", "sin calorías"}
	FlavorTerms = []string{"dulce", "refrescante", "sabor", "delicioso", "frutal", "cítrico"}
)

// Preprocess lower-cases s, replaces everything that is not a letter, digit,
// underscore or space with a space and drops tokens of two runes or fewer.
// Accented letters survive because unicode.IsLetter covers them.
func Preprocess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)

	tokens := strings.Fields(mapped)
	kept := tokens[:0]
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > 2 {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
