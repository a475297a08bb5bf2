package policy

// Token is one answer value the policy knows about. Answer values are matched
// whole against this table, never by substring, so "salud_no_importa" can
// not be mistaken for a health token.
type Token int

const (
	TokenUnknown Token = iota

	// first question
	TokenNoConsume
	TokenRejectsSodas
	TokenPrefersAlternatives
	TokenConsumesOccasionally
	TokenConsumesFrequently
	TokenLovesSodas

	// health priority
	TokenHealthPriority
	TokenOnlyNatural
	TokenAvoidsForHealth
	TokenZeroSugarNatural
	TokenExerciseSport
	TokenOnlyWater
	TokenNaturalDrinks
	TokenHealthSugarCalories
	TokenHealthNaturalIngredients
	TokenHealthNoAdditives
	TokenHealthVitamins
	TokenIntenseActivity
	TokenModerateActivity
	TokenAvoidsCaffeine
	TokenRejectsCaffeine
	TokenHydrationExperience
	TokenRelaxationExperience

	// flavor and loyalty
	TokenFlavorPriority
	TokenTraditionalSodas
	TokenSocialOnly
	TokenHealthDoesNotMatter
	TokenSedentaryWork
	TokenRelaxedActivity
	TokenLikesCaffeine
	TokenPleasureExperience
	TokenEnergyExperience
)

var tokenNames = map[string]Token{
	"no_consume_refrescos":  TokenNoConsume,
	"rechaza_refrescos":     TokenRejectsSodas,
	"prefiere_alternativas": TokenPrefersAlternatives,
	"consume_ocasional":     TokenConsumesOccasionally,
	"consume_frecuente":     TokenConsumesFrequently,
	"ama_refrescos":         TokenLovesSodas,

	"prioridad_salud":              TokenHealthPriority,
	"solo_natural":                 TokenOnlyNatural,
	"evita_salud":                  TokenAvoidsForHealth,
	"cero_azucar_natural":          TokenZeroSugarNatural,
	"ejercicio_deporte":            TokenExerciseSport,
	"solo_agua":                    TokenOnlyWater,
	"bebidas_naturales":            TokenNaturalDrinks,
	"salud_azucar_calorias":        TokenHealthSugarCalories,
	"salud_ingredientes_naturales": TokenHealthNaturalIngredients,
	"salud_sin_aditivos":           TokenHealthNoAdditives,
	"salud_vitaminas_minerales":    TokenHealthVitamins,
	"actividad_intensa":            TokenIntenseActivity,
	"actividad_moderada":           TokenModerateActivity,
	"cafeina_evitar":               TokenAvoidsCaffeine,
	"cafeina_rechazo":              TokenRejectsCaffeine,
	"experiencia_hidratacion":      TokenHydrationExperience,
	"experiencia_relajacion":       TokenRelaxationExperience,

	"prioridad_sabor":         TokenFlavorPriority,
	"refrescos_tradicionales": TokenTraditionalSodas,
	"solo_social":             TokenSocialOnly,
	"salud_no_importa":        TokenHealthDoesNotMatter,
	"trabajo_sedentario":      TokenSedentaryWork,
	"actividad_relajada":      TokenRelaxedActivity,
	"cafeina_positiva":        TokenLikesCaffeine,
	"experiencia_placer":      TokenPleasureExperience,
	"experiencia_energia":     TokenEnergyExperience,
}

var tokenStrings = func() map[Token]string {
	m := make(map[Token]string, len(tokenNames))
	for s, t := range tokenNames {
		m[t] = s
	}
	return m
}()

// ParseToken maps an answer value to its Token. Unrecognised values are
// TokenUnknown, which no rule matches.
func ParseToken(s string) Token {
	return tokenNames[s]
}

func (t Token) String() string {
	if s, ok := tokenStrings[t]; ok {
		return s
	}
	return "unknown"
}

type tokenSet map[Token]struct{}

func newTokenSet(tokens ...Token) tokenSet {
	s := make(tokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func (s tokenSet) has(t Token) bool {
	_, ok := s[t]
	return ok
}

func (s tokenSet) any(tokens []Token) bool {
	for _, t := range tokens {
		if s.has(t) {
			return true
		}
	}
	return false
}

var (
	nonConsumerTokens = newTokenSet(TokenNoConsume, TokenRejectsSodas)

	firstAnswerAlternativeTokens = newTokenSet(TokenNoConsume, TokenRejectsSodas, TokenPrefersAlternatives)

	healthTokens = newTokenSet(
		TokenHealthPriority, TokenOnlyNatural, TokenAvoidsForHealth, TokenZeroSugarNatural,
		TokenExerciseSport, TokenOnlyWater, TokenNaturalDrinks, TokenHealthSugarCalories,
		TokenHealthNaturalIngredients, TokenHealthNoAdditives, TokenHealthVitamins,
		TokenIntenseActivity, TokenModerateActivity, TokenAvoidsCaffeine, TokenRejectsCaffeine,
		TokenHydrationExperience, TokenRelaxationExperience,
	)

	flavorTokens = newTokenSet(
		TokenFlavorPriority, TokenLovesSodas, TokenTraditionalSodas, TokenSocialOnly,
		TokenHealthDoesNotMatter, TokenSedentaryWork, TokenRelaxedActivity, TokenLikesCaffeine,
		TokenPleasureExperience, TokenEnergyExperience,
	)
)
