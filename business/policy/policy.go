package policy

import (
	"refrescobot/domain"
)

type State string

const (
	SodasOnly        State = "SODAS_ONLY"
	AlternativesOnly State = "ALTERNATIVES_ONLY"
	BothSeparated    State = "BOTH_SEPARATED"
)

// pagination user types, each with its own cap
const (
	UserTypeNonConsumer   = "non_consumer"
	UserTypeHealthLeaning = "health_leaning"
	UserTypeTraditional   = "traditional"
	UserTypeMixed         = "mixed"
)

type Decision struct {
	State            State  `json:"state"`
	ShowAlternatives bool   `json:"show_alternatives"`
	UserType         string `json:"user_type"`
	Rule             string `json:"rule"`
}

// AllowsSodas reports whether the soda pool may be shown at all.
func (d Decision) AllowsSodas() bool { return d.State != AlternativesOnly }

// AllowsAlternatives reports whether the alternatives pool may be shown at all.
func (d Decision) AllowsAlternatives() bool { return d.State != SodasOnly }

type rule struct {
	name  string
	state State
	match func(first Token, later []Token) bool
}

// rules is evaluated in order and the first match wins. The last rule always
// matches, so every answer set resolves to a state.
var rules = []rule{
	{
		name:  "first_answer_alternatives",
		state: AlternativesOnly,
		match: func(first Token, _ []Token) bool { return firstAnswerAlternativeTokens.has(first) },
	},
	{
		name:  "health_priority",
		state: AlternativesOnly,
		match: func(_ Token, later []Token) bool { return healthTokens.any(later) },
	},
	{
		name:  "flavor_loyalty",
		state: SodasOnly,
		match: func(_ Token, later []Token) bool { return flavorTokens.any(later) },
	},
	{
		name:  "mixed",
		state: BothSeparated,
		match: func(Token, []Token) bool { return true },
	},
}

// Resolve decides which pools a session may see. It holds no state; the same
// answers always resolve the same way.
func Resolve(answers []domain.QuizAnswer) Decision {
	first := TokenUnknown
	var later []Token
	for i, a := range answers {
		t := ParseToken(a.ValueToken)
		if i == 0 {
			first = t
			continue
		}
		later = append(later, t)
	}

	var d Decision
	for _, r := range rules {
		if r.match(first, later) {
			d = Decision{State: r.state, Rule: r.name}
			break
		}
	}
	d.ShowAlternatives = d.State == BothSeparated

	switch {
	case nonConsumerTokens.has(first):
		d.UserType = UserTypeNonConsumer
	case d.State == AlternativesOnly:
		d.UserType = UserTypeHealthLeaning
	case d.State == SodasOnly:
		d.UserType = UserTypeTraditional
	default:
		d.UserType = UserTypeMixed
	}

	DecisionsTotal.WithLabelValues(string(d.State), d.Rule).Inc()
	return d
}
