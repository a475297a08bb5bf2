package policy

import "refrescobot/domain"

const (
	PoolSodas        = "sodas"
	PoolAlternatives = "alternatives"
)

const (
	MessageMoreSodas            = "More sodas you might like"
	MessageMoreAlternatives     = "More alternatives that fit your preferences"
	MessageFallbackSodas        = "No more alternatives, but here are other sodas"
	MessageFallbackAlternatives = "No more sodas, but here are some alternatives"
	MessageNoMoreOptions        = "No more options to show"
)

// Page is one "more options" response.
type Page struct {
	Pool          string
	Options       []domain.Score
	NoMoreOptions bool
	Message       string
	Fallback      bool
}

// Partition splits ranked scores into the initial soda and alternative
// lists. A pool excluded by d is always empty, never nil.
func Partition(ranked []domain.Score, d Decision, cfg Config) (sodas, alternatives []domain.Score) {
	sodas, alternatives = []domain.Score{}, []domain.Score{}
	if d.AllowsSodas() {
		sodas = take(ranked, PoolSodas, nil, cfg.InitialSodas)
	}
	if d.AllowsAlternatives() {
		alternatives = take(ranked, PoolAlternatives, nil, cfg.InitialAlternatives)
	}
	return sodas, alternatives
}

// NextPage returns the next unseen options for the page-th more-options
// request (1-based). Under BOTH_SEPARATED pages alternate between pools,
// starting with alternatives, and an exhausted pool falls back to the other
// one. An exclusive state never falls back.
func NextPage(ranked []domain.Score, shown map[uint64]bool, d Decision, page int, cfg Config) Page {
	limit := cfg.Cap(d.UserType)

	primary, secondary := PoolSodas, PoolAlternatives
	switch d.State {
	case AlternativesOnly:
		primary = PoolAlternatives
	case BothSeparated:
		if page%2 == 1 {
			primary, secondary = PoolAlternatives, PoolSodas
		}
	}

	if opts := take(ranked, primary, shown, limit); len(opts) > 0 {
		return Page{Pool: primary, Options: opts, Message: moreMessage(primary)}
	}
	if d.State == BothSeparated {
		if opts := take(ranked, secondary, shown, limit); len(opts) > 0 {
			return Page{Pool: secondary, Options: opts, Message: fallbackMessage(secondary), Fallback: true}
		}
	}

	NoMoreOptionsTotal.WithLabelValues(string(d.State)).Inc()
	return Page{Pool: primary, Options: []domain.Score{}, NoMoreOptions: true, Message: MessageNoMoreOptions}
}

func take(ranked []domain.Score, pool string, shown map[uint64]bool, n int) []domain.Score {
	out := make([]domain.Score, 0, n)
	for _, s := range ranked {
		if len(out) == n {
			break
		}
		if s.IsSoda != (pool == PoolSodas) || shown[s.BeverageID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

func moreMessage(pool string) string {
	if pool == PoolSodas {
		return MessageMoreSodas
	}
	return MessageMoreAlternatives
}

func fallbackMessage(pool string) string {
	if pool == PoolSodas {
		return MessageFallbackSodas
	}
	return MessageFallbackAlternatives
}
