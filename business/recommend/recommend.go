package recommend

import (
	"context"
	"fmt"

	"refrescobot/business/features"
	"refrescobot/business/policy"
	"refrescobot/domain"
	"refrescobot/pkg/logger"

	"gorm.io/datatypes"
)

// Recommend scores the catalog for a completed quiz, stores the session and
// returns the initial soda and alternative lists allowed by the policy.
func (s *Service) Recommend(ctx context.Context, answers []domain.QuizAnswer) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}
	if len(answers) == 0 {
		return domain.Recommendation{}, ErrNoAnswers
	}
	traceID := TraceIDFromContext(ctx)

	decision := policy.Resolve(answers)
	userType := features.DetectUserType(answers)

	scores, err := s.scoreCatalog(ctx, answers)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("score catalog: %w", err)
	}
	sodas, alternatives := policy.Partition(scores, decision, s.cfg.Policy)

	session := domain.QuizSession{
		SessionID: s.newID(),
		Answers:   datatypes.JSONSlice[domain.QuizAnswer](answers),
		UserType:  userType,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Recommendation{}, fmt.Errorf("save session: %w", err)
	}
	if ids := scoreIDs(sodas, alternatives); len(ids) > 0 {
		if err := s.shown.Add(ctx, session.SessionID, ids...); err != nil {
			logger.Warn("shown_store_add_failed", "trace_id", traceID, "session_id", session.SessionID, "error", err)
		}
	}

	RecommendationsTotal.WithLabelValues(string(decision.State), userType).Inc()
	logger.Info("recommendation_served",
		"trace_id", traceID,
		"session_id", session.SessionID,
		"state", decision.State,
		"rule", decision.Rule,
		"user_type", userType,
		"sodas", len(sodas),
		"alternatives", len(alternatives),
	)

	return domain.Recommendation{
		SessionID:        session.SessionID,
		State:            string(decision.State),
		ShowAlternatives: decision.ShowAlternatives,
		UserType:         userType,
		PoolUserType:     decision.UserType,
		UserSegment:      features.UserSegment(features.ExtractAnswers(answers)),
		Sodas:            sodas,
		Alternatives:     alternatives,
		ModelTrained:     s.seg.Trained(),
	}, nil
}

// MoreOptions returns the next page of unseen beverages for a session.
func (s *Service) MoreOptions(ctx context.Context, sessionID string) (domain.MoreOptions, error) {
	if err := ctx.Err(); err != nil {
		return domain.MoreOptions{}, fmt.Errorf("context error: %w", err)
	}

	session, ok, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return domain.MoreOptions{}, fmt.Errorf("find session: %w", err)
	}
	if !ok {
		return domain.MoreOptions{}, ErrSessionNotFound
	}

	decision := policy.Resolve(session.Answers)

	page, err := s.shown.NextPage(ctx, sessionID)
	if err != nil {
		return domain.MoreOptions{}, fmt.Errorf("page counter: %w", err)
	}
	shown, err := s.shown.Members(ctx, sessionID)
	if err != nil {
		return domain.MoreOptions{}, fmt.Errorf("shown options: %w", err)
	}

	scores, err := s.scoreCatalog(ctx, session.Answers)
	if err != nil {
		return domain.MoreOptions{}, fmt.Errorf("score catalog: %w", err)
	}

	p := policy.NextPage(scores, shown, decision, page, s.cfg.Policy)
	if len(p.Options) > 0 {
		if err := s.shown.Add(ctx, sessionID, scoreIDs(p.Options)...); err != nil {
			logger.Warn("shown_store_add_failed", "trace_id", TraceIDFromContext(ctx), "session_id", sessionID, "error", err)
		}
	}

	logger.Info("more_options_served",
		"trace_id", TraceIDFromContext(ctx),
		"session_id", sessionID,
		"state", decision.State,
		"pool", p.Pool,
		"page", page,
		"options", len(p.Options),
		"fallback", p.Fallback,
		"no_more_options", p.NoMoreOptions,
	)

	return domain.MoreOptions{
		SessionID:     sessionID,
		State:         string(decision.State),
		Pool:          p.Pool,
		Options:       p.Options,
		NoMoreOptions: p.NoMoreOptions,
		Message:       p.Message,
		Page:          page,
	}, nil
}

// ResolvePolicy exposes the policy decision for a set of answers without
// scoring anything.
func (s *Service) ResolvePolicy(ctx context.Context, answers []domain.QuizAnswer) (policy.Decision, error) {
	if err := ctx.Err(); err != nil {
		return policy.Decision{}, fmt.Errorf("context error: %w", err)
	}
	return policy.Resolve(answers), nil
}
