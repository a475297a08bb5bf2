package recommend

import (
	"context"
	"fmt"
	"slices"

	"refrescobot/business/scoring"
	"refrescobot/domain"
	"refrescobot/pkg/logger"
)

// EngineConfig returns the scoring config in effect: the file config with
// runtime overrides applied.
func (s *Service) EngineConfig(ctx context.Context) (scoring.Config, error) {
	if err := ctx.Err(); err != nil {
		return scoring.Config{}, fmt.Errorf("context error: %w", err)
	}
	return s.engine(ctx).Config(), nil
}

// UpdateEngineConfig validates and stores runtime overrides. Keys not named
// in overrides keep their current override, if any.
func (s *Service) UpdateEngineConfig(ctx context.Context, overrides map[string]float64) (scoring.Config, error) {
	if err := ctx.Err(); err != nil {
		return scoring.Config{}, fmt.Errorf("context error: %w", err)
	}
	if s.overrides == nil {
		return scoring.Config{}, fmt.Errorf("%w: runtime overrides are not configured", ErrInvalidEngineConfig)
	}

	existing, err := s.overrides.List(ctx)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("load overrides: %w", err)
	}
	merged := overrideMap(existing)
	for k, v := range overrides {
		merged[k] = v
	}
	cfg, err := s.cfg.Scoring.WithOverrides(merged)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("%w: %v", ErrInvalidEngineConfig, err)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	rows := make([]domain.EngineConfigOverride, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, domain.EngineConfigOverride{Key: k, Value: overrides[k], UpdatedAt: s.now()})
	}
	if err := s.overrides.Upsert(ctx, rows); err != nil {
		return scoring.Config{}, fmt.Errorf("save overrides: %w", err)
	}

	logger.Info("engine_config_updated", "trace_id", TraceIDFromContext(ctx), "keys", keys)
	return cfg, nil
}
