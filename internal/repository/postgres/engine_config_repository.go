package postgres

import (
	"context"
	"fmt"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EngineConfigRepository struct {
	DB *gorm.DB
}

var _ recommend.EngineConfigRepository = (*EngineConfigRepository)(nil)

func NewEngineConfigRepository(db *gorm.DB) *EngineConfigRepository {
	return &EngineConfigRepository{DB: db}
}

func (r *EngineConfigRepository) List(ctx context.Context) ([]domain.EngineConfigOverride, error) {
	var rows []domain.EngineConfigOverride
	if err := r.DB.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list engine config overrides: %w", err)
	}
	return rows, nil
}

func (r *EngineConfigRepository) Upsert(ctx context.Context, overrides []domain.EngineConfigOverride) error {
	if len(overrides) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&overrides).Error
}
