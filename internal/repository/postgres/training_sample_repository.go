package postgres

import (
	"context"
	"fmt"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"gorm.io/gorm"
)

type TrainingSampleRepository struct {
	DB *gorm.DB
}

var _ recommend.TrainingSampleRepository = (*TrainingSampleRepository)(nil)

func NewTrainingSampleRepository(db *gorm.DB) *TrainingSampleRepository {
	return &TrainingSampleRepository{DB: db}
}

func (r *TrainingSampleRepository) Append(ctx context.Context, sample domain.TrainingSample) error {
	if err := r.DB.WithContext(ctx).Create(&sample).Error; err != nil {
		return fmt.Errorf("failed to append training sample: %w", err)
	}
	return nil
}

func (r *TrainingSampleRepository) ForTraining(ctx context.Context) ([]domain.TrainingSample, error) {
	var samples []domain.TrainingSample
	err := r.DB.WithContext(ctx).
		Where("synthetic = ?", false).
		Order("created_at, id").
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load training samples: %w", err)
	}
	return samples, nil
}

func (r *TrainingSampleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&domain.TrainingSample{}).
		Where("synthetic = ?", false).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count training samples: %w", err)
	}
	return n, nil
}

func (r *TrainingSampleRepository) Clear(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.TrainingSample{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear training samples: %w", res.Error)
	}
	return res.RowsAffected, nil
}
