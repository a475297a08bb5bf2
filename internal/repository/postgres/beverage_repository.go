package postgres

import (
	"context"
	"errors"
	"fmt"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"gorm.io/gorm"
)

type BeverageRepository struct {
	DB *gorm.DB
}

var _ recommend.BeverageRepository = (*BeverageRepository)(nil)

func NewBeverageRepository(db *gorm.DB) *BeverageRepository {
	return &BeverageRepository{
		DB: db,
	}
}

func (r *BeverageRepository) Create(ctx context.Context, beverage *domain.Beverage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(beverage).Error; err != nil {
		return fmt.Errorf("failed to create beverage: %w", err)
	}

	return nil
}

func (r *BeverageRepository) FindByID(ctx context.Context, id uint64) (domain.Beverage, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Beverage{}, false, fmt.Errorf("context error: %w", err)
	}

	var beverage domain.Beverage
	err := r.DB.WithContext(ctx).
		Preload("Presentations", func(db *gorm.DB) *gorm.DB { return db.Order("volume_ml, id") }).
		First(&beverage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Beverage{}, false, nil
		}
		return domain.Beverage{}, false, fmt.Errorf("failed to find beverage: %w", err)
	}

	return beverage, true, nil
}

func (r *BeverageRepository) FindAll(ctx context.Context) ([]domain.Beverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var beverages []domain.Beverage
	err := r.DB.WithContext(ctx).
		Preload("Presentations", func(db *gorm.DB) *gorm.DB { return db.Order("volume_ml, id") }).
		Order("id").
		Find(&beverages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find beverages: %w", err)
	}

	return beverages, nil
}

// SaveProcessed writes only the derived catalog columns, leaving ratings
// and the editorial fields untouched.
func (r *BeverageRepository) SaveProcessed(ctx context.Context, b domain.Beverage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Beverage{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"ml_categories": b.Categories,
				"tags":          b.Tags,
				"cluster_id":    b.ClusterID,
				"price_anomaly": b.PriceAnomaly,
				"processed_at":  b.ProcessedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update beverage %d: %w", b.ID, err)
		}

		for _, p := range b.Presentations {
			err := tx.Model(&domain.Presentation{}).
				Where("id = ? AND beverage_id = ?", p.ID, b.ID).
				Updates(map[string]any{
					"size_category": p.SizeCategory,
					"price_anomaly": p.PriceAnomaly,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update presentation %d: %w", p.ID, err)
			}
		}
		return nil
	})
}
