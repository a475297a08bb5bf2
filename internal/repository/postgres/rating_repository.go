package postgres

import (
	"context"
	"errors"
	"fmt"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	DB *gorm.DB
}

var _ recommend.RatingRepository = (*RatingRepository)(nil)

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

// runningAverage folds score into an average over count ratings. An unrated
// row starts from its stored default, which the first rating replaces.
func runningAverage(avg float64, count int, score int) (float64, int) {
	if count <= 0 {
		return float64(score), 1
	}
	n := float64(count)
	return (avg*n + float64(score)) / (n + 1), count + 1
}

func (r *RatingRepository) Record(ctx context.Context, rating domain.BeverageRating) (domain.RatingUpdate, error) {
	var out domain.RatingUpdate

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bev domain.Beverage
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "average_rating", "rating_count").
			First(&bev, rating.BeverageID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return recommend.ErrBeverageNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock beverage: %w", err)
		}

		avg, count := runningAverage(bev.AverageRating, bev.RatingCount, rating.Score)
		err = tx.Model(&domain.Beverage{}).
			Where("id = ?", bev.ID).
			Updates(map[string]any{"average_rating": avg, "rating_count": count}).Error
		if err != nil {
			return fmt.Errorf("failed to update beverage rating: %w", err)
		}
		out.Beverage = domain.RatingStats{Average: avg, Count: count}

		if rating.PresentationID != nil {
			var p domain.Presentation
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ? AND beverage_id = ?", *rating.PresentationID, rating.BeverageID).
				First(&p).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recommend.ErrPresentationNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to lock presentation: %w", err)
			}

			pavg, pcount := runningAverage(p.AverageRating, p.RatingCount, rating.Score)
			err = tx.Model(&domain.Presentation{}).
				Where("id = ?", p.ID).
				Updates(map[string]any{"average_rating": pavg, "rating_count": pcount}).Error
			if err != nil {
				return fmt.Errorf("failed to update presentation rating: %w", err)
			}
			out.Presentation = &domain.RatingStats{Average: pavg, Count: pcount}
		}

		if err := tx.Create(&rating).Error; err != nil {
			return fmt.Errorf("failed to store rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.RatingUpdate{}, err
	}
	return out, nil
}

func (r *RatingRepository) Stats(ctx context.Context) (map[uint64]domain.RatingStats, error) {
	var rows []domain.Beverage
	err := r.DB.WithContext(ctx).
		Select("id", "average_rating", "rating_count").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rating stats: %w", err)
	}

	out := make(map[uint64]domain.RatingStats, len(rows))
	for _, b := range rows {
		out[b.ID] = b.Stats()
	}
	return out, nil
}
