package postgres

import (
	"context"
	"errors"
	"fmt"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

var _ recommend.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.QuizSession) error {
	if err := r.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, sessionID string) (domain.QuizSession, bool, error) {
	var session domain.QuizSession

	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.QuizSession{}, false, nil
	}
	if err != nil {
		return domain.QuizSession{}, false, fmt.Errorf("failed to find session: %w", err)
	}
	return session, true, nil
}
