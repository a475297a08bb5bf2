package domain

import "time"

// CREATE TABLE public.beverage_ratings (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     session_id       TEXT,
//     beverage_id      BIGINT NOT NULL,
//     presentation_id  BIGINT,
//     score            INT NOT NULL,
//     created_at       TIMESTAMPTZ DEFAULT NOW()
// );

type BeverageRating struct {
	ID             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID      string    `json:"session_id" gorm:"column:session_id"`
	BeverageID     uint64    `json:"beverage_id" gorm:"column:beverage_id;index"`
	PresentationID *uint64   `json:"presentation_id,omitempty" gorm:"column:presentation_id"`
	Score          int       `json:"score" gorm:"column:score"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
}

func (BeverageRating) TableName() string {
	return "beverage_ratings"
}

// RatingUpdate is the outcome of folding one rating into the running averages.
type RatingUpdate struct {
	Beverage     RatingStats  `json:"beverage"`
	Presentation *RatingStats `json:"presentation,omitempty"`
}
