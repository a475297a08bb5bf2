package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.training_samples (
//     id           TEXT PRIMARY KEY,
//     session_id   TEXT,
//     beverage_id  BIGINT,
//     answers      JSONB,
//     beverage     JSONB,
//     rating       NUMERIC,
//     synthetic    BOOLEAN DEFAULT FALSE,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

// TrainingSample is append-only; it is only ever removed by an explicit bulk clear.
type TrainingSample struct {
	ID         string                          `json:"id" gorm:"column:id;primaryKey"`
	SessionID  string                          `json:"session_id" gorm:"column:session_id;index"`
	BeverageID uint64                          `json:"beverage_id" gorm:"column:beverage_id;index"`
	Answers    datatypes.JSONSlice[QuizAnswer] `json:"answers" gorm:"column:answers;type:jsonb"`
	Beverage   datatypes.JSONType[Beverage]    `json:"beverage" gorm:"column:beverage;type:jsonb"`
	Rating     float64                         `json:"rating" gorm:"column:rating;type:numeric"`
	Synthetic  bool                            `json:"synthetic" gorm:"column:synthetic;default:false"`
	CreatedAt  time.Time                       `json:"created_at" gorm:"column:created_at"`
}

func (TrainingSample) TableName() string {
	return "training_samples"
}
