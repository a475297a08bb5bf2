package domain

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAnswer is one answered question. Category is the question's category
// (e.g. "fisico"), ValueToken the semantic value of the chosen option
// (e.g. "no_consume_refrescos") and Position its 1-based index.
type QuizAnswer struct {
	QuestionID     string  `json:"question_id" validate:"required"`
	Category       string  `json:"category"`
	OptionID       string  `json:"option_id"`
	ValueToken     string  `json:"value_token"`
	Position       int     `json:"position"`
	LatencySeconds float64 `json:"latency_seconds"`
}

// CREATE TABLE public.quiz_sessions (
//     session_id  TEXT PRIMARY KEY,
//     answers     JSONB NOT NULL,
//     user_type   TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

// QuizSession is immutable once stored; the first answer is always the fixed
// soda-relationship question.
type QuizSession struct {
	SessionID string                          `json:"session_id" gorm:"column:session_id;primaryKey"`
	Answers   datatypes.JSONSlice[QuizAnswer] `json:"answers" gorm:"column:answers;type:jsonb"`
	UserType  string                          `json:"user_type" gorm:"column:user_type;type:text"`
	CreatedAt time.Time                       `json:"created_at" gorm:"column:created_at"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}
