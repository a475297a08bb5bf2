package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.beverages (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name             TEXT NOT NULL,
//     description      TEXT,
//     category         TEXT,
//     is_real_soda     BOOLEAN DEFAULT TRUE,
//     sweetness_level  INT DEFAULT 5,
//     is_energizing    BOOLEAN DEFAULT FALSE,
//     flavor_profile   TEXT,
//     calorie_tier     TEXT,
//     base_price       NUMERIC,
//     average_rating   NUMERIC DEFAULT 3.0,
//     rating_count     INT DEFAULT 0,
//     ml_categories    JSONB,
//     tags             JSONB,
//     cluster_id       INT DEFAULT -1,
//     price_anomaly    BOOLEAN DEFAULT FALSE,
//     processed_at     TIMESTAMPTZ,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     updated_at       TIMESTAMPTZ DEFAULT NOW()
// );

type Beverage struct {
	ID             uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string  `json:"name" gorm:"column:name;type:text"`
	Description    string  `json:"description" gorm:"column:description;type:text"`
	Category       string  `json:"category" gorm:"column:category;type:text"`
	IsRealSoda     bool    `json:"is_real_soda" gorm:"column:is_real_soda;default:true"`
	SweetnessLevel int     `json:"sweetness_level" gorm:"column:sweetness_level;default:5"`
	IsEnergizing   bool    `json:"is_energizing" gorm:"column:is_energizing;default:false"`
	FlavorProfile  string  `json:"flavor_profile" gorm:"column:flavor_profile;type:text"`
	CalorieTier    string  `json:"calorie_tier" gorm:"column:calorie_tier;type:text"`
	BasePrice      float64 `json:"base_price" gorm:"column:base_price;type:numeric"`

	Presentations []Presentation `json:"presentations" gorm:"foreignKey:BeverageID"`

	AverageRating float64 `json:"average_rating" gorm:"column:average_rating;type:numeric;default:3.0"`
	RatingCount   int     `json:"rating_count" gorm:"column:rating_count;default:0"`

	// derived by catalog processing
	Categories   datatypes.JSONSlice[string] `json:"ml_categories" gorm:"column:ml_categories;type:jsonb"`
	Tags         datatypes.JSONSlice[string] `json:"tags" gorm:"column:tags;type:jsonb"`
	ClusterID    int                         `json:"cluster_id" gorm:"column:cluster_id;default:-1"`
	PriceAnomaly bool                        `json:"price_anomaly" gorm:"column:price_anomaly;default:false"`
	ProcessedAt  *time.Time                  `json:"processed_at,omitempty" gorm:"column:processed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Beverage) TableName() string {
	return "beverages"
}

// Stats returns the beverage-level community rating.
func (b Beverage) Stats() RatingStats {
	return RatingStats{Average: b.AverageRating, Count: b.RatingCount}
}

type Presentation struct {
	ID           uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	BeverageID   uint64  `json:"beverage_id" gorm:"column:beverage_id;index"`
	VolumeML     int     `json:"volume_ml" gorm:"column:volume_ml"`
	Price        float64 `json:"price" gorm:"column:price;type:numeric"`
	ImageURL     string  `json:"image_url" gorm:"column:image_url;type:text"`
	SizeCategory string  `json:"size_category" gorm:"column:size_category;type:text"`

	AverageRating float64 `json:"average_rating" gorm:"column:average_rating;type:numeric;default:3.0"`
	RatingCount   int     `json:"rating_count" gorm:"column:rating_count;default:0"`
	PriceAnomaly  bool    `json:"price_anomaly" gorm:"column:price_anomaly;default:false"`
}

func (Presentation) TableName() string {
	return "presentations"
}

// PricePerML is zero when the volume is unknown.
func (p Presentation) PricePerML() float64 {
	if p.VolumeML <= 0 {
		return 0
	}
	return p.Price / float64(p.VolumeML)
}

type RatingStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
