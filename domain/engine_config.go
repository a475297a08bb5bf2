package domain

import "time"

// EngineConfigOverride replaces one scoring constant at runtime, keyed by the
// yaml name of the field (e.g. "base_probability").
type EngineConfigOverride struct {
	Key       string    `json:"key" gorm:"column:key;primaryKey"`
	Value     float64   `json:"value" gorm:"column:value;type:numeric"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (EngineConfigOverride) TableName() string {
	return "engine_config_overrides"
}
