package domain

import "time"

// Score is computed per request and never persisted.
type Score struct {
	BeverageID    uint64   `json:"beverage_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Probability   float64  `json:"probability"`
	Factors       []string `json:"factors"`
	IsSoda        bool     `json:"is_soda"`
	IsAlternative bool     `json:"is_alternative"`
	ClusterID     int      `json:"cluster_id"`
	PriceAnomaly  bool     `json:"price_anomaly"`
	Tags          []string `json:"tags,omitempty"`
}

type Recommendation struct {
	SessionID        string  `json:"session_id"`
	State            string  `json:"state"`
	ShowAlternatives bool    `json:"show_alternatives"`
	UserType         string  `json:"user_type"`
	PoolUserType     string  `json:"pool_user_type"`
	UserSegment      int     `json:"user_segment"`
	Sodas            []Score `json:"sodas"`
	Alternatives     []Score `json:"alternatives"`
	ModelTrained     bool    `json:"model_trained"`
}

type MoreOptions struct {
	SessionID     string  `json:"session_id"`
	State         string  `json:"state"`
	Pool          string  `json:"pool"`
	Options       []Score `json:"options"`
	NoMoreOptions bool    `json:"no_more_options"`
	Message       string  `json:"message"`
	Page          int     `json:"page"`
}

type ModelStatus struct {
	Trained        bool      `json:"trained"`
	Version        int64     `json:"version"`
	TrainedAt      time.Time `json:"trained_at,omitempty"`
	SamplesAtFit   int       `json:"samples_at_fit"`
	SampleCount    int64     `json:"sample_count"`
	ClusterSizes   []int     `json:"cluster_sizes,omitempty"`
	DensityNoise   int       `json:"density_noise"`
	PriceAnomalies int       `json:"price_anomalies"`
	Training       bool      `json:"training"`
}

type ClusterAssignment struct {
	BeverageID     uint64   `json:"beverage_id"`
	ClusterID      int      `json:"cluster_id"`
	DensityOutlier bool     `json:"density_outlier"`
	PriceAnomaly   bool     `json:"price_anomaly"`
	AnomalousSizes []uint64 `json:"anomalous_presentations,omitempty"`
}

type SimilarBeverage struct {
	BeverageID uint64  `json:"beverage_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	IsSoda     bool    `json:"is_soda"`
	ClusterID  int     `json:"cluster_id"`
	Similarity float64 `json:"similarity"`
}
