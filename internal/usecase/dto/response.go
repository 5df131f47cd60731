package dto

import "github.com/ous-demographics/internal/domain"

// OverlapResponse - демография пересечения участка
type OverlapResponse struct {
	Sketch      domain.NullSketch `json:"sketch"`
	Metrics     []domain.Metric   `json:"metrics"`
	PercMetrics []domain.Metric   `json:"percMetrics,omitempty"`
	Stats       domain.OusStats   `json:"stats"`

	Cached  bool `json:"-"`
	Records int  `json:"-"`
}

// BaselineResponse - итоги по всему опросу
type BaselineResponse struct {
	DatasetVersion string          `json:"datasetVersion"`
	Metrics        []domain.Metric `json:"metrics"`
	Stats          domain.OusStats `json:"stats"`

	Cached bool `json:"-"`
}

// HealthResponse - состояние зависимостей сервиса
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
