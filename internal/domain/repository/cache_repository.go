package repository

import (
	"context"
	"time"

	"github.com/ous-demographics/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetOverlap получает результат расчета для участка по версии набора данных (nil, nil при промахе)
	GetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string) (*domain.OusReportResult, error)

	// SetOverlap сохраняет результат расчета для участка
	SetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string, result *domain.OusReportResult, ttl time.Duration) error

	// GetBaseline получает базовую линию версии набора данных (nil, nil при промахе)
	GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error)

	// SetBaseline сохраняет базовую линию
	SetBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult, ttl time.Duration) error
}
