package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/domain/repository"
)

const (
	overlapKeyPrefix  = "ous:overlap"
	baselineKeyPrefix = "ous:baseline"
)

// OverlapKey - ключ кеша результата для участка. Версия набора данных
// входит в ключ: после импорта новой версии старые результаты не читаются.
func OverlapKey(datasetVersion, sketchID, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s:%s", overlapKeyPrefix, datasetVersion, sketchID, fingerprint)
}

// BaselineKey - ключ кеша базовой линии
func BaselineKey(datasetVersion string) string {
	return fmt.Sprintf("%s:%s", baselineKeyPrefix, datasetVersion)
}

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetOverlap получает результат расчета для участка
func (r *cacheRepository) GetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string) (*domain.OusReportResult, error) {
	return r.getResult(ctx, OverlapKey(datasetVersion, sketchID, fingerprint))
}

// SetOverlap сохраняет результат расчета для участка
func (r *cacheRepository) SetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string, result *domain.OusReportResult, ttl time.Duration) error {
	return r.setResult(ctx, OverlapKey(datasetVersion, sketchID, fingerprint), result, ttl)
}

// GetBaseline получает базовую линию из кеша
func (r *cacheRepository) GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	return r.getResult(ctx, BaselineKey(datasetVersion))
}

// SetBaseline сохраняет базовую линию в кеше
func (r *cacheRepository) SetBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult, ttl time.Duration) error {
	return r.setResult(ctx, BaselineKey(datasetVersion), result, ttl)
}

func (r *cacheRepository) getResult(ctx context.Context, key string) (*domain.OusReportResult, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var result domain.OusReportResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal cached result", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return &result, nil
}

func (r *cacheRepository) setResult(ctx context.Context, key string, result *domain.OusReportResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return r.Set(ctx, key, data, ttl)
}
