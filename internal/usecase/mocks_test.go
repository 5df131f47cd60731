package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/repository/cache"
)

// MockSurveyRepository is a mock of SurveyRepository
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) LoadAll(ctx context.Context) ([]domain.SurveyRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SurveyRecord), args.Error(1)
}

// MockBaselineRepository is a mock of BaselineRepository
type MockBaselineRepository struct {
	mock.Mock
}

func (m *MockBaselineRepository) GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	args := m.Called(ctx, datasetVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OusReportResult), args.Error(1)
}

func (m *MockBaselineRepository) SaveBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult) error {
	args := m.Called(ctx, datasetVersion, result)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string) (*domain.OusReportResult, error) {
	args := m.Called(ctx, datasetVersion, sketchID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OusReportResult), args.Error(1)
}

func (m *MockCacheRepository) SetOverlap(ctx context.Context, datasetVersion, sketchID, fingerprint string, result *domain.OusReportResult, ttl time.Duration) error {
	args := m.Called(ctx, datasetVersion, sketchID, fingerprint, result, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	args := m.Called(ctx, datasetVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OusReportResult), args.Error(1)
}

func (m *MockCacheRepository) SetBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult, ttl time.Duration) error {
	args := m.Called(ctx, datasetVersion, result, ttl)
	return args.Error(0)
}

// recorder запоминает обращения к кешу
type recorder struct {
	lookups []string
}

func (r *recorder) CacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.lookups = append(r.lookups, kind+":"+outcome)
}

// memoryCache хранит результаты в памяти по тем же ключам, что и Redis-кеш
type memoryCache struct {
	mu      sync.Mutex
	results map[string]*domain.OusReportResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{results: make(map[string]*domain.OusReportResult)}
}

func (c *memoryCache) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (c *memoryCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *memoryCache) GetOverlap(_ context.Context, datasetVersion, sketchID, fingerprint string) (*domain.OusReportResult, error) {
	return c.get(cache.OverlapKey(datasetVersion, sketchID, fingerprint)), nil
}

func (c *memoryCache) SetOverlap(_ context.Context, datasetVersion, sketchID, fingerprint string, result *domain.OusReportResult, _ time.Duration) error {
	c.set(cache.OverlapKey(datasetVersion, sketchID, fingerprint), result)
	return nil
}

func (c *memoryCache) GetBaseline(_ context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	return c.get(cache.BaselineKey(datasetVersion)), nil
}

func (c *memoryCache) SetBaseline(_ context.Context, datasetVersion string, result *domain.OusReportResult, _ time.Duration) error {
	c.set(cache.BaselineKey(datasetVersion), result)
	return nil
}

func (c *memoryCache) get(key string) *domain.OusReportResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[key]
}

func (c *memoryCache) set(key string, result *domain.OusReportResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
}
